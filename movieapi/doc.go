// Package movieapi provides a client for the remote movie catalog service.
//
// The service issues anonymous bearer tokens from /auth/token and requires
// them on every listing and detail endpoint. A Client fetches its token on
// first use and keeps it for its own lifetime; it never refreshes it, so a
// long-lived client whose token expired keeps failing with 401 APIErrors.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := movieapi.NewClient(movieapi.DefaultBaseURL, logger,
//		movieapi.WithTimeout(10*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	resp, err := client.GetMovies(ctx, movieapi.MoviesQuery{Page: 1, Limit: 20, Genre: "Drama"})
//
// # Pagination
//
// The /movies endpoint reports totalPages but no item count. GetMovies fills
// Pagination.Total with TotalPages*Limit, which is an estimate and may differ
// between limits over the same data.
//
// # Error Handling
//
//   - *AuthError: the token endpoint failed
//   - *APIError: an authenticated endpoint answered outside the 2xx range
//   - wrapped transport errors for everything else
//
//	var apiErr *movieapi.APIError
//	if errors.As(err, &apiErr) && apiErr.IsNotFound() {
//		// ...
//	}
package movieapi
