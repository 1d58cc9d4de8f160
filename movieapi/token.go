package movieapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"golang.org/x/sync/singleflight"
)

// TokenSource supplies the bearer token sent with authenticated requests
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns the same token
type StaticToken string

// Token returns the static token
func (t StaticToken) Token(context.Context) (string, error) {
	if t == "" {
		return "", ErrEmptyToken
	}
	return string(t), nil
}

// tokenCache fetches a token from /auth/token once and keeps it for the
// lifetime of the owning Client. It never refreshes: an expired token stays
// cached until the client is discarded.
type tokenCache struct {
	client *Client

	mu    sync.RWMutex
	token string
	group singleflight.Group
}

// Token returns the cached token, fetching it on first use. Concurrent first
// callers share a single request.
func (t *tokenCache) Token(ctx context.Context) (string, error) {
	t.mu.RLock()
	token := t.token
	t.mu.RUnlock()
	if token != "" {
		return token, nil
	}

	// The shared fetch must outlive any single caller; each caller still
	// stops waiting when its own context ends.
	fetchCtx := context.WithoutCancel(ctx)
	ch := t.group.DoChan("token", func() (any, error) {
		t.mu.RLock()
		cached := t.token
		t.mu.RUnlock()
		if cached != "" {
			return cached, nil
		}

		fetched, err := t.fetch(fetchCtx)
		if err != nil {
			return "", err
		}

		t.mu.Lock()
		t.token = fetched
		t.mu.Unlock()
		return fetched, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	if res.Err != nil {
		t.client.logger.Error().Err(res.Err).Msg("Failed to fetch auth token")
		return "", res.Err
	}

	return res.Val.(string), nil
}

// fetch performs the unauthenticated token request
func (t *tokenCache) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.client.baseURL+"/auth/token", nil)
	if err != nil {
		return "", &AuthError{Message: "failed to create request", Err: err}
	}
	t.client.setCommonHeaders(req)

	resp, err := t.client.httpClient.Do(req)
	if err != nil {
		return "", &AuthError{Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &AuthError{Message: "failed to read response body", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &AuthError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
		}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", &AuthError{Message: "failed to parse response", Err: err}
	}
	if tr.Token == "" {
		return "", &AuthError{Message: "empty token", Err: ErrEmptyToken}
	}

	t.client.logger.Debug().
		Int("expires_in", tr.ExpiresIn).
		Msg("Fetched auth token")

	return tr.Token, nil
}

func (t *tokenCache) cached() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.token != ""
}
