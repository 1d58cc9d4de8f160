package catalog

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/s0up4200/reelgrid/movieapi"
)

// DefaultPageSize is the number of cards on one catalog page
const DefaultPageSize = 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// Query identifies one page of the catalog. Two queries are the same fetch
// exactly when they compare equal.
type Query struct {
	Page   int    `validate:"gte=1"`
	Limit  int    `validate:"gte=1,lte=100"`
	Search string `validate:"max=200"`
	Genre  string `validate:"max=100"`
}

// Normalize trims the free-text fields and fills in default paging
func (q Query) Normalize() Query {
	q.Search = strings.TrimSpace(q.Search)
	q.Genre = strings.TrimSpace(q.Genre)
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = DefaultPageSize
	}
	return q
}

// Validate checks the query bounds
func (q Query) Validate() error {
	if err := validate.Struct(q); err != nil {
		return fmt.Errorf("invalid query: %w", err)
	}
	return nil
}

// APIQuery converts the query into the service request shape
func (q Query) APIQuery() movieapi.MoviesQuery {
	return movieapi.MoviesQuery{
		Page:   q.Page,
		Limit:  q.Limit,
		Search: q.Search,
		Genre:  q.Genre,
	}
}

func (q Query) String() string {
	return fmt.Sprintf("page=%d limit=%d search=%q genre=%q", q.Page, q.Limit, q.Search, q.Genre)
}
