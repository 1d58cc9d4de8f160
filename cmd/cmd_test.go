package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/reelgrid/catalog"
	"github.com/s0up4200/reelgrid/config"
	"github.com/s0up4200/reelgrid/filter"
	"github.com/s0up4200/reelgrid/movieapi"
)

func newFormatter() catalog.Formatter {
	return catalog.NewConsoleFormatter(catalog.DefaultFormatOptions())
}

func TestParseBrowseCommand(t *testing.T) {
	tests := []struct {
		line    string
		want    browseCommand
		wantErr bool
	}{
		{line: "alien", want: browseCommand{action: actionSearch, text: "alien"}},
		{line: "  the thing ", want: browseCommand{action: actionSearch, text: "the thing"}},
		{line: ":n", want: browseCommand{action: actionNext}},
		{line: ":prev", want: browseCommand{action: actionPrev}},
		{line: ":page 4", want: browseCommand{action: actionPage, n: 4}},
		{line: ":page x", wantErr: true},
		{line: ":g Science Fiction", want: browseCommand{action: actionGenre, text: "Science Fiction"}},
		{line: ":g", want: browseCommand{action: actionGenre}},
		{line: ":d 2", want: browseCommand{action: actionDetail, n: 2}},
		{line: ":d 0", wantErr: true},
		{line: ":clear", want: browseCommand{action: actionClear}},
		{line: ":r", want: browseCommand{action: actionReload}},
		{line: ":h", want: browseCommand{action: actionHelp}},
		{line: ":Q", want: browseCommand{action: actionQuit}},
		{line: ":bogus", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := parseBrowseCommand(tt.line)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListMovies(t *testing.T) {
	api := &fakeBrowser{totalPages: 3}
	var out bytes.Buffer

	opts := listOptions{query: catalog.Query{Page: 2, Limit: 10, Search: " alien "}}
	err := listMovies(context.Background(), &out, api, zerolog.Nop(), opts, nil, newFormatter())
	require.NoError(t, err)

	assert.Equal(t, []movieapi.MoviesQuery{{Page: 2, Limit: 10, Search: "alien"}}, api.calls())
	assert.Contains(t, out.String(), `30 results for "alien"`)
	assert.Contains(t, out.String(), "Alien (1979)")
	assert.Contains(t, out.String(), "Heat (1995)")
	assert.Contains(t, out.String(), "Showing page 2 of 3 - 30 total results")
	assert.Equal(t, 0, api.details())
}

func TestListMovies_RefineAndDetails(t *testing.T) {
	api := &fakeBrowser{}
	var out bytes.Buffer

	refine, err := filter.CompileFilter(`Year < 1990 and Runtime > 100`)
	require.NoError(t, err)

	opts := listOptions{query: catalog.Query{Page: 1, Limit: 20}, details: true, prefetch: 2}
	err = listMovies(context.Background(), &out, api, zerolog.Nop(), opts, refine, newFormatter())
	require.NoError(t, err)

	assert.Equal(t, 2, api.details())
	assert.Contains(t, out.String(), "Alien (1979)")
	assert.Contains(t, out.String(), "1h 57m")
	assert.NotContains(t, out.String(), "Heat")
}

func TestListMovies_Error(t *testing.T) {
	api := &fakeBrowser{moviesErr: &movieapi.APIError{StatusCode: 500, Message: "Internal Server Error"}}

	err := listMovies(context.Background(), &bytes.Buffer{}, api, zerolog.Nop(), listOptions{}, nil, newFormatter())
	var apiErr *movieapi.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.StatusCode)
}

func TestBrowseSession(t *testing.T) {
	api := &fakeBrowser{totalPages: 5}
	var out bytes.Buffer

	session := newBrowseSession(&out, api, zerolog.Nop(), browseOptions{
		pageSize:  20,
		debounce:  time.Hour,
		formatter: newFormatter(),
	})
	defer session.Close()

	input := strings.Join([]string{
		":n",
		":page 9",
		":g Horror",
		":d 1",
		":d 1",
		":d 7",
		"alien",
	}, "\n")

	require.NoError(t, session.Run(context.Background(), strings.NewReader(input)))

	want := []movieapi.MoviesQuery{
		{Page: 1, Limit: 20},
		{Page: 2, Limit: 20},
		{Page: 5, Limit: 20},
		{Page: 1, Limit: 20, Genre: "Horror"},
		{Page: 1, Limit: 20, Search: "alien", Genre: "Horror"},
	}
	assert.Equal(t, want, api.calls())

	// the detail of a card is fetched once per page
	assert.Equal(t, 1, api.details())
	assert.Contains(t, out.String(), "Full record 11")
	assert.Contains(t, out.String(), "no movie 7 on this page")
	assert.Contains(t, out.String(), `Searching for "alien"...`)
}

func TestBrowseSession_Quit(t *testing.T) {
	api := &fakeBrowser{}
	var out bytes.Buffer

	session := newBrowseSession(&out, api, zerolog.Nop(), browseOptions{
		pageSize:  20,
		debounce:  time.Hour,
		formatter: newFormatter(),
	})
	defer session.Close()

	require.NoError(t, session.Run(context.Background(), strings.NewReader(":q\n:n\n")))
	assert.Len(t, api.calls(), 1)
}

func TestGenreOutput(t *testing.T) {
	api := &fakeBrowser{}
	ctx := context.Background()

	var out bytes.Buffer
	printGenreTable(&out, movieapi.AllGenres())
	assert.Contains(t, out.String(), "Genres (19):")
	assert.Contains(t, out.String(), "╰── Western")

	out.Reset()
	require.NoError(t, printGenreStats(ctx, &out, api, "27"))
	assert.Equal(t, "Horror\n├── Movies: 1,234\n╰── Average rating: 6.4\n", out.String())

	out.Reset()
	require.NoError(t, printGenresMovies(ctx, &out, api, 1, 25))
	assert.Equal(t, "├── Crime (2)\n│   ╰── 2, 3\n╰── Horror (1)\n    ╰── 1\n", out.String())

	out.Reset()
	require.NoError(t, printTitles(ctx, &out, api, 2, 2))
	assert.Contains(t, out.String(), "Alien")
	assert.Contains(t, out.String(), "Page 2 of 4")
}

func TestCheckForUpdate(t *testing.T) {
	ctx := context.Background()

	_, _, err := checkForUpdate(ctx, &bytes.Buffer{}, nil, "s0up4200/reelgrid", "dev")
	require.ErrorIs(t, err, errDevBuild)

	notFound := func(context.Context, string) (*selfupdate.Release, bool, error) {
		return nil, false, nil
	}
	_, _, err = checkForUpdate(ctx, &bytes.Buffer{}, notFound, "s0up4200/reelgrid", "v1.2.3")
	require.ErrorContains(t, err, "no release found")

	failing := func(context.Context, string) (*selfupdate.Release, bool, error) {
		return nil, false, errors.New("rate limited")
	}
	_, _, err = checkForUpdate(ctx, &bytes.Buffer{}, failing, "s0up4200/reelgrid", "1.2.3")
	require.ErrorContains(t, err, "rate limited")
}

func TestUserAgent(t *testing.T) {
	version = "1.0.0"
	t.Cleanup(func() { version = "dev" })

	assert.Equal(t, "reelgrid/1.0.0", userAgent(""))
	assert.Equal(t, "custom/2", userAgent("custom/2"))
}

func TestNewClient(t *testing.T) {
	c, err := newClient(config.APIConfig{URL: "https://movies.example.com/", Token: "abc", Timeout: time.Second}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "https://movies.example.com", c.BaseURL())

	token, err := c.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	_, err = newClient(config.APIConfig{URL: ""}, zerolog.Nop())
	require.ErrorIs(t, err, movieapi.ErrInvalidConfig)
}

func TestDiagnosePagination(t *testing.T) {
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, diagnosePagination(ctx, &out, sizedCatalog{size: 237}, []int{25, 20, 5, 100}))
	assert.Equal(t, "Pagination:\n"+
		"├── limit 25: 10 pages × 25 = 250 movies (25 returned)\n"+
		"├── limit 20: 12 pages × 20 = 240 movies (20 returned)\n"+
		"├── limit 5: 48 pages × 5 = 240 movies (5 returned)\n"+
		"╰── limit 100: 3 pages × 100 = 300 movies (100 returned)\n"+
		"✓ Page counts agree: between 236 and 240 movies\n", out.String())

	out.Reset()
	err := diagnosePagination(ctx, &out, &fakeBrowser{totalPages: 3}, []int{20, 5})
	require.ErrorIs(t, err, errPaginationMismatch)
	assert.Contains(t, out.String(), "✗ Page counts disagree")

	out.Reset()
	err = diagnosePagination(ctx, &out, &fakeBrowser{moviesErr: errors.New("boom")}, []int{20})
	require.ErrorContains(t, err, "limit 20: boom")
}
