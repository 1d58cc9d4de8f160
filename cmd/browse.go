package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/reelgrid/catalog"
	"github.com/s0up4200/reelgrid/movieapi"
)

const browseHelp = `Commands:
  <text>      search titles (applied once typing settles)
  :clear      clear the search
  :n / :p     next / previous page
  :page N     jump to page N
  :g GENRE    filter by genre, :g alone shows all genres
  :d N        show details of the Nth movie on the page
  :r          reload the current page
  :h          show this help
  :q          quit
`

// browseCmd represents the browse command
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Interactively page through the catalog",
	Long: `Browse the catalog interactively. Type text to search titles, or use
:commands to change page and genre. Enter :h for the list of commands.`,
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	interactive := isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())

	session := newBrowseSession(cmd.OutOrStdout(), client, logger, browseOptions{
		pageSize:    cfg.Catalog.PageSize,
		debounce:    cfg.Catalog.Debounce,
		formatter:   catalog.NewConsoleFormatter(formatOptions(cfg.Display)),
		interactive: interactive,
	})
	defer session.Close()

	if interactive {
		fmt.Fprint(cmd.OutOrStdout(), browseHelp)
	}

	return session.Run(cmd.Context(), cmd.InOrStdin())
}

type browseAction int

const (
	actionSearch browseAction = iota
	actionClear
	actionNext
	actionPrev
	actionPage
	actionGenre
	actionDetail
	actionReload
	actionHelp
	actionQuit
)

type browseCommand struct {
	action browseAction
	text   string
	n      int
}

// parseBrowseCommand parses one input line. Lines without a leading colon
// are searches.
func parseBrowseCommand(line string) (browseCommand, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, ":") {
		return browseCommand{action: actionSearch, text: line}, nil
	}

	name, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "n", "next":
		return browseCommand{action: actionNext}, nil
	case "p", "prev":
		return browseCommand{action: actionPrev}, nil
	case "page":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return browseCommand{}, fmt.Errorf("page must be a number, got %q", arg)
		}
		return browseCommand{action: actionPage, n: n}, nil
	case "g", "genre":
		return browseCommand{action: actionGenre, text: arg}, nil
	case "d", "detail":
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			return browseCommand{}, fmt.Errorf("detail needs a movie number, got %q", arg)
		}
		return browseCommand{action: actionDetail, n: n}, nil
	case "clear":
		return browseCommand{action: actionClear}, nil
	case "r", "reload":
		return browseCommand{action: actionReload}, nil
	case "h", "help", "?":
		return browseCommand{action: actionHelp}, nil
	case "q", "quit", "exit":
		return browseCommand{action: actionQuit}, nil
	}

	return browseCommand{}, fmt.Errorf("unknown command %q, enter :h for help", line)
}

type browseOptions struct {
	pageSize    int
	debounce    time.Duration
	formatter   catalog.Formatter
	interactive bool
}

// browseSession renders the catalog on every coordinator change and turns
// input lines into controller calls
type browseSession struct {
	out         io.Writer
	api         movieapi.API
	logger      zerolog.Logger
	formatter   catalog.Formatter
	interactive bool

	coord *catalog.Coordinator
	ctrl  *catalog.PageController

	outMu sync.Mutex

	// cards of the current generation, so each movie is fetched at most once
	cardsMu  sync.Mutex
	cardsGen uint64
	cards    map[string]*catalog.Card
}

func newBrowseSession(out io.Writer, api movieapi.API, logger zerolog.Logger, opts browseOptions) *browseSession {
	s := &browseSession{
		out:         out,
		api:         api,
		logger:      logger,
		formatter:   opts.formatter,
		interactive: opts.interactive,
		cards:       make(map[string]*catalog.Card),
	}

	s.coord = catalog.NewCoordinator(api, logger, catalog.WithListener(s.render))
	s.ctrl = catalog.NewPageController(s.coord, logger,
		catalog.WithPageSize(opts.pageSize),
		catalog.WithDebounce(opts.debounce),
		catalog.WithPageChangeHook(s.scrollToTop),
	)
	return s
}

// Run reads commands from in until EOF, :q or cancellation
func (s *browseSession) Run(ctx context.Context, in io.Reader) error {
	if err := s.ctrl.Start(); err != nil {
		return fmt.Errorf("failed to start browsing: %w", err)
	}
	s.coord.Wait()

	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		s.prompt()

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			// apply a search typed right before the input ended
			s.ctrl.FlushSearch()
			s.coord.Wait()
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		command, err := parseBrowseCommand(line)
		if err != nil {
			s.printf("%v\n", err)
			continue
		}

		quit, err := s.handle(ctx, command)
		if err != nil {
			s.printf("%v\n", err)
		}
		if quit {
			return nil
		}
	}
}

func (s *browseSession) handle(ctx context.Context, command browseCommand) (bool, error) {
	var err error

	switch command.action {
	case actionSearch:
		err = s.ctrl.SetSearch(command.text)
		s.coord.Wait()
		s.render(s.coord.Snapshot())
		return false, err
	case actionClear:
		err = s.ctrl.SetSearch("")
		s.ctrl.FlushSearch()
	case actionNext:
		err = s.ctrl.NextPage()
	case actionPrev:
		err = s.ctrl.PrevPage()
	case actionPage:
		err = s.ctrl.SetPage(command.n)
	case actionGenre:
		err = s.ctrl.SetGenre(command.text)
	case actionReload:
		s.ctrl.Reload()
	case actionDetail:
		return false, s.showDetail(ctx, command.n)
	case actionHelp:
		s.printf("%s", browseHelp)
	case actionQuit:
		return true, nil
	}

	s.coord.Wait()
	return false, err
}

func (s *browseSession) showDetail(ctx context.Context, n int) error {
	snap := s.coord.Snapshot()
	if n < 1 || n > len(snap.Movies) {
		return fmt.Errorf("no movie %d on this page", n)
	}

	card := s.card(snap.Generation, snap.Movies[n-1])
	movie := card.Hover(ctx)
	if ctx.Err() != nil {
		return nil
	}

	s.printf("%s", s.formatter.FormatDetail(movie))
	return nil
}

// card returns the shared card for movie, discarding cards of older pages
func (s *browseSession) card(gen uint64, movie movieapi.Movie) *catalog.Card {
	s.cardsMu.Lock()
	defer s.cardsMu.Unlock()

	if gen != s.cardsGen {
		s.cardsGen = gen
		s.cards = make(map[string]*catalog.Card)
	}

	id := movie.ID.String()
	card, ok := s.cards[id]
	if !ok {
		card = catalog.NewCard(s.api, movie, s.logger)
		s.cards[id] = card
	}
	return card
}

func (s *browseSession) render(snap catalog.Snapshot) {
	if snap.IsLoading() && !s.interactive {
		return
	}
	s.printf("%s", s.formatter.FormatPage(snap, s.ctrl.State()))
}

func (s *browseSession) scrollToTop(page int) {
	if s.interactive {
		s.printf("\033[H\033[2J")
	}
	s.logger.Debug().Int("page", page).Msg("Changed page")
}

func (s *browseSession) prompt() {
	if s.interactive {
		s.printf("> ")
	}
}

func (s *browseSession) printf(format string, args ...any) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}

// Close stops pending searches and in-flight fetches
func (s *browseSession) Close() {
	s.ctrl.Close()
	s.coord.Close()
}
