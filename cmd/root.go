package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/reelgrid/catalog"
	"github.com/s0up4200/reelgrid/config"
	"github.com/s0up4200/reelgrid/filter"
	"github.com/s0up4200/reelgrid/movieapi"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *movieapi.Client

	version   = "dev"
	buildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "reelgrid",
	Short: "Browse a remote movie catalog from the terminal or the browser",
	Long: `reelgrid is a client for a token-authenticated movie catalog service.

It lists, searches and pages through movies by title and genre, shows full
movie details, and can serve the catalog as a web page.`,
	SilenceUsage:      true,
	PersistentPreRunE: initializeApp,
}

// SetVersion records build information reported by --version and used by update
func SetVersion(v, built string) {
	version = v
	buildTime = built
	rootCmd.Version = fmt.Sprintf("%s (built %s)", v, built)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(genresCmd)
	rootCmd.AddCommand(titlesCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(updateCmd)
}

// initializeApp initializes the configuration and the API client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging, isatty.IsTerminal(os.Stderr.Fd()))

	client, err = newClient(cfg.API, logger)
	if err != nil {
		return fmt.Errorf("failed to create movie API client: %w", err)
	}

	return nil
}

func newClient(api config.APIConfig, logger zerolog.Logger) (*movieapi.Client, error) {
	opts := []movieapi.Option{
		movieapi.WithTimeout(api.Timeout),
		movieapi.WithUserAgent(userAgent(api.UserAgent)),
	}
	if api.Token != "" {
		opts = append(opts, movieapi.WithTokenSource(movieapi.StaticToken(api.Token)))
	}
	return movieapi.NewClient(api.URL, logger, opts...)
}

func userAgent(base string) string {
	if base == "" {
		base = "reelgrid"
	}
	if strings.Contains(base, "/") {
		return base
	}
	return base + "/" + version
}

// setupLogger configures the zerolog logger. Colour is only used when
// enabled in the config and stderr is a terminal.
func setupLogger(cfg config.LoggingConfig, terminal bool) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !terminal,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// newFilterManager compiles the named filters from the config
func newFilterManager(filters config.FilterConfig) (*filter.Manager, error) {
	manager := filter.NewManager()
	if err := manager.RegisterFilters(filters); err != nil {
		return nil, fmt.Errorf("invalid filter in config: %w", err)
	}
	return manager, nil
}

func formatOptions(d config.DisplayConfig) catalog.FormatOptions {
	opts := catalog.DefaultFormatOptions()
	opts.Columns = d.Columns
	opts.CardWidth = d.CardWidth
	opts.ShowOverview = d.ShowOverview
	opts.ShowDetails = d.ShowDetails
	return opts
}
