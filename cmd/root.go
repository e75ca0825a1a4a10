package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/s0up4200/reelsearch/config"
	"github.com/s0up4200/reelsearch/tmdb"
)

var (
	cfgFile      string
	languageFlag string
	cfg          *config.Config
	logger       zerolog.Logger
	client       *tmdb.Client
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "reelsearch",
	Short: "Search The Movie Database from your terminal",
	Long: `reelsearch searches movies on The Movie Database (TMDB) as you type.

Run "reelsearch explore" for the interactive screen, or "reelsearch search"
for one-off queries. The API token is read from tmdb.api_token in the config
file or from the TMDB_API_TOKEN environment variable.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or ~/.reelsearch/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&languageFlag, "language", "l", "", "result language as a BCP 47 tag (overrides tmdb.language)")

	// Add subcommands
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(exploreCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp initializes the configuration and the TMDB client
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override language from command line if specified
	if cmd.Flags().Changed("language") {
		if _, err := language.Parse(languageFlag); err != nil {
			return fmt.Errorf("invalid --language %q: %w", languageFlag, err)
		}
		cfg.TMDB.Language = languageFlag
	}

	// Setup logger
	logger = setupLogger(cfg.Logging, os.Stderr)

	if cfg.TMDB.APIToken == "" {
		logger.Warn().Msgf("No API token configured, set tmdb.api_token or %s", config.TokenEnv)
	}

	client, err = newClient(logger)
	if err != nil {
		return fmt.Errorf("failed to create TMDB client: %w", err)
	}

	return nil
}

// newClient creates a TMDB client from the loaded configuration
func newClient(log zerolog.Logger) (*tmdb.Client, error) {
	return tmdb.NewClient(cfg.TMDB.APIToken, log,
		tmdb.WithBaseURL(cfg.TMDB.BaseURL),
		tmdb.WithLanguage(cfg.TMDB.Language),
		tmdb.WithTimeout(cfg.TMDB.Timeout),
		tmdb.WithUserAgent("reelsearch/"+version),
	)
}

// imageSize returns the configured poster size; validated by config.Load
func imageSize() tmdb.ImageSize {
	size, err := tmdb.ParseImageSize(cfg.TMDB.ImageSize)
	if err != nil {
		return tmdb.DefaultImageSize
	}
	return size
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig, out *os.File) zerolog.Logger {
	// Set log level
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

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(out).With().Timestamp().Logger()
	}

	// Console format, colored only on a terminal
	colored := cfg.Color && (isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd()))
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    !colored,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
