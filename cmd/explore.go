package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/reelsearch/render"
	"github.com/s0up4200/reelsearch/search"
	"github.com/s0up4200/reelsearch/tmdb"
	"github.com/s0up4200/reelsearch/tui"
)

// exploreCmd represents the explore command
var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Search movies as you type",
	Long: `Open the interactive explore screen. Results refresh once typing settles
for search.debounce; queries shorter than search.min_query_length clear the list.

When stdin is not a terminal every input line is treated as the new content
of the search box and each resulting state is printed, e.g.

  printf 'ba\nbat\n' | reelsearch explore`,
	RunE: runExplore,
}

func runExplore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd()) {
		return runExploreScreen(ctx)
	}

	return exploreLines(ctx, client, logger, cmd.InOrStdin(), cmd.OutOrStdout(), exploreSettings{
		delay:     cfg.Search.Debounce,
		language:  cfg.TMDB.Language,
		minLength: cfg.Search.MinQueryLength,
		imageSize: imageSize(),
	})
}

// runExploreScreen runs the TUI. Logs go to logging.file when set since
// stderr belongs to the screen.
func runExploreScreen(ctx context.Context) error {
	screenLogger := zerolog.Nop()
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		screenLogger = setupLogger(cfg.Logging, f)
	}

	screenClient, err := newClient(screenLogger)
	if err != nil {
		return fmt.Errorf("failed to create TMDB client: %w", err)
	}

	return tui.Run(ctx, screenClient, screenLogger, tui.Config{
		Delay:          cfg.Search.Debounce,
		Language:       cfg.TMDB.Language,
		MinQueryLength: cfg.Search.MinQueryLength,
		ImageSize:      imageSize(),
	})
}

type exploreSettings struct {
	delay     time.Duration
	language  string
	minLength int
	imageSize tmdb.ImageSize
}

// exploreLines drives the orchestrator from line-oriented input and prints
// every state transition
func exploreLines(ctx context.Context, searcher tmdb.Searcher, log zerolog.Logger, in io.Reader, out io.Writer, settings exploreSettings) error {
	formatter := render.NewConsoleFormatter(settings.imageSize, search.MessagesFor(settings.language))

	var writeErr error
	o := search.NewOrchestrator(searcher, log,
		search.WithDelay(settings.delay),
		search.WithLanguage(settings.language),
		search.WithMinQueryLength(settings.minLength),
		search.WithListener(func(state search.State) {
			if writeErr != nil {
				return
			}
			_, writeErr = io.WriteString(out, formatter.FormatState(state))
		}),
	)
	defer o.Close()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				o.Flush()
				o.Close()
				if writeErr != nil {
					return writeErr
				}
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			o.TextChanged(line)
		}
	}
}
