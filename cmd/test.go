package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/reelsearch/search"
)

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to TMDB",
	Long:  `Check that TMDB is reachable and that the configured API token is accepted.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Testing connection to TMDB at %s...\n", cfg.TMDB.BaseURL)

	if err := client.TestConnection(ctx); err != nil {
		failure := search.NewFailure(err, search.MessagesFor(cfg.TMDB.Language))
		fmt.Fprintf(out, "✗ %s\n", failure.Message)
		return fmt.Errorf("connection test failed: %w", err)
	}

	fmt.Fprintln(out, "✓ Connection successful!")
	fmt.Fprintf(out, "\nSettings:\n")
	fmt.Fprintf(out, "- Language: %s\n", cfg.TMDB.Language)
	fmt.Fprintf(out, "- Poster size: %s\n", imageSize())
	fmt.Fprintf(out, "- Debounce: %s\n", cfg.Search.Debounce)
	fmt.Fprintf(out, "- Minimum query length: %d\n", cfg.Search.MinQueryLength)

	return nil
}
