package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"saucenao/acquire"
	"saucenao/logging"
	"saucenao/models"
	"saucenao/results"
)

const (
	exitRateLimited = 2
	exitInterrupted = 3
)

var (
	searchDatabases databaseList
	searchOut       string
	searchRaw       bool
	searchHidden    bool
)

var searchCmd = &cobra.Command{
	Use:   "search FILE|URL|-",
	Short: "Search for an image from the terminal",
	Long: `
Search SauceNAO for an image file, an image URL, or image bytes read from
stdin ("-"). The results page is saved as HTML and a summary of the matches
is printed.

Exit codes: 0 results found, 1 error, 2 too many requests, 3 interrupted.
`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().VarP(&searchDatabases, "db", "d", "Database code or name to search, repeatable (default all)")
	searchCmd.Flags().StringVarP(&searchOut, "out", "o", "", "Where to save the results page (default a new file in the data directory)")
	searchCmd.Flags().BoolVar(&searchRaw, "raw", false, "Print the raw results page instead of a summary")
	searchCmd.Flags().BoolVar(&searchHidden, "hidden", false, "Include low similarity results in the summary")
}

func runSearch(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.logger.Sync() //nolint:errcheck

	in, err := inputFromArg(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	outcome := rt.client.Search(ctx, in, searchDatabases.Filter())
	if err := acquire.Cleanup(in); err != nil {
		rt.logger.Warn("failed to remove temporary image", zap.Error(err))
	}

	if !outcome.OK() {
		rt.logger.Debug("search did not succeed",
			zap.Stringer("status", outcome.Status),
			zap.String("request_id", logging.RequestID(outcome.Err)),
		)
		return outcomeError(outcome)
	}

	path := searchOut
	if path == "" {
		path, err = results.Save(filepath.Join(rt.storage.DataPath(), "results"), outcome.Body)
	} else {
		err = results.WriteFile(path, outcome.Body)
	}
	if err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	return printOutcome(cmd.OutOrStdout(), cmd.ErrOrStderr(), outcome.Body, path)
}

func inputFromArg(arg string, stdin io.Reader) (models.SearchInput, error) {
	if arg == "-" {
		return acquire.FromReader(stdin)
	}
	if _, err := os.Stat(arg); err == nil {
		return acquire.FromFile(arg)
	}
	return acquire.FromShared(arg)
}

func outcomeError(outcome models.Outcome) error {
	switch outcome.Status {
	case models.OutcomeTooManyRequests:
		return &ExitError{Code: exitRateLimited, Err: errors.New("too many requests, try again later")}
	case models.OutcomeInterrupted:
		return &ExitError{Code: exitInterrupted, Err: errors.New("search interrupted")}
	default:
		if outcome.Err != nil {
			return fmt.Errorf("search failed: %w", outcome.Err)
		}
		return fmt.Errorf("search failed with status %d", outcome.StatusCode)
	}
}

func printOutcome(stdout, stderr io.Writer, body, savedAt string) error {
	if searchRaw {
		_, err := io.WriteString(stdout, body)
		return err
	}

	page, err := results.Parse(body)
	if err != nil {
		return err
	}
	if err := results.WriteSummary(stdout, page, searchHidden); err != nil {
		return err
	}
	fmt.Fprintf(stderr, "Results page saved to %s\n", savedAt)
	return nil
}
