package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vectorbench/vectorbench/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DBPath string
	Limit  int
	RunID  string // show one run's per-test results instead of the run list
}

// RunSummary is one run record for CLI output.
type RunSummary struct {
	ID          string `json:"id"`
	CreatedAt   string `json:"created_at"`
	CircuitFile string `json:"circuit_file"`
	TestFile    string `json:"test_file,omitempty"`
	Passed      int    `json:"passed"`
	Failed      int    `json:"failed"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded test runs",
		Long: `Show runs recorded with "vbench test --db".

Lists the most recent runs, or with --run the per-test results of one run.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "history database path (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum runs to list")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show per-test results for one run")
	cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	if _, err := os.Stat(opts.DBPath); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("history database not found: %s", opts.DBPath))
	}

	s, err := store.Open(opts.DBPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open history database", err)
	}
	defer s.Close()

	if opts.RunID != "" {
		return showRun(opts, s, cmd)
	}
	return listRuns(opts, s, cmd)
}

func listRuns(opts *HistoryOptions, s *store.Store, cmd *cobra.Command) error {
	runs, err := s.ListRuns(cmd.Context(), opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	summaries := make([]RunSummary, 0, len(runs))
	for _, run := range runs {
		summaries = append(summaries, RunSummary{
			ID:          run.ID,
			CreatedAt:   time.UnixMilli(run.CreatedAt).UTC().Format(time.RFC3339),
			CircuitFile: run.CircuitFile,
			TestFile:    run.TestFile,
			Passed:      run.Passed,
			Failed:      run.Failed,
		})
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if opts.Format == "json" {
		return formatter.Success(summaries)
	}

	w := cmd.OutOrStdout()
	if len(summaries) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	for _, r := range summaries {
		fmt.Fprintf(w, "%s  %s  %s  %d passed, %d failed\n",
			r.ID, r.CreatedAt, r.CircuitFile, r.Passed, r.Failed)
	}
	return nil
}

func showRun(opts *HistoryOptions, s *store.Store, cmd *cobra.Command) error {
	results, err := s.ResultsForRun(cmd.Context(), opts.RunID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run results", err)
	}
	if len(results) == 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("no results for run %s", opts.RunID))
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if opts.Format == "json" {
		return formatter.Success(results)
	}

	w := cmd.OutOrStdout()
	for _, r := range results {
		mark := "✓"
		if r.Status != "PASSED" {
			mark = "✗"
		}
		fmt.Fprintf(w, "%s %s (%d ms)", mark, r.TestName, r.ElapsedMs)
		if r.ErrorMessage != "" {
			fmt.Fprintf(w, "  %s", r.ErrorMessage)
		}
		fmt.Fprintln(w)
	}
	return nil
}
