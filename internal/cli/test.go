package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vectorbench/vectorbench/internal/engine"
	"github.com/vectorbench/vectorbench/internal/loader"
	"github.com/vectorbench/vectorbench/internal/report"
	"github.com/vectorbench/vectorbench/internal/store"
	"github.com/vectorbench/vectorbench/internal/vector"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	AllowMissingInputs bool   // tolerate rows driving inputs the circuit lacks
	JSONOutput         string // write the full canonical JSON report here
	CSVOutput          string // write the summary CSV here
	DBPath             string // record the run in this history database
}

// CaseSummary holds one test case's result for CLI output.
type CaseSummary struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	ElapsedMs int64  `json:"elapsed_ms"`
	Error     string `json:"error,omitempty"`
}

// TestSummary holds the overall test result. Report carries the full batch
// report entries so JSON consumers get the per-timestep detail.
type TestSummary struct {
	Cases  []CaseSummary  `json:"cases"`
	Passed int            `json:"passed"`
	Failed int            `json:"failed"`
	Total  int            `json:"total"`
	Report []report.Entry `json:"report"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <circuit.yaml> [vectors.yaml]",
		Short: "Run test vectors against a circuit",
		Long: `Run test vectors against a simulated circuit.

Vectors come from the vectors file when given, otherwise from the tests
embedded in the circuit document.

Exit codes:
  0 - All test cases passed
  1 - One or more test cases failed
  2 - Command error (bad paths, bad documents, etc.)

Examples:
  vbench test bcd.yaml
  vbench test bcd.yaml vectors.yaml
  vbench test bcd.yaml --json-output report.json
  vbench test bcd.yaml --db history.db --format json`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTest(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.AllowMissingInputs, "allow-missing-inputs", false,
		"skip vector inputs the circuit does not expose")
	cmd.Flags().StringVar(&opts.JSONOutput, "json-output", "", "write the canonical JSON report to this file")
	cmd.Flags().StringVar(&opts.CSVOutput, "csv-output", "", "write the summary CSV to this file")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "record the run in this history database")

	return cmd
}

func runTest(opts *TestOptions, args []string, cmd *cobra.Command) error {
	circuitFile := args[0]
	testFile := ""
	if len(args) == 2 {
		testFile = args[1]
	}

	circuit, err := loader.LoadCircuit(circuitFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load circuit", err)
	}

	var tests []vector.TestCase
	if testFile != "" {
		tests, err = loader.LoadVectors(testFile)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load vectors", err)
		}
	} else {
		tests = circuit.Tests
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	// An empty vector set is a failure, never a silent pass.
	if len(tests) == 0 {
		if err := formatter.Error("E_NO_TESTS", "no test cases given", nil); err != nil {
			return err
		}
		return NewExitError(ExitFailure, "no test cases given")
	}
	formatter.VerboseLog("running %d test case(s) against %s", len(tests), circuitFile)

	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)
	executor := engine.NewExecutor(engine.Options{
		AllowMissingInputs: opts.AllowMissingInputs,
		Logger:             logger,
	})
	runner := engine.NewBatchRunner(executor, logger)

	outcomes := runner.Run(tests, circuit.Sim)

	// Embedded tests live in the circuit file itself, so the report names
	// it as the test source too.
	reportTestFile := testFile
	if reportTestFile == "" {
		reportTestFile = circuitFile
	}
	entries := report.Build(outcomes, circuitFile, reportTestFile)

	if err := writeArtifacts(opts, circuitFile, testFile, entries); err != nil {
		return err
	}

	summary := summarize(entries)
	if opts.Format == "json" {
		return outputTestJSON(cmd, summary)
	}
	return outputTestText(cmd, summary)
}

// newLogger builds the diagnostic logger. Logs go to stderr so they never
// corrupt report or JSON output on stdout.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// writeArtifacts writes the optional report file, CSV and history record.
func writeArtifacts(opts *TestOptions, circuitFile, testFile string, entries []report.Entry) error {
	if opts.JSONOutput != "" {
		data, err := report.Marshal(entries)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to render report", err)
		}
		if err := os.WriteFile(opts.JSONOutput, data, 0644); err != nil {
			return WrapExitError(ExitCommandError, "failed to write report", err)
		}
	}

	if opts.CSVOutput != "" {
		f, err := os.Create(opts.CSVOutput)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to create CSV file", err)
		}
		defer f.Close()
		if err := report.WriteSummaryCSV(f, entries); err != nil {
			return WrapExitError(ExitCommandError, "failed to write CSV", err)
		}
	}

	if opts.DBPath != "" {
		if err := recordRun(opts.DBPath, circuitFile, testFile, entries); err != nil {
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
	}

	return nil
}

func recordRun(dbPath, circuitFile, testFile string, entries []report.Entry) error {
	s, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	failed := report.FailedCount(entries)
	results := make([]store.RunResult, 0, len(entries))
	for _, e := range entries {
		results = append(results, store.RunResult{
			TestName:     e.TestName,
			Status:       e.Status,
			ElapsedMs:    e.ElapsedTimeMs,
			ErrorMessage: e.ErrorMessage,
		})
	}

	_, err = s.SaveRun(context.Background(), store.Run{
		CircuitFile: circuitFile,
		TestFile:    testFile,
		Passed:      len(entries) - failed,
		Failed:      failed,
	}, results)
	return err
}

func summarize(entries []report.Entry) TestSummary {
	summary := TestSummary{
		Cases:  make([]CaseSummary, 0, len(entries)),
		Total:  len(entries),
		Report: entries,
	}
	for _, e := range entries {
		summary.Cases = append(summary.Cases, CaseSummary{
			Name:      e.TestName,
			Status:    e.Status,
			ElapsedMs: e.ElapsedTimeMs,
			Error:     e.ErrorMessage,
		})
		if e.Status == report.StatusPassed {
			summary.Passed++
		} else {
			summary.Failed++
		}
	}
	return summary
}

// outputTestJSON outputs the test result as JSON.
func outputTestJSON(cmd *cobra.Command, summary TestSummary) error {
	status := "ok"
	if summary.Failed > 0 {
		status = "error"
	}

	response := CLIResponse{
		Status: status,
		Data:   summary,
	}
	if summary.Failed > 0 {
		response.Error = &CLIError{
			Code:    "E_TEST_FAILED",
			Message: fmt.Sprintf("%d test case(s) failed", summary.Failed),
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if summary.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d test case(s) failed", summary.Failed))
	}
	return nil
}

// outputTestText outputs the test result as text.
func outputTestText(cmd *cobra.Command, summary TestSummary) error {
	w := cmd.OutOrStdout()

	for _, c := range summary.Cases {
		if c.Status == report.StatusPassed {
			fmt.Fprintf(w, "✓ %s (%d ms)\n", c.Name, c.ElapsedMs)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", c.Name)
		if c.Error != "" {
			fmt.Fprintf(w, "  %s\n", c.Error)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", summary.Passed, summary.Failed, summary.Total)

	if summary.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d test case(s) failed", summary.Failed))
	}

	fmt.Fprintln(w, "✓ All test cases passed")
	return nil
}
