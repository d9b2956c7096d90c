package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vectorbench/vectorbench/internal/loader"
)

// ValidationResult holds one document's validation result for CLI output.
type ValidationResult struct {
	File  string `json:"file"`
	Kind  string `json:"kind"` // "circuit" or "vectors"
	Valid bool   `json:"valid"`
	Tests int    `json:"tests"`
	Error string `json:"error,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var asVectors bool

	cmd := &cobra.Command{
		Use:   "validate <file.yaml...>",
		Short: "Validate circuit or vectors documents without running them",
		Long: `Validate documents against their schema and compile every expression,
without executing anything. Faster feedback than a full test run.

By default files are read as circuit documents; pass --vectors to
validate standalone test vector files instead.

Exit codes:
  0 - All documents valid
  1 - One or more documents invalid
  2 - Command error`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, asVectors, cmd)
		},
	}

	cmd.Flags().BoolVar(&asVectors, "vectors", false, "validate test vector documents")

	return cmd
}

func runValidate(opts *RootOptions, paths []string, asVectors bool, cmd *cobra.Command) error {
	results := make([]ValidationResult, 0, len(paths))
	invalid := 0
	for _, path := range paths {
		result := validateOne(path, asVectors)
		if !result.Valid {
			invalid++
		}
		results = append(results, result)
	}

	if opts.Format == "json" {
		status := "ok"
		var cliErr *CLIError
		if invalid > 0 {
			status = "error"
			cliErr = &CLIError{
				Code:    "E_INVALID_DOC",
				Message: fmt.Sprintf("%d document(s) invalid", invalid),
			}
		}
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(CLIResponse{Status: status, Data: results, Error: cliErr}); err != nil {
			return err
		}
	} else {
		w := cmd.OutOrStdout()
		for _, r := range results {
			if r.Valid {
				fmt.Fprintf(w, "✓ %s is a valid %s document (%d embedded test(s))\n", r.File, r.Kind, r.Tests)
				continue
			}
			fmt.Fprintf(w, "✗ %s\n  %s\n", r.File, r.Error)
		}
	}

	if invalid > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d document(s) invalid", invalid))
	}
	return nil
}

func validateOne(path string, asVectors bool) ValidationResult {
	result := ValidationResult{File: path, Kind: "circuit"}
	if asVectors {
		result.Kind = "vectors"
	}

	var err error
	if asVectors {
		var tests int
		tests, err = countVectors(path)
		result.Tests = tests
	} else {
		var circuit *loader.Circuit
		circuit, err = loader.LoadCircuit(path)
		if circuit != nil {
			result.Tests = len(circuit.Tests)
		}
	}

	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Valid = true
	return result
}

func countVectors(path string) (int, error) {
	tests, err := loader.LoadVectors(path)
	if err != nil {
		return 0, err
	}
	return len(tests), nil
}
