package engine

import (
	"io"
	"log/slog"

	"github.com/vectorbench/vectorbench/internal/expr"
	"github.com/vectorbench/vectorbench/internal/sim"
	"github.com/vectorbench/vectorbench/internal/value"
	"github.com/vectorbench/vectorbench/internal/vector"
)

// Options configures an Executor.
type Options struct {
	// AllowMissingInputs enables the degraded mode for partially-specified
	// circuits: a row driving an input the simulation does not expose is a
	// no-op instead of a hard failure.
	AllowMissingInputs bool

	// Logger receives per-row diagnostics. Nil discards them.
	Logger *slog.Logger
}

// Executor runs test cases against a simulation. It is stateless between
// runs; each Execute call owns a fresh Context for its duration.
type Executor struct {
	allowMissingInputs bool
	logger             *slog.Logger
}

// NewExecutor creates an executor with the given options.
func NewExecutor(opts Options) *Executor {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Executor{
		allowMissingInputs: opts.AllowMissingInputs,
		logger:             logger,
	}
}

// Execute runs one test case to completion.
//
// For each row, in order: resolve input cells against the context, write
// them to the simulation, settle, read actual outputs, evaluate expected
// expressions, match, then advance the context with the row's resolved
// values. Column direction is discovered from the simulation: a column
// present in ReadOutputs is an output, everything else is driven as an
// input.
//
// A settle fault stops remaining rows and marks the result's error flag
// (the error return stays nil; the result carries the failure). An
// expression error or an unsupported input (without AllowMissingInputs)
// returns an ExecError instead. A zero-row test case is an error condition,
// never an empty pass.
func (e *Executor) Execute(tc *vector.TestCase, s sim.Simulation, det *sim.ErrorDetector) (*TestResult, error) {
	if err := tc.Validate(); err != nil {
		return nil, &ExecError{
			Code:     ErrCodeInvalidTestCase,
			Message:  "test case failed validation",
			TestCase: tc.DisplayName(),
			Err:      err,
		}
	}
	if len(tc.Rows) == 0 {
		return nil, NewNoRowsError(tc.DisplayName())
	}

	// Column direction discovery. Outputs are visible before the first
	// settle (as undefined values), so the port set is known up front.
	isOutput := make(map[string]bool)
	for name := range s.ReadOutputs() {
		isOutput[name] = true
	}

	ctx := expr.NewContext()
	table := NewValueTable(tc.Signals)
	errorOccurred := false

rows:
	for i := range tc.Rows {
		row := &tc.Rows[i]
		ctx.SetRow(i)

		// Resolve this row's input cells against the pre-row context.
		// A "don't care" input cell leaves the signal undriven this row.
		driven := make(map[string]value.Value)
		resolved := make(map[int]value.Value)
		for j, name := range tc.Signals {
			if isOutput[name] {
				continue
			}
			cell := row.Cells[j]
			if cell.DontCare {
				continue
			}
			v, err := cell.Expr.Eval(ctx)
			if err != nil {
				return nil, &ExecError{
					Code:     ErrCodeExpression,
					Message:  "input cell " + cell.Text + " failed to evaluate",
					TestCase: tc.DisplayName(),
					Err:      err,
				}
			}
			val := value.Of(v, value.MaxBits)
			driven[name] = val
			resolved[j] = val
		}

		// Write inputs. Unsupported signals either degrade to a no-op
		// (AllowMissingInputs) or abort the test case; any other fault is
		// a simulation error and stops remaining rows.
		for {
			fault := s.ApplyInputs(driven)
			if fault == nil {
				break
			}
			if fault.Kind == sim.FaultUnsupported {
				// An unsupported-input fault naming a signal we never drove
				// cannot be retried away; treat it as a simulation error.
				if _, ok := driven[fault.Signal]; !ok {
					det.Record(fault)
					errorOccurred = true
					break rows
				}
				if e.allowMissingInputs {
					e.logger.Debug("skipping missing input",
						"test", tc.DisplayName(), "row", i, "signal", fault.Signal)
					delete(driven, fault.Signal)
					continue
				}
				return nil, &ExecError{
					Code:     ErrCodeMissingInput,
					Message:  "circuit has no input " + fault.Signal,
					TestCase: tc.DisplayName(),
					Err:      fault,
				}
			}
			det.Record(fault)
			errorOccurred = true
			break rows
		}

		if fault := s.Settle(); fault != nil {
			det.Record(fault)
			errorOccurred = true
			break rows
		}

		actuals := s.ReadOutputs()

		// Evaluate expected expressions against the pre-row context, then
		// advance the context with the row's resolved values in one step,
		// so cells within a row cannot observe each other.
		bindings := make(map[string]value.Value, len(tc.Signals))
		cells := make([]TableCell, len(tc.Signals))
		for j, name := range tc.Signals {
			cell := row.Cells[j]
			if isOutput[name] {
				actual := actuals[name]
				if cell.DontCare {
					cells[j] = PlainValue{Value: actual}
				} else {
					exp, err := cell.Expr.Eval(ctx)
					if err != nil {
						return nil, &ExecError{
							Code:     ErrCodeExpression,
							Message:  "expected cell " + cell.Text + " failed to evaluate",
							TestCase: tc.DisplayName(),
							Err:      err,
						}
					}
					// Expected values truncate to the signal's width.
					cells[j] = NewMatchedValue(actual, value.Of(exp, actual.Bits()))
				}
				bindings[name] = actual
			} else if v, ok := resolved[j]; ok {
				cells[j] = PlainValue{Value: v}
				bindings[name] = v
			} else {
				cells[j] = PlainValue{Value: value.HighZValue(1)}
			}
		}
		for name, v := range bindings {
			ctx.Set(name, v)
		}

		if err := table.Append(TableRow{Description: row.Description, Cells: cells}); err != nil {
			return nil, &ExecError{
				Code:     ErrCodeInvalidTestCase,
				Message:  "row does not fit value table",
				TestCase: tc.DisplayName(),
				Err:      err,
			}
		}

		e.logger.Debug("row executed", "test", tc.DisplayName(), "row", i, "time", row.Description)
	}

	if det.Check() != nil {
		errorOccurred = true
	}
	return NewTestResult(table, errorOccurred), nil
}
