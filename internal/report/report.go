// Package report renders batch execution outcomes into machine-readable
// artifacts: a canonical JSON report and CSV summaries. The JSON rendering
// is byte-reproducible given the same outcomes, so report files can be
// compared directly or checked in as golden fixtures.
package report

import (
	"github.com/vectorbench/vectorbench/internal/engine"
	"github.com/vectorbench/vectorbench/internal/value"
)

// Status values for report entries. A test either passed completely or it
// failed; mismatches, execution errors and simulation faults all map to
// StatusFailed, distinguished by ErrorMessage.
const (
	StatusPassed = "PASSED"
	StatusFailed = "FAILED"
)

// ErrorOccurredMessage is the error message reported when a simulation
// fault aborted a test case mid-run.
const ErrorOccurredMessage = "Test failed due to an error"

// Entry is one test case's report record. The json tags mirror the
// canonical report field names, so an Entry embedded in other JSON output
// reads the same as the canonical report itself.
type Entry struct {
	TestName      string     `json:"testName"`
	FileName      string     `json:"fileName"`
	TestFileName  string     `json:"testFileName"`
	ElapsedTimeMs int64      `json:"elapsedTimeMs"`
	Status        string     `json:"status"`
	ErrorMessage  string     `json:"errorMessage"`
	SignalNames   []string   `json:"signalNames"`
	Timesteps     []Timestep `json:"timesteps"`
}

// Timestep is one executed row: its time label and one [actual, expected]
// text pair per signal column. Unmatched columns repeat the observed value
// in both positions.
type Timestep struct {
	Time    string      `json:"time"`
	Signals [][2]string `json:"signals"`
}

// Build converts batch outcomes into report entries, preserving order.
// fileName names the circuit under test, testFileName the vector source;
// when the vectors are embedded in the circuit document, callers pass the
// circuit path for both.
func Build(outcomes []engine.CaseOutcome, fileName, testFileName string) []Entry {
	entries := make([]Entry, 0, len(outcomes))
	for _, outcome := range outcomes {
		entries = append(entries, buildEntry(outcome, fileName, testFileName))
	}
	return entries
}

// FailedCount returns how many entries did not pass.
func FailedCount(entries []Entry) int {
	failed := 0
	for _, e := range entries {
		if e.Status != StatusPassed {
			failed++
		}
	}
	return failed
}

func buildEntry(outcome engine.CaseOutcome, fileName, testFileName string) Entry {
	entry := Entry{
		TestName:      outcome.Name,
		FileName:      fileName,
		TestFileName:  testFileName,
		ElapsedTimeMs: outcome.ElapsedMs,
		Status:        StatusPassed,
		SignalNames:   []string{},
		Timesteps:     []Timestep{},
	}
	if outcome.Failed() {
		entry.Status = StatusFailed
	}

	switch {
	case outcome.Err != nil:
		entry.ErrorMessage = outcome.Err.Error()
	case outcome.Result != nil && outcome.Result.ErrorOccurred():
		entry.ErrorMessage = ErrorOccurredMessage
	}

	if outcome.Result == nil {
		return entry
	}

	table := outcome.Result.Table()
	entry.SignalNames = table.ColumnNames()
	for _, row := range table.Rows() {
		step := Timestep{Time: row.Description}
		for _, cell := range row.Cells {
			step.Signals = append(step.Signals, renderCell(cell))
		}
		entry.Timesteps = append(entry.Timesteps, step)
	}
	return entry
}

// renderCell produces the [actual, expected] text pair for one cell.
// Matched cells use the short-hex form; plain observations render their
// own textual form in both positions.
func renderCell(cell engine.TableCell) [2]string {
	switch c := cell.(type) {
	case engine.MatchedValue:
		return [2]string{value.ShortHex(c.Actual), value.ShortHex(c.Expected)}
	case engine.PlainValue:
		text := c.Value.String()
		return [2]string{text, text}
	default:
		return [2]string{"?", "?"}
	}
}

// Marshal renders entries as a canonical JSON array.
func Marshal(entries []Entry) ([]byte, error) {
	arr := make([]any, 0, len(entries))
	for _, e := range entries {
		arr = append(arr, e.canonical())
	}
	return MarshalCanonical(arr)
}

func (e Entry) canonical() map[string]any {
	names := make([]any, 0, len(e.SignalNames))
	for _, n := range e.SignalNames {
		names = append(names, n)
	}

	steps := make([]any, 0, len(e.Timesteps))
	for _, step := range e.Timesteps {
		signals := make([]any, 0, len(step.Signals))
		for _, pair := range step.Signals {
			signals = append(signals, []any{pair[0], pair[1]})
		}
		steps = append(steps, map[string]any{
			"time":    step.Time,
			"signals": signals,
		})
	}

	return map[string]any{
		"testName":      e.TestName,
		"fileName":      e.FileName,
		"testFileName":  e.TestFileName,
		"elapsedTimeMs": e.ElapsedTimeMs,
		"status":        e.Status,
		"errorMessage":  e.ErrorMessage,
		"signalNames":   names,
		"timesteps":     steps,
	}
}
