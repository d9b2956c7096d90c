package engine

import (
	"fmt"

	"github.com/vectorbench/vectorbench/internal/value"
)

// TableCell is a sealed interface over the two cell kinds a value table
// holds. Only PlainValue and MatchedValue implement it.
type TableCell interface {
	tableCell()
}

// PlainValue is an unmatched observation: an input value as driven, or an
// output column the row marked "don't care". It always counts as passed.
type PlainValue struct {
	Value value.Value
}

func (PlainValue) tableCell() {}

// MatchedValue pairs one (row, column) actual observation with its expected
// value and the computed match flag. Instances are never merged; one
// MatchedValue represents exactly one observation.
type MatchedValue struct {
	Actual   value.Value
	Expected value.Value

	// Match is true iff Actual and Expected are numerically equal: same
	// magnitude, same bit width, both defined.
	Match bool
}

func (MatchedValue) tableCell() {}

// NewMatchedValue computes the match flag for an actual/expected pair.
func NewMatchedValue(actual, expected value.Value) MatchedValue {
	return MatchedValue{
		Actual:   actual,
		Expected: expected,
		Match:    actual.Equal(expected),
	}
}

// TableRow is one executed time step: a description and one cell per column.
type TableRow struct {
	Description string
	Cells       []TableCell
}

// ValueTable accumulates executed rows. The column list is fixed for the
// table's lifetime; every appended row must match it exactly.
type ValueTable struct {
	columns []string
	rows    []TableRow
}

// NewValueTable creates an empty table over the given columns.
func NewValueTable(columns []string) *ValueTable {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &ValueTable{columns: cols}
}

// Columns returns the column count.
func (t *ValueTable) Columns() int { return len(t.columns) }

// ColumnName returns the name of column i.
func (t *ValueTable) ColumnName(i int) string { return t.columns[i] }

// ColumnNames returns the ordered column name list.
func (t *ValueTable) ColumnNames() []string {
	cols := make([]string, len(t.columns))
	copy(cols, t.columns)
	return cols
}

// Append adds an executed row. Fails if the cell count does not match the
// column count.
func (t *ValueTable) Append(row TableRow) error {
	if len(row.Cells) != len(t.columns) {
		return fmt.Errorf("row has %d cell(s), table has %d column(s)", len(row.Cells), len(t.columns))
	}
	t.rows = append(t.rows, row)
	return nil
}

// Rows returns the executed rows in order.
func (t *ValueTable) Rows() []TableRow { return t.rows }

// TestResult is the immutable outcome of one executed test case.
type TestResult struct {
	table         *ValueTable
	errorOccurred bool
	mismatches    int
}

// NewTestResult rolls up an executed value table.
// errorOccurred marks runs aborted by a simulation fault.
func NewTestResult(table *ValueTable, errorOccurred bool) *TestResult {
	mismatches := 0
	for _, row := range table.rows {
		for _, cell := range row.Cells {
			if mv, ok := cell.(MatchedValue); ok && !mv.Match {
				mismatches++
			}
		}
	}
	return &TestResult{
		table:         table,
		errorOccurred: errorOccurred,
		mismatches:    mismatches,
	}
}

// Table returns the executed value table.
func (r *TestResult) Table() *ValueTable { return r.table }

// ErrorOccurred reports whether a simulation fault aborted the run.
func (r *TestResult) ErrorOccurred() bool { return r.errorOccurred }

// Mismatches returns the number of cells that failed to match.
func (r *TestResult) Mismatches() int { return r.mismatches }

// AllPassed is the single source of truth for pass/fail: true iff every
// cell in every row matched and no error occurred. An error that occurs
// after partial matching still fails the whole test.
func (r *TestResult) AllPassed() bool {
	return !r.errorOccurred && r.mismatches == 0
}
