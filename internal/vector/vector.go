// Package vector defines the test-program model: ordered test cases made of
// per-time-step rows, with one cell per declared signal column.
package vector

import (
	"fmt"

	"github.com/vectorbench/vectorbench/internal/expr"
)

// Cell is one row entry for one signal column: either a "don't care" marker
// or an expression (a bare literal is the degenerate expression).
type Cell struct {
	// DontCare marks the cell as unmatched; it always counts as passed.
	DontCare bool

	// Expr is the cell's value expression. Nil iff DontCare.
	Expr expr.Expression

	// Text is the original source text, kept for diagnostics.
	Text string
}

// DontCareCell creates a "don't care" cell.
func DontCareCell() Cell {
	return Cell{DontCare: true, Text: "x"}
}

// ExprCell creates a cell holding an expression.
func ExprCell(e expr.Expression, text string) Cell {
	return Cell{Expr: e, Text: text}
}

// LiteralCell creates a cell holding a constant.
func LiteralCell(v int64) Cell {
	c := expr.NewConstant(v)
	return Cell{Expr: c, Text: c.String()}
}

// Row is one time step: a human-readable description (typically a time
// label) and exactly one cell per declared column.
type Row struct {
	// Description labels the time step in reports (e.g. "0", "rising edge").
	Description string

	// Cells holds one entry per TestCase column, in column order.
	Cells []Cell
}

// TestCase is a named, ordered sequence of rows describing one scenario.
type TestCase struct {
	// Label names the test case; empty renders as "unnamed" in reports.
	Label string

	// Signals is the ordered column name list. Column order is observable:
	// reports and value tables preserve it.
	Signals []string

	// Rows is the ordered time-step list. Ordering is significant; rows may
	// reference values computed by earlier rows.
	Rows []Row
}

// DisplayName returns the label, or "unnamed" when the label is empty.
func (tc *TestCase) DisplayName() string {
	if tc.Label == "" {
		return "unnamed"
	}
	return tc.Label
}

// Validate checks the structural invariants: at least one signal column and
// exactly one cell per column in every row. It does not require rows; the
// executor reports the zero-row condition itself.
func (tc *TestCase) Validate() error {
	if len(tc.Signals) == 0 {
		return fmt.Errorf("test case %q: no signal columns declared", tc.DisplayName())
	}

	seen := make(map[string]bool, len(tc.Signals))
	for _, name := range tc.Signals {
		if name == "" {
			return fmt.Errorf("test case %q: empty signal name", tc.DisplayName())
		}
		if seen[name] {
			return fmt.Errorf("test case %q: duplicate signal %q", tc.DisplayName(), name)
		}
		seen[name] = true
	}

	for i, row := range tc.Rows {
		if len(row.Cells) != len(tc.Signals) {
			return fmt.Errorf("test case %q: row %d has %d cell(s), expected %d",
				tc.DisplayName(), i, len(row.Cells), len(tc.Signals))
		}
		for j, cell := range row.Cells {
			if !cell.DontCare && cell.Expr == nil {
				return fmt.Errorf("test case %q: row %d cell %d has no expression",
					tc.DisplayName(), i, j)
			}
		}
	}

	return nil
}
