package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vectorbench/vectorbench/internal/value"
)

func TestValueTable_FixedColumns(t *testing.T) {
	table := NewValueTable([]string{"A", "Y"})
	assert.Equal(t, 2, table.Columns())
	assert.Equal(t, "A", table.ColumnName(0))
	assert.Equal(t, []string{"A", "Y"}, table.ColumnNames())

	err := table.Append(TableRow{
		Description: "0",
		Cells:       []TableCell{PlainValue{value.Of(1, 8)}},
	})
	require.Error(t, err, "cell count must match column count")

	err = table.Append(TableRow{
		Description: "0",
		Cells: []TableCell{
			PlainValue{value.Of(1, 8)},
			NewMatchedValue(value.Of(1, 8), value.Of(1, 8)),
		},
	})
	require.NoError(t, err)
	assert.Len(t, table.Rows(), 1)
}

func TestNewMatchedValue(t *testing.T) {
	matched := NewMatchedValue(value.Of(5, 8), value.Of(5, 8))
	assert.True(t, matched.Match)

	mismatched := NewMatchedValue(value.Of(5, 8), value.Of(6, 8))
	assert.False(t, mismatched.Match)

	widthDiffers := NewMatchedValue(value.Of(5, 8), value.Of(5, 4))
	assert.False(t, widthDiffers.Match)

	undefined := NewMatchedValue(value.HighZValue(8), value.Of(0, 8))
	assert.False(t, undefined.Match)
}

func TestTestResult_AllPassed(t *testing.T) {
	matchedRow := TableRow{
		Description: "0",
		Cells:       []TableCell{NewMatchedValue(value.Of(1, 8), value.Of(1, 8))},
	}

	table := NewValueTable([]string{"Y"})
	require.NoError(t, table.Append(matchedRow))
	assert.True(t, NewTestResult(table, false).AllPassed())

	// errorOccurred overrides per-cell matches.
	table2 := NewValueTable([]string{"Y"})
	require.NoError(t, table2.Append(matchedRow))
	errored := NewTestResult(table2, true)
	assert.False(t, errored.AllPassed())
	assert.Equal(t, 0, errored.Mismatches())

	table3 := NewValueTable([]string{"Y"})
	require.NoError(t, table3.Append(TableRow{
		Description: "0",
		Cells:       []TableCell{NewMatchedValue(value.Of(1, 8), value.Of(2, 8))},
	}))
	failed := NewTestResult(table3, false)
	assert.False(t, failed.AllPassed())
	assert.Equal(t, 1, failed.Mismatches())
}
