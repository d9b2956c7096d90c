package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayName(t *testing.T) {
	tc := TestCase{Label: "counter"}
	assert.Equal(t, "counter", tc.DisplayName())

	unnamed := TestCase{}
	assert.Equal(t, "unnamed", unnamed.DisplayName())
}

func TestValidate(t *testing.T) {
	valid := TestCase{
		Signals: []string{"A", "Y"},
		Rows: []Row{
			{Description: "0", Cells: []Cell{LiteralCell(1), DontCareCell()}},
		},
	}
	require.NoError(t, valid.Validate())

	testCases := []struct {
		name string
		tc   TestCase
	}{
		{
			"no signals",
			TestCase{Rows: []Row{{Cells: []Cell{LiteralCell(1)}}}},
		},
		{
			"empty signal name",
			TestCase{Signals: []string{"A", ""}},
		},
		{
			"duplicate signal",
			TestCase{Signals: []string{"A", "A"}},
		},
		{
			"row width mismatch",
			TestCase{
				Signals: []string{"A", "Y"},
				Rows:    []Row{{Cells: []Cell{LiteralCell(1)}}},
			},
		},
		{
			"cell without expression",
			TestCase{
				Signals: []string{"A"},
				Rows:    []Row{{Cells: []Cell{{}}}},
			},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.tc.Validate())
		})
	}
}

func TestValidate_ZeroRowsIsStructurallyValid(t *testing.T) {
	// The executor, not the model, reports the zero-row error condition.
	tc := TestCase{Signals: []string{"A"}}
	assert.NoError(t, tc.Validate())
}
