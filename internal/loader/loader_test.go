package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vectorsYAML = `tests:
  - name: bcd encode
    signals: [A, Y]
    rows:
      - time: 0
        cells: [5, 11]
      - time: rising edge
        cells: [19, get2421(A)]
  - signals: [A, Y]
    rows:
      - cells: [0x1f, x]
`

func TestParseVectors(t *testing.T) {
	cases, err := ParseVectors([]byte(vectorsYAML), "vectors.yaml")
	require.NoError(t, err)
	require.Len(t, cases, 2)

	first := cases[0]
	assert.Equal(t, "bcd encode", first.Label)
	assert.Equal(t, []string{"A", "Y"}, first.Signals)
	require.Len(t, first.Rows, 2)
	assert.Equal(t, "0", first.Rows[0].Description)
	assert.Equal(t, "rising edge", first.Rows[1].Description)
	assert.Equal(t, "get2421(A)", first.Rows[1].Cells[1].Text)

	second := cases[1]
	assert.Equal(t, "unnamed", second.DisplayName())
	// Row time defaults to the row index.
	assert.Equal(t, "0", second.Rows[0].Description)
	assert.False(t, second.Rows[0].Cells[0].DontCare)
	assert.True(t, second.Rows[0].Cells[1].DontCare)
}

func TestParseVectors_DontCareMarkers(t *testing.T) {
	doc := `tests:
  - signals: [A, B, C]
    rows:
      - cells: [x, X, "-"]
`
	cases, err := ParseVectors([]byte(doc), "")
	require.NoError(t, err)
	for _, cell := range cases[0].Rows[0].Cells {
		assert.True(t, cell.DontCare)
	}
}

func TestParseVectors_UnknownFieldRejected(t *testing.T) {
	doc := `tests:
  - signals: [A]
    rowz:
      - cells: [1]
`
	_, err := ParseVectors([]byte(doc), "vectors.yaml")
	require.Error(t, err)
	le, ok := IsLoadError(err)
	require.True(t, ok)
	// The schema rejects the unknown field before the strict decoder sees it.
	assert.Contains(t, []string{ErrCodeParse, ErrCodeSchema}, le.Code)
}

func TestParseVectors_SchemaRejectsBadShape(t *testing.T) {
	_, err := ParseVectors([]byte("tests: 5\n"), "vectors.yaml")
	require.Error(t, err)
	le, ok := IsLoadError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeSchema, le.Code)
}

func TestParseVectors_BadCellExpression(t *testing.T) {
	doc := `tests:
  - name: broken
    signals: [A]
    rows:
      - cells: ["1 +"]
`
	_, err := ParseVectors([]byte(doc), "vectors.yaml")
	require.Error(t, err)
	le, ok := IsLoadError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeExpression, le.Code)
	assert.Contains(t, le.Message, "broken")
}

func TestParseVectors_CellCountMismatch(t *testing.T) {
	doc := `tests:
  - signals: [A, Y]
    rows:
      - cells: [1]
`
	_, err := ParseVectors([]byte(doc), "vectors.yaml")
	require.Error(t, err)
	le, ok := IsLoadError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeInvalid, le.Code)
}

const circuitYAML = `inputs:
  - name: A
    bits: 8
outputs:
  - name: Y
    bits: 16
    expr: get2421(A)
tests:
  - name: embedded
    signals: [A, Y]
    rows:
      - cells: [5, 11]
`

func TestParseCircuit(t *testing.T) {
	circuit, err := ParseCircuit([]byte(circuitYAML), "bcd.yaml")
	require.NoError(t, err)

	assert.True(t, circuit.Sim.HasInput("A"))
	outs := circuit.Sim.ReadOutputs()
	require.Contains(t, outs, "Y")
	assert.False(t, outs["Y"].IsDefined(), "outputs are undefined before the first settle")

	require.Len(t, circuit.Tests, 1)
	assert.Equal(t, "embedded", circuit.Tests[0].Label)
}

func TestParseCircuit_NoOutputs(t *testing.T) {
	doc := `inputs:
  - name: A
    bits: 8
outputs: []
`
	_, err := ParseCircuit([]byte(doc), "c.yaml")
	require.Error(t, err)
	le, ok := IsLoadError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeInvalid, le.Code)
}

func TestParseCircuit_BadOutputExpression(t *testing.T) {
	doc := `outputs:
  - name: Y
    bits: 8
    expr: "frobnicate(A)"
`
	_, err := ParseCircuit([]byte(doc), "c.yaml")
	require.Error(t, err)
	le, ok := IsLoadError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeExpression, le.Code)
}

func TestParseCircuit_BitsOutOfRange(t *testing.T) {
	doc := `outputs:
  - name: Y
    bits: 99
    expr: "1"
`
	_, err := ParseCircuit([]byte(doc), "c.yaml")
	require.Error(t, err)
	le, ok := IsLoadError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeSchema, le.Code)
}

func TestLoadVectors_MissingFile(t *testing.T) {
	_, err := LoadVectors(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	le, ok := IsLoadError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeNotFound, le.Code)
}

func TestLoadCircuit_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bcd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(circuitYAML), 0o644))

	circuit, err := LoadCircuit(path)
	require.NoError(t, err)
	assert.True(t, circuit.Sim.HasInput("A"))
}
