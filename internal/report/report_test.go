package report

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vectorbench/vectorbench/internal/engine"
	"github.com/vectorbench/vectorbench/internal/expr"
	"github.com/vectorbench/vectorbench/internal/sim"
	"github.com/vectorbench/vectorbench/internal/testutil"
	"github.com/vectorbench/vectorbench/internal/vector"
)

func exprCell(t *testing.T, src string) vector.Cell {
	t.Helper()
	e, err := expr.Parse(src)
	require.NoError(t, err)
	return vector.ExprCell(e, src)
}

func newBCDSim(t *testing.T) *sim.ExprSim {
	t.Helper()
	enc, err := expr.Parse("get2421(A)")
	require.NoError(t, err)
	s, err := sim.NewExprSim(
		[]sim.Signal{{Name: "A", Bits: 8}},
		[]sim.Output{{Name: "Y", Bits: 16, Expr: enc}},
	)
	require.NoError(t, err)
	return s
}

func bcdOutcomes(t *testing.T) []engine.CaseOutcome {
	t.Helper()
	cases := []vector.TestCase{
		{
			Label:   "bcd encode",
			Signals: []string{"A", "Y"},
			Rows: []vector.Row{
				{Description: "0", Cells: []vector.Cell{vector.LiteralCell(5), exprCell(t, "11")}},
				{Description: "1", Cells: []vector.Cell{vector.LiteralCell(19), exprCell(t, "31")}},
			},
		},
		{
			Label:   "mismatch",
			Signals: []string{"A", "Y"},
			Rows: []vector.Row{
				{Description: "0", Cells: []vector.Cell{vector.LiteralCell(5), exprCell(t, "0")}},
			},
		},
	}

	runner := engine.NewBatchRunner(engine.NewExecutor(engine.Options{}), nil)
	runner.SetClock(testutil.NewStepClock(5).NowMs)
	return runner.Run(cases, newBCDSim(t))
}

func TestBuild_RendersTimesteps(t *testing.T) {
	entries := Build(bcdOutcomes(t), "bcd.yaml", "vectors.yaml")
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, "bcd encode", first.TestName)
	assert.Equal(t, "bcd.yaml", first.FileName)
	assert.Equal(t, "vectors.yaml", first.TestFileName)
	assert.Equal(t, StatusPassed, first.Status)
	assert.Empty(t, first.ErrorMessage)
	assert.Equal(t, int64(5), first.ElapsedTimeMs)
	assert.Equal(t, []string{"A", "Y"}, first.SignalNames)

	require.Len(t, first.Timesteps, 2)
	assert.Equal(t, "0", first.Timesteps[0].Time)
	assert.Equal(t, [][2]string{{"5", "5"}, {"0xb", "0xb"}}, first.Timesteps[0].Signals)
	assert.Equal(t, [][2]string{{"19", "19"}, {"0x1f", "0x1f"}}, first.Timesteps[1].Signals)

	second := entries[1]
	assert.Equal(t, StatusFailed, second.Status)
	assert.Empty(t, second.ErrorMessage, "a plain mismatch carries no error message")
	require.Len(t, second.Timesteps, 1)
	assert.Equal(t, [2]string{"0xb", "0"}, second.Timesteps[0].Signals[1])

	assert.Equal(t, 1, FailedCount(entries))
}

func TestBuild_ExecutionError(t *testing.T) {
	outcome := engine.CaseOutcome{
		Name: "empty",
		Err:  engine.NewNoRowsError("empty"),
	}

	entries := Build([]engine.CaseOutcome{outcome}, "c.yaml", "")
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, StatusFailed, entry.Status)
	assert.Contains(t, entry.ErrorMessage, "no")
	assert.Empty(t, entry.SignalNames)
	assert.Empty(t, entry.Timesteps)
}

func TestBuild_SimulationFault(t *testing.T) {
	scripted := testutil.NewScriptedSim(map[string]int{"A": 8}).WithOutputs("Y")
	scripted.FaultOnSettle = 1
	scripted.Fault = sim.NewFault(sim.FaultOscillation, "no steady state", "Y")

	tc := vector.TestCase{
		Label:   "oscillating",
		Signals: []string{"A", "Y"},
		Rows: []vector.Row{
			{Description: "0", Cells: []vector.Cell{vector.LiteralCell(1), exprCell(t, "1")}},
		},
	}

	runner := engine.NewBatchRunner(engine.NewExecutor(engine.Options{}), nil)
	runner.SetClock(testutil.NewStepClock(5).NowMs)
	outcomes := runner.Run([]vector.TestCase{tc}, scripted)

	entries := Build(outcomes, "c.yaml", "")
	require.Len(t, entries, 1)
	assert.Equal(t, StatusFailed, entries[0].Status)
	assert.Equal(t, ErrorOccurredMessage, entries[0].ErrorMessage)
	assert.Empty(t, entries[0].Timesteps, "the faulted row records no timestep")
}

func TestMarshal_Golden(t *testing.T) {
	entries := Build(bcdOutcomes(t), "bcd.yaml", "vectors.yaml")

	data, err := Marshal(entries)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "batch_report", data)
}

func TestMarshal_Deterministic(t *testing.T) {
	entries := Build(bcdOutcomes(t), "bcd.yaml", "vectors.yaml")

	first, err := Marshal(entries)
	require.NoError(t, err)
	second, err := Marshal(entries)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestWriteSummaryCSV(t *testing.T) {
	entries := Build(bcdOutcomes(t), "bcd.yaml", "vectors.yaml")

	var buf bytes.Buffer
	require.NoError(t, WriteSummaryCSV(&buf, entries))

	want := "testName,status,elapsedTimeMs,errorMessage\n" +
		"bcd encode,PASSED,5,\n" +
		"mismatch,FAILED,5,\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteTableCSV(t *testing.T) {
	entries := Build(bcdOutcomes(t), "bcd.yaml", "vectors.yaml")

	var buf bytes.Buffer
	require.NoError(t, WriteTableCSV(&buf, entries[1]))

	want := "time,A,Y\n" +
		"0,5,0xb (expected 0)\n"
	assert.Equal(t, want, buf.String())
}
