package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vectorbench/vectorbench/internal/report"
	"github.com/vectorbench/vectorbench/internal/store"
)

const incrementCircuit = `inputs:
  - name: A
    bits: 4
outputs:
  - name: Y
    bits: 4
    expr: A + 1
tests:
  - name: increment
    signals: [A, Y]
    rows:
      - cells: [1, 2]
      - cells: [2, 3]
`

const failingVectors = `tests:
  - name: wrong
    signals: [A, Y]
    rows:
      - cells: [1, 3]
`

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTestCommand_EmbeddedTestsPass(t *testing.T) {
	circuit := writeFixture(t, "inc.yaml", incrementCircuit)

	out, err := executeCommand(t, "test", circuit)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ increment")
	assert.Contains(t, out, "✓ All test cases passed")
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestTestCommand_VectorsFileFailure(t *testing.T) {
	circuit := writeFixture(t, "inc.yaml", incrementCircuit)
	vectors := writeFixture(t, "vectors.yaml", failingVectors)

	out, err := executeCommand(t, "test", circuit, vectors)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ wrong")
	assert.Contains(t, out, "0 passed, 1 failed, 1 total")
}

func TestTestCommand_NoTestCases(t *testing.T) {
	circuit := writeFixture(t, "bare.yaml", `outputs:
  - name: Y
    bits: 4
    expr: "1"
`)

	out, err := executeCommand(t, "test", circuit)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "no test cases given")
}

func TestTestCommand_MissingCircuit(t *testing.T) {
	_, err := executeCommand(t, "test", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommand_JSONReportFile(t *testing.T) {
	circuit := writeFixture(t, "inc.yaml", incrementCircuit)
	reportPath := filepath.Join(t.TempDir(), "report.json")

	_, err := executeCommand(t, "test", circuit, "--json-output", reportPath)
	require.NoError(t, err)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("[")))
	assert.Contains(t, string(data), `"status":"PASSED"`)
	assert.Contains(t, string(data), `"testName":"increment"`)
}

func TestTestCommand_ReportTestFileNames(t *testing.T) {
	circuit := writeFixture(t, "inc.yaml", incrementCircuit)
	dir := t.TempDir()

	// Embedded tests come from the circuit file, so the report names it as
	// the test source too.
	embeddedReport := filepath.Join(dir, "embedded.json")
	_, err := executeCommand(t, "test", circuit, "--json-output", embeddedReport)
	require.NoError(t, err)

	var entries []report.Entry
	data, err := os.ReadFile(embeddedReport)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, circuit, entries[0].FileName)
	assert.Equal(t, circuit, entries[0].TestFileName)

	// An explicit vectors file is named as given.
	vectors := writeFixture(t, "vectors.yaml", failingVectors)
	vectorsReport := filepath.Join(dir, "vectors.json")
	_, err = executeCommand(t, "test", circuit, vectors, "--json-output", vectorsReport)
	require.Error(t, err)

	data, err = os.ReadFile(vectorsReport)
	require.NoError(t, err)
	entries = nil
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, circuit, entries[0].FileName)
	assert.Equal(t, vectors, entries[0].TestFileName)
}

func TestTestCommand_NoTestCasesJSONFormat(t *testing.T) {
	circuit := writeFixture(t, "bare.yaml", `outputs:
  - name: Y
    bits: 4
    expr: "1"
`)

	out, err := executeCommand(t, "test", circuit, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var response CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &response))
	assert.Equal(t, "error", response.Status)
	require.NotNil(t, response.Error)
	assert.Equal(t, "E_NO_TESTS", response.Error.Code)
	assert.Equal(t, "no test cases given", response.Error.Message)
}

func TestTestCommand_CSVAndHistory(t *testing.T) {
	circuit := writeFixture(t, "inc.yaml", incrementCircuit)
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "summary.csv")
	dbPath := filepath.Join(dir, "history.db")

	_, err := executeCommand(t, "test", circuit, "--csv-output", csvPath, "--db", dbPath)
	require.NoError(t, err)

	csvData, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(csvData), "testName,status,elapsedTimeMs,errorMessage")
	assert.Contains(t, string(csvData), "increment,PASSED")

	s, err := store.Open(dbPath)
	require.NoError(t, err)
	defer s.Close()

	runs, err := s.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 1, runs[0].Passed)
	assert.Equal(t, 0, runs[0].Failed)
	assert.Equal(t, circuit, runs[0].CircuitFile)
}

func TestTestCommand_JSONFormat(t *testing.T) {
	circuit := writeFixture(t, "inc.yaml", incrementCircuit)

	out, err := executeCommand(t, "test", circuit, "--format", "json")
	require.NoError(t, err)

	var response CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &response))
	assert.Equal(t, "ok", response.Status)
}

func TestTestCommand_AllowMissingInputs(t *testing.T) {
	circuit := writeFixture(t, "inc.yaml", incrementCircuit)
	vectors := writeFixture(t, "extra.yaml", `tests:
  - name: extra signal
    signals: [A, B, Y]
    rows:
      - cells: [1, 0, 2]
`)

	// Without the flag the unknown input fails the test case.
	out, err := executeCommand(t, "test", circuit, vectors)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ extra signal")

	// With the flag the extra column is skipped and the case passes.
	out, err = executeCommand(t, "test", circuit, vectors, "--allow-missing-inputs")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ extra signal")
}
