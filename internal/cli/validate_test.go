package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommand_ValidCircuit(t *testing.T) {
	circuit := writeFixture(t, "inc.yaml", incrementCircuit)

	out, err := executeCommand(t, "validate", circuit)
	require.NoError(t, err)
	assert.Contains(t, out, "valid circuit document")
	assert.Contains(t, out, "1 embedded test(s)")
}

func TestValidateCommand_ValidVectors(t *testing.T) {
	vectors := writeFixture(t, "vectors.yaml", failingVectors)

	out, err := executeCommand(t, "validate", vectors, "--vectors")
	require.NoError(t, err)
	assert.Contains(t, out, "valid vectors document")
}

func TestValidateCommand_BadExpression(t *testing.T) {
	circuit := writeFixture(t, "bad.yaml", `outputs:
  - name: Y
    bits: 4
    expr: "frobnicate(A)"
`)

	out, err := executeCommand(t, "validate", circuit)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "EXPRESSION")
}

func TestValidateCommand_MissingFile(t *testing.T) {
	_, err := executeCommand(t, "validate", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestValidateCommand_MultipleFiles(t *testing.T) {
	good := writeFixture(t, "inc.yaml", incrementCircuit)
	bad := writeFixture(t, "bad.yaml", `outputs:
  - name: Y
    bits: 4
    expr: "1 +"
`)

	out, err := executeCommand(t, "validate", good, bad)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✓ "+good)
	assert.Contains(t, out, "✗ "+bad)
}

func TestValidateCommand_JSONFormat(t *testing.T) {
	circuit := writeFixture(t, "inc.yaml", incrementCircuit)

	out, err := executeCommand(t, "validate", circuit, "--format", "json")
	require.NoError(t, err)

	var response CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &response))
	assert.Equal(t, "ok", response.Status)
}
