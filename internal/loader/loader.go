// Package loader reads circuit and test vector documents from YAML.
//
// Documents are validated twice: against an embedded CUE schema (shape and
// ranges) and with strict YAML decoding (unknown fields are typos, not
// extensions). Cell entries are compiled to expressions at load time, so a
// malformed cell fails the load rather than the run.
package loader

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strconv"

	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"

	"github.com/vectorbench/vectorbench/internal/expr"
	"github.com/vectorbench/vectorbench/internal/sim"
	"github.com/vectorbench/vectorbench/internal/vector"
)

//go:embed schema/vectors.cue
var vectorsSchema string

//go:embed schema/circuit.cue
var circuitSchema string

// Circuit is a loaded circuit document: the simulation built from its port
// declarations plus any test vectors embedded in the same file.
type Circuit struct {
	Sim   *sim.ExprSim
	Tests []vector.TestCase
}

// LoadVectors reads a test vector document from path.
func LoadVectors(path string) ([]vector.TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "cannot read vectors file", Err: err}
	}
	return ParseVectors(data, path)
}

// ParseVectors parses a test vector document. path is used in diagnostics
// only.
func ParseVectors(data []byte, path string) ([]vector.TestCase, error) {
	if err := validateSchema(data, vectorsSchema, path); err != nil {
		return nil, err
	}

	var doc vectorDoc
	if err := strictDecode(data, &doc, path); err != nil {
		return nil, err
	}

	return compileTests(doc.Tests, path)
}

// LoadCircuit reads a circuit document from path.
func LoadCircuit(path string) (*Circuit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "cannot read circuit file", Err: err}
	}
	return ParseCircuit(data, path)
}

// ParseCircuit parses a circuit document. path is used in diagnostics only.
func ParseCircuit(data []byte, path string) (*Circuit, error) {
	if err := validateSchema(data, circuitSchema, path); err != nil {
		return nil, err
	}

	var doc circuitDoc
	if err := strictDecode(data, &doc, path); err != nil {
		return nil, err
	}

	if len(doc.Outputs) == 0 {
		return nil, &LoadError{Code: ErrCodeInvalid, Path: path, Message: "circuit declares no outputs"}
	}

	inputs := make([]sim.Signal, 0, len(doc.Inputs))
	for _, in := range doc.Inputs {
		inputs = append(inputs, sim.Signal{Name: in.Name, Bits: in.Bits})
	}

	outputs := make([]sim.Output, 0, len(doc.Outputs))
	for _, out := range doc.Outputs {
		e, err := expr.Parse(out.Expr)
		if err != nil {
			return nil, &LoadError{
				Code:    ErrCodeExpression,
				Path:    path,
				Message: fmt.Sprintf("output %q: bad expression %q", out.Name, out.Expr),
				Err:     err,
			}
		}
		outputs = append(outputs, sim.Output{Name: out.Name, Bits: out.Bits, Expr: e})
	}

	s, err := sim.NewExprSim(inputs, outputs)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeInvalid, Path: path, Message: "bad port declarations", Err: err}
	}

	tests, err := compileTests(doc.Tests, path)
	if err != nil {
		return nil, err
	}

	return &Circuit{Sim: s, Tests: tests}, nil
}

// --- document shapes ---

type vectorDoc struct {
	Tests []testDoc `yaml:"tests"`
}

type circuitDoc struct {
	Inputs  []portDoc   `yaml:"inputs"`
	Outputs []outputDoc `yaml:"outputs"`
	Tests   []testDoc   `yaml:"tests,omitempty"`
}

type portDoc struct {
	Name string `yaml:"name"`
	Bits int    `yaml:"bits"`
}

type outputDoc struct {
	Name string `yaml:"name"`
	Bits int    `yaml:"bits"`
	Expr string `yaml:"expr"`
}

type testDoc struct {
	Name    string   `yaml:"name,omitempty"`
	Signals []string `yaml:"signals"`
	Rows    []rowDoc `yaml:"rows"`
}

type rowDoc struct {
	Time  scalarText `yaml:"time,omitempty"`
	Cells []cellDoc  `yaml:"cells"`
}

// scalarText accepts any YAML scalar (quoted or not) as its source text, so
// `time: 0` and `time: "rising edge"` both work.
type scalarText string

func (s *scalarText) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar", node.Line)
	}
	*s = scalarText(node.Value)
	return nil
}

// cellDoc is one row cell as written: a bare number, a "don't care" marker
// (x, X or -), or an expression string.
type cellDoc struct {
	text string
}

func (c *cellDoc) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: cell must be a number or a string", node.Line)
	}
	c.text = node.Value
	return nil
}

func (c cellDoc) compile() (vector.Cell, error) {
	switch c.text {
	case "x", "X", "-":
		return vector.DontCareCell(), nil
	}
	e, err := expr.Parse(c.text)
	if err != nil {
		return vector.Cell{}, err
	}
	return vector.ExprCell(e, c.text), nil
}

// --- compilation ---

func compileTests(docs []testDoc, path string) ([]vector.TestCase, error) {
	cases := make([]vector.TestCase, 0, len(docs))
	for _, doc := range docs {
		tc, err := doc.compile(path)
		if err != nil {
			return nil, err
		}
		cases = append(cases, tc)
	}
	return cases, nil
}

func (d testDoc) compile(path string) (vector.TestCase, error) {
	tc := vector.TestCase{
		Label:   d.Name,
		Signals: d.Signals,
	}

	for i, row := range d.Rows {
		desc := string(row.Time)
		if desc == "" {
			desc = strconv.Itoa(i)
		}

		cells := make([]vector.Cell, 0, len(row.Cells))
		for j, cell := range row.Cells {
			compiled, err := cell.compile()
			if err != nil {
				return vector.TestCase{}, &LoadError{
					Code:    ErrCodeExpression,
					Path:    path,
					Message: fmt.Sprintf("test %q row %d cell %d: bad expression %q", tc.DisplayName(), i, j, cell.text),
					Err:     err,
				}
			}
			cells = append(cells, compiled)
		}
		tc.Rows = append(tc.Rows, vector.Row{Description: desc, Cells: cells})
	}

	if err := tc.Validate(); err != nil {
		return vector.TestCase{}, &LoadError{Code: ErrCodeInvalid, Path: path, Message: "invalid test case", Err: err}
	}
	return tc, nil
}

// --- validation plumbing ---

// validateSchema checks the raw document against the embedded CUE schema
// before decoding. Schema errors carry CUE's field-level positions, which
// beat yaml.v3's type errors for diagnosing a bad document.
func validateSchema(data []byte, schemaSrc, path string) error {
	schema := cuecontext.New().CompileString(schemaSrc)
	if err := schema.Err(); err != nil {
		return &LoadError{Code: ErrCodeSchema, Path: path, Message: "schema failed to compile", Err: err}
	}
	if err := cueyaml.Validate(data, schema); err != nil {
		return &LoadError{Code: ErrCodeSchema, Path: path, Message: "document does not match schema", Err: err}
	}
	return nil
}

func strictDecode(data []byte, out any, path string) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return &LoadError{Code: ErrCodeParse, Path: path, Message: "failed to parse YAML", Err: err}
	}
	return nil
}
