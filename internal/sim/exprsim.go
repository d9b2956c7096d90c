package sim

import (
	"fmt"

	"github.com/vectorbench/vectorbench/internal/expr"
	"github.com/vectorbench/vectorbench/internal/value"
)

// Signal declares an input port: a name and a bit width.
type Signal struct {
	Name string
	Bits int
}

// Output declares an output port computed from the current inputs.
type Output struct {
	Name string
	Bits int

	// Expr computes the output from the input bindings on Settle.
	Expr expr.Expression
}

// ExprSim is the reference Simulation: a combinational circuit whose
// outputs are expressions over its inputs. It stands in for the external
// event-driven propagation model, which stays out of scope; the contract
// it satisfies is the same one that model would.
//
// Settle is bounded by construction (one evaluation pass per output), so
// oscillation cannot occur here. An evaluation failure surfaces as a
// short-circuit fault and leaves the affected output in the error state.
type ExprSim struct {
	inputs  []Signal
	outputs []Output

	state   map[string]value.Value // current input values
	settled map[string]value.Value // output values from the last Settle
}

// NewExprSim creates a simulation over the given ports. Inputs start at
// zero. Fails if an input and an output share a name.
func NewExprSim(inputs []Signal, outputs []Output) (*ExprSim, error) {
	s := &ExprSim{
		inputs:  inputs,
		outputs: outputs,
		state:   make(map[string]value.Value, len(inputs)),
		settled: make(map[string]value.Value, len(outputs)),
	}
	names := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		if names[in.Name] {
			return nil, fmt.Errorf("duplicate input %q", in.Name)
		}
		names[in.Name] = true
		s.state[in.Name] = value.Of(0, in.Bits)
	}
	for _, out := range outputs {
		if names[out.Name] {
			return nil, fmt.Errorf("port %q declared as both input and output", out.Name)
		}
		names[out.Name] = true
		s.settled[out.Name] = value.HighZValue(out.Bits)
	}
	return s, nil
}

// HasInput reports whether the simulation exposes the named input.
func (s *ExprSim) HasInput(name string) bool {
	_, ok := s.state[name]
	return ok
}

// ApplyInputs writes input values, truncating each to its declared width.
// Unknown signals fault with FaultUnsupported before any state changes.
func (s *ExprSim) ApplyInputs(inputs map[string]value.Value) *Fault {
	for name := range inputs {
		if !s.HasInput(name) {
			return NewFault(FaultUnsupported, "no such input", name)
		}
	}
	for name, v := range inputs {
		prev := s.state[name]
		s.state[name] = value.Of(v.Int64(), prev.Bits())
	}
	return nil
}

// Settle evaluates every output expression against the current inputs.
func (s *ExprSim) Settle() *Fault {
	ctx := expr.NewContext()
	for name, v := range s.state {
		ctx.Set(name, v)
	}

	for _, out := range s.outputs {
		got, err := out.Expr.Eval(ctx)
		if err != nil {
			s.settled[out.Name] = value.ErrorValue(out.Bits)
			return NewFault(FaultShortCircuit, fmt.Sprintf("output did not resolve: %v", err), out.Name)
		}
		s.settled[out.Name] = value.Of(got, out.Bits)
	}
	return nil
}

// ReadOutputs returns a copy of the settled output values.
func (s *ExprSim) ReadOutputs() map[string]value.Value {
	outs := make(map[string]value.Value, len(s.settled))
	for name, v := range s.settled {
		outs[name] = v
	}
	return outs
}
