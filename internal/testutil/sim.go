package testutil

import (
	"github.com/vectorbench/vectorbench/internal/sim"
	"github.com/vectorbench/vectorbench/internal/value"
)

// ScriptedSim is a Simulation test double with programmable behavior.
//
// Outputs are computed by the Compute callback from the currently applied
// inputs; faults can be scheduled for a specific settle call. The zero
// behaviors are benign: no fault, no outputs.
type ScriptedSim struct {
	// InputPorts lists the inputs the simulation exposes, with widths.
	InputPorts map[string]int

	// Compute derives the output map from the applied inputs on Settle.
	Compute func(inputs map[string]value.Value) map[string]value.Value

	// FaultOnSettle schedules a fault for the Nth settle call (1-based).
	FaultOnSettle int

	// Fault is the fault returned by the scheduled settle call.
	Fault *sim.Fault

	// Applied records every ApplyInputs call, in order.
	Applied []map[string]value.Value

	inputs  map[string]value.Value
	outputs map[string]value.Value
	settles int
}

// NewScriptedSim creates a scripted simulation over the given input ports.
func NewScriptedSim(inputPorts map[string]int) *ScriptedSim {
	return &ScriptedSim{
		InputPorts: inputPorts,
		inputs:     make(map[string]value.Value),
		outputs:    make(map[string]value.Value),
	}
}

// WithOutputs pre-declares output ports so direction discovery sees them
// before the first settle.
func (s *ScriptedSim) WithOutputs(names ...string) *ScriptedSim {
	for _, name := range names {
		s.outputs[name] = value.HighZValue(1)
	}
	return s
}

// ApplyInputs implements sim.Simulation.
func (s *ScriptedSim) ApplyInputs(inputs map[string]value.Value) *sim.Fault {
	for name := range inputs {
		if _, ok := s.InputPorts[name]; !ok {
			return sim.NewFault(sim.FaultUnsupported, "no such input", name)
		}
	}
	applied := make(map[string]value.Value, len(inputs))
	for name, v := range inputs {
		tv := value.Of(v.Int64(), s.InputPorts[name])
		s.inputs[name] = tv
		applied[name] = tv
	}
	s.Applied = append(s.Applied, applied)
	return nil
}

// Settle implements sim.Simulation.
func (s *ScriptedSim) Settle() *sim.Fault {
	s.settles++
	if s.FaultOnSettle != 0 && s.settles == s.FaultOnSettle {
		return s.Fault
	}
	if s.Compute != nil {
		s.outputs = s.Compute(s.inputs)
	}
	return nil
}

// ReadOutputs implements sim.Simulation.
func (s *ScriptedSim) ReadOutputs() map[string]value.Value {
	outs := make(map[string]value.Value, len(s.outputs))
	for name, v := range s.outputs {
		outs[name] = v
	}
	return outs
}

// Settles returns how many settle calls have happened.
func (s *ScriptedSim) Settles() int { return s.settles }
