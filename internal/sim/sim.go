// Package sim defines the contract the test executor drives: a stepping
// circuit simulation with explicit fault reporting, plus a fault-collecting
// ErrorDetector and an expression-driven reference implementation.
//
// Faults are returned directly from ApplyInputs and Settle rather than
// delivered through observer callbacks, so there are no listener lifetimes
// to manage; the executor records returned faults into an ErrorDetector and
// checks it once per test case.
package sim

import (
	"fmt"

	"github.com/vectorbench/vectorbench/internal/value"
)

// FaultKind categorizes runtime simulation faults.
type FaultKind string

const (
	// FaultOscillation means the circuit did not reach a stable state.
	FaultOscillation FaultKind = "OSCILLATION"

	// FaultShortCircuit means conflicting drivers were detected.
	FaultShortCircuit FaultKind = "SHORT_CIRCUIT"

	// FaultUnsupported means an operation referenced something the
	// simulation does not expose (e.g. an unknown input signal).
	FaultUnsupported FaultKind = "UNSUPPORTED"
)

// Fault is a runtime condition reported by a simulation operation.
type Fault struct {
	// Kind identifies the fault category.
	Kind FaultKind

	// Message is a human-readable description.
	Message string

	// Signal names the signal involved, if any.
	Signal string
}

// Error implements the error interface.
func (f *Fault) Error() string {
	if f.Signal != "" {
		return fmt.Sprintf("%s: %s (signal=%s)", f.Kind, f.Message, f.Signal)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// NewFault creates a fault of the given kind.
func NewFault(kind FaultKind, message, signal string) *Fault {
	return &Fault{Kind: kind, Message: message, Signal: signal}
}

// Simulation is the stepping device the executor drives, one row at a time:
// apply inputs, settle, read outputs. Implementations expose step-wise
// mutable state and must never be shared between concurrent runs.
type Simulation interface {
	// ApplyInputs writes the given input values. Returns a Fault of kind
	// FaultUnsupported (naming the signal) when an input does not exist;
	// in that case no partial state change is observable.
	ApplyInputs(inputs map[string]value.Value) *Fault

	// Settle propagates the applied inputs to a stable state. Bounding
	// oscillation detection (and any timeout) is the simulation's job.
	Settle() *Fault

	// ReadOutputs returns the current output values. Only meaningful after
	// a successful Settle.
	ReadOutputs() map[string]value.Value
}
