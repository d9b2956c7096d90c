package sim

import (
	"fmt"
	"strings"
)

// ErrorDetector accumulates faults raised while executing one test case.
// The executor records every fault a simulation returns and checks the
// detector once at the end of the run. Reset per test case.
type ErrorDetector struct {
	faults []*Fault
}

// NewErrorDetector creates an empty detector.
func NewErrorDetector() *ErrorDetector {
	return &ErrorDetector{}
}

// Record appends a fault. Nil faults are ignored.
func (d *ErrorDetector) Record(f *Fault) {
	if f != nil {
		d.faults = append(d.faults, f)
	}
}

// Faults returns the recorded faults in the order they occurred.
func (d *ErrorDetector) Faults() []*Fault {
	return d.faults
}

// Check fails with a FaultList if any fault was recorded.
func (d *ErrorDetector) Check() error {
	if len(d.faults) == 0 {
		return nil
	}
	return &FaultList{Faults: d.faults}
}

// Reset clears all recorded faults.
func (d *ErrorDetector) Reset() {
	d.faults = nil
}

// FaultList is the aggregate error returned by Check.
type FaultList struct {
	Faults []*Fault
}

// Error implements the error interface.
func (l *FaultList) Error() string {
	if len(l.Faults) == 1 {
		return l.Faults[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d fault(s) detected:", len(l.Faults))
	for _, f := range l.Faults {
		fmt.Fprintf(&b, "\n  %s", f.Error())
	}
	return b.String()
}
