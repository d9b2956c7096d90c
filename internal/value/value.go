package value

import "fmt"

// State describes the validity of a signal value.
//
// A value read from a settled circuit is usually Defined. HighZ marks a
// signal that carries no driven value (undefined), Error marks a signal
// that could not be resolved (e.g. conflicting drivers).
type State int

const (
	// Defined means the magnitude is valid for the full bit width.
	Defined State = iota
	// HighZ means the signal is undriven; the magnitude is meaningless.
	HighZ
	// Error means the signal is in an error state; the magnitude is meaningless.
	Error
)

// MaxBits is the widest signal the engine supports.
const MaxBits = 64

// Value is an immutable signal value: an unsigned magnitude tagged with a
// bit width and a validity state.
//
// Magnitudes are always stored truncated to the bit width (modular
// truncation, see Of). This is a deliberate policy: values wider than the
// declared width are reduced modulo 2^bits rather than rejected.
type Value struct {
	magnitude uint64
	bits      int
	state     State
}

// Of creates a defined value, truncating the magnitude to the given width.
//
// The magnitude is interpreted as a two's-complement bit pattern: negative
// inputs are masked the same way as positive ones, so Of(-1, 4) yields 0xf.
// Widths outside [1, MaxBits] are clamped to that range.
func Of(magnitude int64, bits int) Value {
	if bits < 1 {
		bits = 1
	}
	if bits > MaxBits {
		bits = MaxBits
	}
	return Value{
		magnitude: uint64(magnitude) & Mask(bits),
		bits:      bits,
		state:     Defined,
	}
}

// HighZValue creates an undriven value of the given width.
func HighZValue(bits int) Value {
	v := Of(0, bits)
	v.state = HighZ
	return v
}

// ErrorValue creates an error-state value of the given width.
func ErrorValue(bits int) Value {
	v := Of(0, bits)
	v.state = Error
	return v
}

// Mask returns the bit mask covering the given width.
func Mask(bits int) uint64 {
	if bits >= MaxBits {
		return ^uint64(0)
	}
	return (uint64(1) << uint(bits)) - 1
}

// Magnitude returns the unsigned magnitude, already truncated to Bits().
func (v Value) Magnitude() uint64 { return v.magnitude }

// Int64 returns the magnitude reinterpreted as a signed 64-bit integer.
// This is the representation the expression engine computes with.
func (v Value) Int64() int64 { return int64(v.magnitude) }

// Bits returns the bit width.
func (v Value) Bits() int { return v.bits }

// State returns the validity state.
func (v Value) State() State { return v.state }

// IsDefined reports whether the value carries a valid magnitude.
func (v Value) IsDefined() bool { return v.state == Defined }

// Equal reports numeric equality: both values must be defined and agree in
// magnitude and bit width. An undefined or error value equals nothing,
// including itself.
func (v Value) Equal(o Value) bool {
	return v.state == Defined && o.state == Defined &&
		v.bits == o.bits && v.magnitude == o.magnitude
}

// String renders the value's own textual form: the magnitude in decimal for
// defined values, "Z" for high-impedance, "E" for error.
func (v Value) String() string {
	switch v.state {
	case HighZ:
		return "Z"
	case Error:
		return "E"
	default:
		return fmt.Sprintf("%d", v.magnitude)
	}
}
