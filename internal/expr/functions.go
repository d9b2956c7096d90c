package expr

import (
	"fmt"
	"math/bits"

	"github.com/vectorbench/vectorbench/internal/value"
)

// Function is a named, fixed-arity, pure computation over evaluated
// arguments. A function may read variables from the Context but must not
// mutate it.
type Function struct {
	// Name is the registration name, as written in expression source.
	Name string

	// Arity is the exact argument count. Checked at call construction.
	Arity int

	eval func(c *Context, args []int64) (int64, error)
}

// builtins is the closed registry of built-in functions.
// Dispatch is by table lookup; there is no subclassing or reflection.
var builtins = map[string]*Function{}

func register(name string, arity int, eval func(*Context, []int64) (int64, error)) {
	builtins[name] = &Function{Name: name, Arity: arity, eval: eval}
}

// Lookup returns the registered function for name.
func Lookup(name string) (*Function, bool) {
	fn, ok := builtins[name]
	return fn, ok
}

func init() {
	// Arithmetic.
	register("add", 2, func(_ *Context, a []int64) (int64, error) { return a[0] + a[1], nil })
	register("sub", 2, func(_ *Context, a []int64) (int64, error) { return a[0] - a[1], nil })
	register("mul", 2, func(_ *Context, a []int64) (int64, error) { return a[0] * a[1], nil })
	register("neg", 1, func(_ *Context, a []int64) (int64, error) { return -a[0], nil })
	register("div", 2, func(_ *Context, a []int64) (int64, error) {
		if a[1] == 0 {
			return 0, &EvalError{Code: ErrCodeDivisionByZero, Message: "division by zero", Name: "div"}
		}
		return a[0] / a[1], nil
	})
	register("mod", 2, func(_ *Context, a []int64) (int64, error) {
		if a[1] == 0 {
			return 0, &EvalError{Code: ErrCodeDivisionByZero, Message: "division by zero", Name: "mod"}
		}
		return a[0] % a[1], nil
	})

	// Bitwise.
	register("and", 2, func(_ *Context, a []int64) (int64, error) { return a[0] & a[1], nil })
	register("or", 2, func(_ *Context, a []int64) (int64, error) { return a[0] | a[1], nil })
	register("xor", 2, func(_ *Context, a []int64) (int64, error) { return a[0] ^ a[1], nil })
	register("not", 1, func(_ *Context, a []int64) (int64, error) { return ^a[0], nil })
	register("shl", 2, shiftLeft)
	register("shr", 2, shiftRight)

	// Selection and width helpers.
	register("min", 2, func(_ *Context, a []int64) (int64, error) {
		if a[0] < a[1] {
			return a[0], nil
		}
		return a[1], nil
	})
	register("max", 2, func(_ *Context, a []int64) (int64, error) {
		if a[0] > a[1] {
			return a[0], nil
		}
		return a[1], nil
	})
	register("ite", 3, func(_ *Context, a []int64) (int64, error) {
		if a[0] != 0 {
			return a[1], nil
		}
		return a[2], nil
	})
	register("signext", 2, signExtend)
	register("bitcount", 1, func(_ *Context, a []int64) (int64, error) {
		return int64(bits.OnesCount64(uint64(a[0]))), nil
	})

	// Format conversions.
	register("get2421", 1, func(_ *Context, a []int64) (int64, error) {
		return Decimal2421(a[0])
	})
}

// shiftLeft shifts a[0] left by a[1] bits. Negative or oversized shift
// counts are outside the domain.
func shiftLeft(_ *Context, a []int64) (int64, error) {
	if a[1] < 0 || a[1] >= value.MaxBits {
		return 0, NewInvalidArgumentError("shl", fmt.Sprintf("shift count out of range: %d", a[1]))
	}
	return a[0] << uint(a[1]), nil
}

// shiftRight performs a logical right shift of a[0] by a[1] bits.
// The magnitude is treated as an unsigned bit pattern.
func shiftRight(_ *Context, a []int64) (int64, error) {
	if a[1] < 0 || a[1] >= value.MaxBits {
		return 0, NewInvalidArgumentError("shr", fmt.Sprintf("shift count out of range: %d", a[1]))
	}
	return int64(uint64(a[0]) >> uint(a[1])), nil
}

// signExtend interprets a[1] as a value of width a[0] and extends its sign
// bit to the full 64-bit representation.
func signExtend(_ *Context, a []int64) (int64, error) {
	width := a[0]
	if width < 1 || width > value.MaxBits {
		return 0, NewInvalidArgumentError("signext", fmt.Sprintf("bit width out of range: %d", width))
	}
	if width == value.MaxBits {
		return a[1], nil
	}
	v := uint64(a[1]) & value.Mask(int(width))
	if v&(uint64(1)<<uint(width-1)) != 0 {
		v |= ^value.Mask(int(width))
	}
	return int64(v), nil
}

// encoding2421 maps a decimal digit to its 4-bit 2421 code.
var encoding2421 = [10]int64{
	0b0000, 0b0001, 0b0010, 0b0011, 0b0100,
	0b1011, 0b1100, 0b1101, 0b1110, 0b1111,
}

// Decimal2421 converts a non-negative decimal integer to its packed 2421
// BCD code: each decimal digit maps through encoding2421 to a 4-bit code,
// packed least-significant digit first (digit i at bit offset 4*i).
//
// The transform is a deterministic table lookup plus shift/OR. Fails with
// INVALID_ARGUMENT for negative input, or when the packed result would not
// fit 64 bits (more than 16 decimal digits).
func Decimal2421(n int64) (int64, error) {
	if n < 0 {
		return 0, NewInvalidArgumentError("get2421", fmt.Sprintf("value must be non-negative, got %d", n))
	}

	var result int64
	shift := uint(0)
	for n != 0 {
		if shift >= value.MaxBits {
			return 0, NewInvalidArgumentError("get2421", "value has too many decimal digits to encode")
		}
		result |= encoding2421[n%10] << shift
		n /= 10
		shift += 4
	}
	return result, nil
}
