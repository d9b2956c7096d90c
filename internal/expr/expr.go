// Package expr implements the test-vector expression language.
//
// Expressions are immutable trees of three node kinds: constants, variable
// references, and fixed-arity function calls. They evaluate to signed
// 64-bit integers against a per-run Context; bit-width truncation happens
// when a result is materialized into a signal value, not inside the tree.
//
// Function dispatch is a closed lookup table from name to a pure evaluation
// routine (see functions.go). Adding a function means adding a table entry.
// Argument counts are checked when a call node is built, so a tree that
// constructs successfully can never fail an arity check at runtime.
package expr

import "fmt"

// Expression is an immutable node evaluated against a Context.
// Only Constant, Variable, and Call implement it.
type Expression interface {
	// Eval computes the node's value in the given context.
	Eval(c *Context) (int64, error)

	// String renders the node in source form, for diagnostics.
	String() string
}

// Constant is a literal value node.
type Constant struct {
	v int64
}

// NewConstant creates a constant node.
func NewConstant(v int64) Constant {
	return Constant{v: v}
}

// Eval returns the literal value; it never fails.
func (e Constant) Eval(*Context) (int64, error) {
	return e.v, nil
}

func (e Constant) String() string {
	return fmt.Sprintf("%d", e.v)
}

// Variable is a reference to a named Context binding.
type Variable struct {
	name string
}

// NewVariable creates a variable reference node.
func NewVariable(name string) Variable {
	return Variable{name: name}
}

// Name returns the referenced variable name.
func (e Variable) Name() string { return e.name }

// Eval resolves the binding; fails with UNDEFINED_VARIABLE if absent.
func (e Variable) Eval(c *Context) (int64, error) {
	v, err := c.Get(e.name)
	if err != nil {
		return 0, err
	}
	return v.Int64(), nil
}

func (e Variable) String() string { return e.name }

// Call applies a registered function to an ordered argument list.
// The argument count is validated at construction time (NewCall);
// a Call node always agrees with its function's declared arity.
type Call struct {
	fn   *Function
	args []Expression
}

// NewCall builds a call node for the named function.
// Fails with UNKNOWN_FUNCTION if the name is not registered and with
// ARITY_MISMATCH if the argument count differs from the declared arity.
func NewCall(name string, args ...Expression) (Call, error) {
	fn, ok := Lookup(name)
	if !ok {
		return Call{}, &BuildError{
			Code:     ErrCodeUnknownFunction,
			Message:  "function is not registered",
			Function: name,
		}
	}
	if len(args) != fn.Arity {
		return Call{}, NewArityError(name, fn.Arity, len(args))
	}
	return Call{fn: fn, args: args}, nil
}

// MustCall is NewCall for statically known-good calls; it panics on error.
// Intended for tests and built-in table construction.
func MustCall(name string, args ...Expression) Call {
	call, err := NewCall(name, args...)
	if err != nil {
		panic(err)
	}
	return call
}

// Eval evaluates the arguments in order, then applies the function.
func (e Call) Eval(c *Context) (int64, error) {
	vals := make([]int64, len(e.args))
	for i, arg := range e.args {
		v, err := arg.Eval(c)
		if err != nil {
			return 0, err
		}
		vals[i] = v
	}
	return e.fn.eval(c, vals)
}

func (e Call) String() string {
	s := e.fn.Name + "("
	for i, arg := range e.args {
		if i > 0 {
			s += ", "
		}
		s += arg.String()
	}
	return s + ")"
}
