package expr

import "github.com/vectorbench/vectorbench/internal/value"

// RowVariable is the implicit variable carrying the current row index.
// Expressions use it for positional information, e.g. to derive a value
// from the time step number.
const RowVariable = "n"

// Context is the mutable evaluation environment for one test-case run.
//
// It maps case-sensitive variable names to their current values. The
// executor creates a fresh Context per run, rebinds it once per row, and
// discards it when the run completes. Functions may read from the Context
// but must never mutate it; all mutation happens in the executor.
type Context struct {
	vars map[string]value.Value
	row  int
}

// NewContext creates an empty context positioned before the first row.
func NewContext() *Context {
	return &Context{vars: make(map[string]value.Value)}
}

// Get returns the value bound to name.
// Returns an EvalError with code UNDEFINED_VARIABLE if the name is absent.
// The implicit row variable resolves without an explicit binding.
func (c *Context) Get(name string) (value.Value, error) {
	if name == RowVariable {
		return value.Of(int64(c.row), value.MaxBits), nil
	}
	v, ok := c.vars[name]
	if !ok {
		return value.Value{}, NewUndefinedVariableError(name)
	}
	return v, nil
}

// Set binds name to v, overwriting any previous binding unconditionally.
// No type checking happens here; width truncation is the Value's own policy.
func (c *Context) Set(name string, v value.Value) {
	c.vars[name] = v
}

// Row returns the current row index.
func (c *Context) Row() int { return c.row }

// SetRow advances the implicit row variable to the given index.
func (c *Context) SetRow(row int) { c.row = row }

// Has reports whether name is bound (the implicit row variable always is).
func (c *Context) Has(name string) bool {
	if name == RowVariable {
		return true
	}
	_, ok := c.vars[name]
	return ok
}
