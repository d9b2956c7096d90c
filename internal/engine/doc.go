// Package engine implements the row-by-row test executor.
//
// The executor drives an already-built circuit simulation one test row at a
// time: it resolves the row's input cells against the evaluation context,
// writes them to the simulation, lets it settle, reads the actual outputs,
// evaluates the expected-output expressions, and records a matched value
// per output column. The context is advanced after every row so later rows
// may reference earlier resolved values.
//
// ARCHITECTURE:
//
// Single-threaded sequential execution:
// Rows within a test case execute strictly in order in one goroutine. No
// row begins before the previous row's settle and read complete. This is a
// correctness requirement, not a simplification: each row's resolved values
// may depend on context state mutated by the previous row, and the
// simulation exposes step-wise mutable state.
//
// Failure semantics:
//   - A simulation fault (oscillation, short circuit) stops the remaining
//     rows of the current test case and marks the result's error flag. The
//     rows executed so far stay in the value table.
//   - An expression evaluation error aborts the current test case with an
//     error; the batch runner records it and continues with the next case.
//   - Neither aborts the batch. There is no silent failure mode: every
//     failure surfaces as a failed report entry plus a non-zero failure
//     count.
//
// Determinism:
// Given a deterministic simulation, executing the same test case against a
// fresh context twice yields identical results and identical rendered
// reports. The executor never iterates a map where ordering is observable;
// signal order is always the declared column order.
package engine
