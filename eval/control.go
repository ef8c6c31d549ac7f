package eval

import "github.com/oarkflow/macroeval/value"

// Signal is the loop-control jump a statement evaluation produced.
// Design notes (spec.md §9) prefer a signal carried through the return
// channel over mutable walker-level flags, so every Eval* helper
// returns one alongside its value instead of mutating shared state;
// loops and statement lists pattern-match on it to decide whether to
// keep going (spec.md §4.6).
type Signal int

const (
	SigNone Signal = iota
	SigBreak
	SigContinue
	SigReturn
)

// Result is one statement's outcome: a value plus any control signal.
// For SigReturn, Value is the returned expression's value (or Null if
// return carried none). Loop control flags never cross a lambda
// boundary implicitly (spec.md §3) — Walker.invokeLambda absorbs
// SigReturn at the lambda body's edge.
type Result struct {
	Value  value.Value
	Signal Signal
}

func valueResult(v value.Value) Result { return Result{Value: v, Signal: SigNone} }
