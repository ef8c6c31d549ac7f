// Package host defines the Evaluator capability set a host application
// must supply (spec.md §6.2). The evaluator package treats every
// capability as opaque and synchronous; this package carries only the
// contract, never an implementation.
package host

import "github.com/oarkflow/macroeval/value"

// Token is a cooperative cancellation token (spec.md §5). A host that
// never cancels should hand back Never.
type Token interface {
	Cancelled() bool
}

// never is the perpetual-non-cancelling sentinel token used when a
// host supplies none.
type never struct{}

func (never) Cancelled() bool { return false }

// Never is the sentinel token a host hands back when it has nothing to
// cancel with (spec.md §6.2).
var Never Token = never{}

// Evaluator is the full host capability set (spec.md §6.2).
type Evaluator interface {
	// GetVariable resolves a name the local scope doesn't have. Returning
	// value.NullValue and false is how an unresolved identifier surfaces.
	GetVariable(name string) (value.Value, bool)

	// InvokeMethod calls a free/global method by name.
	InvokeMethod(name string, args []value.Value) (value.Value, error)

	// InvokeMember reads a property (args == nil) or calls a method
	// (args != nil, possibly empty) on receiver.
	InvokeMember(receiver value.Value, name string, args []value.Value) (value.Value, error)

	// InvokeIndexer evaluates receiver[key].
	InvokeIndexer(receiver value.Value, key value.Value) (value.Value, error)

	// SaveParameter sinks a parameter declaration's name and value.
	SaveParameter(name string, val value.Value) error

	// FlushOutput drains and returns any buffered textual output the
	// host accumulated since the last flush. ok is false when nothing
	// was buffered.
	FlushOutput() (text string, ok bool)

	// GetCancellationToken returns a token to poll, or Never.
	GetCancellationToken() Token

	// KnownComparers returns the host's comparer registry, pre-seeded
	// with any host-specific entries (spec.md §3); the walker still
	// layers the built-ins on top if the host's registry lacks them.
	KnownComparers() *value.Registry
}
