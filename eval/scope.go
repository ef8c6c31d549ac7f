package eval

import "github.com/oarkflow/macroeval/value"

// Scope is the per-walker local variable mapping; lookups fall through
// to the host's variable provider on miss, writes always target the
// local map (spec.md §3).
type Scope struct {
	vars map[string]value.Value
	host interface {
		GetVariable(name string) (value.Value, bool)
	}
}

// NewScope creates an empty scope backed by host for fallback lookups.
func NewScope(host interface {
	GetVariable(name string) (value.Value, bool)
}) *Scope {
	return &Scope{vars: map[string]value.Value{}, host: host}
}

// Get resolves name locally first, then via the host.
func (s *Scope) Get(name string) (value.Value, bool) {
	if v, ok := s.vars[name]; ok {
		return v, true
	}
	if s.host == nil {
		return nil, false
	}
	return s.host.GetVariable(name)
}

// GetLocal resolves name only against the local map, ignoring the host.
func (s *Scope) GetLocal(name string) (value.Value, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Set always writes to the local map.
func (s *Scope) Set(name string, v value.Value) {
	s.vars[name] = v
}

// Delete removes name from the local map (used when a foreach
// iteration variable goes out of scope after the loop).
func (s *Scope) Delete(name string) {
	delete(s.vars, name)
}

// Has reports whether name is bound locally.
func (s *Scope) Has(name string) bool {
	_, ok := s.vars[name]
	return ok
}

// Snapshot copies the current bindings by value, for a lambda's closure
// capture (spec.md §3, §4.5): "by value of bindings, not by aliasing".
func (s *Scope) Snapshot() map[string]value.Value {
	out := make(map[string]value.Value, len(s.vars))
	for k, v := range s.vars {
		out[k] = v
	}
	return out
}

// FromSnapshot builds a fresh scope seeded with snap, backed by the
// same host fallback.
func FromSnapshot(snap map[string]value.Value, host interface {
	GetVariable(name string) (value.Value, bool)
}) *Scope {
	vars := make(map[string]value.Value, len(snap))
	for k, v := range snap {
		vars[k] = v
	}
	return &Scope{vars: vars, host: host}
}
