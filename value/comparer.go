package value

// Comparer orders a pair of values, returning -1, 0, or 1.
type Comparer func(left, right Value) (int, error)

// Registry is the comparer dispatch table (spec.md §3): an ordered
// mapping from a type-tag or host-type token to a Comparer. Of the
// three built-ins only NullComparer is a keyed entry; NumericComparer
// and DefaultComparer are chosen directly by the resolution algorithm
// (eval.ResolveComparer), before and after the registry lookup.
type Registry struct {
	byKind  map[Kind]Comparer
	byToken map[string]Comparer
	order   []string // token registration order, for deterministic iteration
}

// NewRegistry builds a registry pre-seeded with NullComparer under
// KindNull. NumericComparer and DefaultComparer are not registered
// under any key.
func NewRegistry() *Registry {
	r := &Registry{
		byKind:  map[Kind]Comparer{},
		byToken: map[string]Comparer{},
	}
	r.byKind[KindNull] = NullComparer
	return r
}

// RegisterKind registers a comparer for a variant tag, overriding any
// built-in for that tag.
func (r *Registry) RegisterKind(k Kind, c Comparer) {
	r.byKind[k] = c
}

// RegisterToken registers a comparer under a host-type token (for
// HostObject variants the host itself distinguishes).
func (r *Registry) RegisterToken(token string, c Comparer) {
	if _, exists := r.byToken[token]; !exists {
		r.order = append(r.order, token)
	}
	r.byToken[token] = c
}

// Lookup returns the comparer registered for a variant tag, if any.
func (r *Registry) Lookup(k Kind) (Comparer, bool) {
	c, ok := r.byKind[k]
	return c, ok
}

// LookupToken returns the comparer registered for a host-type token.
func (r *Registry) LookupToken(token string) (Comparer, bool) {
	c, ok := r.byToken[token]
	return c, ok
}

// NullComparer returns 0 if both sides are Null, otherwise 1 (spec.md §3).
func NullComparer(left, right Value) (int, error) {
	if IsNull(left) && IsNull(right) {
		return 0, nil
	}
	return 1, nil
}

// NumericComparer widens both sides to Decimal and compares (spec.md §3).
func NumericComparer(left, right Value) (int, error) {
	l, err := ToDecimal(left)
	if err != nil {
		return 0, err
	}
	r, err := ToDecimal(right)
	if err != nil {
		return 0, err
	}
	return l.Cmp(r), nil
}

// DefaultComparer relies on natural ordering of scalar values: text is
// compared lexically, booleans false<true, two DateTimes
// chronologically, everything else falls back to textual comparison
// (spec.md §3).
func DefaultComparer(left, right Value) (int, error) {
	switch l := left.(type) {
	case Text:
		r := ToText(right)
		return compareStrings(string(l), r), nil
	case Character:
		r := ToText(right)
		return compareStrings(string(l), r), nil
	case Boolean:
		r, err := ToBoolean(right)
		if err != nil {
			return 0, err
		}
		if bool(l) == r {
			return 0, nil
		}
		if !bool(l) {
			return -1, nil
		}
		return 1, nil
	case DateTime:
		if r, ok := right.(DateTime); ok {
			switch {
			case l.Time.Before(r.Time):
				return -1, nil
			case l.Time.After(r.Time):
				return 1, nil
			default:
				return 0, nil
			}
		}
		return compareStrings(ToText(left), ToText(right)), nil
	default:
		return compareStrings(ToText(left), ToText(right)), nil
	}
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
