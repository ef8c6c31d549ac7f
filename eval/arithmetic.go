// arithmetic.go implements the binary/unary operator kernel (spec.md
// §4.2) and the comparer-resolution algorithm used by the six
// comparison operators.
package eval

import (
	"github.com/oarkflow/macroeval/ast"
	"github.com/oarkflow/macroeval/errs"
	"github.com/oarkflow/macroeval/value"
)

func isText(v value.Value) bool {
	k := v.Kind()
	return k == value.KindText || k == value.KindCharacter
}

// Add implements `+` (spec.md §4.2 table).
func Add(left, right value.Value) (value.Value, error) {
	if isText(left) || isText(right) {
		return value.Text(value.ToText(left) + value.ToText(right)), nil
	}
	if li, ok := left.(value.Integer); ok {
		if ri, ok := right.(value.Integer); ok {
			return li + ri, nil // wraps per two's-complement, spec.md §3
		}
	}
	if value.IsNumeric(left) && value.IsNumeric(right) {
		l, _ := value.ToDecimal(left)
		r, _ := value.ToDecimal(right)
		return l.Add(r), nil
	}
	if dt, ok := left.(value.DateTime); ok {
		if du, ok := right.(value.Duration); ok {
			return value.DateTime{Time: dt.Time.Add(du.Dur)}, nil
		}
	}
	if du, ok := left.(value.Duration); ok {
		if dt, ok := right.(value.DateTime); ok {
			return value.DateTime{Time: dt.Time.Add(du.Dur)}, nil
		}
		if du2, ok := right.(value.Duration); ok {
			return value.Duration{Dur: du.Dur + du2.Dur}, nil
		}
	}
	return nil, errs.NewTypeError("operator + undefined for %s and %s", left.Kind(), right.Kind())
}

// Sub implements `-`.
func Sub(left, right value.Value) (value.Value, error) {
	if li, ok := left.(value.Integer); ok {
		if ri, ok := right.(value.Integer); ok {
			return li - ri, nil
		}
	}
	if value.IsNumeric(left) && value.IsNumeric(right) {
		l, _ := value.ToDecimal(left)
		r, _ := value.ToDecimal(right)
		return l.Sub(r), nil
	}
	if dt, ok := left.(value.DateTime); ok {
		if du, ok := right.(value.Duration); ok {
			return value.DateTime{Time: dt.Time.Add(-du.Dur)}, nil
		}
		if dt2, ok := right.(value.DateTime); ok {
			return value.Duration{Dur: dt.Time.Sub(dt2.Time)}, nil
		}
	}
	if du, ok := left.(value.Duration); ok {
		if du2, ok := right.(value.Duration); ok {
			return value.Duration{Dur: du.Dur - du2.Dur}, nil
		}
	}
	return nil, errs.NewTypeError("operator - undefined for %s and %s", left.Kind(), right.Kind())
}

// Mul implements `*`: every numeric combination, including Integer,
// Integer, widens to Decimal (spec.md §4.2 table — the "—" in the
// Integer,Integer column means no integer fast path exists for this
// operator, unlike + and -).
func Mul(left, right value.Value) (value.Value, error) {
	if value.IsNumeric(left) && value.IsNumeric(right) {
		l, _ := value.ToDecimal(left)
		r, _ := value.ToDecimal(right)
		return l.Mul(r), nil
	}
	return nil, errs.NewTypeError("operator * undefined for %s and %s", left.Kind(), right.Kind())
}

// Div implements `/`; division by zero is ArithmeticError, not TypeError.
func Div(left, right value.Value) (value.Value, error) {
	if value.IsNumeric(left) && value.IsNumeric(right) {
		l, _ := value.ToDecimal(left)
		r, _ := value.ToDecimal(right)
		q, ok := l.Div(r)
		if !ok {
			return nil, errs.NewArithmeticError("division by zero")
		}
		return q, nil
	}
	return nil, errs.NewTypeError("operator / undefined for %s and %s", left.Kind(), right.Kind())
}

// Mod implements `%`.
func Mod(left, right value.Value) (value.Value, error) {
	if value.IsNumeric(left) && value.IsNumeric(right) {
		l, _ := value.ToDecimal(left)
		r, _ := value.ToDecimal(right)
		q, ok := l.Mod(r)
		if !ok {
			return nil, errs.NewArithmeticError("modulo by zero")
		}
		return q, nil
	}
	return nil, errs.NewTypeError("operator %% undefined for %s and %s", left.Kind(), right.Kind())
}

// Shl/Shr implement `<<`/`>>`: both operands coerce to Integer
// regardless of their original variant (spec.md §4.2 table).
func Shl(left, right value.Value) (value.Value, error) {
	l, err := value.ToInteger(left)
	if err != nil {
		return nil, err
	}
	r, err := value.ToInteger(right)
	if err != nil {
		return nil, err
	}
	return value.Integer(l << uint32(r)), nil
}

func Shr(left, right value.Value) (value.Value, error) {
	l, err := value.ToInteger(left)
	if err != nil {
		return nil, err
	}
	r, err := value.ToInteger(right)
	if err != nil {
		return nil, err
	}
	return value.Integer(l >> uint32(r)), nil
}

// logical evaluates `and`/`or`/`xor`: both operands are always
// evaluated by the caller (no short-circuit, spec.md §4.2 — preserved
// as an open/possibly-buggy source behaviour).
func logical(op ast.BinaryOp, left, right value.Value) (value.Value, error) {
	l, err := value.ToBoolean(left)
	if err != nil {
		return nil, err
	}
	r, err := value.ToBoolean(right)
	if err != nil {
		return nil, err
	}
	switch op {
	case ast.OpAnd:
		return value.Boolean(l && r), nil
	case ast.OpOr:
		return value.Boolean(l || r), nil
	case ast.OpXor:
		return value.Boolean(l != r), nil
	}
	return nil, errs.NewTypeError("not a logical operator")
}

// Unary implements spec.md §4.2's unary operators.
func Unary(op ast.UnaryOp, v value.Value) (value.Value, error) {
	switch op {
	case ast.UnaryNeg:
		d, err := value.ToDecimal(v)
		if err != nil {
			return nil, err
		}
		return d.Neg(), nil
	case ast.UnaryNot:
		b, err := value.ToBoolean(v)
		if err != nil {
			return nil, err
		}
		return value.Boolean(!b), nil
	case ast.UnaryPlus:
		return value.ToDecimal(v)
	default:
		return nil, errs.NewTypeError("unknown unary operator")
	}
}

// ResolveComparer implements the comparer-resolution algorithm from
// spec.md §4.2: null-aware first, then numeric, then registry lookup
// by the narrower/common tag, then DefaultComparer as final fallback.
func ResolveComparer(reg *value.Registry, left, right value.Value) value.Comparer {
	if value.IsNull(left) || value.IsNull(right) {
		return value.NullComparer
	}
	if value.IsNumeric(left) && value.IsNumeric(right) {
		return value.NumericComparer
	}
	if left.Kind() != right.Kind() {
		// Neither tag is host-assignable-from the other without host
		// type-system input; fall through to a common/default lookup.
		if c, ok := reg.Lookup(left.Kind()); ok {
			return c
		}
		if c, ok := reg.Lookup(right.Kind()); ok {
			return c
		}
		return value.DefaultComparer
	}
	if c, ok := reg.Lookup(left.Kind()); ok {
		return c
	}
	return value.DefaultComparer
}

// comparerCacheKey identifies a (kind, kind) pair for the walker's
// comparer-dispatch memoization cache; the resolution algorithm only
// depends on the two operand kinds, not their values.
func comparerCacheKey(left, right value.Value) string {
	return left.Kind().String() + ":" + right.Kind().String()
}

// resolveComparer is ResolveComparer with the decision memoized in the
// walker's ristretto cache, since §4.2's resolution algorithm runs on
// every comparison operator evaluated and only depends on the operand
// kinds, not their values.
func (w *Walker) resolveComparer(left, right value.Value) value.Comparer {
	if w.cache != nil {
		key := comparerCacheKey(left, right)
		if cached, found := w.cache.Get(key); found {
			if c, ok := cached.(value.Comparer); ok {
				return c
			}
		}
		c := ResolveComparer(w.comparers, left, right)
		w.cache.Set(key, c, 1)
		return c
	}
	return ResolveComparer(w.comparers, left, right)
}

// Compare evaluates one of `<,<=,>,>=,==,!=` per spec.md §4.2: equality
// of differing incomparable variant tags returns not-equal rather than
// failing.
func (w *Walker) Compare(op ast.BinaryOp, left, right value.Value) (value.Value, error) {
	if (op == ast.OpEq || op == ast.OpNeq) && left.Kind() != right.Kind() &&
		!value.IsNull(left) && !value.IsNull(right) &&
		!(value.IsNumeric(left) && value.IsNumeric(right)) {
		return value.Boolean(op == ast.OpNeq), nil
	}
	cmp := w.resolveComparer(left, right)
	n, err := cmp(left, right)
	if err != nil {
		return nil, err
	}
	switch op {
	case ast.OpEq:
		return value.Boolean(n == 0), nil
	case ast.OpNeq:
		return value.Boolean(n != 0), nil
	case ast.OpLt:
		return value.Boolean(n < 0), nil
	case ast.OpLte:
		return value.Boolean(n <= 0), nil
	case ast.OpGt:
		return value.Boolean(n > 0), nil
	case ast.OpGte:
		return value.Boolean(n >= 0), nil
	default:
		return nil, errs.NewTypeError("not a comparison operator")
	}
}
