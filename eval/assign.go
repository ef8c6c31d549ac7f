// assign.go implements the assignment operator family (spec.md §4.8).
// Assignment always contributes Null to the enclosing statement list,
// regardless of which form it is — only the side effect of storing
// into the target scope is observable.
package eval

import (
	"github.com/oarkflow/macroeval/ast"
	"github.com/oarkflow/macroeval/errs"
	"github.com/oarkflow/macroeval/value"
)

func (w *Walker) evalAssignment(node *ast.Assignment) (value.Value, error) {
	switch node.Op {
	case ast.AssignIncPre, ast.AssignIncPost, ast.AssignDecPre, ast.AssignDecPost:
		return w.evalIncDec(node)
	case ast.AssignSet:
		rhs, err := w.Eval(node.Value)
		if err != nil {
			return nil, err
		}
		w.scope.Set(node.Target, rhs.Value)
		return value.NullValue, nil
	default:
		return w.evalCompoundAssign(node)
	}
}

func (w *Walker) evalIncDec(node *ast.Assignment) (value.Value, error) {
	cur, ok := w.scope.Get(node.Target)
	if !ok || value.IsNull(cur) {
		return nil, errs.NewUnboundError("increment/decrement of unbound variable %q", node.Target).At(node.Pos())
	}
	i, err := value.ToInteger(cur)
	if err != nil {
		return nil, err
	}
	var next value.Integer
	switch node.Op {
	case ast.AssignIncPre, ast.AssignIncPost:
		next = value.Integer(i + 1)
	case ast.AssignDecPre, ast.AssignDecPost:
		next = value.Integer(i - 1)
	}
	w.scope.Set(node.Target, next)
	return value.NullValue, nil
}

func (w *Walker) evalCompoundAssign(node *ast.Assignment) (value.Value, error) {
	cur, ok := w.scope.Get(node.Target)
	if !ok || value.IsNull(cur) {
		return nil, errs.NewUnboundError("compound assignment to unbound variable %q", node.Target).At(node.Pos())
	}
	rhs, err := w.Eval(node.Value)
	if err != nil {
		return nil, err
	}
	var result value.Value
	switch node.Op {
	case ast.AssignAdd:
		result, err = Add(cur, rhs.Value)
	case ast.AssignSub:
		result, err = Sub(cur, rhs.Value)
	case ast.AssignMul:
		result, err = Mul(cur, rhs.Value)
	case ast.AssignDiv:
		result, err = Div(cur, rhs.Value)
	case ast.AssignMod:
		result, err = Mod(cur, rhs.Value)
	case ast.AssignShl:
		result, err = Shl(cur, rhs.Value)
	case ast.AssignShr:
		result, err = Shr(cur, rhs.Value)
	case ast.AssignAnd:
		result, err = logicalBitlike(cur, rhs.Value, func(a, b bool) bool { return a && b })
	case ast.AssignOr:
		result, err = logicalBitlike(cur, rhs.Value, func(a, b bool) bool { return a || b })
	case ast.AssignXor:
		result, err = logicalBitlike(cur, rhs.Value, func(a, b bool) bool { return a != b })
	default:
		return nil, errs.NewTypeError("unknown compound assignment operator").At(node.Pos())
	}
	if err != nil {
		return nil, err
	}
	w.scope.Set(node.Target, result)
	return value.NullValue, nil
}

func logicalBitlike(a, b value.Value, f func(bool, bool) bool) (value.Value, error) {
	l, err := value.ToBoolean(a)
	if err != nil {
		return nil, err
	}
	r, err := value.ToBoolean(b)
	if err != nil {
		return nil, err
	}
	return value.Boolean(f(l, r)), nil
}
