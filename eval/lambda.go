// lambda.go implements lambda capture and invocation (spec.md §4.5).
package eval

import (
	"github.com/oarkflow/xid"

	"github.com/oarkflow/macroeval/ast"
	"github.com/oarkflow/macroeval/errs"
	"github.com/oarkflow/macroeval/value"
)

// captureLambda builds a Lambda value from a lambda expression node,
// snapshotting the current scope by value (spec.md §3, §4.5).
func (w *Walker) captureLambda(n *ast.LambdaExpr) value.Value {
	return value.Lambda{
		Params:  n.Params,
		Body:    n.Body,
		Closure: w.scope.Snapshot(),
	}
}

// invokeLambda implements spec.md §4.5's four invocation steps.
func (w *Walker) invokeLambda(l value.Lambda, args []value.Value, pos ast.Position) (value.Value, error) {
	if len(args) != len(l.Params) {
		return nil, errs.NewArityError("lambda expects %d argument(s), got %d", len(l.Params), len(args)).At(pos)
	}
	for _, p := range l.Params {
		if w.scope.Has(p) {
			return nil, errs.NewConflictError("lambda parameter %q conflicts with an existing local binding", p).At(pos)
		}
	}

	callerKeys := make([]string, 0, len(w.scope.vars))
	for k := range w.scope.vars {
		callerKeys = append(callerKeys, k)
	}

	child := FromSnapshot(l.Closure, w.host)
	for i, p := range l.Params {
		child.Set(p, args[i])
	}

	childWalker := &Walker{
		host:      w.host,
		scope:     child,
		token:     w.token,
		log:       w.log,
		comparers: w.comparers,
		cache:     w.cache,
		traceID:   xid.New().String(),
	}
	childWalker.logDebug("lambda invocation entered", "params", len(l.Params))

	var result value.Value
	switch body := l.Body.(type) {
	case *ast.StatementList:
		res, err := childWalker.evalStatementList(body)
		if err != nil {
			return nil, err
		}
		result = res.Value
	case *ast.Block:
		res, err := childWalker.evalStatementList(body.Statements)
		if err != nil {
			return nil, err
		}
		result = res.Value
	default:
		res, err := childWalker.Eval(l.Body)
		if err != nil {
			return nil, err
		}
		// A return inside a single-expression body never crosses this
		// lambda's boundary (spec.md §3); SigReturn is absorbed here too.
		result = res.Value
	}
	childWalker.logDebug("lambda invocation exited")

	// Write back bindings that existed in the caller's scope pre-call
	// (spec.md §4.5 step 4); names introduced inside the lambda are
	// discarded. A caller name is written back only when the child scope
	// has it bound (from the closure snapshot or an assignment in the
	// body), so a binding the lambda never saw is not replaced with Null.
	for _, k := range callerKeys {
		if v, ok := child.GetLocal(k); ok {
			w.scope.Set(k, v)
		}
	}

	if result == nil {
		result = value.NullValue
	}
	return result, nil
}
