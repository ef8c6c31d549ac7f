// primary.go implements primary-expression chaining: indexers, member
// access, and method calls (spec.md §4.7).
package eval

import (
	"github.com/oarkflow/macroeval/ast"
	"github.com/oarkflow/macroeval/errs"
	"github.com/oarkflow/macroeval/value"
)

func (w *Walker) evalArgs(nodes []ast.Node) ([]value.Value, error) {
	args := make([]value.Value, len(nodes))
	for i, n := range nodes {
		res, err := w.Eval(n)
		if err != nil {
			return nil, err
		}
		args[i] = res.Value
	}
	return args, nil
}

func (w *Walker) evalPrimary(node *ast.Primary) (value.Value, error) {
	var cur value.Value
	var startName string

	switch s := node.Start.(type) {
	case *ast.Identifier:
		startName = s.Name
		if v, ok := w.scope.Get(s.Name); ok {
			cur = v
		} else {
			cur = value.NullValue
		}
	default:
		res, err := w.Eval(node.Start)
		if err != nil {
			return nil, err
		}
		cur = res.Value
	}

	for _, elem := range node.Chain {
		var err error
		switch elem.Kind {
		case ast.ChainBracket:
			cur, err = w.evalBracketChain(cur, elem, node.Pos())
		case ast.ChainMember:
			cur, err = w.evalMemberChain(cur, elem)
		case ast.ChainMethod:
			cur, err = w.evalMethodChain(cur, startName, elem, node.Pos())
		}
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// evalBracketChain implements `a[b][c]...`: the first argument indexes
// the receiver via the host; each subsequent argument performs a
// member-by-name lookup on the prior result (spec.md §4.7).
func (w *Walker) evalBracketChain(cur value.Value, elem ast.ChainElem, pos ast.Position) (value.Value, error) {
	if len(elem.Args) == 0 {
		return cur, nil
	}
	keyRes, err := w.Eval(elem.Args[0])
	if err != nil {
		return nil, err
	}
	v, err := w.host.InvokeIndexer(cur, keyRes.Value)
	if err != nil {
		return nil, errs.NewHostError(err).At(pos)
	}
	for _, argNode := range elem.Args[1:] {
		nameRes, err := w.Eval(argNode)
		if err != nil {
			return nil, err
		}
		v, err = w.host.InvokeMember(v, value.ToText(nameRes.Value), nil)
		if err != nil {
			return nil, errs.NewHostError(err).At(pos)
		}
	}
	return v, nil
}

// evalMemberChain implements `.name` / `.name(args)` (spec.md §4.7).
func (w *Walker) evalMemberChain(cur value.Value, elem ast.ChainElem) (value.Value, error) {
	if elem.Call {
		args, err := w.evalArgs(elem.Args)
		if err != nil {
			return nil, err
		}
		v, err := w.host.InvokeMember(cur, elem.Name, args)
		if err != nil {
			return nil, errs.NewHostError(err).At(elem.Pos())
		}
		return v, nil
	}
	v, err := w.host.InvokeMember(cur, elem.Name, nil)
	if err != nil {
		return nil, errs.NewHostError(err).At(elem.Pos())
	}
	return v, nil
}

// evalMethodChain implements `name(args...)` (spec.md §4.7, §4.5): if
// name resolves to a local Lambda, invoke it; otherwise dispatch to the
// host's free-method invocation.
func (w *Walker) evalMethodChain(cur value.Value, startName string, elem ast.ChainElem, pos ast.Position) (value.Value, error) {
	name := elem.Name
	if name == "" {
		name = startName
	}
	args, err := w.evalArgs(elem.Args)
	if err != nil {
		return nil, err
	}
	if lam, ok := cur.(value.Lambda); ok && name != "" {
		return w.invokeLambda(lam, args, pos)
	}
	if local, ok := w.scope.GetLocal(name); ok {
		if lam, ok := local.(value.Lambda); ok {
			return w.invokeLambda(lam, args, pos)
		}
	}
	v, err := w.host.InvokeMethod(name, args)
	if err != nil {
		return nil, errs.NewHostError(err).At(pos)
	}
	return v, nil
}
