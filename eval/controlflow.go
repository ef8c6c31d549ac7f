// controlflow.go implements if/for/while/foreach (spec.md §4.4).
package eval

import (
	"github.com/oarkflow/macroeval/ast"
	"github.com/oarkflow/macroeval/errs"
	"github.com/oarkflow/macroeval/value"
)

func requireBoolean(v value.Value, pos ast.Position) (bool, error) {
	b, ok := v.(value.Boolean)
	if !ok {
		return false, errs.NewTypeError("condition must be Boolean, got %s", v.Kind()).At(pos)
	}
	return bool(b), nil
}

func (w *Walker) evalIf(node *ast.If) (Result, error) {
	cond, err := w.Eval(node.Cond)
	if err != nil {
		return Result{}, err
	}
	b, err := requireBoolean(cond.Value, node.Cond.Pos())
	if err != nil {
		return Result{}, err
	}
	if b {
		return w.Eval(node.Then)
	}
	if node.Else != nil {
		return w.Eval(node.Else)
	}
	return valueResult(value.NullValue), nil
}

// flattenInto appends v to acc, flattening it if v is itself a
// collection (spec.md §4.4: "Results from each block iteration are
// flattened into a single list").
func flattenInto(acc []value.Value, v value.Value) []value.Value {
	if value.IsNull(v) {
		return acc
	}
	if c, ok := v.(*value.Collection); ok {
		return append(acc, c.Items...)
	}
	return append(acc, v)
}

func (w *Walker) evalFor(node *ast.For) (Result, error) {
	if node.Init != nil {
		if _, err := w.Eval(node.Init); err != nil {
			return Result{}, err
		}
	}
	var acc []value.Value
	for {
		if err := w.checkCancel(node.Pos()); err != nil {
			return Result{}, err
		}
		if node.Cond != nil {
			cond, err := w.Eval(node.Cond)
			if err != nil {
				return Result{}, err
			}
			b, err := requireBoolean(cond.Value, node.Cond.Pos())
			if err != nil {
				return Result{}, err
			}
			if !b {
				break
			}
		}
		res, err := w.Eval(node.Body)
		if err != nil {
			return Result{}, err
		}
		acc = flattenInto(acc, res.Value)
		switch res.Signal {
		case SigBreak:
			return Result{Value: finalListValue(acc)}, nil
		case SigReturn:
			return Result{Value: res.Value, Signal: SigReturn}, nil
		case SigContinue:
			// falls through to the iterator step, per spec.md §4.6
		}
		if node.Post != nil {
			if _, err := w.Eval(node.Post); err != nil {
				return Result{}, err
			}
		}
	}
	return Result{Value: finalListValue(acc)}, nil
}

func (w *Walker) evalWhile(node *ast.While) (Result, error) {
	var acc []value.Value
	for {
		if err := w.checkCancel(node.Pos()); err != nil {
			return Result{}, err
		}
		cond, err := w.Eval(node.Cond)
		if err != nil {
			return Result{}, err
		}
		b, err := requireBoolean(cond.Value, node.Cond.Pos())
		if err != nil {
			return Result{}, err
		}
		if !b {
			break
		}
		res, err := w.Eval(node.Body)
		if err != nil {
			return Result{}, err
		}
		acc = flattenInto(acc, res.Value)
		if res.Signal == SigBreak {
			return Result{Value: finalListValue(acc)}, nil
		}
		if res.Signal == SigReturn {
			return Result{Value: res.Value, Signal: SigReturn}, nil
		}
	}
	return Result{Value: finalListValue(acc)}, nil
}

// evalForEach binds node.Var in the current scope to each element of
// the source in turn (spec.md §4.4). Iterating Text yields a
// one-character Text value per code point; iterating a Collection
// yields its items. The iteration variable is removed from local
// scope after the loop.
func (w *Walker) evalForEach(node *ast.ForEach) (Result, error) {
	src, err := w.Eval(node.Source)
	if err != nil {
		return Result{}, err
	}

	var items []value.Value
	switch s := src.Value.(type) {
	case value.Text:
		for _, r := range string(s) {
			items = append(items, value.Text(string(r)))
		}
	case *value.Collection:
		items = s.Items
	default:
		return Result{}, errs.NewTypeError("cannot iterate %s", src.Value.Kind()).At(node.Source.Pos())
	}

	var acc []value.Value
	defer w.scope.Delete(node.Var)
	for _, item := range items {
		if err := w.checkCancel(node.Pos()); err != nil {
			return Result{}, err
		}
		w.scope.Set(node.Var, item)
		res, err := w.Eval(node.Body)
		if err != nil {
			return Result{}, err
		}
		acc = flattenInto(acc, res.Value)
		if res.Signal == SigBreak {
			return Result{Value: finalListValue(acc)}, nil
		}
		if res.Signal == SigReturn {
			return Result{Value: res.Value, Signal: SigReturn}, nil
		}
	}
	return Result{Value: finalListValue(acc)}, nil
}
