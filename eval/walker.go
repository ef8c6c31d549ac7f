// Package eval implements the tree-walking evaluator: the Scope,
// Loop controller, arithmetic/logic kernel and the Walker itself that
// together realise spec.md §4's operational semantics.
package eval

import (
	"github.com/dgraph-io/ristretto"
	"github.com/oarkflow/log"
	"github.com/oarkflow/xid"

	"github.com/oarkflow/macroeval/ast"
	"github.com/oarkflow/macroeval/errs"
	"github.com/oarkflow/macroeval/host"
	"github.com/oarkflow/macroeval/value"
)

// Walker is the stateful visitor that produces values from a syntax
// tree (spec.md §2 component 5). It is not safe for concurrent use;
// independent evaluations require independent walkers (spec.md §5).
type Walker struct {
	host      host.Evaluator
	scope     *Scope
	token     host.Token
	log       *log.Logger
	comparers *value.Registry
	cache     *ristretto.Cache
	traceID   string
}

// Option configures a Walker at construction time.
type Option func(*Walker)

// WithLogger overrides the default logger.
func WithLogger(l *log.Logger) Option {
	return func(w *Walker) { w.log = l }
}

// WithComparer registers an additional comparer under a variant tag on
// top of whatever the host's registry already carries.
func WithComparer(k value.Kind, c value.Comparer) Option {
	return func(w *Walker) { w.comparers.RegisterKind(k, c) }
}

// WithCache installs a comparer-dispatch memoization cache; when not
// supplied, a small default one is created.
func WithCache(c *ristretto.Cache) Option {
	return func(w *Walker) { w.cache = c }
}

// NewWalker builds a top-level walker over h. Its scope survives the
// full evaluation (spec.md §3 "Lifecycles").
func NewWalker(h host.Evaluator, opts ...Option) *Walker {
	reg := h.KnownComparers()
	if reg == nil {
		reg = value.NewRegistry()
	}
	w := &Walker{
		host:      h,
		token:     h.GetCancellationToken(),
		log:       &log.DefaultLogger,
		comparers: reg,
		traceID:   xid.New().String(),
	}
	w.scope = NewScope(h)
	for _, opt := range opts {
		opt(w)
	}
	if w.cache == nil {
		c, err := ristretto.NewCache(&ristretto.Config{
			NumCounters: 1e4,
			MaxCost:     1 << 16,
			BufferItems: 64,
		})
		if err == nil {
			w.cache = c
		}
	}
	return w
}

func (w *Walker) logDebug(msg string, kv ...any) {
	if w.log == nil {
		return
	}
	ev := w.log.Debug().Str("trace_id", w.traceID)
	for i := 0; i+1 < len(kv); i += 2 {
		if key, ok := kv[i].(string); ok {
			ev = ev.Str(key, value.ToText(toValue(kv[i+1])))
		}
	}
	ev.Msg(msg)
}

func toValue(v any) value.Value {
	if vv, ok := v.(value.Value); ok {
		return vv
	}
	switch t := v.(type) {
	case int:
		return value.Integer(t)
	case string:
		return value.Text(t)
	default:
		return value.Text("")
	}
}

func (w *Walker) checkCancel(pos ast.Position) error {
	if w.token != nil && w.token.Cancelled() {
		return errs.NewCancelledError("evaluation cancelled").At(pos)
	}
	return nil
}

// EvalBegin implements the top-level begin-expression (spec.md §4.3):
// register parameters, evaluate the statement list, flush host output,
// and return the final result list (or nil for an empty result).
func (w *Walker) EvalBegin(b *ast.BeginExpression) ([]value.Value, error) {
	if err := w.checkCancel(b.Pos()); err != nil {
		return nil, err
	}
	for _, p := range b.Params {
		var v value.Value = value.NullValue
		if p.Value != nil {
			res, err := w.Eval(p.Value)
			if err != nil {
				return nil, err
			}
			v = res.Value
		}
		if err := w.host.SaveParameter(p.Name, v); err != nil {
			return nil, errs.NewHostError(err).At(p.Pos())
		}
	}

	res, err := w.evalStatementList(b.Statements)
	if err != nil {
		return nil, err
	}

	list := collectionOrNil(res.Value)
	if text, ok := w.host.FlushOutput(); ok && text != "" {
		list = appendFlushedText(list, text)
	}
	return list, nil
}

// collectionOrNil converts a statement-list result Value into the
// final []value.Value, per spec.md §4.3: Null means an empty list.
func collectionOrNil(v value.Value) []value.Value {
	if v == nil || value.IsNull(v) {
		return nil
	}
	if c, ok := v.(*value.Collection); ok {
		return append([]value.Value(nil), c.Items...)
	}
	return []value.Value{v}
}

func appendFlushedText(list []value.Value, text string) []value.Value {
	return append(list, value.Text(text))
}

// Eval dispatches on node kind and realises the semantics of every
// syntactic form named in spec.md §4 and §6.1.
func (w *Walker) Eval(n ast.Node) (Result, error) {
	switch node := n.(type) {
	case *ast.Literal:
		v, err := value.FromLiteral(node)
		if err != nil {
			return Result{}, err
		}
		return valueResult(v), nil

	case *ast.Identifier:
		if v, ok := w.scope.Get(node.Name); ok {
			return valueResult(v), nil
		}
		return valueResult(value.NullValue), nil

	case *ast.Unary:
		operand, err := w.Eval(node.Operand)
		if err != nil {
			return Result{}, err
		}
		v, err := Unary(node.Op, operand.Value)
		if err != nil {
			return Result{}, err
		}
		return valueResult(v), nil

	case *ast.Binary:
		return w.evalBinary(node)

	case *ast.Ternary:
		return w.evalTernary(node)

	case *ast.NullCoalesce:
		left, err := w.Eval(node.Left)
		if err != nil {
			return Result{}, err
		}
		if !value.IsNull(left.Value) {
			return left, nil
		}
		return w.Eval(node.Right)

	case *ast.Assignment:
		v, err := w.evalAssignment(node)
		if err != nil {
			return Result{}, err
		}
		return valueResult(v), nil

	case *ast.LambdaExpr:
		return valueResult(w.captureLambda(node)), nil

	case *ast.Primary:
		v, err := w.evalPrimary(node)
		if err != nil {
			return Result{}, err
		}
		return valueResult(v), nil

	case *ast.If:
		return w.evalIf(node)

	case *ast.For:
		return w.evalFor(node)

	case *ast.While:
		return w.evalWhile(node)

	case *ast.ForEach:
		return w.evalForEach(node)

	case *ast.Jump:
		return w.evalJump(node)

	case *ast.Block:
		return w.evalStatementList(node.Statements)

	case *ast.StatementList:
		return w.evalStatementList(node)

	default:
		return Result{}, errs.NewTypeError("unsupported node type %T", n).At(n.Pos())
	}
}

func (w *Walker) evalBinary(node *ast.Binary) (Result, error) {
	left, err := w.Eval(node.Left)
	if err != nil {
		return Result{}, err
	}
	right, err := w.Eval(node.Right)
	if err != nil {
		return Result{}, err
	}
	switch node.Op {
	case ast.OpOr, ast.OpXor, ast.OpAnd:
		v, err := logical(node.Op, left.Value, right.Value)
		if err != nil {
			return Result{}, err
		}
		return valueResult(v), nil
	case ast.OpEq, ast.OpNeq, ast.OpLt, ast.OpLte, ast.OpGt, ast.OpGte:
		v, err := w.Compare(node.Op, left.Value, right.Value)
		if err != nil {
			return Result{}, err
		}
		return valueResult(v), nil
	case ast.OpShl:
		v, err := Shl(left.Value, right.Value)
		if err != nil {
			return Result{}, err
		}
		return valueResult(v), nil
	case ast.OpShr:
		v, err := Shr(left.Value, right.Value)
		if err != nil {
			return Result{}, err
		}
		return valueResult(v), nil
	case ast.OpAdd:
		v, err := Add(left.Value, right.Value)
		if err != nil {
			return Result{}, err
		}
		return valueResult(v), nil
	case ast.OpSub:
		v, err := Sub(left.Value, right.Value)
		if err != nil {
			return Result{}, err
		}
		return valueResult(v), nil
	case ast.OpMul:
		v, err := Mul(left.Value, right.Value)
		if err != nil {
			return Result{}, err
		}
		return valueResult(v), nil
	case ast.OpDiv:
		v, err := Div(left.Value, right.Value)
		if err != nil {
			return Result{}, err
		}
		return valueResult(v), nil
	case ast.OpMod:
		v, err := Mod(left.Value, right.Value)
		if err != nil {
			return Result{}, err
		}
		return valueResult(v), nil
	default:
		return Result{}, errs.NewTypeError("unknown binary operator").At(node.Pos())
	}
}

func (w *Walker) evalTernary(node *ast.Ternary) (Result, error) {
	cond, err := w.Eval(node.Cond)
	if err != nil {
		return Result{}, err
	}
	if node.Then == nil && node.Else == nil {
		return cond, nil // pass-through, spec.md §4.4
	}
	b, err := value.ToBoolean(cond.Value)
	if err != nil {
		return Result{}, err
	}
	if b {
		return w.Eval(node.Then)
	}
	return w.Eval(node.Else)
}

func (w *Walker) evalJump(node *ast.Jump) (Result, error) {
	switch node.Kind {
	case ast.JumpBreak:
		return Result{Value: value.NullValue, Signal: SigBreak}, nil
	case ast.JumpContinue:
		return Result{Value: value.NullValue, Signal: SigContinue}, nil
	case ast.JumpReturn:
		v := value.NullValue
		if node.Value != nil {
			res, err := w.Eval(node.Value)
			if err != nil {
				return Result{}, err
			}
			v = res.Value
		}
		return Result{Value: v, Signal: SigReturn}, nil
	default:
		return Result{}, errs.NewTypeError("unknown jump kind").At(node.Pos())
	}
}

// evalStatementList implements spec.md §4.3's accumulation and
// output-buffer rule, and propagates break/continue/return signals so
// loops and lambda bodies can react to them (spec.md §4.6).
func (w *Walker) evalStatementList(sl *ast.StatementList) (Result, error) {
	var acc []value.Value
	for _, stmt := range sl.Statements {
		res, err := w.Eval(stmt)
		if err != nil {
			return Result{}, err
		}
		if res.Signal != SigNone {
			// The jump's own value (e.g. return's expression) must survive
			// unchanged; it is not part of this list's accumulation.
			return Result{Value: res.Value, Signal: res.Signal}, nil
		}
		if !value.IsNull(res.Value) {
			acc = appendFlushed(w, acc, res.Value)
		}
	}
	return Result{Value: finalListValue(acc)}, nil
}

// appendFlushed applies spec.md §4.3's output-buffer rule: a non-null
// statement result is added to acc (a collection contributes each of
// its elements, as loop results do), then host output is flushed; if
// non-empty and the result is a collection, the flushed text is
// appended as its own value; if scalar, an extra entry holding the
// flushed text followed by the scalar's text is appended.
func appendFlushed(w *Walker, acc []value.Value, v value.Value) []value.Value {
	acc = flattenInto(acc, v)
	text, ok := w.host.FlushOutput()
	if !ok || text == "" {
		return acc
	}
	if _, isCollection := v.(*value.Collection); isCollection {
		return append(acc, value.Text(text))
	}
	return append(acc, value.Text(text+value.ToText(v)))
}

func finalListValue(acc []value.Value) value.Value {
	if len(acc) == 0 {
		return value.NullValue
	}
	c := value.NewCollection()
	c.Items = acc
	return c
}
