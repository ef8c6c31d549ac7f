package eval

import (
	"testing"

	"github.com/oarkflow/macroeval/ast"
	"github.com/oarkflow/macroeval/value"
)

func lit(kind ast.LiteralKind, text string) *ast.Literal {
	return &ast.Literal{Kind: kind, Text: text}
}

func ident(name string) *ast.Identifier { return &ast.Identifier{Name: name} }

func stmts(nodes ...ast.Node) *ast.StatementList {
	return &ast.StatementList{Statements: nodes}
}

func block(nodes ...ast.Node) *ast.Block {
	return &ast.Block{Statements: stmts(nodes...)}
}

func evalScenario(t *testing.T, h *fakeHost, begin *ast.BeginExpression) []value.Value {
	t.Helper()
	w := NewWalker(h)
	results, err := w.EvalBegin(begin)
	if err != nil {
		t.Fatalf("EvalBegin error: %v", err)
	}
	return results
}

func TestEvalBeginIntegerAdd(t *testing.T) {
	got := evalScenario(t, newFakeHost(), &ast.BeginExpression{Statements: stmts(
		&ast.Binary{Op: ast.OpAdd, Left: lit(ast.LitInteger, "1"), Right: lit(ast.LitInteger, "1")},
	)})
	if len(got) != 1 || got[0] != value.Integer(2) {
		t.Fatalf("got %v, want [2]", got)
	}
}

func TestEvalBeginMixedAdd(t *testing.T) {
	got := evalScenario(t, newFakeHost(), &ast.BeginExpression{Statements: stmts(
		&ast.Binary{Op: ast.OpAdd, Left: lit(ast.LitInteger, "1"), Right: lit(ast.LitReal, "1.5")},
	)})
	if len(got) != 1 {
		t.Fatalf("got %v, want a single result", got)
	}
	if value.ToText(got[0]) != "2.5" {
		t.Fatalf("got %v, want 2.5", got[0])
	}
}

func TestEvalBeginEmptyResultIsNil(t *testing.T) {
	got := evalScenario(t, newFakeHost(), &ast.BeginExpression{Statements: stmts(
		&ast.Assignment{Target: "a", Op: ast.AssignSet, Value: lit(ast.LitInteger, "1")},
	)})
	if got != nil {
		t.Fatalf("got %v, want nil (assignment contributes Null)", got)
	}
}

func TestEvalBeginParams(t *testing.T) {
	h := newFakeHost()
	w := NewWalker(h)
	begin := &ast.BeginExpression{
		Params:     []*ast.ParamDecl{{Name: "p", Value: lit(ast.LitInteger, "7")}},
		Statements: stmts(),
	}
	if _, err := w.EvalBegin(begin); err != nil {
		t.Fatalf("EvalBegin error: %v", err)
	}
	if v, ok := h.params["p"]; !ok || v != value.Integer(7) {
		t.Fatalf("param p = %v, %v, want 7, true", v, ok)
	}
}

func TestEvalBeginForLoop(t *testing.T) {
	got := evalScenario(t, newFakeHost(), &ast.BeginExpression{Statements: stmts(
		&ast.For{
			Init: &ast.Assignment{Target: "i", Op: ast.AssignSet, Value: lit(ast.LitInteger, "0")},
			Cond: &ast.Binary{Op: ast.OpLt, Left: ident("i"), Right: lit(ast.LitInteger, "3")},
			Post: &ast.Assignment{Target: "i", Op: ast.AssignIncPost},
			Body: block(ident("i")),
		},
	)})
	want := []value.Value{value.Integer(0), value.Integer(1), value.Integer(2)}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestEvalBeginForEachOverText(t *testing.T) {
	got := evalScenario(t, newFakeHost(), &ast.BeginExpression{Statements: stmts(
		&ast.ForEach{Var: "c", Source: lit(ast.LitString, "ab"), Body: block(ident("c"))},
	)})
	if len(got) != 2 || value.ToText(got[0]) != "a" || value.ToText(got[1]) != "b" {
		t.Fatalf("got %v, want [a b]", got)
	}
}

func TestEvalBeginNullCoalesce(t *testing.T) {
	got := evalScenario(t, newFakeHost(), &ast.BeginExpression{Statements: stmts(
		&ast.NullCoalesce{Left: lit(ast.LitNull, ""), Right: lit(ast.LitString, "fallback")},
		&ast.NullCoalesce{Left: lit(ast.LitString, "x"), Right: lit(ast.LitString, "y")},
	)})
	if len(got) != 2 || value.ToText(got[0]) != "fallback" || value.ToText(got[1]) != "x" {
		t.Fatalf("got %v, want [fallback x]", got)
	}
}

func TestEvalBeginFlushesBufferedOutputAtEnd(t *testing.T) {
	h := newFakeHost()
	got := evalScenario(t, h, &ast.BeginExpression{Statements: stmts(
		&ast.Primary{Start: ident("print"), Chain: []ast.ChainElem{
			{Kind: ast.ChainMethod, Name: "print", Args: []ast.Node{lit(ast.LitString, "hi")}},
		}},
	)})
	// InvokeMethod("print", ...) returns Null, so the statement never
	// triggers a mid-list flush (the rule only fires for non-null
	// results); "hi" stays buffered until EvalBegin's final flush.
	if len(got) != 1 || value.ToText(got[0]) != "hi" {
		t.Fatalf("got %v, want [hi]", got)
	}
}

func TestEvalBeginCancellation(t *testing.T) {
	h := newFakeHost()
	h.cancelled = true
	w := NewWalker(h)
	_, err := w.EvalBegin(&ast.BeginExpression{Statements: stmts(lit(ast.LitInteger, "1"))})
	if err == nil {
		t.Fatal("expected cancellation error")
	}
}
