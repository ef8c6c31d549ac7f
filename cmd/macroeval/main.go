// Command macroeval is a small demonstration host: it hand-builds a
// few syntax trees (no parser is in scope — spec.md §1) and runs them
// through the evaluator, the way a host application would after its
// own grammar produced a tree.
package main

import (
	"context"

	"github.com/oarkflow/json"
	"github.com/oarkflow/log"

	"github.com/oarkflow/macroeval/ast"
	"github.com/oarkflow/macroeval/eval"
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

func runScenario(logger *log.Logger, name string, begin *ast.BeginExpression) {
	host := newDemoHost(context.Background())
	w := eval.NewWalker(host, eval.WithLogger(logger))
	results, err := w.EvalBegin(begin)
	if err != nil {
		logger.Error().Str("scenario", name).Err(err).Msg("evaluation failed")
		return
	}
	out, _ := json.Marshal(renderResults(results))
	logger.Info().Str("scenario", name).Str("result", string(out)).Msg("evaluated")
}

func renderResults(results []value.Value) []map[string]string {
	rendered := make([]map[string]string, len(results))
	for i, r := range results {
		rendered[i] = map[string]string{"kind": r.Kind().String(), "text": value.ToText(r)}
	}
	return rendered
}

func main() {
	logger := &log.DefaultLogger

	// 1 + 1 -> [2] (Integer)
	runScenario(logger, "integer-add", &ast.BeginExpression{Statements: stmts(
		&ast.Binary{Op: ast.OpAdd, Left: lit(ast.LitInteger, "1"), Right: lit(ast.LitInteger, "1")},
	)})

	// 1 + 1.5 -> [2.5] (Decimal)
	runScenario(logger, "mixed-add", &ast.BeginExpression{Statements: stmts(
		&ast.Binary{Op: ast.OpAdd, Left: lit(ast.LitInteger, "1"), Right: lit(ast.LitReal, "1.5")},
	)})

	// a = 3; a += 2; a * a -> [25]
	runScenario(logger, "compound-assign", &ast.BeginExpression{Statements: stmts(
		&ast.Assignment{Target: "a", Op: ast.AssignSet, Value: lit(ast.LitInteger, "3")},
		&ast.Assignment{Target: "a", Op: ast.AssignAdd, Value: lit(ast.LitInteger, "2")},
		&ast.Binary{Op: ast.OpMul, Left: ident("a"), Right: ident("a")},
	)})

	// x = (n) => n * n; x(4) + x(5) -> [41]
	square := &ast.LambdaExpr{Params: []string{"n"}, Body: &ast.Binary{
		Op: ast.OpMul, Left: ident("n"), Right: ident("n"),
	}}
	callX := func(arg string) *ast.Primary {
		return &ast.Primary{
			Start: ident("x"),
			Chain: []ast.ChainElem{{Kind: ast.ChainMethod, Name: "x", Args: []ast.Node{lit(ast.LitInteger, arg)}}},
		}
	}
	runScenario(logger, "lambda-call", &ast.BeginExpression{Statements: stmts(
		&ast.Assignment{Target: "x", Op: ast.AssignSet, Value: square},
		&ast.Binary{Op: ast.OpAdd, Left: callX("4"), Right: callX("5")},
	)})

	// for (i = 0; i < 3; i++) { i } -> [0,1,2]
	runScenario(logger, "for-loop", &ast.BeginExpression{Statements: stmts(
		&ast.For{
			Init: &ast.Assignment{Target: "i", Op: ast.AssignSet, Value: lit(ast.LitInteger, "0")},
			Cond: &ast.Binary{Op: ast.OpLt, Left: ident("i"), Right: lit(ast.LitInteger, "3")},
			Post: &ast.Assignment{Target: "i", Op: ast.AssignIncPost},
			Body: block(ident("i")),
		},
	)})

	// foreach (c in "ab") { c } -> ["a","b"]
	runScenario(logger, "foreach-text", &ast.BeginExpression{Statements: stmts(
		&ast.ForEach{Var: "c", Source: lit(ast.LitString, "ab"), Body: block(ident("c"))},
	)})

	// null ?? "fallback" -> ["fallback"]; "x" ?? "y" -> ["x"]
	runScenario(logger, "null-coalescing", &ast.BeginExpression{Statements: stmts(
		&ast.NullCoalesce{Left: lit(ast.LitNull, ""), Right: lit(ast.LitString, "fallback")},
		&ast.NullCoalesce{Left: lit(ast.LitString, "x"), Right: lit(ast.LitString, "y")},
	)})
}
