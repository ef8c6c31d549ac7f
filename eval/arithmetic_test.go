package eval

import (
	"testing"

	"github.com/oarkflow/macroeval/ast"
	"github.com/oarkflow/macroeval/value"
)

func TestAddIntegerFastPath(t *testing.T) {
	got, err := Add(value.Integer(2), value.Integer(3))
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if i, ok := got.(value.Integer); !ok || i != 5 {
		t.Fatalf("Add(2,3) = %v (%T), want Integer(5)", got, got)
	}
}

func TestAddIntegerAndDecimalWidens(t *testing.T) {
	got, err := Add(value.Integer(1), value.DecimalFromFloat64(1.5))
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if _, ok := got.(value.Decimal); !ok {
		t.Fatalf("Add(1, 1.5) = %T, want Decimal", got)
	}
	if got.(value.Decimal).String() != "2.5" {
		t.Fatalf("Add(1, 1.5) = %s, want 2.5", got.(value.Decimal).String())
	}
}

func TestAddText(t *testing.T) {
	got, err := Add(value.Text("foo"), value.Integer(1))
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if got != value.Text("foo1") {
		t.Fatalf("Add(foo, 1) = %v, want foo1", got)
	}
}

func TestMulAlwaysWidensToDecimal(t *testing.T) {
	got, err := Mul(value.Integer(5), value.Integer(5))
	if err != nil {
		t.Fatalf("Mul error: %v", err)
	}
	if _, ok := got.(value.Decimal); !ok {
		t.Fatalf("Mul(5,5) = %T, want Decimal (no integer fast path)", got)
	}
}

func TestDivByZero(t *testing.T) {
	if _, err := Div(value.Integer(1), value.Integer(0)); err == nil {
		t.Fatal("expected division-by-zero error")
	}
}

func TestModByZero(t *testing.T) {
	if _, err := Mod(value.Integer(1), value.Integer(0)); err == nil {
		t.Fatal("expected modulo-by-zero error")
	}
}

func TestShlShr(t *testing.T) {
	got, err := Shl(value.Integer(1), value.Integer(3))
	if err != nil || got != value.Integer(8) {
		t.Fatalf("Shl(1,3) = %v, %v, want 8, nil", got, err)
	}
	got, err = Shr(value.Integer(8), value.Integer(3))
	if err != nil || got != value.Integer(1) {
		t.Fatalf("Shr(8,3) = %v, %v, want 1, nil", got, err)
	}
}

func TestLogicalNoShortCircuit(t *testing.T) {
	got, err := logical(ast.OpOr, value.Boolean(true), value.Boolean(false))
	if err != nil || got != value.Boolean(true) {
		t.Fatalf("logical(or, true, false) = %v, %v", got, err)
	}
	got, err = logical(ast.OpXor, value.Boolean(true), value.Boolean(true))
	if err != nil || got != value.Boolean(false) {
		t.Fatalf("logical(xor, true, true) = %v, %v", got, err)
	}
}

func TestUnary(t *testing.T) {
	got, err := Unary(ast.UnaryNot, value.Boolean(false))
	if err != nil || got != value.Boolean(true) {
		t.Fatalf("Unary(not, false) = %v, %v", got, err)
	}
	got, err = Unary(ast.UnaryNeg, value.Integer(5))
	if err != nil {
		t.Fatalf("Unary(neg, 5) error: %v", err)
	}
	if got.(value.Decimal).String() != "-5" {
		t.Fatalf("Unary(neg, 5) = %s, want -5", got.(value.Decimal).String())
	}
}

func TestResolveComparerNullAware(t *testing.T) {
	reg := value.NewRegistry()
	cmp := ResolveComparer(reg, value.NullValue, value.Integer(1))
	n, err := cmp(value.NullValue, value.Integer(1))
	if err != nil || n == 0 {
		t.Fatalf("expected Null to compare unequal to Integer(1), got %d, %v", n, err)
	}
}

func TestWalkerCompareEqualityAcrossIncomparableKinds(t *testing.T) {
	w := NewWalker(newFakeHost())
	v, err := w.Compare(ast.OpEq, value.Text("x"), value.Boolean(true))
	if err != nil {
		t.Fatalf("Compare error: %v", err)
	}
	if v != value.Boolean(false) {
		t.Fatalf("Compare(Text, Boolean, ==) = %v, want false", v)
	}
}

func TestWalkerCompareEqualityIsSymmetric(t *testing.T) {
	w := NewWalker(newFakeHost())
	a, err := w.Compare(ast.OpEq, value.Integer(1), value.Text("1"))
	if err != nil {
		t.Fatalf("Compare error: %v", err)
	}
	b, err := w.Compare(ast.OpEq, value.Text("1"), value.Integer(1))
	if err != nil {
		t.Fatalf("Compare error: %v", err)
	}
	if a != value.Boolean(false) || b != value.Boolean(false) {
		t.Fatalf("Compare(1, \"1\", ==) = %v, Compare(\"1\", 1, ==) = %v, want false/false", a, b)
	}
}

func TestWalkerCompareNumericCrossKind(t *testing.T) {
	w := NewWalker(newFakeHost())
	v, err := w.Compare(ast.OpLt, value.Integer(1), value.DecimalFromFloat64(1.5))
	if err != nil {
		t.Fatalf("Compare error: %v", err)
	}
	if v != value.Boolean(true) {
		t.Fatalf("Compare(1, 1.5, <) = %v, want true", v)
	}
}
