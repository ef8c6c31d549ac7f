package value

import "testing"

func TestNullComparer(t *testing.T) {
	if n, err := NullComparer(NullValue, NullValue); err != nil || n != 0 {
		t.Fatalf("NullComparer(Null, Null) = %d, %v, want 0, nil", n, err)
	}
	if n, err := NullComparer(NullValue, Integer(1)); err != nil || n == 0 {
		t.Fatalf("NullComparer(Null, 1) = %d, %v, want nonzero", n, err)
	}
}

func TestNumericComparer(t *testing.T) {
	n, err := NumericComparer(Integer(1), DecimalFromFloat64(1.5))
	if err != nil {
		t.Fatalf("NumericComparer error: %v", err)
	}
	if n >= 0 {
		t.Fatalf("NumericComparer(1, 1.5) = %d, want negative", n)
	}
}

func TestDefaultComparerText(t *testing.T) {
	n, err := DefaultComparer(Text("apple"), Text("banana"))
	if err != nil || n >= 0 {
		t.Fatalf("DefaultComparer(apple, banana) = %d, %v, want negative", n, err)
	}
}

func TestDefaultComparerBoolean(t *testing.T) {
	n, err := DefaultComparer(Boolean(false), Boolean(true))
	if err != nil || n >= 0 {
		t.Fatalf("DefaultComparer(false, true) = %d, %v, want negative", n, err)
	}
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Lookup(KindText); ok {
		t.Fatal("fresh registry should not carry a Text comparer")
	}
	r.RegisterKind(KindText, DefaultComparer)
	if _, ok := r.Lookup(KindText); !ok {
		t.Fatal("RegisterKind then Lookup should hit")
	}
	r.RegisterToken("money", NumericComparer)
	if _, ok := r.LookupToken("money"); !ok {
		t.Fatal("RegisterToken then LookupToken should hit")
	}
}
