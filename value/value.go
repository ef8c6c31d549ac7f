// Package value implements the tagged value universe the evaluator
// computes over (spec.md §3, §4.1) and the coercion helpers every
// operator and assignment path routes through.
package value

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oarkflow/convert"
	"github.com/oarkflow/date"

	"github.com/oarkflow/macroeval/ast"
	"github.com/oarkflow/macroeval/errs"
)

// Kind tags a Value's variant. Operator dispatch and the comparer
// registry key off Kind rather than Go's own type switch machinery,
// so a single predicate function replaces the module-level numeric-type
// list the source kept (spec.md §9).
type Kind int

const (
	KindInteger Kind = iota
	KindDecimal
	KindBoolean
	KindText
	KindCharacter
	KindDateTime
	KindDuration
	KindGuid
	KindNull
	KindCollection
	KindHostObject
	KindLambda
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "Integer"
	case KindDecimal:
		return "Decimal"
	case KindBoolean:
		return "Boolean"
	case KindText:
		return "Text"
	case KindCharacter:
		return "Character"
	case KindDateTime:
		return "DateTime"
	case KindDuration:
		return "Duration"
	case KindGuid:
		return "Guid"
	case KindNull:
		return "Null"
	case KindCollection:
		return "Collection"
	case KindHostObject:
		return "HostObject"
	case KindLambda:
		return "Lambda"
	default:
		return "Unknown"
	}
}

// Value is implemented by every variant in the tagged union.
type Value interface {
	Kind() Kind
	String() string
}

// IsNumeric reports whether v is Integer or Decimal — the predicate
// function that replaces the source's numeric-type list (spec.md §9).
func IsNumeric(v Value) bool {
	k := v.Kind()
	return k == KindInteger || k == KindDecimal
}

// Integer is a signed 32-bit value. Overflowing arithmetic wraps per
// two's-complement and is intentionally left unchecked (spec.md §3 —
// this matches observed source behaviour and is an open item, not a bug
// to silently fix).
type Integer int32

func (i Integer) Kind() Kind    { return KindInteger }
func (i Integer) String() string { return strconv.FormatInt(int64(i), 10) }

// Boolean is a truth value.
type Boolean bool

func (b Boolean) Kind() Kind { return KindBoolean }
func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Text is a string value.
type Text string

func (t Text) Kind() Kind    { return KindText }
func (t Text) String() string { return string(t) }

// Character is a single-rune text value with its own tag (spec.md §3:
// "distinct tag but represented as a single-character text").
type Character string

func (c Character) Kind() Kind    { return KindCharacter }
func (c Character) String() string { return string(c) }

// DateTime is an instant. Rendering is locale-deferred to the host per
// spec.md §4.1; the canonical form used here is RFC3339, the layout the
// pack's own date handling (github.com/oarkflow/date) round-trips.
type DateTime struct {
	Time time.Time
}

func (d DateTime) Kind() Kind    { return KindDateTime }
func (d DateTime) String() string { return d.Time.Format(time.RFC3339) }

// Duration is a signed time span.
type Duration struct {
	Dur time.Duration
}

func (d Duration) Kind() Kind    { return KindDuration }
func (d Duration) String() string { return d.Dur.String() }

// Guid is a 128-bit identifier backed by github.com/google/uuid.
type Guid struct {
	ID uuid.UUID
}

func (g Guid) Kind() Kind    { return KindGuid }
func (g Guid) String() string { return g.ID.String() }

// Null is the absent-value singleton.
type Null struct{}

func (Null) Kind() Kind    { return KindNull }
func (Null) String() string { return "" }

// NullValue is the single Null instance; comparisons against it should
// use a type switch on Null, not pointer identity, since it is a value type.
var NullValue Value = Null{}

// IsNull reports whether v carries the Null tag.
func IsNull(v Value) bool {
	_, ok := v.(Null)
	return ok
}

// HostObject is an opaque handle threaded through host calls; the
// evaluator never inspects Handle, only carries it.
type HostObject struct {
	Handle any
}

func (HostObject) Kind() Kind { return KindHostObject }
func (h HostObject) String() string {
	return fmt.Sprintf("%v", h.Handle)
}

// Lambda is a captured subtree plus a snapshot of the enclosing scope
// at capture time (spec.md §3, §4.5). Closure is copied by value, never
// aliased, when the lambda is created.
type Lambda struct {
	Params  []string
	Body    ast.Node
	Closure map[string]Value
}

func (Lambda) Kind() Kind    { return KindLambda }
func (l Lambda) String() string { return "lambda" }

// Collection is an ordered sequence of values, indexable by integer
// position or by string key (spec.md §3).
type Collection struct {
	Items []Value
	Keys  map[string]int // string key -> index into Items, for Hash-like members
}

func NewCollection() *Collection {
	return &Collection{Keys: map[string]int{}}
}

func (c *Collection) Kind() Kind { return KindCollection }

func (c *Collection) String() string {
	parts := make([]string, len(c.Items))
	for i, it := range c.Items {
		parts[i] = ToText(it)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (c *Collection) Len() int { return len(c.Items) }

func (c *Collection) Append(v Value) {
	c.Items = append(c.Items, v)
}

func (c *Collection) AtIndex(i int) (Value, bool) {
	if i < 0 || i >= len(c.Items) {
		return nil, false
	}
	return c.Items[i], true
}

func (c *Collection) ByKey(key string) (Value, bool) {
	idx, ok := c.Keys[key]
	if !ok {
		return nil, false
	}
	return c.AtIndex(idx)
}

func (c *Collection) SetKey(key string, v Value) {
	if idx, ok := c.Keys[key]; ok {
		c.Items[idx] = v
		return
	}
	c.Keys[key] = len(c.Items)
	c.Items = append(c.Items, v)
}

// Decimal is an arbitrary-precision base-10 fraction backed by
// math/big.Rat. No decimal library appears anywhere in the retrieval
// pack, so this is the one component built on the standard library
// rather than a third-party dependency (recorded in DESIGN.md).
type Decimal struct {
	Rat *big.Rat
}

func DecimalFromInt64(i int64) Decimal {
	return Decimal{Rat: new(big.Rat).SetInt64(i)}
}

func DecimalFromFloat64(f float64) Decimal {
	r := new(big.Rat)
	r.SetFloat64(f)
	if r == nil {
		return DecimalFromInt64(0)
	}
	return Decimal{Rat: r}
}

func (d Decimal) Kind() Kind { return KindDecimal }

// String renders trimming non-significant trailing zeros, keeping one
// fractional digit minimum when the integer part is zero (spec.md §4.1).
func (d Decimal) String() string {
	if d.Rat == nil {
		return "0.0"
	}
	f := d.Rat.FloatString(20)
	neg := strings.HasPrefix(f, "-")
	if neg {
		f = f[1:]
	}
	dot := strings.IndexByte(f, '.')
	intPart, fracPart := f[:dot], f[dot+1:]
	fracPart = strings.TrimRight(fracPart, "0")
	var out string
	switch {
	case fracPart != "":
		out = intPart + "." + fracPart
	case intPart == "0":
		out = "0.0"
	default:
		out = intPart
	}
	if neg {
		out = "-" + out
	}
	return out
}

func (d Decimal) Neg() Decimal {
	return Decimal{Rat: new(big.Rat).Neg(d.Rat)}
}

func (d Decimal) Add(o Decimal) Decimal { return Decimal{Rat: new(big.Rat).Add(d.Rat, o.Rat)} }
func (d Decimal) Sub(o Decimal) Decimal { return Decimal{Rat: new(big.Rat).Sub(d.Rat, o.Rat)} }
func (d Decimal) Mul(o Decimal) Decimal { return Decimal{Rat: new(big.Rat).Mul(d.Rat, o.Rat)} }

func (d Decimal) IsZero() bool { return d.Rat.Sign() == 0 }

func (d Decimal) Div(o Decimal) (Decimal, bool) {
	if o.IsZero() {
		return Decimal{}, false
	}
	return Decimal{Rat: new(big.Rat).Quo(d.Rat, o.Rat)}, true
}

// Mod falls back through float64, since base-10 remainder on arbitrary
// rationals has no single canonical definition to implement exactly.
func (d Decimal) Mod(o Decimal) (Decimal, bool) {
	if o.IsZero() {
		return Decimal{}, false
	}
	lf, _ := d.Float64()
	rf, _ := o.Float64()
	return DecimalFromFloat64(modFloat(lf, rf)), true
}

func modFloat(a, b float64) float64 {
	for a >= b {
		a -= b
	}
	for a <= -b {
		a += b
	}
	return a
}

func (d Decimal) Float64() (float64, bool) {
	f, _ := d.Rat.Float64()
	return f, true
}

func (d Decimal) Cmp(o Decimal) int {
	return d.Rat.Cmp(o.Rat)
}

// ToInteger implements spec.md §4.1's to_integer coercion.
func ToInteger(v Value) (int32, error) {
	switch t := v.(type) {
	case Integer:
		return int32(t), nil
	case Decimal:
		f, _ := t.Float64()
		return int32(f), nil
	case Boolean:
		if t {
			return 1, nil
		}
		return 0, nil
	case Text:
		if f, ok := convert.ToFloat64(string(t)); ok {
			return int32(f), nil
		}
		return 0, errs.NewTypeError("cannot convert text %q to Integer", string(t))
	case Character:
		if f, ok := convert.ToFloat64(string(t)); ok {
			return int32(f), nil
		}
		return 0, errs.NewTypeError("cannot convert character %q to Integer", string(t))
	default:
		return 0, errs.NewTypeError("cannot convert %s to Integer", v.Kind())
	}
}

// ToDecimal implements spec.md §4.1's to_decimal coercion.
func ToDecimal(v Value) (Decimal, error) {
	switch t := v.(type) {
	case Integer:
		return DecimalFromInt64(int64(t)), nil
	case Decimal:
		return t, nil
	case Boolean:
		if t {
			return DecimalFromInt64(1), nil
		}
		return DecimalFromInt64(0), nil
	case Text:
		return parseDecimalText(string(t))
	case Character:
		return parseDecimalText(string(t))
	default:
		return Decimal{}, errs.NewTypeError("cannot convert %s to Decimal", v.Kind())
	}
}

func parseDecimalText(s string) (Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if f, ok := convert.ToFloat64(cleaned); ok {
		return DecimalFromFloat64(f), nil
	}
	return Decimal{}, errs.NewTypeError("cannot convert text %q to Decimal", s)
}

// ToBoolean implements spec.md §4.1's to_boolean coercion.
func ToBoolean(v Value) (bool, error) {
	switch t := v.(type) {
	case Boolean:
		return bool(t), nil
	case Text:
		return parseBoolText(string(t))
	case Character:
		return parseBoolText(string(t))
	default:
		return false, errs.NewTypeError("cannot convert %s to Boolean", v.Kind())
	}
}

func parseBoolText(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, errs.NewTypeError("cannot convert text %q to Boolean", s)
	}
}

// ToText implements spec.md §4.1's to_text coercion. It is total: every
// variant renders to some text, including Null (empty text).
func ToText(v Value) string {
	if IsNull(v) {
		return ""
	}
	return v.String()
}

// parseDate parses a date literal's lexeme. github.com/oarkflow/date
// accepts the wide range of human-written date formats the host's
// lexer may have carried through verbatim.
func parseDate(s string) (time.Time, error) {
	return date.Parse(s)
}

// FromLiteral interprets a parsed literal node per the grammar rules in
// spec.md §4.1.
func FromLiteral(lit *ast.Literal) (Value, error) {
	switch lit.Kind {
	case ast.LitInteger:
		n, err := strconv.ParseInt(lit.Text, 10, 32)
		if err != nil {
			return nil, errs.NewTypeError("invalid integer literal %q", lit.Text)
		}
		return Integer(n), nil
	case ast.LitReal:
		f, err := strconv.ParseFloat(lit.Text, 64)
		if err != nil {
			return nil, errs.NewTypeError("invalid real literal %q", lit.Text)
		}
		return DecimalFromFloat64(f), nil
	case ast.LitPercent:
		f, err := strconv.ParseFloat(lit.Text, 64)
		if err != nil {
			return nil, errs.NewTypeError("invalid percent literal %q", lit.Text)
		}
		return DecimalFromFloat64(f / 100), nil
	case ast.LitCharacter:
		return Character(lit.Text), nil
	case ast.LitString:
		return Text(lit.Text), nil
	case ast.LitVerbatimString:
		return Text(strings.TrimPrefix(lit.Text, "@")), nil
	case ast.LitDate:
		t, err := parseDate(lit.Text)
		if err != nil {
			return nil, errs.NewTypeError("invalid date literal %q", lit.Text)
		}
		return DateTime{Time: t}, nil
	case ast.LitGuid:
		id, err := uuid.Parse(lit.Text)
		if err != nil {
			return nil, errs.NewTypeError("invalid guid literal %q", lit.Text)
		}
		return Guid{ID: id}, nil
	case ast.LitBoolean:
		return Boolean(strings.EqualFold(lit.Text, "true")), nil
	case ast.LitNull:
		return NullValue, nil
	default:
		return nil, errs.NewTypeError("unknown literal kind")
	}
}
