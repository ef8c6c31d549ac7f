package eval

import (
	"strings"

	"github.com/oarkflow/macroeval/host"
	"github.com/oarkflow/macroeval/value"
)

// fakeHost is a minimal host.Evaluator used across this package's tests.
type fakeHost struct {
	vars      map[string]value.Value
	params    map[string]value.Value
	output    strings.Builder
	cancelled bool
	comparers *value.Registry
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		vars:      map[string]value.Value{},
		params:    map[string]value.Value{},
		comparers: value.NewRegistry(),
	}
}

func (h *fakeHost) GetVariable(name string) (value.Value, bool) {
	v, ok := h.vars[name]
	return v, ok
}

func (h *fakeHost) InvokeMethod(name string, args []value.Value) (value.Value, error) {
	switch name {
	case "print":
		for _, a := range args {
			h.output.WriteString(value.ToText(a))
		}
		return value.NullValue, nil
	case "sum":
		var total int32
		for _, a := range args {
			n, err := value.ToInteger(a)
			if err != nil {
				return nil, err
			}
			total += n
		}
		return value.Integer(total), nil
	default:
		return nil, errUnknownMethod(name)
	}
}

func (h *fakeHost) InvokeMember(receiver value.Value, name string, args []value.Value) (value.Value, error) {
	if args != nil {
		switch name {
		case "upper":
			return value.Text(strings.ToUpper(value.ToText(receiver))), nil
		default:
			return nil, errUnknownMethod(name)
		}
	}
	if c, ok := receiver.(*value.Collection); ok {
		if v, ok := c.ByKey(name); ok {
			return v, nil
		}
	}
	return nil, errUnknownMember(name)
}

func (h *fakeHost) InvokeIndexer(receiver value.Value, key value.Value) (value.Value, error) {
	c, ok := receiver.(*value.Collection)
	if !ok {
		return nil, errNotIndexable()
	}
	if k, ok := key.(value.Integer); ok {
		if v, ok := c.AtIndex(int(k)); ok {
			return v, nil
		}
		return value.NullValue, nil
	}
	if v, ok := c.ByKey(value.ToText(key)); ok {
		return v, nil
	}
	return value.NullValue, nil
}

func (h *fakeHost) SaveParameter(name string, v value.Value) error {
	h.params[name] = v
	return nil
}

func (h *fakeHost) FlushOutput() (string, bool) {
	if h.output.Len() == 0 {
		return "", false
	}
	text := h.output.String()
	h.output.Reset()
	return text, true
}

func (h *fakeHost) GetCancellationToken() host.Token {
	return fakeToken{cancelled: &h.cancelled}
}

func (h *fakeHost) KnownComparers() *value.Registry {
	return h.comparers
}

type fakeToken struct {
	cancelled *bool
}

func (t fakeToken) Cancelled() bool { return *t.cancelled }

type simpleError string

func (e simpleError) Error() string { return string(e) }

func errUnknownMethod(name string) error { return simpleError("unknown method: " + name) }
func errUnknownMember(name string) error { return simpleError("unknown member: " + name) }
func errNotIndexable() error             { return simpleError("receiver is not indexable") }
