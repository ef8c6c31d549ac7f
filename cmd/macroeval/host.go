// demoHost is a minimal github.com/oarkflow/macroeval/host.Evaluator
// implementation used to exercise the evaluator end to end. A real
// host would back GetVariable/InvokeMethod/InvokeMember/InvokeIndexer
// with its own object model; this one is deliberately small.
package main

import (
	"context"
	"strings"

	"github.com/oarkflow/errors"

	"github.com/oarkflow/macroeval/host"
	"github.com/oarkflow/macroeval/value"
)

type demoHost struct {
	vars      map[string]value.Value
	params    map[string]value.Value
	output    strings.Builder
	ctx       context.Context
	comparers *value.Registry
}

func newDemoHost(ctx context.Context) *demoHost {
	return &demoHost{
		vars:      map[string]value.Value{},
		params:    map[string]value.Value{},
		ctx:       ctx,
		comparers: value.NewRegistry(),
	}
}

func (h *demoHost) GetVariable(name string) (value.Value, bool) {
	v, ok := h.vars[name]
	return v, ok
}

func (h *demoHost) InvokeMethod(name string, args []value.Value) (value.Value, error) {
	switch name {
	case "print":
		for _, a := range args {
			h.output.WriteString(value.ToText(a))
		}
		return value.NullValue, nil
	case "len":
		return builtinLen(args)
	default:
		return nil, errors.New("unknown method: " + name)
	}
}

func (h *demoHost) InvokeMember(receiver value.Value, name string, args []value.Value) (value.Value, error) {
	if args != nil {
		switch name {
		case "upper":
			return value.Text(strings.ToUpper(value.ToText(receiver))), nil
		case "lower":
			return value.Text(strings.ToLower(value.ToText(receiver))), nil
		case "len":
			return builtinLen([]value.Value{receiver})
		default:
			return nil, errors.New("unknown member method: " + name)
		}
	}
	if c, ok := receiver.(*value.Collection); ok {
		if v, ok := c.ByKey(name); ok {
			return v, nil
		}
	}
	return nil, errors.New("unknown property: " + name)
}

func builtinLen(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, errors.New("len expects exactly one argument")
	}
	switch t := args[0].(type) {
	case value.Text:
		return value.Integer(len([]rune(string(t)))), nil
	case *value.Collection:
		return value.Integer(t.Len()), nil
	default:
		return nil, errors.New("len not defined for this type")
	}
}

func (h *demoHost) InvokeIndexer(receiver value.Value, key value.Value) (value.Value, error) {
	c, ok := receiver.(*value.Collection)
	if !ok {
		return nil, errors.New("indexer target is not a collection")
	}
	switch k := key.(type) {
	case value.Integer:
		if v, ok := c.AtIndex(int(k)); ok {
			return v, nil
		}
		return value.NullValue, nil
	default:
		if v, ok := c.ByKey(value.ToText(key)); ok {
			return v, nil
		}
		return value.NullValue, nil
	}
}

func (h *demoHost) SaveParameter(name string, v value.Value) error {
	h.params[name] = v
	return nil
}

func (h *demoHost) FlushOutput() (string, bool) {
	if h.output.Len() == 0 {
		return "", false
	}
	text := h.output.String()
	h.output.Reset()
	return text, true
}

func (h *demoHost) GetCancellationToken() host.Token {
	return cancelToken{ctx: h.ctx}
}

func (h *demoHost) KnownComparers() *value.Registry {
	return h.comparers
}

type cancelToken struct {
	ctx context.Context
}

func (t cancelToken) Cancelled() bool {
	if t.ctx == nil {
		return false
	}
	return t.ctx.Err() != nil
}
