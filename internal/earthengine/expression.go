package earthengine

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Valuer is implemented by every typed expression handle.
type Valuer interface {
	node() *node
}

// node is one vertex of an expression graph. Exactly one of the value
// fields is meaningful, selected by kind.
type node struct {
	kind     nodeKind
	constant any
	function string
	args     map[string]*node
	items    []*node
	argRef   string
	params   []string
	body     *node
}

type nodeKind int

const (
	kindConstant nodeKind = iota
	kindInvocation
	kindArray
	kindArgument
	kindFunction
)

// args is the argument list of a function invocation. Values may be
// Valuers, *node, Go constants, or slices of Valuers.
type args map[string]any

func invoke(function string, a args) *node {
	n := &node{kind: kindInvocation, function: function, args: make(map[string]*node, len(a))}
	for k, v := range a {
		if v == nil {
			continue
		}
		n.args[k] = toNode(v)
	}
	return n
}

func constant(v any) *node {
	return &node{kind: kindConstant, constant: v}
}

func toNode(v any) *node {
	switch t := v.(type) {
	case *node:
		return t
	case Valuer:
		return t.node()
	case []Image:
		items := make([]*node, len(t))
		for i, img := range t {
			items[i] = img.node()
		}
		return &node{kind: kindArray, items: items}
	default:
		return constant(v)
	}
}

// Expression is the serialized form of a graph accepted by the REST API.
type Expression struct {
	Result string               `json:"result"`
	Values map[string]ValueNode `json:"values"`
}

// ValueNode is a single serialized value. Only one field is set.
type ValueNode struct {
	Constant                *constantValue      `json:"constantValue,omitempty"`
	ValueReference          string              `json:"valueReference,omitempty"`
	ArgumentReference       string              `json:"argumentReference,omitempty"`
	FunctionInvocationValue *FunctionInvocation `json:"functionInvocationValue,omitempty"`
	FunctionDefinitionValue *FunctionDefinition `json:"functionDefinitionValue,omitempty"`
	ArrayValue              *ArrayValue         `json:"arrayValue,omitempty"`
}

// constantValue wraps a constant so that zero values and null still serialize.
type constantValue struct {
	v any
}

func (c *constantValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.v)
}

func (c *constantValue) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &c.v)
}

// Value returns the wrapped constant.
func (c *constantValue) Value() any {
	return c.v
}

// FunctionInvocation calls a named server-side algorithm.
type FunctionInvocation struct {
	FunctionName string               `json:"functionName"`
	Arguments    map[string]ValueNode `json:"arguments"`
}

// FunctionDefinition is a lambda used by Collection.map.
type FunctionDefinition struct {
	ArgumentNames []string `json:"argumentNames"`
	Body          string   `json:"body"`
}

// ArrayValue is an inline list of values.
type ArrayValue struct {
	Values []ValueNode `json:"values"`
}

// Encode serializes the graph rooted at v. Shared sub-expressions are
// emitted once and referenced by id; ids are assigned in a deterministic
// post-order walk so equal graphs always encode to equal JSON.
func Encode(v Valuer) (*Expression, error) {
	if v == nil || v.node() == nil {
		return nil, ErrEmptyExpression
	}
	e := &encoder{ids: make(map[*node]string), values: make(map[string]ValueNode)}
	root, err := e.reference(v.node())
	if err != nil {
		return nil, err
	}
	return &Expression{Result: root, Values: e.values}, nil
}

type encoder struct {
	ids    map[*node]string
	values map[string]ValueNode
}

// reference stores n in the values table and returns its id.
func (e *encoder) reference(n *node) (string, error) {
	if id, ok := e.ids[n]; ok {
		return id, nil
	}
	value, err := e.value(n)
	if err != nil {
		return "", err
	}
	id := strconv.Itoa(len(e.values))
	e.ids[n] = id
	e.values[id] = value
	return id, nil
}

// inline returns the node as it appears inside an argument or array.
func (e *encoder) inline(n *node) (ValueNode, error) {
	switch n.kind {
	case kindConstant:
		return ValueNode{Constant: &constantValue{v: n.constant}}, nil
	case kindArgument:
		return ValueNode{ArgumentReference: n.argRef}, nil
	case kindArray:
		return e.value(n)
	default:
		id, err := e.reference(n)
		if err != nil {
			return ValueNode{}, err
		}
		return ValueNode{ValueReference: id}, nil
	}
}

func (e *encoder) value(n *node) (ValueNode, error) {
	switch n.kind {
	case kindConstant:
		return ValueNode{Constant: &constantValue{v: n.constant}}, nil
	case kindArgument:
		return ValueNode{ArgumentReference: n.argRef}, nil
	case kindArray:
		items := make([]ValueNode, len(n.items))
		for i, item := range n.items {
			v, err := e.inline(item)
			if err != nil {
				return ValueNode{}, err
			}
			items[i] = v
		}
		return ValueNode{ArrayValue: &ArrayValue{Values: items}}, nil
	case kindFunction:
		body, err := e.reference(n.body)
		if err != nil {
			return ValueNode{}, err
		}
		return ValueNode{FunctionDefinitionValue: &FunctionDefinition{ArgumentNames: n.params, Body: body}}, nil
	case kindInvocation:
		keys := make([]string, 0, len(n.args))
		for k := range n.args {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		arguments := make(map[string]ValueNode, len(keys))
		for _, k := range keys {
			v, err := e.inline(n.args[k])
			if err != nil {
				return ValueNode{}, err
			}
			arguments[k] = v
		}
		return ValueNode{FunctionInvocationValue: &FunctionInvocation{FunctionName: n.function, Arguments: arguments}}, nil
	default:
		return ValueNode{}, fmt.Errorf("earthengine: unknown node kind %d", n.kind)
	}
}

// Functions returns the names of every algorithm invoked by the
// expression, in id order. It is mostly useful for logging and tests.
func (x *Expression) Functions() []string {
	ids := make([]int, 0, len(x.Values))
	for k := range x.Values {
		if id, err := strconv.Atoi(k); err == nil {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	var names []string
	for _, id := range ids {
		if f := x.Values[strconv.Itoa(id)].FunctionInvocationValue; f != nil {
			names = append(names, f.FunctionName)
		}
	}
	return names
}
