// Package tree is an in-memory annotated document model with a Cursor over it.
//
// Structs keep their fields in order and allow duplicate names, which is
// what streaming formats permit; lists are positional.
package tree

import (
	"fmt"
	"maps"
	"slices"
)

// Constants for node kinds.
const (
	KindScalar Kind = iota
	KindStruct
	KindList
)

// Kind of a Node.
type Kind uint8

// Node is one value of a document.
type Node struct {
	Kind        Kind
	Name        string // field name when the parent is a struct
	Annotations []string
	Value       any // scalar value, nil for containers
	Children    []*Node
}

// Scalar returns a scalar node holding v.
func Scalar(v any) *Node {
	return &Node{Kind: KindScalar, Value: v}
}

// Struct returns a struct node. Children are expected to be built with Field.
func Struct(fields ...*Node) *Node {
	return &Node{Kind: KindStruct, Children: fields}
}

// List returns a list node.
func List(items ...*Node) *Node {
	return &Node{Kind: KindList, Children: items}
}

// Field returns a copy of n named name.
func Field(name string, n *Node) *Node {
	c := *n
	c.Name = name
	return &c
}

// Annotate returns a copy of n carrying annotations.
func (n *Node) Annotate(annotations ...string) *Node {
	c := *n
	c.Annotations = append(slices.Clone(n.Annotations), annotations...)
	return &c
}

func (n *Node) IsContainer() bool {
	return n.Kind == KindStruct || n.Kind == KindList
}

// Materialize converts the subtree to plain Go values. Duplicate struct
// fields keep the last value.
func (n *Node) Materialize() any {
	switch n.Kind {
	case KindStruct:
		m := make(map[string]any, len(n.Children))
		for _, c := range n.Children {
			m[c.Name] = c.Materialize()
		}
		return m
	case KindList:
		out := make([]any, 0, len(n.Children))
		for _, c := range n.Children {
			out = append(out, c.Materialize())
		}
		return out
	}
	return n.Value
}

// FromValue builds a tree from decoded Go values. Map keys are sorted.
func FromValue(v any) (*Node, error) {
	switch val := v.(type) {
	case map[string]any:
		n := Struct()
		for _, k := range slices.Sorted(maps.Keys(val)) {
			child, err := FromValue(val[k])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			child.Name = k
			n.Children = append(n.Children, child)
		}
		return n, nil
	case []any:
		n := List()
		for i, item := range val {
			child, err := FromValue(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			n.Children = append(n.Children, child)
		}
		return n, nil
	case nil, bool, string, float64, float32, int, int64, int32, uint, uint64, uint32, fmt.Stringer:
		return Scalar(val), nil
	}
	return nil, fmt.Errorf("unsupported value of type %T", v)
}
