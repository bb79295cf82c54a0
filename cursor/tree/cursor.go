package tree

import (
	"slices"

	"github.com/jacoelho/pathextract/cursor"
	"github.com/jacoelho/pathextract/internal/stack"
)

// level is one container being iterated.
type level struct {
	parent   Kind // KindScalar at the top level
	siblings []*Node
	idx      int // -1 before the first sibling
}

func (l *level) current() *Node {
	if l.idx < 0 || l.idx >= len(l.siblings) {
		return nil
	}
	return l.siblings[l.idx]
}

func (l *level) position() cursor.Position {
	n := l.current()
	if n == nil {
		return cursor.Position{}.At(l.idx)
	}
	switch l.parent {
	case KindStruct:
		return cursor.FieldPosition(n.Name).At(l.idx)
	case KindList:
		return cursor.IndexPosition(l.idx)
	}
	return cursor.Position{Kind: cursor.Root}.At(l.idx)
}

// Cursor walks a sequence of root nodes.
type Cursor struct {
	levels *stack.Stack[level]
}

var (
	_ cursor.Cursor      = (*Cursor)(nil)
	_ cursor.Locator     = (*Cursor)(nil)
	_ cursor.ValueReader = (*Cursor)(nil)
)

// NewCursor returns a cursor positioned before the first root.
func NewCursor(roots ...*Node) *Cursor {
	c := &Cursor{levels: stack.New[level](8)}
	c.levels.Push(level{parent: KindScalar, siblings: roots, idx: -1})
	return c
}

func (c *Cursor) Next() bool {
	l := c.levels.PeekRef()
	if l.idx < len(l.siblings) {
		l.idx++
	}
	return l.idx < len(l.siblings)
}

// Err is always nil: an in-memory tree cannot fail.
func (c *Cursor) Err() error {
	return nil
}

func (c *Cursor) Depth() int {
	return c.levels.Size() - 1
}

func (c *Cursor) Position() cursor.Position {
	return c.levels.PeekRef().position()
}

func (c *Cursor) Annotations() []string {
	n := c.levels.PeekRef().current()
	if n == nil {
		return nil
	}
	return slices.Clone(n.Annotations)
}

func (c *Cursor) IsContainer() bool {
	n := c.levels.PeekRef().current()
	return n != nil && n.IsContainer()
}

func (c *Cursor) StepIn() error {
	n := c.levels.PeekRef().current()
	if n == nil {
		return cursor.ErrNoValue
	}
	if !n.IsContainer() {
		return cursor.ErrNotContainer
	}
	c.levels.Push(level{parent: n.Kind, siblings: n.Children, idx: -1})
	return nil
}

func (c *Cursor) StepOut() error {
	if c.levels.Size() <= 1 {
		return cursor.ErrAtTopLevel
	}
	c.levels.Pop()
	return nil
}

// Location renders the path from the root value to the current value.
func (c *Cursor) Location() string {
	positions := make([]cursor.Position, 0, c.levels.Size())
	for i := 1; i < c.levels.Size(); i++ {
		positions = append(positions, c.levels.At(i).position())
	}
	return cursor.FormatLocation(positions)
}

// Value materializes the current node without moving the cursor.
func (c *Cursor) Value() (any, error) {
	n := c.levels.PeekRef().current()
	if n == nil {
		return nil, cursor.ErrNoValue
	}
	return n.Materialize(), nil
}

// Node returns the current node, or nil.
func (c *Cursor) Node() *Node {
	return c.levels.PeekRef().current()
}
