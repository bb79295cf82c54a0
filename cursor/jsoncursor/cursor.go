// Package jsoncursor is a forward-only cursor over a stream of JSON values.
//
// Containers are read lazily: stepping over a container the caller never
// entered discards its tokens, and stepping into one streams its children.
// Value buffers the current container, after which it can still be entered
// from memory. Numbers are reported as json.Number. JSON carries no
// annotations.
package jsoncursor

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jacoelho/pathextract/cursor"
	"github.com/jacoelho/pathextract/cursor/tree"
	"github.com/jacoelho/pathextract/internal/stack"
)

type frameKind uint8

const (
	kindTop frameKind = iota
	kindObject
	kindArray
)

// frame is one level being iterated, either from the stream or from a
// buffered container.
type frame struct {
	kind  frameKind
	index int // -1 before the first child
	name  string
	done  bool

	// current child when streaming
	tok     json.Token
	pending bool // tok opens a container whose tokens are unread

	// current child once buffered
	node *tree.Node

	buffered bool
	children []*tree.Node
}

func (f *frame) positioned() bool {
	return f.index >= 0 && !f.done
}

// Cursor reads JSON values from an io.Reader.
type Cursor struct {
	dec    *json.Decoder
	frames *stack.Stack[frame]
	err    error
}

var (
	_ cursor.Cursor      = (*Cursor)(nil)
	_ cursor.Locator     = (*Cursor)(nil)
	_ cursor.ValueReader = (*Cursor)(nil)
)

// New returns a cursor positioned before the first top-level value of r.
func New(r io.Reader) *Cursor {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	c := &Cursor{dec: dec, frames: stack.New[frame](16)}
	c.frames.Push(frame{kind: kindTop, index: -1})
	return c
}

func (c *Cursor) Next() bool {
	if c.err != nil {
		return false
	}

	f := c.frames.PeekRef()
	if f.done {
		return false
	}
	if f.buffered {
		return c.nextBuffered(f)
	}

	if f.pending {
		if err := skipValue(c.dec); err != nil {
			c.err = err
			return false
		}
		f.pending = false
	}

	ok, err := c.nextStreamed(f)
	if err != nil {
		c.err = err
		return false
	}
	return ok
}

func (c *Cursor) nextBuffered(f *frame) bool {
	f.index++
	if f.index >= len(f.children) {
		f.done = true
		f.node = nil
		return false
	}
	f.node = f.children[f.index]
	f.name = f.node.Name
	return true
}

func (c *Cursor) nextStreamed(f *frame) (bool, error) {
	f.node = nil

	switch f.kind {
	case kindTop:
		tok, err := c.dec.Token()
		if errors.Is(err, io.EOF) {
			f.done = true
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		return c.advance(f, tok)

	case kindObject:
		tok, err := token(c.dec)
		if err != nil {
			return false, err
		}
		if tok == json.Delim('}') {
			f.done = true
			return false, nil
		}
		key, ok := tok.(string)
		if !ok {
			return false, fmt.Errorf("%w: object key %v is not a string", ErrMalformed, tok)
		}
		f.name = key

		tok, err = token(c.dec)
		if err != nil {
			return false, err
		}
		return c.advance(f, tok)

	default:
		tok, err := token(c.dec)
		if err != nil {
			return false, err
		}
		if tok == json.Delim(']') {
			f.done = true
			return false, nil
		}
		return c.advance(f, tok)
	}
}

func (c *Cursor) advance(f *frame, tok json.Token) (bool, error) {
	if d, ok := tok.(json.Delim); ok && !isOpening(d) {
		return false, fmt.Errorf("%w: unexpected delimiter %q", ErrMalformed, rune(d))
	}
	f.index++
	f.tok = tok
	f.pending = isOpening(tok)
	return true, nil
}

func (c *Cursor) Err() error {
	return c.err
}

func (c *Cursor) Depth() int {
	return c.frames.Size() - 1
}

func (c *Cursor) Position() cursor.Position {
	return position(c.frames.PeekRef())
}

func position(f *frame) cursor.Position {
	if !f.positioned() {
		// exhausted levels must not compare equal to their first value
		return cursor.Position{}.At(-1)
	}
	switch f.kind {
	case kindObject:
		return cursor.FieldPosition(f.name).At(f.index)
	case kindArray:
		return cursor.IndexPosition(f.index)
	}
	return cursor.Position{Kind: cursor.Root}.At(f.index)
}

// Annotations is always empty for JSON.
func (c *Cursor) Annotations() []string {
	return nil
}

func (c *Cursor) IsContainer() bool {
	f := c.frames.PeekRef()
	if !f.positioned() {
		return false
	}
	if f.node != nil {
		return f.node.IsContainer()
	}
	return isOpening(f.tok)
}

func (c *Cursor) StepIn() error {
	if c.err != nil {
		return c.err
	}

	f := c.frames.PeekRef()
	if !f.positioned() {
		return cursor.ErrNoValue
	}

	if f.node != nil {
		if !f.node.IsContainer() {
			return cursor.ErrNotContainer
		}
		kind := kindObject
		if f.node.Kind == tree.KindList {
			kind = kindArray
		}
		c.frames.Push(frame{kind: kind, index: -1, buffered: true, children: f.node.Children})
		return nil
	}

	if !isOpening(f.tok) {
		return cursor.ErrNotContainer
	}
	if !f.pending {
		return ErrConsumed
	}

	f.pending = false
	kind := kindObject
	if f.tok == json.Delim('[') {
		kind = kindArray
	}
	c.frames.Push(frame{kind: kind, index: -1})
	return nil
}

// StepOut discards the unread remainder of a streamed container.
func (c *Cursor) StepOut() error {
	if c.frames.Size() == 1 {
		return cursor.ErrAtTopLevel
	}

	f := c.frames.PeekRef()
	if !f.buffered {
		for c.Next() {
		}
		if c.err != nil {
			return c.err
		}
	}

	c.frames.Pop()
	return nil
}

// Location renders the current position, e.g. $.store.book[0].
func (c *Cursor) Location() string {
	positions := make([]cursor.Position, 0, c.frames.Size())
	for i := 1; i < c.frames.Size(); i++ {
		positions = append(positions, position(c.frames.At(i)))
	}
	return cursor.FormatLocation(positions)
}

// Value returns the current value. Containers are decoded into
// map[string]any or []any and stay readable afterwards.
func (c *Cursor) Value() (any, error) {
	if c.err != nil {
		return nil, c.err
	}

	f := c.frames.PeekRef()
	if !f.positioned() {
		return nil, cursor.ErrNoValue
	}
	if f.node != nil {
		return f.node.Materialize(), nil
	}
	if !isOpening(f.tok) {
		return f.tok, nil
	}
	if !f.pending {
		return nil, ErrConsumed
	}

	n, err := decodeNode(c.dec, f.tok.(json.Delim))
	if err != nil {
		c.err = err
		return nil, err
	}
	f.pending = false
	f.node = tree.Field(f.name, n)
	return f.node.Materialize(), nil
}
