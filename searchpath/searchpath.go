// Package searchpath holds registered search paths: an immutable sequence of
// path components, the annotations required on the value the path is
// anchored at, and the callback fired on a full match.
//
// Search paths are written in a parenthesized text syntax:
//
//	(foo bar)        field bar inside field foo
//	(foo 0)          first element of the sequence in field foo
//	(* name)         field name inside any field or element
//	(A::foo)         field foo annotated with A
//	B::(foo)         field foo of a root value annotated with B
//	()               the root value itself
//
// FromJSONPath converts the equivalent subset of RFC 9535 JSONPath.
package searchpath

import (
	"fmt"
	"slices"

	"github.com/jacoelho/pathextract/component"
	"github.com/jacoelho/pathextract/cursor"
)

// Callback is invoked with the cursor positioned on a matching value.
//
// The callback must not advance the cursor past the value and must leave the
// cursor at the depth it was handed. The returned step-out count tells the
// extractor how many enclosing containers to stop scanning: 0 continues with
// the next sibling, 1 skips the remaining siblings of the matched value, and
// so on up to the depth of the matched value.
type Callback[T any] func(c cursor.Cursor, state T) (int, error)

// Stateless adapts a callback that ignores the evaluation state.
func Stateless[T any](f func(c cursor.Cursor) (int, error)) Callback[T] {
	if f == nil {
		return nil
	}
	return func(c cursor.Cursor, _ T) (int, error) {
		return f(c)
	}
}

// SearchPath is a registered pattern with its callback.
// It is immutable and safe to share between goroutines.
type SearchPath[T any] struct {
	components  []component.Component
	annotations []string
	callback    Callback[T]
	text        string
}

// New validates p and binds it to callback.
func New[T any](p Pattern, callback Callback[T]) (*SearchPath[T], error) {
	if callback == nil {
		return nil, ErrNilCallback
	}

	for i, c := range p.Components {
		if c.Kind() == 0 {
			return nil, fmt.Errorf("%w: component %d: %w", ErrInvalidPath, i, component.ErrInvalidComponent)
		}
	}

	for _, a := range p.Annotations {
		if a == "" {
			return nil, fmt.Errorf("%w: empty annotation", ErrInvalidPath)
		}
	}

	sp := &SearchPath[T]{
		components:  slices.Clone(p.Components),
		annotations: slices.Clone(p.Annotations),
		callback:    callback,
	}
	sp.text = sp.Pattern().String()
	return sp, nil
}

// Len is the number of components.
func (sp *SearchPath[T]) Len() int {
	return len(sp.components)
}

// Component returns the i-th component.
func (sp *SearchPath[T]) Component(i int) component.Component {
	return sp.components[i]
}

// Components returns a copy of the components.
func (sp *SearchPath[T]) Components() []component.Component {
	return slices.Clone(sp.components)
}

// Annotations returns a copy of the anchor annotations.
func (sp *SearchPath[T]) Annotations() []string {
	return slices.Clone(sp.annotations)
}

// Callback returns the registered callback.
func (sp *SearchPath[T]) Callback() Callback[T] {
	return sp.callback
}

// Pattern returns the structured form of the path.
func (sp *SearchPath[T]) Pattern() Pattern {
	return Pattern{
		Components:  slices.Clone(sp.components),
		Annotations: slices.Clone(sp.annotations),
	}
}

// AnchoredAt reports whether the path may start matching at a value carrying annotations.
func (sp *SearchPath[T]) AnchoredAt(annotations []string, caseInsensitive bool) bool {
	return component.AnnotationsMatch(sp.annotations, annotations, caseInsensitive)
}

func (sp *SearchPath[T]) String() string {
	return sp.text
}
