// Package stack provides the LIFO the cursors keep their container frames in.
package stack

// Stack keeps frames bottom to top. Frames are addressed by depth so that a
// cursor can render its location without copying.
type Stack[T any] struct {
	items []T
}

// New reserves room for capacity frames.
func New[T any](capacity int) *Stack[T] {
	return &Stack[T]{
		items: make([]T, 0, capacity),
	}
}

func (s *Stack[T]) Push(item T) {
	s.items = append(s.items, item)
}

func (s *Stack[T]) Pop() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}

	index := len(s.items) - 1
	item := s.items[index]
	var zero T
	s.items[index] = zero
	s.items = s.items[:index]
	return item, true
}

// PeekRef allows modifying the top frame in place.
func (s *Stack[T]) PeekRef() *T {
	if len(s.items) == 0 {
		return nil
	}

	return &s.items[len(s.items)-1]
}

// At returns the frame at depth i, 0 being the bottom.
func (s *Stack[T]) At(i int) *T {
	if i < 0 || i >= len(s.items) {
		return nil
	}
	return &s.items[i]
}

func (s *Stack[T]) Size() int {
	return len(s.items)
}
