// Package extractor evaluates a set of registered search paths against a
// document in a single depth-first pass over a cursor, firing each path's
// callback where the traversal position matches it.
//
// The extractor never buffers values: at each depth it keeps only the search
// paths whose prefix matched the ancestors of the current value, and it
// descends into a container only when some path can still match inside it.
package extractor

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/jacoelho/pathextract/cursor"
	"github.com/jacoelho/pathextract/searchpath"
)

// Extractor is immutable once built and safe for concurrent use as long as
// each evaluation gets its own cursor.
type Extractor[T any] struct {
	paths  []*searchpath.SearchPath[T]
	config Config

	// scanAll is set when relative matching may anchor a path below any
	// container, so every container has to be entered.
	scanAll bool
}

func newExtractor[T any](paths []*searchpath.SearchPath[T], cfg Config) *Extractor[T] {
	e := &Extractor[T]{paths: paths, config: cfg}
	if cfg.MatchRelativePaths {
		e.scanAll = slices.ContainsFunc(paths, func(p *searchpath.SearchPath[T]) bool {
			return p.Len() > 0
		})
	}
	return e
}

// candidate is a search path whose first matched components matched the
// ancestors of the values being scanned.
type candidate struct {
	path    int // registration index
	matched int
}

// evaluation carries what stays fixed during one traversal.
type evaluation[T any] struct {
	*Extractor[T]
	c     cursor.Cursor
	state T
	base  int // cursor depth of the traversal root
}

// Config returns the settings the extractor was built with.
func (e *Extractor[T]) Config() Config {
	return e.config
}

// Paths returns the registered search paths in registration order.
func (e *Extractor[T]) Paths() []*searchpath.SearchPath[T] {
	return slices.Clone(e.paths)
}

// Match evaluates every value at the cursor's current level, in order, each
// as the root of a traversal. It is the usual entry point for a cursor
// freshly opened on a stream of top-level values.
func (e *Extractor[T]) Match(c cursor.Cursor, state T) error {
	if err := e.checkStart(c); err != nil {
		return err
	}

	ev := &evaluation[T]{Extractor: e, c: c, state: state, base: c.Depth()}
	for c.Next() {
		if err := ev.matchRoot(); err != nil {
			return err
		}
	}
	if err := c.Err(); err != nil {
		return fmt.Errorf("reading document: %w", err)
	}
	return nil
}

// MatchCurrent evaluates the value the cursor is positioned on as the root
// of the traversal. On return the cursor is still on that value.
func (e *Extractor[T]) MatchCurrent(c cursor.Cursor, state T) error {
	if err := e.checkStart(c); err != nil {
		return err
	}

	ev := &evaluation[T]{Extractor: e, c: c, state: state, base: c.Depth()}
	return ev.matchRoot()
}

func (e *Extractor[T]) checkStart(c cursor.Cursor) error {
	if c == nil {
		return fmt.Errorf("%w: cursor cannot be nil", ErrConfiguration)
	}
	if !e.config.MatchRelativePaths && c.Depth() != 0 {
		return fmt.Errorf("%w: cursor at depth %d, relative path matching is disabled", ErrConfiguration, c.Depth())
	}
	return nil
}

// matchRoot anchors the registered paths at the current value, fires the
// zero-length ones and scans the value's children.
func (ev *evaluation[T]) matchRoot() error {
	anns := ev.c.Annotations()
	pos := ev.c.Position()

	cands := make([]candidate, 0, len(ev.paths))
	for i, p := range ev.paths {
		if !p.AnchoredAt(anns, ev.config.CaseInsensitive) {
			continue
		}
		if p.Len() == 0 {
			// step-out is bounded by depth 0, so it is always zero here
			if _, err := ev.invoke(i, 0, pos); err != nil {
				return err
			}
			continue
		}
		cands = append(cands, candidate{path: i})
	}

	if !ev.c.IsContainer() || (len(cands) == 0 && !ev.scanAll) {
		return nil
	}

	_, err := ev.descend(cands, 0, len(cands) > 0)
	return err
}

// descend scans the children of the container at relative depth depth and
// returns the step-out count left for the container's own level. When the
// descent is not required by a narrowed candidate, a container the cursor
// already consumed is skipped.
func (ev *evaluation[T]) descend(cands []candidate, depth int, required bool) (int, error) {
	if err := ev.c.StepIn(); err != nil {
		if !required && errors.Is(err, cursor.ErrConsumed) {
			return 0, nil
		}
		return 0, fmt.Errorf("stepping into %s: %w", ev.location(), err)
	}

	remaining, err := ev.matchChildren(cands, depth+1)
	if err != nil {
		return 0, err
	}

	if err := ev.c.StepOut(); err != nil {
		return 0, fmt.Errorf("stepping out at depth %d: %w", depth+1, err)
	}
	return remaining, nil
}

func (ev *evaluation[T]) matchChildren(cands []candidate, depth int) (int, error) {
	for ev.c.Next() {
		stepOut, err := ev.matchChild(cands, depth)
		if err != nil {
			return 0, err
		}
		if stepOut > 0 {
			return stepOut - 1, nil
		}
	}
	if err := ev.c.Err(); err != nil {
		return 0, fmt.Errorf("reading document at depth %d: %w", depth, err)
	}
	return 0, nil
}

// matchChild evaluates the candidates against the value under the cursor.
// It returns the step-out count requested for the value's level.
func (ev *evaluation[T]) matchChild(cands []candidate, depth int) (int, error) {
	pos := ev.c.Position()
	anns := ev.c.Annotations()

	var (
		next    []candidate
		stepOut int
	)
	for _, cand := range cands {
		p := ev.paths[cand.path]
		if !p.Component(cand.matched).Matches(pos, anns, ev.config.CaseInsensitive) {
			continue
		}

		if cand.matched+1 == p.Len() {
			n, err := ev.invoke(cand.path, depth, pos)
			if err != nil {
				return 0, err
			}
			stepOut = max(stepOut, n)
			continue
		}

		next = append(next, candidate{path: cand.path, matched: cand.matched + 1})
	}

	if stepOut > 0 || !ev.c.IsContainer() {
		return stepOut, nil
	}

	required := len(next) > 0
	if ev.config.MatchRelativePaths {
		next = ev.reseed(next, anns)
	}
	if len(next) == 0 && !ev.scanAll {
		return 0, nil
	}

	return ev.descend(next, depth, required)
}

// reseed adds every non-empty path anchored at the current value, keeping
// the candidates in registration order.
func (ev *evaluation[T]) reseed(next []candidate, anns []string) []candidate {
	added := false
	for i, p := range ev.paths {
		if p.Len() == 0 || !p.AnchoredAt(anns, ev.config.CaseInsensitive) {
			continue
		}
		next = append(next, candidate{path: i})
		added = true
	}

	if added {
		slices.SortStableFunc(next, func(a, b candidate) int {
			return cmp.Compare(a.path, b.path)
		})
	}
	return next
}

// invoke fires the callback of path i on the value at relative depth depth
// and checks that the callback honoured the cursor contract.
func (ev *evaluation[T]) invoke(i, depth int, pos cursor.Position) (int, error) {
	p := ev.paths[i]

	n, err := p.Callback()(ev.c, ev.state)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrCallback, p, err)
	}

	if got := ev.c.Depth() - ev.base; got != depth {
		return 0, fmt.Errorf("%w: callback for %s left the cursor at depth %d, want %d", ErrProtocolViolation, p, got, depth)
	}
	if got := ev.c.Position(); got != pos {
		return 0, fmt.Errorf("%w: callback for %s moved the cursor from %s to %s", ErrProtocolViolation, p, pos, got)
	}
	if n < 0 || n > depth {
		return 0, fmt.Errorf("%w: callback for %s returned step-out %d, want a value in [0, %d]", ErrProtocolViolation, p, n, depth)
	}

	return n, nil
}

func (ev *evaluation[T]) location() string {
	if l, ok := ev.c.(cursor.Locator); ok {
		return l.Location()
	}
	return ev.c.Position().String()
}
