package extractor

import (
	"fmt"

	"github.com/jacoelho/pathextract/component"
	"github.com/jacoelho/pathextract/searchpath"
)

// Builder stages search paths and settings until Build produces an
// immutable Extractor. A Builder is not safe for concurrent use and can be
// built once.
type Builder[T any] struct {
	paths  []*searchpath.SearchPath[T]
	config Config
	built  bool
}

// NewBuilder returns a builder with the standard configuration: absolute
// paths, case-sensitive comparison.
func NewBuilder[T any]() *Builder[T] {
	return &Builder[T]{config: DefaultConfig()}
}

// WithMatchRelativePaths lets every search path start matching at any depth
// instead of only at the value the traversal starts on. It also allows the
// traversal to start on a cursor that is not at depth zero.
func (b *Builder[T]) WithMatchRelativePaths(v bool) *Builder[T] {
	b.config.MatchRelativePaths = v
	return b
}

// WithMatchCaseInsensitive compares field names and annotations ignoring case.
func (b *Builder[T]) WithMatchCaseInsensitive(v bool) *Builder[T] {
	b.config.CaseInsensitive = v
	return b
}

// WithConfig replaces both settings.
func (b *Builder[T]) WithConfig(cfg Config) *Builder[T] {
	b.config = cfg
	return b
}

// WithSearchPath parses text (see searchpath.Parse) and registers callback for it.
func (b *Builder[T]) WithSearchPath(text string, callback searchpath.Callback[T]) error {
	if err := b.checkOpen(callback); err != nil {
		return err
	}

	pattern, err := searchpath.Parse(text)
	if err != nil {
		return err
	}
	return b.register(pattern, callback)
}

// WithJSONPath converts expr (see searchpath.FromJSONPath) and registers callback for it.
func (b *Builder[T]) WithJSONPath(expr string, callback searchpath.Callback[T]) error {
	if err := b.checkOpen(callback); err != nil {
		return err
	}

	pattern, err := searchpath.FromJSONPath(expr)
	if err != nil {
		return err
	}
	return b.register(pattern, callback)
}

// WithComponents registers callback for a pre-built component sequence.
// annotations are required on the value the path is anchored at.
// An empty, non-nil sequence matches the anchor value itself.
func (b *Builder[T]) WithComponents(components []component.Component, callback searchpath.Callback[T], annotations ...string) error {
	if err := b.checkOpen(callback); err != nil {
		return err
	}
	if components == nil {
		return fmt.Errorf("%w: components cannot be nil", ErrConfiguration)
	}

	return b.register(searchpath.Pattern{Components: components, Annotations: annotations}, callback)
}

// Build returns the extractor. The builder cannot be used afterwards.
func (b *Builder[T]) Build() (*Extractor[T], error) {
	if b.built {
		return nil, fmt.Errorf("%w: builder already built", ErrConfiguration)
	}
	b.built = true

	paths := b.paths
	b.paths = nil

	return newExtractor(paths, b.config), nil
}

func (b *Builder[T]) checkOpen(callback searchpath.Callback[T]) error {
	if b.built {
		return fmt.Errorf("%w: builder already built", ErrConfiguration)
	}
	if callback == nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, searchpath.ErrNilCallback)
	}
	return nil
}

func (b *Builder[T]) register(pattern searchpath.Pattern, callback searchpath.Callback[T]) error {
	sp, err := searchpath.New(pattern, callback)
	if err != nil {
		return err
	}

	b.paths = append(b.paths, sp)
	return nil
}
