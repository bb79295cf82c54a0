package searchpath

import (
	"fmt"

	"github.com/theory/jsonpath"
	"github.com/theory/jsonpath/spec"

	"github.com/jacoelho/pathextract/component"
)

// FromJSONPath converts a JSONPath expression made of child segments with a
// single name, index or wildcard selector, e.g. $.store.book[0].*, into a
// Pattern. Descendant segments, unions, slices, filters and negative indexes
// have no component equivalent and return ErrUnsupportedJSONPath.
func FromJSONPath(expr string) (Pattern, error) {
	if expr == "" {
		return Pattern{}, fmt.Errorf("%w: JSONPath expression is empty", ErrInvalidPath)
	}

	path, err := jsonpath.Parse(expr)
	if err != nil {
		return Pattern{}, fmt.Errorf("%w: %s: %v", ErrInvalidPath, expr, err)
	}

	segments := path.Query().Segments()
	components := make([]component.Component, 0, len(segments))
	for i, seg := range segments {
		if seg.IsDescendant() {
			return Pattern{}, fmt.Errorf("%w: descendant segment %d in %s", ErrUnsupportedJSONPath, i, expr)
		}

		sels := seg.Selectors()
		if len(sels) != 1 {
			return Pattern{}, fmt.Errorf("%w: segment %d in %s has %d selectors", ErrUnsupportedJSONPath, i, expr, len(sels))
		}

		c, err := selectorComponent(sels[0])
		if err != nil {
			return Pattern{}, fmt.Errorf("segment %d in %s: %w", i, expr, err)
		}
		components = append(components, c)
	}

	return Pattern{Components: components}, nil
}

func selectorComponent(sel spec.Selector) (component.Component, error) {
	switch s := sel.(type) {
	case spec.Name:
		return component.Field(string(s)), nil
	case spec.Index:
		if s < 0 {
			return component.Component{}, fmt.Errorf("%w: negative index %d", ErrUnsupportedJSONPath, int(s))
		}
		return component.Index(int(s))
	}

	if sel.String() == "*" {
		return component.Wildcard(), nil
	}

	return component.Component{}, fmt.Errorf("%w: selector %s", ErrUnsupportedJSONPath, sel)
}
