package searchpath

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPath indicates a malformed search path or an invalid component.
	ErrInvalidPath = errors.New("searchpath: invalid search path")

	// ErrUnsupportedJSONPath indicates a JSONPath construct with no component equivalent.
	ErrUnsupportedJSONPath = fmt.Errorf("%w: unsupported JSONPath", ErrInvalidPath)

	// ErrNilCallback indicates a search path registered without a callback.
	ErrNilCallback = errors.New("searchpath: callback cannot be nil")
)

func syntaxError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidPath, fmt.Sprintf(format, args...))
}
