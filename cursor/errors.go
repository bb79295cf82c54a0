package cursor

import "errors"

var (
	// ErrNotContainer indicates StepIn was called on a scalar or on no value.
	ErrNotContainer = errors.New("cursor: current value is not a container")

	// ErrAtTopLevel indicates StepOut was called at depth zero.
	ErrAtTopLevel = errors.New("cursor: cannot step out of the top level")

	// ErrNoValue indicates the cursor is not positioned on a value.
	ErrNoValue = errors.New("cursor: not positioned on a value")

	// ErrConsumed indicates a forward-only cursor already read past the
	// children of the current container.
	ErrConsumed = errors.New("cursor: container already consumed")
)
