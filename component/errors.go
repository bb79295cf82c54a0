package component

import "errors"

var (
	// ErrInvalidComponent indicates a component that can never be registered.
	ErrInvalidComponent = errors.New("component: invalid path component")

	// ErrNegativeIndex indicates an index component with a position below zero.
	ErrNegativeIndex = errors.New("index must not be negative")
)
