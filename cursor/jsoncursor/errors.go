package jsoncursor

import (
	"errors"
	"fmt"

	"github.com/jacoelho/pathextract/cursor"
)

var (
	// ErrMalformed indicates the JSON stream is not well formed.
	ErrMalformed = errors.New("jsoncursor: malformed JSON")

	// ErrConsumed indicates a container was already streamed past and can
	// no longer be read or entered.
	ErrConsumed = fmt.Errorf("jsoncursor: %w", cursor.ErrConsumed)
)
