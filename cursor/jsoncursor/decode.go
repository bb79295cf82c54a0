package jsoncursor

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jacoelho/pathextract/cursor/tree"
)

// token reads the next token, treating a truncated stream as malformed.
func token(dec *json.Decoder) (json.Token, error) {
	tok, err := dec.Token()
	if err == nil {
		return tok, nil
	}
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, io.ErrUnexpectedEOF)
	}
	return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
}

func isOpening(tok json.Token) bool {
	d, ok := tok.(json.Delim)
	return ok && (d == '{' || d == '[')
}

// skipValue discards the remainder of a container whose opening delimiter
// was already read.
func skipValue(dec *json.Decoder) error {
	for depth := 1; depth > 0; {
		tok, err := token(dec)
		if err != nil {
			return err
		}
		switch tok {
		case json.Delim('{'), json.Delim('['):
			depth++
		case json.Delim('}'), json.Delim(']'):
			depth--
		}
	}
	return nil
}

// decodeNode reads the remainder of a container into a tree, keeping field
// order and duplicate names.
func decodeNode(dec *json.Decoder, open json.Delim) (*tree.Node, error) {
	if open == '{' {
		return decodeObject(dec)
	}
	if open == '[' {
		return decodeArray(dec)
	}
	return nil, fmt.Errorf("%w: unexpected delimiter %q", ErrMalformed, rune(open))
}

func decodeObject(dec *json.Decoder) (*tree.Node, error) {
	n := tree.Struct()
	for {
		tok, err := token(dec)
		if err != nil {
			return nil, err
		}
		if tok == json.Delim('}') {
			return n, nil
		}

		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: object key %v is not a string", ErrMalformed, tok)
		}

		child, err := decodeChild(dec)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, tree.Field(key, child))
	}
}

func decodeArray(dec *json.Decoder) (*tree.Node, error) {
	n := tree.List()
	for {
		if !dec.More() {
			tok, err := token(dec)
			if err != nil {
				return nil, err
			}
			if tok != json.Delim(']') {
				return nil, fmt.Errorf("%w: unexpected %v in array", ErrMalformed, tok)
			}
			return n, nil
		}

		child, err := decodeChild(dec)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
}

func decodeChild(dec *json.Decoder) (*tree.Node, error) {
	tok, err := token(dec)
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); ok {
		return decodeNode(dec, d)
	}
	return tree.Scalar(tok), nil
}
