package yamlcursor

import "errors"

var (
	// ErrParse indicates the input is not valid YAML.
	ErrParse = errors.New("yamlcursor: invalid YAML")

	// ErrUnsupportedNode indicates a YAML construct with no tree equivalent.
	ErrUnsupportedNode = errors.New("yamlcursor: unsupported node")

	// ErrUnknownAlias indicates an alias whose anchor was not defined before it.
	ErrUnknownAlias = errors.New("yamlcursor: unknown alias")
)
