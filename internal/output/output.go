// Package output prints extracted values, one line per match.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Match is one value found by a search path.
type Match struct {
	File     string
	Location string
	Path     string // name the path was registered under
	Value    any
}

// Formatter writes matches as tab-separated lines:
//
//	file	location	path	value
//
// The value is JSON encoded.
type Formatter struct {
	writer   io.Writer
	file     *color.Color
	location *color.Color
	path     *color.Color
	value    *color.Color
}

// NewWithWriter creates a formatter with a custom writer.
func NewWithWriter(writer io.Writer, colored bool) *Formatter {
	f := &Formatter{
		writer:   writer,
		file:     color.New(color.FgHiBlack),
		location: color.New(color.FgCyan),
		path:     color.New(color.FgYellow),
		value:    color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{f.file, f.location, f.path, f.value} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return f
}

// Format writes one match.
func (f *Formatter) Format(m Match) error {
	value, err := json.Marshal(m.Value)
	if err != nil {
		return fmt.Errorf("encoding value at %s: %w", m.Location, err)
	}

	_, err = fmt.Fprintf(f.writer, "%s\t%s\t%s\t%s\n",
		f.file.Sprint(m.File),
		f.location.Sprint(m.Location),
		f.path.Sprint(m.Path),
		f.value.Sprint(string(value)))
	return err
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
