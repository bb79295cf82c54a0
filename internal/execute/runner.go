// Package execute runs the configured search paths over every input file.
package execute

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jacoelho/pathextract/cursor"
	"github.com/jacoelho/pathextract/cursor/jsoncursor"
	"github.com/jacoelho/pathextract/cursor/yamlcursor"
	"github.com/jacoelho/pathextract/extractor"
	"github.com/jacoelho/pathextract/internal/config"
	"github.com/jacoelho/pathextract/internal/exit"
	"github.com/jacoelho/pathextract/internal/output"
	"github.com/jacoelho/pathextract/searchpath"
)

// evaluation is the state handed to every callback while one file is read.
type evaluation struct {
	ctx  context.Context
	file string
}

type Runner struct {
	config    *config.Config
	extractor *extractor.Extractor[*evaluation]
	formatter *output.Formatter
	stdin     io.Reader
	errOutput io.Writer
	matches   int
}

// New registers every configured path. Invalid paths are reported as an exit result.
func New(cfg *config.Config) (*Runner, *exit.Result) {
	r := &Runner{
		config:    cfg,
		stdin:     os.Stdin,
		errOutput: os.Stderr,
	}
	r.SetOutput(os.Stdout)

	b := extractor.NewBuilder[*evaluation]().
		WithMatchCaseInsensitive(cfg.CaseInsensitive).
		WithMatchRelativePaths(cfg.Relative)

	for _, p := range cfg.Paths {
		var err error
		switch p.Syntax {
		case config.SyntaxJSONPath:
			err = b.WithJSONPath(p.Text, r.callback(p.Name))
		default:
			err = b.WithSearchPath(p.Text, r.callback(p.Name))
		}
		if err != nil {
			return nil, exit.Errorf("Error: %s %s: %v\n", p.Syntax, p.Name, err)
		}
	}

	e, err := b.Build()
	if err != nil {
		return nil, exit.Errorf("Error creating runner: %v\n", err)
	}
	r.extractor = e

	return r, nil
}

// SetOutput sends matches to w, colored according to the configured mode.
func (r *Runner) SetOutput(w io.Writer) {
	colored := r.config.Color == config.ColorAlways ||
		(r.config.Color == config.ColorAuto && output.IsTerminal(w))
	r.formatter = output.NewWithWriter(w, colored)
}

func (r *Runner) SetErrorOutput(w io.Writer) {
	r.errOutput = w
}

// SetInput replaces standard input for files named "-".
func (r *Runner) SetInput(stdin io.Reader) {
	r.stdin = stdin
}

func (r *Runner) errorWriter() io.Writer {
	if r.errOutput == nil {
		return io.Discard
	}
	return r.errOutput
}

func (r *Runner) logf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.errorWriter(), format, args...)
}

// Matches is the number of values printed so far.
func (r *Runner) Matches() int {
	return r.matches
}

// Run evaluates every file in order and returns the exit code. It stops at
// the first file that fails.
func (r *Runner) Run(ctx context.Context) int {
	for _, file := range r.config.Files {
		if err := ctx.Err(); err != nil {
			r.logf("Interrupted before %s\n", file)
			return exit.CodeFailure
		}

		if err := r.runFile(ctx, file); err != nil {
			r.logf("Error in %s: %v\n", file, err)
			return exit.CodeFailure
		}
	}
	return exit.CodeSuccess
}

func (r *Runner) runFile(ctx context.Context, file string) error {
	in, closeFn, err := r.open(file)
	if err != nil {
		return err
	}
	defer closeFn()

	c, err := r.cursor(file, in)
	if err != nil {
		return err
	}

	return r.extractor.Match(c, &evaluation{ctx: ctx, file: file})
}

func (r *Runner) open(file string) (io.Reader, func(), error) {
	if file == config.Stdin {
		return r.stdin, func() {}, nil
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, nil, err
	}
	return bufio.NewReader(f), func() { _ = f.Close() }, nil
}

func (r *Runner) cursor(file string, in io.Reader) (cursor.Cursor, error) {
	if r.config.FormatOf(file) == config.FormatJSON {
		return jsoncursor.New(in), nil
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}
	return yamlcursor.NewCursor(data)
}

// callback prints the matched value under name and steps out as configured.
func (r *Runner) callback(name string) searchpath.Callback[*evaluation] {
	return func(c cursor.Cursor, ev *evaluation) (int, error) {
		if err := ev.ctx.Err(); err != nil {
			return 0, err
		}

		reader, ok := c.(cursor.ValueReader)
		if !ok {
			return 0, fmt.Errorf("%T cannot read values", c)
		}
		value, err := reader.Value()
		if err != nil {
			return 0, err
		}

		var location string
		if l, ok := c.(cursor.Locator); ok {
			location = l.Location()
		}

		if err := r.formatter.Format(output.Match{
			File:     ev.file,
			Location: location,
			Path:     name,
			Value:    value,
		}); err != nil {
			return 0, err
		}
		r.matches++

		return min(r.config.StepOut, c.Depth()), nil
	}
}
