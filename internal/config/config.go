package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/jacoelho/pathextract/internal/exit"
)

// Input formats.
const (
	FormatAuto = "auto"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Stdin is the file name that reads standard input.
const Stdin = "-"

var (
	ErrNoArguments     = errors.New("no arguments provided")
	ErrNoInputFiles    = errors.New("no input files specified")
	ErrNoPaths         = errors.New("no search paths specified")
	ErrUnknownFormat   = errors.New("unknown format")
	ErrUnknownColor    = errors.New("unknown color mode")
	ErrInvalidStepOut  = errors.New("step-out cannot be negative")
	ErrInvalidPathFile = errors.New("invalid path file")
)

// Syntax tells how a registered path is written.
type Syntax int

const (
	SyntaxSearchPath Syntax = iota
	SyntaxJSONPath
)

func (s Syntax) String() string {
	if s == SyntaxJSONPath {
		return "jsonpath"
	}
	return "path"
}

// Path is one search path to register.
type Path struct {
	Name   string // label printed with every match
	Text   string
	Syntax Syntax
}

// Config represents the complete configuration for the pathextract tool.
type Config struct {
	Files []string
	Paths []Path

	// Matching
	CaseInsensitive bool
	Relative        bool
	StepOut         int

	// Input and output
	Format string
	Color  string
}

// FormatOf returns the input format for file: the configured one, or one
// chosen from the file extension. Unknown extensions and stdin read as JSON.
func (c *Config) FormatOf(file string) string {
	if c.Format != FormatAuto && c.Format != "" {
		return c.Format
	}

	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if len(c.Files) == 0 {
		return ErrNoInputFiles
	}
	if len(c.Paths) == 0 {
		return ErrNoPaths
	}

	if !slices.Contains([]string{FormatAuto, FormatJSON, FormatYAML}, c.Format) {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, c.Format)
	}
	if !slices.Contains([]string{ColorAuto, ColorAlways, ColorNever}, c.Color) {
		return fmt.Errorf("%w: %q", ErrUnknownColor, c.Color)
	}
	if c.StepOut < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidStepOut, c.StepOut)
	}

	for _, file := range c.Files {
		if file == Stdin {
			continue
		}
		if _, err := os.Stat(file); err != nil {
			return fmt.Errorf("input file %s not found: %w", file, err)
		}
	}

	return nil
}

// pathsFlag implements flag.Value for the repeatable path flags. Both flags
// share one list so the registration order follows the command line.
type pathsFlag struct {
	paths  *[]Path
	syntax Syntax
}

func (p pathsFlag) String() string {
	if p.paths == nil {
		return ""
	}
	var texts []string
	for _, path := range *p.paths {
		if path.Syntax == p.syntax {
			texts = append(texts, path.Text)
		}
	}
	return strings.Join(texts, ",")
}

func (p pathsFlag) Set(value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s cannot be empty", p.syntax)
	}
	*p.paths = append(*p.paths, Path{Name: value, Text: value, Syntax: p.syntax})
	return nil
}

// Parse parses command-line arguments and returns a validated Config.
// If parsing fails or help is requested, returns nil config and exit result.
func Parse(args []string) (*Config, *exit.Result) {
	if len(args) == 0 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoArguments, Usage())
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)

	// Suppress the default usage output since we handle it ourselves
	fs.Usage = func() {}
	// Suppress error output since we handle it ourselves
	fs.SetOutput(io.Discard)

	var flagPaths []Path
	var (
		pathFile        = fs.String("path-file", "", "YAML file listing search paths")
		caseInsensitive = fs.Bool("case-insensitive", false, "Compare field names and annotations ignoring case")
		relative        = fs.Bool("relative", false, "Let paths match starting at any depth")
		format          = fs.String("format", FormatAuto, "Input format: auto, json or yaml")
		stepOut         = fs.Int("step-out", 0, "Containers to step out of after each match")
		color           = fs.String("color", ColorAuto, "Colorize output: auto, always or never")
	)

	fs.Var(pathsFlag{paths: &flagPaths, syntax: SyntaxSearchPath}, "path", "Search path such as (foo * bar) (can be used multiple times)")
	fs.Var(pathsFlag{paths: &flagPaths, syntax: SyntaxJSONPath}, "jsonpath", "JSONPath such as $.foo[*].bar (can be used multiple times)")

	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil, exit.Success(Usage())
		}
		return nil, exit.Errorf("Error: failed to parse arguments: %v\n\n%s", err, Usage())
	}

	files := fs.Args()
	if len(files) == 0 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoInputFiles, Usage())
	}

	// Path file entries register before command-line paths
	var paths []Path
	if *pathFile != "" {
		filePaths, err := LoadPathFile(*pathFile)
		if err != nil {
			return nil, exit.Errorf("Error: failed to load path file: %v\n\n%s", err, Usage())
		}
		paths = append(paths, filePaths...)
	}
	paths = append(paths, flagPaths...)

	config := &Config{
		Files:           files,
		Paths:           paths,
		CaseInsensitive: *caseInsensitive,
		Relative:        *relative,
		StepOut:         *stepOut,
		Format:          *format,
		Color:           *color,
	}

	if err := config.Validate(); err != nil {
		return nil, exit.Errorf("Error: %v\n\n%s", err, Usage())
	}

	return config, nil
}

// pathEntry is one item of a path file.
type pathEntry struct {
	Name     string `yaml:"name"`
	Path     string `yaml:"path"`
	JSONPath string `yaml:"jsonpath"`
}

// LoadPathFile reads a YAML list of paths:
//
//	- name: titles
//	  path: (store book * title)
//	- jsonpath: $.store.bicycle.color
//
// Each entry sets exactly one of path or jsonpath. The name defaults to the path text.
func LoadPathFile(filename string) ([]Path, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var entries []pathEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidPathFile, filename, err)
	}

	paths := make([]Path, 0, len(entries))
	for i, e := range entries {
		var p Path
		switch {
		case e.Path != "" && e.JSONPath != "":
			return nil, fmt.Errorf("%w: entry %d sets both path and jsonpath", ErrInvalidPathFile, i+1)
		case e.Path != "":
			p = Path{Text: e.Path, Syntax: SyntaxSearchPath}
		case e.JSONPath != "":
			p = Path{Text: e.JSONPath, Syntax: SyntaxJSONPath}
		default:
			return nil, fmt.Errorf("%w: entry %d sets neither path nor jsonpath", ErrInvalidPathFile, i+1)
		}

		p.Name = e.Name
		if p.Name == "" {
			p.Name = p.Text
		}
		paths = append(paths, p)
	}

	return paths, nil
}

// Usage returns a usage string for the CLI tool.
func Usage() string {
	return `pathextract - extract values from JSON and YAML documents by search path

Usage: pathextract [options] <file1> [file2] ...

Options:
  --path PATH             Search path such as (store book * title) (can be used multiple times)
  --jsonpath EXPR         JSONPath such as $.store.book[*].title (can be used multiple times)
  --path-file FILE        YAML file listing search paths
  --case-insensitive      Compare field names and annotations ignoring case
  --relative              Let paths match starting at any depth
  --step-out N            Containers to step out of after each match (default: 0)
  --format FORMAT         Input format: auto, json or yaml (default: auto)
  --color MODE            Colorize output: auto, always or never (default: auto)
  -h, --help              Show this help message

A file named - reads standard input. With --format auto, .yaml and .yml
files read as YAML and everything else as JSON.

Examples:
  pathextract --path '(store book * title)' store.json
  pathextract --jsonpath '$.items[0]' --relative data.yaml
  pathextract --path 'point::(x)' shapes.yaml
  cat store.json | pathextract --path '(owner)' -`
}
