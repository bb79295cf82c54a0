package extractor

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jacoelho/pathextract/cursor"
	"github.com/jacoelho/pathextract/cursor/jsoncursor"
	"github.com/jacoelho/pathextract/cursor/tree"
	"github.com/jacoelho/pathextract/cursor/yamlcursor"
)

const storeJSON = `{
  "store": {
    "book": [
      {"title": "Sayings", "price": 8},
      {"title": "Sword", "price": 12, "isbn": "0-553"}
    ],
    "bicycle": {"color": "red", "price": 19}
  },
  "owner": "x"
}`

const storeYAML = `
store:
  book:
    - title: Sayings
      price: 8
    - title: Sword
      price: 12
      isbn: 0-553
  bicycle:
    color: red
    price: 19
owner: x
`

func storeTree() *tree.Node {
	return tree.Struct(
		tree.Field("store", tree.Struct(
			tree.Field("book", tree.List(
				tree.Struct(tree.Field("title", tree.Scalar("Sayings")), tree.Field("price", tree.Scalar(8))),
				tree.Struct(tree.Field("title", tree.Scalar("Sword")), tree.Field("price", tree.Scalar(12)), tree.Field("isbn", tree.Scalar("0-553"))),
			)),
			tree.Field("bicycle", tree.Struct(tree.Field("color", tree.Scalar("red")), tree.Field("price", tree.Scalar(19)))),
		)),
		tree.Field("owner", tree.Scalar("x")),
	)
}

func TestCursorsAgree(t *testing.T) {
	configs := map[string]struct {
		cfg  Config
		regs []registration
	}{
		"absolute": {
			regs: []registration{
				{path: "(store book * title)"},
				{path: "(store * price)"},
				{path: "(store book 1)"},
				{path: "(owner)"},
				{path: "()"},
			},
		},
		"relative": {
			cfg:  Config{MatchRelativePaths: true},
			regs: []registration{{path: "(price)"}, {path: "(1 isbn)"}},
		},
		"step_out": {
			regs: []registration{{path: "(store * *)", stepOut: 1}},
		},
	}

	cursors := map[string]func(t *testing.T) cursor.Cursor{
		"tree": func(*testing.T) cursor.Cursor { return tree.NewCursor(storeTree()) },
		"json": func(*testing.T) cursor.Cursor { return jsoncursor.New(strings.NewReader(storeJSON)) },
		"yaml": func(t *testing.T) cursor.Cursor {
			c, err := yamlcursor.NewCursor([]byte(storeYAML))
			if err != nil {
				t.Fatal(err)
			}
			return c
		},
	}

	for name, tc := range configs {
		t.Run(name, func(t *testing.T) {
			e := build(t, tc.cfg, tc.regs...)

			results := make(map[string][]string)
			for kind, open := range cursors {
				r := &recorder{}
				if err := e.Match(open(t), r); err != nil {
					t.Fatalf("%s: Match() error = %v", kind, err)
				}
				results[kind] = r.hits
			}

			if len(results["tree"]) == 0 {
				t.Fatal("no matches")
			}
			for _, kind := range []string{"json", "yaml"} {
				if diff := cmp.Diff(results["tree"], results[kind]); diff != "" {
					t.Errorf("%s differs from tree (-tree +%s):\n%s", kind, kind, diff)
				}
			}
		})
	}
}

func TestJSONCursorValueInCallback(t *testing.T) {
	var values []any
	b := NewBuilder[struct{}]()
	read := func(c cursor.Cursor, _ struct{}) (int, error) {
		v, err := c.(cursor.ValueReader).Value()
		if err != nil {
			return 0, err
		}
		values = append(values, v)
		return 0, nil
	}
	if err := b.WithSearchPath("(store bicycle)", read); err != nil {
		t.Fatal(err)
	}
	if err := b.WithSearchPath("(store bicycle color)", read); err != nil {
		t.Fatal(err)
	}
	e, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	if err := e.Match(jsoncursor.New(strings.NewReader(storeJSON)), struct{}{}); err != nil {
		t.Fatalf("Match() error = %v", err)
	}

	if len(values) != 2 || values[1] != "red" {
		t.Errorf("values = %v, want the bicycle and its color", values)
	}
}

func TestJSONCursorCallbackAdvancing(t *testing.T) {
	docs := map[string]struct {
		path string
		doc  string
	}{
		"same_named_fields": {path: "(bar)", doc: `{"bar": 1, "bar": 2, "bar": 3, "bar": 4}`},
		"top_level_values":  {path: "()", doc: `1 2 3`},
	}

	for name, tc := range docs {
		t.Run(name, func(t *testing.T) {
			calls := 0
			b := NewBuilder[struct{}]()
			err := b.WithSearchPath(tc.path, func(c cursor.Cursor, _ struct{}) (int, error) {
				calls++
				c.Next()
				return 0, nil
			})
			if err != nil {
				t.Fatal(err)
			}
			e, err := b.Build()
			if err != nil {
				t.Fatal(err)
			}

			err = e.Match(jsoncursor.New(strings.NewReader(tc.doc)), struct{}{})
			if !errors.Is(err, ErrProtocolViolation) {
				t.Errorf("Match() error = %v, want ErrProtocolViolation", err)
			}
			if calls != 1 {
				t.Errorf("calls = %d, want the evaluation to stop at the first", calls)
			}
		})
	}
}

// walkValue steps through the current container and back out.
func walkValue(c cursor.Cursor, _ struct{}) (int, error) {
	if !c.IsContainer() {
		return 0, nil
	}
	if err := c.StepIn(); err != nil {
		return 0, err
	}
	for c.Next() {
	}
	return 0, c.StepOut()
}

func TestJSONCursorCallbackConsumesContainer(t *testing.T) {
	const doc = `{"foo": {"a": 1}, "bar": 2}`

	tests := []struct {
		name    string
		cfg     Config
		paths   []string
		wantErr error
	}{
		{
			name:  "relative_skips_consumed_container",
			cfg:   Config{MatchRelativePaths: true},
			paths: []string{"(foo)"},
		},
		{
			name:  "relative_with_unrelated_path",
			cfg:   Config{MatchRelativePaths: true},
			paths: []string{"(foo)", "(bar)"},
		},
		{
			name:    "narrowed_path_inside_consumed_container",
			paths:   []string{"(foo)", "(foo a)"},
			wantErr: cursor.ErrConsumed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			b := NewBuilder[struct{}]().WithConfig(tt.cfg)
			for _, p := range tt.paths {
				err := b.WithSearchPath(p, func(c cursor.Cursor, s struct{}) (int, error) {
					calls++
					return walkValue(c, s)
				})
				if err != nil {
					t.Fatal(err)
				}
			}
			e, err := b.Build()
			if err != nil {
				t.Fatal(err)
			}

			err = e.Match(jsoncursor.New(strings.NewReader(doc)), struct{}{})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Match() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Match() error = %v", err)
			}
			if calls != len(tt.paths) {
				t.Errorf("calls = %d, want %d", calls, len(tt.paths))
			}
		})
	}
}
