package jsoncursor

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jacoelho/pathextract/cursor"
)

// walk visits every value depth first and records its location, stepping
// into every container.
func walk(t *testing.T, c *Cursor) []string {
	t.Helper()

	var out []string
	var visit func()
	visit = func() {
		for c.Next() {
			out = append(out, c.Location())
			if c.IsContainer() {
				if err := c.StepIn(); err != nil {
					t.Fatalf("StepIn() at %s error = %v", c.Location(), err)
				}
				visit()
				if err := c.StepOut(); err != nil {
					t.Fatalf("StepOut() error = %v", err)
				}
			}
		}
	}
	visit()

	if err := c.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
	return out
}

func TestWalk(t *testing.T) {
	c := New(strings.NewReader(`{"a": {"b": [1, {"c": null}], "odd key": true}, "d": "x"}`))

	want := []string{"$", "$.a", "$.a.b", "$.a.b[0]", "$.a.b[1]", "$.a.b[1].c", "$.a['odd key']", "$.d"}
	if diff := cmp.Diff(want, walk(t, c)); diff != "" {
		t.Errorf("locations mismatch (-want +got):\n%s", diff)
	}
}

func TestMultipleTopLevelValues(t *testing.T) {
	c := New(strings.NewReader(`{"a": 1} [2, 3] "four" 5`))

	var got []any
	for c.Next() {
		v, err := c.Value()
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, v)
	}
	if err := c.Err(); err != nil {
		t.Fatal(err)
	}

	want := []any{
		map[string]any{"a": json.Number("1")},
		[]any{json.Number("2"), json.Number("3")},
		"four",
		json.Number("5"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestPositionOrdinals(t *testing.T) {
	c := New(strings.NewReader(`{"bar": 1, "bar": 2} 3`))

	c.Next()
	first := c.Position()
	if err := c.StepIn(); err != nil {
		t.Fatal(err)
	}
	var fields []cursor.Position
	for c.Next() {
		fields = append(fields, c.Position())
	}
	if err := c.StepOut(); err != nil {
		t.Fatal(err)
	}
	c.Next()
	second := c.Position()

	want := []cursor.Position{cursor.FieldPosition("bar"), cursor.FieldPosition("bar").At(1)}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Errorf("field positions mismatch (-want +got):\n%s", diff)
	}
	if first != (cursor.Position{Kind: cursor.Root}) || second != first.At(1) {
		t.Errorf("root positions = %+v, %+v, want ordinals 0 and 1", first, second)
	}

	if c.Next() || c.Position() == first {
		t.Errorf("Position() at end of stream = %+v, want it distinct from the first root", c.Position())
	}
}

func TestSkipsUnvisitedContainers(t *testing.T) {
	c := New(strings.NewReader(`{"skip": {"deep": [1, [2, {"x": 3}]]}, "keep": 4}`))

	if !c.Next() {
		t.Fatal("Next() = false on root")
	}
	if err := c.StepIn(); err != nil {
		t.Fatal(err)
	}

	var names []string
	for c.Next() {
		names = append(names, c.Position().Name)
	}
	if err := c.Err(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"skip", "keep"}, names); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestStepOutDiscardsRemainder(t *testing.T) {
	c := New(strings.NewReader(`{"a": [1, 2, 3], "b": 4}`))

	c.Next()
	if err := c.StepIn(); err != nil {
		t.Fatal(err)
	}
	c.Next()
	if err := c.StepIn(); err != nil {
		t.Fatal(err)
	}
	c.Next()
	if err := c.StepOut(); err != nil {
		t.Fatal(err)
	}

	if got := c.Position(); got != cursor.FieldPosition("a").At(0) {
		t.Errorf("Position() after StepOut = %s, want a", got)
	}
	if !c.Next() || c.Position() != cursor.FieldPosition("b").At(1) {
		t.Errorf("Next() did not reach b, at %s", c.Position())
	}
	if c.Next() {
		t.Errorf("Next() = true past the last field")
	}
}

func TestValueBuffersContainer(t *testing.T) {
	c := New(strings.NewReader(`{"a": {"x": 1, "x": 2, "y": [true]}, "b": 3}`))

	c.Next()
	if err := c.StepIn(); err != nil {
		t.Fatal(err)
	}
	c.Next()

	v, err := c.Value()
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"x": json.Number("2"), "y": []any{true}}
	if diff := cmp.Diff(want, v); diff != "" {
		t.Errorf("Value() mismatch (-want +got):\n%s", diff)
	}

	if !c.IsContainer() {
		t.Error("IsContainer() = false after Value()")
	}

	want2 := []string{"$.a.x", "$.a.x", "$.a.y", "$.a.y[0]"}
	if err := c.StepIn(); err != nil {
		t.Fatalf("StepIn() after Value() error = %v", err)
	}
	var got []string
	for c.Next() {
		got = append(got, c.Location())
		if c.IsContainer() {
			if err := c.StepIn(); err != nil {
				t.Fatal(err)
			}
			for c.Next() {
				got = append(got, c.Location())
			}
			if err := c.StepOut(); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := c.StepOut(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want2, got); diff != "" {
		t.Errorf("buffered walk mismatch (-want +got):\n%s", diff)
	}

	if !c.Next() || c.Position() != cursor.FieldPosition("b").At(1) {
		t.Errorf("Next() did not reach b, at %s", c.Position())
	}
}

func TestConsumedContainer(t *testing.T) {
	c := New(strings.NewReader(`{"a": {"x": 1}}`))

	c.Next()
	if err := c.StepIn(); err != nil {
		t.Fatal(err)
	}
	if err := c.StepOut(); err != nil {
		t.Fatal(err)
	}

	if err := c.StepIn(); !errors.Is(err, ErrConsumed) {
		t.Errorf("second StepIn() error = %v, want ErrConsumed", err)
	}
	if _, err := c.Value(); !errors.Is(err, ErrConsumed) {
		t.Errorf("Value() error = %v, want ErrConsumed", err)
	}
}

func TestCursorErrors(t *testing.T) {
	c := New(strings.NewReader(`[1]`))

	if err := c.StepIn(); !errors.Is(err, cursor.ErrNoValue) {
		t.Errorf("StepIn() before Next() error = %v, want ErrNoValue", err)
	}
	if _, err := c.Value(); !errors.Is(err, cursor.ErrNoValue) {
		t.Errorf("Value() before Next() error = %v, want ErrNoValue", err)
	}
	if err := c.StepOut(); !errors.Is(err, cursor.ErrAtTopLevel) {
		t.Errorf("StepOut() at top level error = %v, want ErrAtTopLevel", err)
	}

	c.Next()
	if err := c.StepIn(); err != nil {
		t.Fatal(err)
	}
	c.Next()
	if err := c.StepIn(); !errors.Is(err, cursor.ErrNotContainer) {
		t.Errorf("StepIn() on scalar error = %v, want ErrNotContainer", err)
	}
	if c.Depth() != 1 {
		t.Errorf("Depth() = %d, want 1", c.Depth())
	}
}

func TestMalformed(t *testing.T) {
	inputs := []string{
		`{"a": `,
		`[1, 2`,
		`{"a" 1}`,
		`[1,]`,
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			c := New(strings.NewReader(in))
			walk := func() {
				for c.Next() {
					if c.IsContainer() {
						if err := c.StepIn(); err != nil {
							return
						}
						for c.Next() {
						}
						if err := c.StepOut(); err != nil {
							return
						}
					}
				}
			}
			walk()

			if !errors.Is(c.Err(), ErrMalformed) {
				t.Errorf("Err() = %v, want ErrMalformed", c.Err())
			}
			if c.Next() {
				t.Error("Next() = true after an error")
			}
		})
	}
}

func TestEmptyStream(t *testing.T) {
	c := New(strings.NewReader("  \n"))
	if c.Next() {
		t.Error("Next() = true on an empty stream")
	}
	if err := c.Err(); err != nil {
		t.Errorf("Err() = %v", err)
	}
}
