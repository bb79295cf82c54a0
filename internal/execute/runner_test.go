package execute

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jacoelho/pathextract/internal/config"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newRunner(t *testing.T, cfg *config.Config) (*Runner, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	if cfg.Color == "" {
		cfg.Color = config.ColorNever
	}
	if cfg.Format == "" {
		cfg.Format = config.FormatAuto
	}

	r, result := New(cfg)
	if result != nil {
		t.Fatalf("New() result = %q", result.Message)
	}

	var stdout, stderr bytes.Buffer
	r.SetOutput(&stdout)
	r.SetErrorOutput(&stderr)
	return r, &stdout, &stderr
}

func lines(buf *bytes.Buffer) []string {
	return strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
}

func TestRunJSONAndYAML(t *testing.T) {
	dir := t.TempDir()
	jsonFile := writeFile(t, dir, "store.json", `{"store": {"book": [{"title": "A"}, {"title": "B"}]}, "owner": "x"}`)
	yamlFile := writeFile(t, dir, "store.yaml", "store:\n  book:\n    - title: C\nowner: y\n")

	r, stdout, stderr := newRunner(t, &config.Config{
		Files: []string{jsonFile, yamlFile},
		Paths: []config.Path{
			{Name: "titles", Text: "(store book * title)", Syntax: config.SyntaxSearchPath},
			{Name: "$.owner", Text: "$.owner", Syntax: config.SyntaxJSONPath},
		},
	})

	if code := r.Run(context.Background()); code != 0 {
		t.Fatalf("Run() = %d, stderr = %s", code, stderr)
	}

	want := []string{
		jsonFile + "\t$.store.book[0].title\ttitles\t\"A\"",
		jsonFile + "\t$.store.book[1].title\ttitles\t\"B\"",
		jsonFile + "\t$.owner\t$.owner\t\"x\"",
		yamlFile + "\t$.store.book[0].title\ttitles\t\"C\"",
		yamlFile + "\t$.owner\t$.owner\t\"y\"",
	}
	if diff := cmp.Diff(want, lines(stdout)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
	if r.Matches() != len(want) {
		t.Errorf("Matches() = %d, want %d", r.Matches(), len(want))
	}
}

func TestRunStdinWithStepOut(t *testing.T) {
	r, stdout, stderr := newRunner(t, &config.Config{
		Files:   []string{config.Stdin},
		Paths:   []config.Path{{Name: "items", Text: "(items *)"}},
		StepOut: 1,
	})
	r.SetInput(strings.NewReader(`{"items": [1, 2, 3]} {"items": [4]}`))

	if code := r.Run(context.Background()); code != 0 {
		t.Fatalf("Run() = %d, stderr = %s", code, stderr)
	}

	want := []string{
		"-\t$.items[0]\titems\t1",
		"-\t$.items[0]\titems\t4",
	}
	if diff := cmp.Diff(want, lines(stdout)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRunRelativeCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "doc.json", `{"a": {"ID": 1, "b": {"id": 2}}}`)

	r, stdout, stderr := newRunner(t, &config.Config{
		Files:           []string{file},
		Paths:           []config.Path{{Name: "id", Text: "(id)"}},
		Relative:        true,
		CaseInsensitive: true,
	})

	if code := r.Run(context.Background()); code != 0 {
		t.Fatalf("Run() = %d, stderr = %s", code, stderr)
	}

	want := []string{
		file + "\t$.a.ID\tid\t1",
		file + "\t$.a.b.id\tid\t2",
	}
	if diff := cmp.Diff(want, lines(stdout)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	malformed := writeFile(t, dir, "bad.json", `{"a": [1,`)

	r, _, stderr := newRunner(t, &config.Config{
		Files: []string{malformed},
		Paths: []config.Path{{Name: "(a)", Text: "(a)"}},
	})

	if code := r.Run(context.Background()); code != 1 {
		t.Errorf("Run() = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "Error in "+malformed) {
		t.Errorf("stderr = %q, want the failing file", stderr.String())
	}
}

func TestRunCancelled(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "doc.json", `{"a": 1}`)

	r, stdout, stderr := newRunner(t, &config.Config{
		Files: []string{file},
		Paths: []config.Path{{Name: "(a)", Text: "(a)"}},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if code := r.Run(ctx); code != 1 {
		t.Errorf("Run() = %d, want 1", code)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want nothing", stdout.String())
	}
	if !strings.Contains(stderr.String(), "Interrupted") {
		t.Errorf("stderr = %q, want an interruption message", stderr.String())
	}
}

func TestNewInvalidPaths(t *testing.T) {
	tests := []struct {
		name string
		path config.Path
		want string
	}{
		{name: "search_path", path: config.Path{Name: "(a", Text: "(a"}, want: "path (a"},
		{name: "jsonpath", path: config.Path{Name: "$..a", Text: "$..a", Syntax: config.SyntaxJSONPath}, want: "jsonpath $..a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, result := New(&config.Config{Paths: []config.Path{tt.path}, Color: config.ColorNever})
			if r != nil || result == nil {
				t.Fatalf("New() = %v, %v, want an exit result", r, result)
			}
			if result.ExitCode != 1 || !strings.Contains(result.Message, tt.want) {
				t.Errorf("New() result = %d %q, want exit 1 mentioning %q", result.ExitCode, result.Message, tt.want)
			}
		})
	}
}
