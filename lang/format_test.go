package lang

import (
	"encoding/json"
	"strings"
	"testing"
)

const formatSource = `
F> add(a, b(int)) { R> a + b }
F> ask() { R> I>["p", number, 2] }
F> main() {
	xs := [1, 2, 3] // comments are dropped
	r := {"k": [1, 2], name: "n"}
	r.k[0] = 5
	c :(int) = 2
	v :[float] = 1.5
	v = v - (1 - 0.5)
	v++
	--v
	L> xs : x { print(x) }
	L> (i := 0; i < 2; i++) { print(i) }
	L> [c] { print(_) }
	L> (v < 3) { v = v + 1 }
	if (1 < 2 < 3) { print("ok") } elif (0) { } else { print("no") }
	print(add(1, 2), xs.length, r.name, xs[1], r)
	R> v
}`

func TestFormat_Native(t *testing.T) {
	t.Parallel()

	prog := mustParse(t, `F> main() { x := 1 L>[3]{print(_)} }`)

	var sb strings.Builder
	if err := prog.Format(t.Context(), &sb, 2); err != nil {
		t.Fatalf("format error: %v", err)
	}

	want := "F> main() {\n  x := 1\n  L> [3] {\n    print(_)\n  }\n}\n"
	if sb.String() != want {
		t.Errorf("Format =\n%s\nwant\n%s", sb.String(), want)
	}

	sb.Reset()

	if err := prog.Format(t.Context(), &sb, 0); err != nil {
		t.Fatalf("format error: %v", err)
	}

	want = "F> main() { x := 1 L> [3] { print(_) } }\n"
	if sb.String() != want {
		t.Errorf("compact Format = %q, want %q", sb.String(), want)
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, indent := range []int{0, 2, 4} {
		prog := mustParse(t, formatSource)

		var first strings.Builder
		if err := prog.Format(t.Context(), &first, indent); err != nil {
			t.Fatalf("format error: %v", err)
		}

		again := mustParse(t, first.String())

		var second strings.Builder
		if err := again.Format(t.Context(), &second, indent); err != nil {
			t.Fatalf("format error: %v", err)
		}

		if first.String() != second.String() {
			t.Errorf("indent %d: formatting is not stable:\n%s\n---\n%s",
				indent, first.String(), second.String())
		}

		if got, want := mustRun(t, first.String()), mustRun(t, formatSource); got != want {
			t.Errorf("indent %d: formatted program printed %q, want %q",
				indent, got, want)
		}
	}
}

func TestFormat_Relations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		want string
	}{
		{"a < b < c", "a < b < c"},
		{"(a < b) < c", "(a < b) < c"},
		{"a - (b - c)", "a - (b - c)"},
		{"a - b - c", "a - b - c"},
		{"(a < b) + 1", "(a < b) + 1"},
		{"a + 1 < b", "a + 1 < b"},
		{"a < = b", "a < = b"},
		{"a >= b", "a >= b"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			t.Parallel()

			prog := mustParse(t, "F> main() { x := "+tt.src+" }")

			var sb strings.Builder
			if err := prog.Format(t.Context(), &sb, 0); err != nil {
				t.Fatalf("format error: %v", err)
			}

			want := "F> main() { x := " + tt.want + " }\n"
			if sb.String() != want {
				t.Errorf("Format = %q, want %q", sb.String(), want)
			}
		})
	}
}

func TestFormatJSON(t *testing.T) {
	t.Parallel()

	prog := mustParse(t, `F> main(a(int)) { R> a + 1 }`)

	var sb strings.Builder
	if err := prog.FormatJSON(t.Context(), &sb, 2); err != nil {
		t.Fatalf("format error: %v", err)
	}

	var tree struct {
		Functions []struct {
			Node   string           `json:"node"`
			Name   string           `json:"name"`
			Pos    string           `json:"pos"`
			Params []map[string]any `json:"params"`
			Body   []map[string]any `json:"body"`
		} `json:"functions"`
	}

	if err := json.Unmarshal([]byte(sb.String()), &tree); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, sb.String())
	}

	if len(tree.Functions) != 1 {
		t.Fatalf("got %d functions", len(tree.Functions))
	}

	fn := tree.Functions[0]
	if fn.Node != "Function" || fn.Name != "main" || fn.Pos != "1:1" {
		t.Errorf("function = %+v", fn)
	}

	if len(fn.Params) != 1 || fn.Params[0]["type"] != "int" {
		t.Errorf("params = %v", fn.Params)
	}

	if len(fn.Body) != 1 || fn.Body[0]["node"] != "Return" {
		t.Fatalf("body = %v", fn.Body)
	}

	value, _ := fn.Body[0]["value"].(map[string]any)
	if value["node"] != "Binary" || value["op"] != "+" {
		t.Errorf("return value = %v", value)
	}
}

func TestFormatYAML(t *testing.T) {
	t.Parallel()

	prog := mustParse(t, `F> main() { L> xs : x { print(x) } }`)

	var sb strings.Builder
	if err := prog.FormatYAML(t.Context(), &sb, 2); err != nil {
		t.Fatalf("format error: %v", err)
	}

	out := sb.String()

	for _, want := range []string{"functions:", "name: main", "kind: each", "target: xs"} {
		if !strings.Contains(out, want) {
			t.Errorf("YAML output missing %q:\n%s", want, out)
		}
	}

	sb.Reset()

	if err := prog.FormatYAML(t.Context(), &sb, 0); err != nil {
		t.Fatalf("format error: %v", err)
	}

	if !strings.HasPrefix(sb.String(), "{") {
		t.Errorf("flow YAML = %q", sb.String())
	}
}
