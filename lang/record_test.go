package lang

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseRecord(t *testing.T) {
	t.Parallel()

	rec, ok := ParseRecord(`{"b":1, a : "x", "c":{"d":[1,2]}, junk}`)
	if !ok {
		t.Fatal("not parsed as record")
	}

	if got, want := rec.Keys(), []string{"b", "a", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("keys = %q, want %q", got, want)
	}

	if v, _ := rec.Get("a"); v != `"x"` {
		t.Errorf("a = %q, want the raw text", v)
	}

	if v, _ := rec.Get("c"); v != `{"d":[1,2]}` {
		t.Errorf("c = %q", v)
	}

	if _, ok := rec.Get("junk"); ok {
		t.Error("entry without a colon was kept")
	}

	if _, ok := ParseRecord("[1]"); ok {
		t.Error("array parsed as record")
	}
}

func TestRecord_String(t *testing.T) {
	t.Parallel()

	rec := NewRecord()
	rec.Set("z", "1")
	rec.Set("a", "two")
	rec.Set("z", "3")

	// Values are never re-quoted; overwriting keeps the key's position.
	if got := rec.String(); got != `{"z":3,"a":two}` {
		t.Errorf("String() = %q", got)
	}

	if rec.Len() != 2 {
		t.Errorf("Len() = %d, want 2", rec.Len())
	}

	if got := NewRecord().String(); got != "{}" {
		t.Errorf("empty record = %q", got)
	}
}

func TestSetPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		root string
		path []PathKey
		val  string
		want string
		err  error
	}{
		{
			name: "empty path replaces",
			root: "1", val: "2", want: "2",
		},
		{
			name: "record insert",
			root: `{"a":1}`, path: []PathKey{{Key: "b"}}, val: "2",
			want: `{"a":1,"b":2}`,
		},
		{
			name: "record overwrite via index",
			root: `{"a":1}`, path: []PathKey{{Key: "a", Indexed: true}}, val: "5",
			want: `{"a":5}`,
		},
		{
			name: "array element",
			root: "[1,2,3]", path: []PathKey{{Key: "2", Indexed: true}}, val: "x",
			want: "[1,2,x]",
		},
		{
			name: "array inside record",
			root: `{"xs":[1,[2,3]]}`,
			path: []PathKey{{Key: "xs"}, {Key: "1", Indexed: true}, {Key: "0", Indexed: true}},
			val:  "9",
			want: `{"xs":[1,[9,3]]}`,
		},
		{
			name: "record inside array",
			root: `[{"a":1},{"a":2}]`,
			path: []PathKey{{Key: "1", Indexed: true}, {Key: "a"}},
			val:  "7",
			want: `[{"a":1},{"a":7}]`,
		},
		{
			name: "missing intermediate key",
			root: `{"a":1}`, path: []PathKey{{Key: "b"}, {Key: "c"}}, val: "1",
			err: ErrKeyNotFound,
		},
		{
			name: "index out of range",
			root: "[1]", path: []PathKey{{Key: "1", Indexed: true}}, val: "1",
			err: ErrIndexRange,
		},
		{
			name: "index not a number",
			root: "[1]", path: []PathKey{{Key: "x", Indexed: true}}, val: "1",
			err: ErrInvalidIndex,
		},
		{
			name: "index of scalar",
			root: "5", path: []PathKey{{Key: "0", Indexed: true}}, val: "1",
			err: ErrNotArray,
		},
		{
			name: "property of array",
			root: "[1]", path: []PathKey{{Key: "a"}}, val: "1",
			err: ErrNotObject,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := SetPath(tt.root, tt.path, tt.val)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("error = %v, want %v", err, tt.err)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("SetPath = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPathKey_String(t *testing.T) {
	t.Parallel()

	if got := (PathKey{Key: "a"}).String(); got != ".a" {
		t.Errorf("property = %q", got)
	}

	if got := (PathKey{Key: "0", Indexed: true}).String(); got != "[0]" {
		t.Errorf("index = %q", got)
	}
}
