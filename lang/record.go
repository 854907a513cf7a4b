package lang

import (
	"strconv"
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Record is a keyed record value: an insertion-ordered map from key to the
// raw text of each value.
//
// Values are stored and serialized exactly as given. A string value is
// never re-quoted, so {"k":abc} and {"k":"abc"} are distinct records.
type Record struct {
	m *linkedhashmap.Map
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{m: linkedhashmap.New()}
}

// ParseRecord parses record text of the form {"k0":v0,"k1":v1,...}.
// Keys lose surrounding quotes; entries without a colon are skipped.
// It reports false if text is not a record.
func ParseRecord(text string) (*Record, bool) {
	if !isRecord(text) {
		return nil, false
	}

	text = strings.TrimSpace(text)
	rec := NewRecord()

	for _, entry := range SplitTopLevel(text[1 : len(text)-1]) {
		k, v, ok := strings.Cut(entry, ":")
		if !ok {
			continue
		}

		rec.Set(strings.Trim(strings.TrimSpace(k), `"`), strings.TrimSpace(v))
	}

	return rec, true
}

// Get returns the raw text stored under key.
func (r *Record) Get(key string) (string, bool) {
	v, ok := r.m.Get(key)
	if !ok {
		return "", false
	}

	s, ok := v.(string)

	return s, ok
}

// Set inserts or overwrites key. A new key is appended after existing keys.
func (r *Record) Set(key, value string) {
	r.m.Put(key, value)
}

// Keys returns the keys in insertion order.
func (r *Record) Keys() []string {
	keys := make([]string, 0, r.m.Size())

	for _, k := range r.m.Keys() {
		if s, ok := k.(string); ok {
			keys = append(keys, s)
		}
	}

	return keys
}

// Len returns the number of keys.
func (r *Record) Len() int { return r.m.Size() }

// String serializes the record as {"k0":v0,"k1":v1,...}.
func (r *Record) String() string {
	var sb strings.Builder

	sb.WriteByte('{')

	it := r.m.Iterator()
	for i := 0; it.Next(); i++ {
		if i > 0 {
			sb.WriteByte(',')
		}

		sb.WriteByte('"')
		sb.WriteString(it.Key().(string))
		sb.WriteString(`":`)
		sb.WriteString(it.Value().(string))
	}

	sb.WriteByte('}')

	return sb.String()
}

// PathKey is one segment of a write path: a property name (a.key) or an
// index (a[key]). Index keys hold the evaluated index text.
type PathKey struct {
	Key     string
	Indexed bool
}

func (k PathKey) String() string {
	if k.Indexed {
		return "[" + k.Key + "]"
	}

	return "." + k.Key
}

// SetPath returns root with the value at path replaced by value.
//
// Property segments insert or overwrite the final key of a record; an
// intermediate key that does not exist is an error. Index segments address
// array elements, which must already exist, or record keys. Each level is
// re-serialized on the way back up.
func SetPath(root string, path []PathKey, value string) (string, error) {
	if len(path) == 0 {
		return value, nil
	}

	seg := path[0]

	if rec, ok := ParseRecord(root); ok {
		return setField(rec, seg, path[1:], value)
	}

	if !seg.Indexed {
		return "", ErrNotObject.Wrapf("cannot set property %q of %q", seg.Key, root)
	}

	elems, ok := ParseArray(root)
	if !ok {
		return "", ErrNotArray.Wrapf("cannot index %q", root)
	}

	i, err := strconv.Atoi(seg.Key)
	if err != nil || i < 0 {
		return "", ErrInvalidIndex.Wrapf("%q", seg.Key)
	}

	if i >= len(elems) {
		return "", ErrIndexRange.Wrapf("index %d out of range for array of length %d",
			i, len(elems))
	}

	updated, err := SetPath(elems[i], path[1:], value)
	if err != nil {
		return "", err
	}

	elems[i] = updated

	return FormatArray(elems), nil
}

func setField(rec *Record, seg PathKey, rest []PathKey, value string) (string, error) {
	if len(rest) == 0 {
		rec.Set(seg.Key, value)

		return rec.String(), nil
	}

	inner, ok := rec.Get(seg.Key)
	if !ok {
		return "", ErrKeyNotFound.Wrapf("%q during nested assignment", seg.Key)
	}

	updated, err := SetPath(inner, rest, value)
	if err != nil {
		return "", err
	}

	rec.Set(seg.Key, updated)

	return rec.String(), nil
}
