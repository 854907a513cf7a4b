package lang

import (
	"strconv"
	"strings"
)

// Sentinel values produced by the evaluator.
const (
	// Void is the value of a call to a function that returned nothing.
	Void = "<void>"
	// UnknownFn is the value of a call to an undefined function.
	UnknownFn = "<unknown-fn>"
)

// Declared type names.
const (
	TypeInt    = "int"
	TypeFloat  = "float"
	TypeBool   = "bool"
	TypeString = "string"
	TypeObj    = "obj"
)

func knownType(t string) bool {
	switch t {
	case TypeInt, TypeFloat, TypeBool, TypeString, TypeObj:
		return true
	}

	return false
}

// Truthy reports whether v counts as true in a condition.
// Only "0" and any casing of "false" are false.
func Truthy(v string) bool {
	return v != "0" && !strings.EqualFold(v, "false")
}

// InferType returns the type implied by the shape of v: int, float, bool,
// obj (array or record text) or string.
func InferType(v string) string {
	if _, err := strconv.ParseInt(v, 10, 64); err == nil {
		return TypeInt
	}

	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return TypeFloat
	}

	if strings.EqualFold(v, "true") || strings.EqualFold(v, "false") {
		return TypeBool
	}

	if isArray(v) || isRecord(v) {
		return TypeObj
	}

	return TypeString
}

// FormatNumber formats f as the shortest decimal text that parses back to
// f, without an exponent.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// parseNumber parses v as a float, treating unparseable text as zero.
func parseNumber(v string) float64 {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}

	return f
}

func formatBool(b bool) string {
	if b {
		return "true"
	}

	return "false"
}

// parseBool accepts true/false/1/0 in any case, ignoring surrounding quotes.
func parseBool(v string) (bool, bool) {
	switch strings.ToLower(strings.Trim(v, `"`)) {
	case "true", "1":
		return true, true
	case "false", "0":
		return false, true
	}

	return false, false
}

// unquote strips one layer of surrounding double quotes.
func unquote(v string) string {
	if len(v) >= 2 && strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`) {
		return v[1 : len(v)-1]
	}

	return v
}

func isArray(v string) bool {
	v = strings.TrimSpace(v)

	return strings.HasPrefix(v, "[") && strings.HasSuffix(v, "]")
}

func isRecord(v string) bool {
	v = strings.TrimSpace(v)

	return strings.HasPrefix(v, "{") && strings.HasSuffix(v, "}")
}

// SplitTopLevel splits inner on commas that are not nested inside brackets
// or braces. Elements are trimmed; an empty trailing element is dropped.
func SplitTopLevel(inner string) []string {
	var (
		parts []string
		depth int
		start int
	)

	for i, r := range inner {
		switch r {
		case '[', '{':
			depth++
		case ']', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(inner[start:i]))
				start = i + 1
			}
		}
	}

	if last := strings.TrimSpace(inner[start:]); last != "" {
		parts = append(parts, last)
	}

	return parts
}

// ParseArray splits array text into its element texts. It reports false if
// text is not an array.
func ParseArray(text string) ([]string, bool) {
	if !isArray(text) {
		return nil, false
	}

	text = strings.TrimSpace(text)

	return SplitTopLevel(text[1 : len(text)-1]), true
}

// FormatArray joins element texts into array text.
func FormatArray(elems []string) string {
	return "[" + strings.Join(elems, ",") + "]"
}

// coerce converts v to the declared type t for assignment. Integers and
// floats are reformatted, booleans become true/false, and every other type
// passes v through.
func coerce(t, v string) (string, error) {
	switch t {
	case TypeInt:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return "", ErrTypeMismatch.Wrapf("expected int, got %q", v)
		}

		return strconv.FormatInt(n, 10), nil

	case TypeFloat:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return "", ErrTypeMismatch.Wrapf("expected float, got %q", v)
		}

		return FormatNumber(f), nil

	case TypeBool:
		b, ok := parseBool(v)
		if !ok {
			return "", ErrTypeMismatch.Wrapf("expected bool, got %q", v)
		}

		return formatBool(b), nil
	}

	return v, nil
}

// normalize validates v against the declared type t at declaration time.
// Integers and floats keep their original text; booleans are canonicalized
// to trueText or falseText; strings lose one layer of quotes.
func normalize(t, v, trueText, falseText string) (string, error) {
	switch t {
	case TypeBool:
		b, ok := parseBool(v)
		if !ok {
			return "", ErrInvalidLiteral.Wrapf("bool %q", v)
		}

		if b {
			return trueText, nil
		}

		return falseText, nil

	case TypeInt:
		if _, err := strconv.ParseInt(v, 10, 64); err != nil {
			return "", ErrInvalidLiteral.Wrapf("int %q", v)
		}

	case TypeFloat:
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return "", ErrInvalidLiteral.Wrapf("float %q", v)
		}

	case TypeString:
		return unquote(v), nil
	}

	return v, nil
}
