package period

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces deterministic canonical JSON for golden-file
// comparison and cache keys.
//
// Rules:
//  1. Object keys sorted lexicographically
//  2. No HTML escaping (< > & are NOT escaped)
//  3. Strings are NFC normalized
//  4. No floats and no nulls (returns error) - exact values only;
//     rational durations are serialized as "p/q" strings and instants
//     as RFC 3339 UTC strings before reaching this function
func MarshalCanonical(v any) ([]byte, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("null is forbidden in canonical JSON")
	case string:
		return marshalCanonicalString(val)
	case Body:
		return marshalCanonicalString(string(val))
	case Source:
		return marshalCanonicalString(string(val))
	case int:
		return fmt.Appendf(nil, "%d", val), nil
	case int64:
		return fmt.Appendf(nil, "%d", val), nil
	case bool:
		if val {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case []any:
		return marshalCanonicalArray(val)
	case map[string]any:
		return marshalCanonicalObject(val)
	case float32, float64:
		return nil, fmt.Errorf("floats are forbidden in canonical JSON: %v", val)
	default:
		return nil, fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
}

// marshalCanonicalString produces a canonical JSON string: NFC normalized,
// with HTML escaping disabled.
func marshalCanonicalString(s string) ([]byte, error) {
	// NFC normalize at the serialization boundary
	normalized := norm.NFC.String(s)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return nil, err
	}

	// json.Encoder adds a trailing newline, remove it
	result := buf.Bytes()
	if n := len(result); n > 0 && result[n-1] == '\n' {
		result = result[:n-1]
	}
	return result, nil
}

func marshalCanonicalArray(arr []any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, elem := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		elemBytes, err := MarshalCanonical(elem)
		if err != nil {
			return nil, fmt.Errorf("array[%d]: %w", i, err)
		}
		buf.Write(elemBytes)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func marshalCanonicalObject(obj map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := marshalCanonicalString(k)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		valBytes, err := MarshalCanonical(obj[k])
		if err != nil {
			return nil, fmt.Errorf("value for key %q: %w", k, err)
		}
		buf.Write(valBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// CanonicalMap converts a Period to a map[string]any suitable for
// MarshalCanonical. Instants render as RFC 3339 UTC (nanosecond precision
// when present), durations as exact "p/q" strings. Children are included
// recursively with their source tag; NoChildren is omitted entirely.
func (p Period) CanonicalMap() map[string]any {
	m := map[string]any{
		"body":  string(p.Body),
		"start": CanonicalInstant(p.Start),
		"end":   CanonicalInstant(p.End),
		"years": p.YearsString(),
	}
	if src, ok := ChildSource(p.Children); ok {
		kids := ChildPeriods(p.Children)
		list := make([]any, len(kids))
		for i, c := range kids {
			list[i] = c.CanonicalMap()
		}
		m["children"] = map[string]any{
			"source":  string(src),
			"periods": list,
		}
	}
	return m
}

// CanonicalInstant renders an instant in the canonical wire form:
// RFC 3339 UTC, fractional seconds only when non-zero.
func CanonicalInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
