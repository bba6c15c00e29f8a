package jsonvalue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var ErrNotObject = errors.New("json value is not an object")

// MergeOptions controls how Merge folds one object into another.
type MergeOptions struct {
	// IgnoreNulls skips null values in the source instead of overwriting.
	IgnoreNulls bool
}

// Merge folds src into dst. Nested objects merge key by key, arrays and
// scalars from src replace the destination value. Values copied from src
// are cloned so dst never aliases src.
func Merge(dst, src map[string]any, opts MergeOptions) {
	for k, sv := range src {
		if sv == nil && opts.IgnoreNulls {
			continue
		}

		if so, ok := sv.(map[string]any); ok {
			if do, ok := dst[k].(map[string]any); ok {
				Merge(do, so, opts)
				continue
			}
		}

		dst[k] = Clone(sv)
	}
}

// Clone deep-copies arrays and objects. Scalars are returned as is.
func Clone(v any) any {
	switch x := v.(type) {
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = Clone(x[i])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = Clone(e)
		}
		return out
	default:
		return v
	}
}

// Decode parses JSON keeping numbers as json.Number.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	return v, nil
}

// DecodeObject parses a JSON object. Empty input and null yield an empty object.
func DecodeObject(data []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}

	v, err := Decode(data)
	if err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return x, nil
	default:
		return nil, ErrNotObject
	}
}

// DecodeArray parses a JSON array. Empty input and null yield an empty array.
func DecodeArray(data []byte) ([]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []any{}, nil
	}

	v, err := Decode(data)
	if err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case nil:
		return []any{}, nil
	case []any:
		return x, nil
	default:
		return nil, fmt.Errorf("json value is not an array")
	}
}
