package component

import (
	"bytes"
	"encoding/json"
	"fmt"

	"vuebridge-backend/internal/jsonvalue"
)

// Settings holds the serialization and merge rules shared by snapshots,
// argument coercion and descriptor rendering. Build it once at startup and
// pass it by value.
type Settings struct {
	// EscapeHTML escapes <, > and & when serializing view-model state.
	EscapeHTML bool
	// DisallowUnknownFields rejects request keys and object arguments that
	// do not map to a field of the target type.
	DisallowUnknownFields bool
	// IgnoreNullOnMerge keeps the existing value when a merged value is null.
	IgnoreNullOnMerge bool
}

func DefaultSettings() Settings {
	return Settings{}
}

func (s Settings) mergeOptions() jsonvalue.MergeOptions {
	return jsonvalue.MergeOptions{IgnoreNulls: s.IgnoreNullOnMerge}
}

func (s Settings) marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(s.EscapeHTML)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// unmarshal binds a JSON value onto target, which must be a pointer.
func (s Settings) unmarshal(v any, target any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	if s.DisallowUnknownFields {
		dec.DisallowUnknownFields()
	}
	return dec.Decode(target)
}

// Snapshot serializes a view-model into a JSON object. Both snapshots of an
// update cycle and the initial data of a descriptor come from here.
func (s Settings) Snapshot(vm ViewModel) (map[string]any, error) {
	data, err := s.marshal(vm)
	if err != nil {
		return nil, err
	}
	obj, err := jsonvalue.DecodeObject(data)
	if err != nil {
		return nil, fmt.Errorf("view-model %T does not serialize to an object: %w", vm, err)
	}
	return obj, nil
}
