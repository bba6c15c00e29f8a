package component

import (
	"context"
	"encoding/json"
	"errors"

	"vuebridge-backend/internal/jsonvalue"
	"vuebridge-backend/pkg/logger"
)

// Request is one update call from the client.
type Request struct {
	// Data holds the last field values the client saw.
	Data json.RawMessage
	// Props holds values owned by the parent; they override Data.
	Props json.RawMessage
	// Method is the remote method to run. Empty means resync only.
	Method string
	// Parameters is a JSON array of positional argument tokens.
	Parameters json.RawMessage
	Files      FileLookup
}

// Patch is the result of an update cycle.
type Patch struct {
	Update map[string]any `json:"update"`
	Script string         `json:"script"`
}

// Engine runs update cycles. It holds no per-request state and may be
// shared by concurrent requests.
type Engine struct {
	registry *Registry
	settings Settings
}

func NewEngine(registry *Registry, settings Settings) *Engine {
	return &Engine{registry: registry, settings: settings}
}

func (e *Engine) Settings() Settings { return e.settings }

// Update rebuilds the named view-model from req, runs the requested method
// and returns the fields that changed. The view-model is released on every
// path once it has been constructed.
func (e *Engine) Update(ctx context.Context, name string, req Request) (patch *Patch, err error) {
	t, err := e.registry.Lookup(name)
	if err != nil {
		return nil, err
	}

	vm, err := t.New()
	if err != nil {
		return nil, err
	}
	defer func() {
		if rerr := vm.Release(); rerr != nil {
			logger.WithFields(logger.Fields{"component": name}).Warnf("release view-model: %v", rerr)
		}
	}()
	defer func() {
		var ce *Error
		if errors.As(err, &ce) && ce.Component == "" {
			ce.Component = name
		}
	}()

	payload, tokens, err := e.decode(req)
	if err != nil {
		return nil, err
	}

	// reconstruct and take the baseline the client last saw
	if err := e.settings.unmarshal(payload, vm); err != nil {
		return nil, newError(ErrMalformedRequest, name, "", -1, err)
	}
	original, err := e.settings.Snapshot(vm)
	if err != nil {
		return nil, err
	}

	current := make(map[string]any, len(original))
	vm.AbsorbState(pick(payload, original), current)

	if req.Method != "" {
		m, err := t.Resolve(req.Method)
		if err != nil {
			return nil, err
		}
		if err := m.Call(ctx, vm, tokens, req.Files, e.settings); err != nil {
			return nil, err
		}
	}

	after, err := e.settings.Snapshot(vm)
	if err != nil {
		return nil, err
	}
	refresh(current, after, e.settings.IgnoreNullOnMerge)

	return &Patch{
		Update: Diff(original, current),
		Script: vm.ClientScript(),
	}, nil
}

func (e *Engine) decode(req Request) (map[string]any, []any, error) {
	data, err := jsonvalue.DecodeObject(req.Data)
	if err != nil {
		return nil, nil, newError(ErrMalformedRequest, "", "", -1, err)
	}
	props, err := jsonvalue.DecodeObject(req.Props)
	if err != nil {
		return nil, nil, newError(ErrMalformedRequest, "", "", -1, err)
	}
	tokens, err := jsonvalue.DecodeArray(req.Parameters)
	if err != nil {
		return nil, nil, newError(ErrMalformedRequest, "", req.Method, -1, err)
	}

	jsonvalue.Merge(data, props, e.settings.mergeOptions())
	return data, tokens, nil
}

// Diff returns the keys of current whose values differ from original.
// A key missing from original is left out when its current value is an
// empty array or object.
func Diff(original, current map[string]any) map[string]any {
	diff := make(map[string]any)
	for k, v := range current {
		orig, ok := original[k]
		if !ok && jsonvalue.IsEmptyContainer(v) {
			continue
		}
		if !ok || !jsonvalue.Equal(orig, v) {
			diff[k] = v
		}
	}
	return diff
}

// refresh overwrites current field by field with the state after the method
// ran. Fields the view-model no longer emits become null so the clear reaches
// the client.
func refresh(current, after map[string]any, ignoreNulls bool) {
	for k := range current {
		if _, ok := after[k]; !ok && !ignoreNulls {
			current[k] = nil
		}
	}
	for k, v := range after {
		if v == nil && ignoreNulls {
			continue
		}
		current[k] = v
	}
}

// pick returns the entries of src whose keys exist in shape.
func pick(src, shape map[string]any) map[string]any {
	out := make(map[string]any, len(shape))
	for k := range shape {
		if v, ok := src[k]; ok {
			out[k] = jsonvalue.Clone(v)
		}
	}
	return out
}
