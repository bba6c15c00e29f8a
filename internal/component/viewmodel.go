package component

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ViewModel is the server side of one component. Implementations embed Base
// and are pointers to structs whose exported fields form the client state.
type ViewModel interface {
	// AbsorbState populates current from the raw request values before any
	// method runs.
	AbsorbState(request, current map[string]any)
	// ClientScript returns the script emitted during the cycle.
	ClientScript() string
	// Release frees resources held by the view-model. The engine calls it
	// exactly once per cycle.
	Release() error
}

// Base carries the per-request plumbing of a view-model.
type Base struct {
	mu       sync.Mutex
	data     map[string]any
	script   strings.Builder
	releases []func() error
	released bool
}

// AbsorbState copies the raw request values into current and keeps current
// available through Data.
func (b *Base) AbsorbState(request, current map[string]any) {
	for k, v := range request {
		current[k] = v
	}

	b.mu.Lock()
	b.data = current
	b.mu.Unlock()
}

// Data returns the raw state absorbed from the request.
func (b *Base) Data() map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.data
}

// JS appends a statement to the client script. Statements run on the client
// in emission order after the update is applied.
func (b *Base) JS(format string, args ...any) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(args) > 0 {
		fmt.Fprintf(&b.script, format, args...)
	} else {
		b.script.WriteString(format)
	}
	b.script.WriteByte('\n')
}

func (b *Base) ClientScript() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.script.String()
}

// OnRelease registers fn to run when the view-model is released.
// Callbacks run in reverse registration order.
func (b *Base) OnRelease(fn func() error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.releases = append(b.releases, fn)
}

// Release runs the registered callbacks once and joins their errors.
func (b *Base) Release() error {
	b.mu.Lock()
	if b.released {
		b.mu.Unlock()
		return nil
	}
	b.released = true
	fns := b.releases
	b.releases = nil
	b.mu.Unlock()

	var errs []error
	for i := len(fns) - 1; i >= 0; i-- {
		if err := fns[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
