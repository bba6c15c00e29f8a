package component

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"unicode"
)

// Factory returns a fresh view-model with its default state.
type Factory func() ViewModel

// Registry maps component names to their registered view-model types.
// Registration happens at startup; lookups are safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*Type
}

func NewRegistry() *Registry {
	return &Registry{types: make(map[string]*Type)}
}

// Register reflects over the view-model produced by factory and builds the
// invocation table for its remote methods.
func (r *Registry) Register(name string, factory Factory, opts ...Option) (*Type, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty component name", ErrInvalidViewModel)
	}

	t, err := newType(name, factory, opts)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[name]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateComponent, name)
	}
	r.types[name] = t
	return t, nil
}

// MustRegister is Register for init-time wiring; it panics on error.
func (r *Registry) MustRegister(name string, factory Factory, opts ...Option) *Type {
	t, err := r.Register(name, factory, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

func (r *Registry) Lookup(name string) (*Type, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.types[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownComponent, name)
	}
	return t, nil
}

// Names returns the registered component names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Type is a registered view-model type.
type Type struct {
	name    string
	factory Factory
	goType  reflect.Type
	methods map[string]*Method
	ordered []*Method
	options options
}

func (t *Type) Name() string { return t.name }

// GoType returns the pointer type of the view-model.
func (t *Type) GoType() reflect.Type { return t.goType }

// Methods returns the remote methods sorted by Go name.
func (t *Type) Methods() []*Method { return t.ordered }

// VPath returns the configured path identifier, defaulting to "/<name>".
func (t *Type) VPath() string {
	if t.options.vpath == "" {
		return "/" + t.name
	}
	return t.options.vpath
}

// New builds a view-model with default state.
func (t *Type) New() (ViewModel, error) {
	vm := t.factory()
	if vm == nil || reflect.TypeOf(vm) != t.goType || reflect.ValueOf(vm).IsNil() {
		return nil, fmt.Errorf("%w: factory for %q returned %T", ErrInvalidViewModel, t.name, vm)
	}
	return vm, nil
}

// Resolve finds a remote method by its Go name or its lower-camel key.
func (t *Type) Resolve(name string) (*Method, error) {
	if m, ok := t.methods[name]; ok {
		return m, nil
	}
	if m, ok := t.methods[lowerCamel(name)]; ok && m.Name == name {
		return m, nil
	}
	return nil, newError(ErrMethodNotFound, t.name, name, -1, nil)
}

func newType(name string, factory Factory, opts []Option) (*Type, error) {
	if factory == nil {
		return nil, fmt.Errorf("%w: nil factory for %q", ErrInvalidViewModel, name)
	}
	sample := factory()
	if sample == nil {
		return nil, fmt.Errorf("%w: factory for %q returned nil", ErrInvalidViewModel, name)
	}
	goType := reflect.TypeOf(sample)
	if goType.Kind() != reflect.Pointer || goType.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %q must be a pointer to a struct, got %s", ErrInvalidViewModel, name, goType)
	}
	defer sample.Release()

	t := &Type{
		name:    name,
		factory: factory,
		goType:  goType,
		methods: make(map[string]*Method),
	}
	for _, opt := range opts {
		opt(&t.options)
	}

	for i := 0; i < goType.NumMethod(); i++ {
		rm := goType.Method(i)
		if _, reserved := reservedMethods[rm.Name]; reserved {
			continue
		}

		m, ok, err := newMethod(rm)
		if err != nil {
			return nil, fmt.Errorf("%w: %s.%s: %v", ErrInvalidViewModel, name, rm.Name, err)
		}
		if !ok {
			continue
		}

		if prev, dup := t.methods[m.Key]; dup {
			return nil, fmt.Errorf("%w: %s.%s and %s.%s both map to %q",
				ErrAmbiguousMethod, name, prev.Name, name, m.Name, m.Key)
		}
		t.methods[m.Key] = m
		t.ordered = append(t.ordered, m)
	}

	for _, ms := range t.options.methodScripts {
		if _, ok := t.methods[lowerCamel(ms.method)]; !ok {
			return nil, fmt.Errorf("%w: script bound to unknown method %s.%s", ErrInvalidViewModel, name, ms.method)
		}
	}
	for _, w := range t.options.watch {
		if _, ok := t.methods[lowerCamel(w.Handler)]; !ok {
			return nil, fmt.Errorf("%w: watch handler %s.%s is not a remote method", ErrInvalidViewModel, name, w.Handler)
		}
	}

	return t, nil
}

// reservedMethods are promoted from Base and never callable remotely.
var reservedMethods = func() map[string]struct{} {
	set := make(map[string]struct{})
	bt := reflect.TypeOf(&Base{})
	for i := 0; i < bt.NumMethod(); i++ {
		set[bt.Method(i).Name] = struct{}{}
	}
	return set
}()

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// Method is the invocation thunk of one remote method.
type Method struct {
	Name string
	Key  string
	// Params lists the client-supplied parameters; a leading
	// context.Context is injected and not listed.
	Params []Param

	fn           reflect.Value
	withContext  bool
	returnsError bool
}

// newMethod reports ok=false for methods that are not remotely callable:
// those returning anything other than nothing or a single error.
func newMethod(rm reflect.Method) (*Method, bool, error) {
	ft := rm.Type

	switch ft.NumOut() {
	case 0:
	case 1:
		if ft.Out(0) != errorType {
			return nil, false, nil
		}
	default:
		return nil, false, nil
	}
	if ft.IsVariadic() {
		return nil, false, nil
	}

	m := &Method{
		Name:         rm.Name,
		Key:          lowerCamel(rm.Name),
		fn:           rm.Func,
		returnsError: ft.NumOut() == 1,
	}

	// In(0) is the receiver
	first := 1
	if ft.NumIn() > 1 && ft.In(1) == contextType {
		m.withContext = true
		first = 2
	}
	for i := first; i < ft.NumIn(); i++ {
		p, err := newParam(i-first, ft.In(i))
		if err != nil {
			return nil, false, err
		}
		m.Params = append(m.Params, p)
	}

	return m, true, nil
}

// Call coerces tokens into arguments and invokes the method on vm.
func (m *Method) Call(ctx context.Context, vm ViewModel, tokens []any, files FileLookup, s Settings) error {
	args, err := m.Coerce(tokens, files, s)
	if err != nil {
		return err
	}
	return m.Invoke(ctx, vm, args)
}

// Coerce converts positional tokens into the method's argument values.
// Tokens beyond the declared parameters are ignored.
func (m *Method) Coerce(tokens []any, files FileLookup, s Settings) ([]reflect.Value, error) {
	if len(tokens) < len(m.Params) {
		return nil, newError(ErrArityMismatch, "", m.Name, -1,
			fmt.Errorf("expected %d arguments, got %d", len(m.Params), len(tokens)))
	}

	args := make([]reflect.Value, len(m.Params))
	for i, p := range m.Params {
		v, err := s.coerce(tokens[p.Position], p, files)
		if err != nil {
			return nil, newError(ErrInvalidArgument, "", m.Name, p.Position, err)
		}
		args[i] = v
	}
	return args, nil
}

// Invoke runs the method. A returned error or a panic is reported as
// ErrMethodExecutionFailed.
func (m *Method) Invoke(ctx context.Context, vm ViewModel, args []reflect.Value) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newError(ErrMethodExecutionFailed, "", m.Name, -1, fmt.Errorf("panic: %v", r))
		}
	}()

	if ctx == nil {
		ctx = context.Background()
	}

	in := make([]reflect.Value, 0, len(args)+2)
	in = append(in, reflect.ValueOf(vm))
	if m.withContext {
		in = append(in, reflect.ValueOf(&ctx).Elem())
	}
	in = append(in, args...)

	out := m.fn.Call(in)
	if m.returnsError && !out[0].IsNil() {
		return newError(ErrMethodExecutionFailed, "", m.Name, -1, out[0].Interface().(error))
	}
	return nil
}

// lowerCamel lowers the leading run of capitals: Increment -> increment,
// ID -> id, URLPath -> urlPath.
func lowerCamel(s string) string {
	r := []rune(s)
	for i := 0; i < len(r) && unicode.IsUpper(r[i]); i++ {
		if i > 0 && i+1 < len(r) && unicode.IsLower(r[i+1]) {
			break
		}
		r[i] = unicode.ToLower(r[i])
	}
	return string(r)
}
