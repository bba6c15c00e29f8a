package component

// Option configures the client-side shape of a registered component.
type Option func(*options)

type options struct {
	vpath         string
	props         []string
	locals        []string
	createdHook   bool
	computed      []Computed
	watch         []Watch
	mixins        []string
	methodScripts []methodScript
}

type methodScript struct {
	method string
	pre    string
	post   string
}

// Computed is a client-side computed property.
type Computed struct {
	Name string
	// Script is the body of the computed function, without "return".
	Script string
}

// Watch binds a state field to a remote method called when it changes.
type Watch struct {
	Field   string
	Handler string
}

// WithVPath sets the path identifier rendered into the descriptor.
func WithVPath(vpath string) Option {
	return func(o *options) { o.vpath = vpath }
}

// WithProps declares the fields the parent passes in as props.
func WithProps(names ...string) Option {
	return func(o *options) { o.props = append(o.props, names...) }
}

// WithLocals declares fields that live only on the client.
func WithLocals(names ...string) Option {
	return func(o *options) { o.locals = append(o.locals, names...) }
}

// WithCreatedHook makes the client call onCreated when the component is created.
func WithCreatedHook() Option {
	return func(o *options) { o.createdHook = true }
}

func WithComputed(name, script string) Option {
	return func(o *options) { o.computed = append(o.computed, Computed{Name: name, Script: script}) }
}

func WithWatch(field, handler string) Option {
	return func(o *options) { o.watch = append(o.watch, Watch{Field: field, Handler: handler}) }
}

// WithMixin adds a client script block whose return value is used as a mixin.
func WithMixin(script string) Option {
	return func(o *options) { o.mixins = append(o.mixins, script) }
}

// WithMethodScript adds client code that runs before the server call (pre)
// and after the update is applied (post).
func WithMethodScript(method, pre, post string) Option {
	return func(o *options) {
		o.methodScripts = append(o.methodScripts, methodScript{method: method, pre: pre, post: post})
	}
}
