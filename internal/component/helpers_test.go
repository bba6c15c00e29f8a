package component

import (
	"context"
	"errors"
	"mime/multipart"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

type status int

const (
	statusInactive status = iota
	statusActive
)

var statusMembers = NewMembers(map[string]status{
	"Inactive": statusInactive,
	"Active":   statusActive,
})

func (s *status) ParseMember(name string) error {
	v, err := statusMembers.Parse(name)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s status) MarshalText() ([]byte, error) { return []byte(statusMembers.Name(s)), nil }

func (s *status) UnmarshalText(b []byte) error { return s.ParseMember(string(b)) }

type address struct {
	City string `json:"city"`
	Zip  string `json:"zip"`
}

type counterVM struct {
	Base

	Count    int      `json:"count"`
	Name     string   `json:"name"`
	Status   status   `json:"status"`
	Address  address  `json:"address"`
	Avatar   string   `json:"avatar"`
	Tags     []string `json:"tags,omitempty"`
	Uploaded []string `json:"uploaded,omitempty"`
}

func (c *counterVM) Increment() { c.Count++ }

func (c *counterVM) Add(n int) { c.Count += n }

func (c *counterVM) SetStatus(s status) { c.Status = s }

func (c *counterVM) SaveAddress(a address) { c.Address = a }

func (c *counterVM) AddTag(tag string) { c.Tags = append(c.Tags, tag) }

func (c *counterVM) Upload(f *multipart.FileHeader) {
	if f == nil {
		c.Avatar = ""
		c.JS("alert('no file')")
		return
	}
	c.Avatar = f.Filename
}

func (c *counterVM) Gallery(files []*multipart.FileHeader) {
	for _, f := range files {
		c.Uploaded = append(c.Uploaded, f.Filename)
	}
}

func (c *counterVM) EchoName() { c.JS("name=%s", c.Name) }

func (c *counterVM) Greet(ctx context.Context, who string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.Name = who
	c.JS("console.log('hi %s')", who)
	c.JS("done()")
	return nil
}

func (c *counterVM) Fail() error { return errors.New("boom") }

func (c *counterVM) Explode() { panic("kaboom") }

// Total is not remote: it returns a value.
func (c *counterVM) Total() int { return c.Count }

type harness struct {
	registry *Registry
	engine   *Engine
	releases atomic.Int64
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()

	h := &harness{registry: NewRegistry()}
	_, err := h.registry.Register("counter", func() ViewModel {
		vm := &counterVM{}
		vm.OnRelease(func() error {
			h.releases.Add(1)
			return nil
		})
		return vm
	}, opts...)
	require.NoError(t, err)

	// registration builds and releases one sample
	h.releases.Store(0)
	h.engine = NewEngine(h.registry, DefaultSettings())
	return h
}

func (h *harness) update(method, data, props, params string, files FileLookup) (*Patch, error) {
	return h.engine.Update(context.Background(), "counter", Request{
		Data:       []byte(data),
		Props:      []byte(props),
		Method:     method,
		Parameters: []byte(params),
		Files:      files,
	})
}
