package demo

import (
	"context"

	"vuebridge-backend/internal/component"
)

// Status is the run state of a counter. Clients address it by member name.
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusPaused
)

var statusMembers = component.NewMembers(map[string]Status{
	"Idle":    StatusIdle,
	"Running": StatusRunning,
	"Paused":  StatusPaused,
})

func (s *Status) ParseMember(name string) error {
	v, err := statusMembers.Parse(name)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s Status) String() string { return statusMembers.Name(s) }

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(b []byte) error { return s.ParseMember(string(b)) }

type Counter struct {
	component.Base

	Count  int    `json:"count"`
	Step   int    `json:"step"`
	Status Status `json:"status"`
}

func NewCounter() component.ViewModel {
	return &Counter{Step: 1}
}

func (c *Counter) Increment() {
	c.Count += c.Step
}

func (c *Counter) Add(n int) {
	c.Count += n
}

func (c *Counter) SetStatus(s Status) {
	c.Status = s
	c.JS("this.$emit('status', '%s');", component.EncodeJS(s.String()))
}

// Reset zeroes the counter unless the request has already gone away.
func (c *Counter) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.Count = 0
	c.Status = StatusIdle
	return nil
}

func counterOptions() []component.Option {
	return []component.Option{
		component.WithProps("step"),
		component.WithComputed("doubled", "this.count * 2"),
		component.WithWatch("status", "SetStatus"),
		component.WithMethodScript("Increment",
			"\n      if (this.status === 'Paused') return Promise.resolve(this);",
			"\n            this.$emit('changed', this.count);"),
	}
}
