package demo

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vuebridge-backend/internal/component"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type upload struct {
	name    string
	content []byte
}

func postedFiles(t *testing.T, slot string, uploads ...upload) component.FormFiles {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, u := range uploads {
		part, err := w.CreateFormFile(slot, u.name)
		require.NoError(t, err)
		_, err = part.Write(u.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	return component.FormFiles(form.File)
}

func newEngine(t *testing.T) (*component.Registry, *component.Engine) {
	t.Helper()
	r := component.NewRegistry()
	require.NoError(t, Register(r))
	return r, component.NewEngine(r, component.DefaultSettings())
}

func toJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestRegister(t *testing.T) {
	r, _ := newEngine(t)
	assert.Equal(t, []string{"counter", "profile"}, r.Names())

	methodNames := func(name string) []string {
		typ, err := r.Lookup(name)
		require.NoError(t, err)
		var names []string
		for _, m := range typ.Methods() {
			names = append(names, m.Name)
		}
		return names
	}
	assert.Equal(t, []string{"Add", "Increment", "Reset", "SetStatus"}, methodNames("counter"))
	assert.Equal(t, []string{"SaveAddress", "UploadAvatar", "UploadGallery"}, methodNames("profile"))

	assert.Error(t, Register(r), "registering twice must fail")
}

func TestCounter(t *testing.T) {
	_, engine := newEngine(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		req    component.Request
		update string
		script string
	}{
		{
			name:   "increment by step",
			req:    component.Request{Data: []byte(`{"count":1,"step":2,"status":"Idle"}`), Method: "increment"},
			update: `{"count":3}`,
		},
		{
			name:   "props override data",
			req:    component.Request{Data: []byte(`{"count":0,"step":1}`), Props: []byte(`{"step":5}`), Method: "Increment"},
			update: `{"count":5}`,
		},
		{
			name:   "add",
			req:    component.Request{Data: []byte(`{"count":10}`), Method: "add", Parameters: []byte(`["-4"]`)},
			update: `{"count":6}`,
		},
		{
			name:   "set status by member name",
			req:    component.Request{Data: []byte(`{"status":"Idle"}`), Method: "setStatus", Parameters: []byte(`["Paused"]`)},
			update: `{"status":"Paused"}`,
			script: "this.$emit('status', 'Paused');\n",
		},
		{
			name:   "reset",
			req:    component.Request{Data: []byte(`{"count":7,"status":"Running"}`), Method: "reset"},
			update: `{"count":0,"status":"Idle"}`,
		},
		{
			name:   "resync only",
			req:    component.Request{Data: []byte(`{"count":7}`)},
			update: `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patch, err := engine.Update(ctx, "counter", tt.req)
			require.NoError(t, err)
			assert.JSONEq(t, tt.update, toJSON(t, patch.Update))
			assert.Equal(t, tt.script, patch.Script)
		})
	}
}

func TestCounterFailures(t *testing.T) {
	_, engine := newEngine(t)

	_, err := engine.Update(context.Background(), "counter", component.Request{
		Method:     "setStatus",
		Parameters: []byte(`["Stopped"]`),
	})
	assert.ErrorIs(t, err, component.ErrInvalidArgument)
	assert.ErrorIs(t, err, component.ErrUnknownMember)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = engine.Update(ctx, "counter", component.Request{Method: "reset"})
	assert.ErrorIs(t, err, component.ErrMethodExecutionFailed)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProfileUploadAvatar(t *testing.T) {
	_, engine := newEngine(t)
	files := postedFiles(t, "avatar", upload{name: "me.png", content: pngHeader})

	patch, err := engine.Update(context.Background(), "profile", component.Request{
		Method:     "uploadAvatar",
		Parameters: []byte(`["avatar"]`),
		Files:      files,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"avatar":"me.png","avatarType":"image/png","avatarBytes":16}`, toJSON(t, patch.Update))
	assert.Empty(t, patch.Script)
}

func TestProfileUploadAvatarWithoutFile(t *testing.T) {
	_, engine := newEngine(t)

	patch, err := engine.Update(context.Background(), "profile", component.Request{
		Method:     "uploadAvatar",
		Parameters: []byte(`["avatar"]`),
	})
	require.NoError(t, err)
	assert.Empty(t, patch.Update)
	assert.Equal(t, "alert('Choose an image first');\n", patch.Script)
}

func TestProfileUploadGallery(t *testing.T) {
	_, engine := newEngine(t)
	files := postedFiles(t, "photos",
		upload{name: "a.jpg", content: []byte("a")},
		upload{name: "b.jpg", content: []byte("b")},
	)

	patch, err := engine.Update(context.Background(), "profile", component.Request{
		Data:       []byte(`{"gallery":["old.jpg"]}`),
		Method:     "uploadGallery",
		Parameters: []byte(`["photos"]`),
		Files:      files,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"gallery":["old.jpg","a.jpg","b.jpg"]}`, toJSON(t, patch.Update))
	assert.Equal(t, "this.$emit('gallery', 3);\n", patch.Script)

	patch, err = engine.Update(context.Background(), "profile", component.Request{
		Method:     "uploadGallery",
		Parameters: []byte(`["missing"]`),
		Files:      files,
	})
	require.NoError(t, err)
	assert.Empty(t, patch.Update)
	assert.Equal(t, "this.$emit('gallery', 0);\n", patch.Script)
}

func TestProfileSaveAddress(t *testing.T) {
	_, engine := newEngine(t)

	patch, err := engine.Update(context.Background(), "profile", component.Request{
		Data:       []byte(`{"address":{"street":"Main St 1","city":"","zip":""}}`),
		Method:     "saveAddress",
		Parameters: []byte(`[{"city":"Oslo","zip":"0150"}]`),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"address":{"street":"","city":"Oslo","zip":"0150"},"saved":true}`, toJSON(t, patch.Update))

	_, err = engine.Update(context.Background(), "profile", component.Request{
		Method:     "saveAddress",
		Parameters: []byte(`[{"street":"Main St 1"}]`),
	})
	assert.ErrorIs(t, err, component.ErrMethodExecutionFailed)
	assert.ErrorIs(t, err, ErrCityRequired)
}

func TestCounterScript(t *testing.T) {
	r, engine := newEngine(t)
	typ, err := r.Lookup("counter")
	require.NoError(t, err)

	def, err := component.NewSectionProvider(engine.Settings()).Definition(typ, []byte(`<template><b>{{count}}</b></template>`))
	require.NoError(t, err)

	var out strings.Builder
	require.NoError(t, component.WriteScript(&out, def, engine.Settings()))
	script := out.String()

	assert.Contains(t, script, "props: ['step'],")
	assert.Contains(t, script, `"status":"Idle"`)
	assert.Contains(t, script, "return this.count * 2;")
	assert.Contains(t, script, "this.setStatus(v, o);")
	assert.Contains(t, script, "if (this.status === 'Paused') return Promise.resolve(this);")
	assert.Contains(t, script, "return this.$update(this, 'Increment', [])")
	assert.Contains(t, script, "vpath: '/counter'")
}
