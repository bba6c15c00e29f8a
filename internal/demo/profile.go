package demo

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"vuebridge-backend/internal/component"
)

const maxAvatarSize = 2 << 20

var ErrCityRequired = errors.New("city is required")

type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	Zip    string `json:"zip"`
}

type Profile struct {
	component.Base

	Name        string   `json:"name"`
	Avatar      string   `json:"avatar"`
	AvatarType  string   `json:"avatarType"`
	AvatarBytes int64    `json:"avatarBytes"`
	Gallery     []string `json:"gallery"`
	Address     Address  `json:"address"`
	Saved       bool     `json:"saved"`
}

func NewProfile() component.ViewModel {
	return &Profile{Gallery: []string{}}
}

// UploadAvatar records the posted image. The upload stays open until the
// view-model is released.
func (p *Profile) UploadAvatar(file *multipart.FileHeader) error {
	if file == nil {
		p.JS("alert('Choose an image first');")
		return nil
	}
	if file.Size > maxAvatarSize {
		return fmt.Errorf("avatar %s is %d bytes, limit is %d", file.Filename, file.Size, maxAvatarSize)
	}

	f, err := file.Open()
	if err != nil {
		return err
	}
	p.OnRelease(f.Close)

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return err
	}

	p.Avatar = file.Filename
	p.AvatarType = http.DetectContentType(head[:n])
	p.AvatarBytes = file.Size
	return nil
}

func (p *Profile) UploadGallery(files []*multipart.FileHeader) {
	for _, f := range files {
		p.Gallery = append(p.Gallery, f.Filename)
	}
	p.JS("this.$emit('gallery', %d);", len(p.Gallery))
}

func (p *Profile) SaveAddress(a Address) error {
	if a.City == "" {
		return ErrCityRequired
	}
	p.Address = a
	p.Saved = true
	return nil
}

func profileOptions() []component.Option {
	return []component.Option{
		component.WithProps("name"),
		component.WithLocals("preview"),
		component.WithCreatedHook(),
		component.WithMixin("return { methods: { onCreated: function() { this.preview = ''; } } };"),
	}
}
