package component

import (
	"mime/multipart"
	"reflect"
)

// FileLookup resolves an upload slot to the files posted under it.
type FileLookup interface {
	Files(slot string) []*multipart.FileHeader
}

// FormFiles adapts the file part of a parsed multipart form.
type FormFiles map[string][]*multipart.FileHeader

func (f FormFiles) Files(slot string) []*multipart.FileHeader {
	return f[slot]
}

var (
	fileType     = reflect.TypeOf((*multipart.FileHeader)(nil))
	fileListType = reflect.TypeOf([]*multipart.FileHeader(nil))
)
