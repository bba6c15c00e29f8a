package storage

import "errors"

var (
	ErrContentNotFound = errors.New("component content not found")
	ErrInvalidName     = errors.New("invalid component name")
	ErrStorageInit     = errors.New("storage initialization failed")
	ErrFileOperation   = errors.New("file operation failed")
)
