package model

import "errors"

var (
	ErrRunNotFound       = errors.New("import run not found")
	ErrEmptyFile         = errors.New("import file is empty")
	ErrUnsupportedFormat = errors.New("unsupported import file format")
	ErrMissingHeader     = errors.New("import file has no header row")
)
