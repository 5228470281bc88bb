package bankexport

import "errors"

var (
	ErrFileNotFound      = errors.New("bank transfer file not found")
	ErrUnsupportedFormat = errors.New("unsupported bank export format")
	ErrInvalidStatusMove = errors.New("bank transfer file status can only move forward")
)
