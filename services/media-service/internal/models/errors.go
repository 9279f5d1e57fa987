package models

import (
	"errors"
)

// ErrorKind classifies pipeline failures
type ErrorKind string

const (
	KindUnsupportedFormat     ErrorKind = "UnsupportedFormat"
	KindNoFileSelected        ErrorKind = "NoFileSelected"
	KindToolUnavailable       ErrorKind = "ToolUnavailable"
	KindImageCompressionError ErrorKind = "ImageCompressionError"
	KindTranscodeFailed       ErrorKind = "TranscodeFailed"
	KindInvalidQuality        ErrorKind = "InvalidQuality"
	KindStorageError          ErrorKind = "StorageError"
)

// MediaError is a classified pipeline error carrying a user-facing message
type MediaError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// NewMediaError creates a MediaError
func NewMediaError(kind ErrorKind, message string, err error) *MediaError {
	return &MediaError{Kind: kind, Message: message, Err: err}
}

func (e *MediaError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *MediaError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first MediaError in err's chain, or StorageError
func KindOf(err error) ErrorKind {
	var me *MediaError
	if errors.As(err, &me) {
		return me.Kind
	}
	return KindStorageError
}

// MessageOf returns the user-facing message of err
func MessageOf(err error) string {
	var me *MediaError
	if errors.As(err, &me) {
		return me.Message
	}
	return "Upload error: " + err.Error()
}
