package models

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func NewNotFoundError(resource string) error {
	return &NotFoundError{Resource: resource}
}

// ErrUnsupportedFormat is returned when an uploaded file has an
// extension the ingestion layer cannot handle.
var ErrUnsupportedFormat = errors.New("unsupported file format, use .txt or .docx")

// ErrTextTooShort is returned when the input has too few words to
// summarize meaningfully.
var ErrTextTooShort = errors.New("text is too short, provide at least 20 words")
