package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrDocumentDecode    = errors.New("failed to decode document")
	ErrEmptyText         = errors.New("no text could be extracted from document")
	ErrMissingAPIKey     = errors.New("GEMINI_API_KEY is not set in the environment")
	ErrIndexDisabled     = errors.New("similarity index is not configured")
)

// FieldError is one schema violation in a model reply.
type FieldError struct {
	Field   string
	Message string
}

// MalformedReplyError reports a model reply that is not JSON or does not
// match the analysis schema.
type MalformedReplyError struct {
	Reason string
	Fields []FieldError
	Cause  error
}

func (e *MalformedReplyError) Error() string {
	var sb strings.Builder
	sb.WriteString("malformed model reply: ")
	sb.WriteString(e.Reason)
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	for i, f := range e.Fields {
		if i == 0 {
			sb.WriteString(": ")
		} else {
			sb.WriteString("; ")
		}
		sb.WriteString(fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return sb.String()
}

func (e *MalformedReplyError) Unwrap() error {
	return e.Cause
}

// IsClientError reports whether err is caused by the uploaded input rather
// than by configuration, the remote model or storage.
func IsClientError(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrDocumentDecode) ||
		errors.Is(err, ErrEmptyText)
}
