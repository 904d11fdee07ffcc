package entity

import "fmt"

type ErrorKind string

const (
	KindBadRequest        ErrorKind = "bad_request"
	KindUnauthorized      ErrorKind = "unauthorized"
	KindTranslationFailed ErrorKind = "translation_failed"
	KindDecodeFailed      ErrorKind = "decode_failed"
	KindUploadFailed      ErrorKind = "upload_failed"
)

const (
	MsgTranslationFailed = "Failed to generate response from LLM"
	MsgDecodeFailed      = "Failed to decode response from LLM"
)

// PipelineError is a terminal failure of the prompt pipeline. Message is the
// text shown to the caller; Err keeps the underlying cause for logs.
type PipelineError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func NewPipelineError(kind ErrorKind, message string, err error) *PipelineError {
	return &PipelineError{Kind: kind, Message: message, Err: err}
}

func (e *PipelineError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}
