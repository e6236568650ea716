package pipeline

import (
	"fmt"
	"strings"
)

// Kind classifies why a submission or a run failed. Kinds are comparable with errors.Is.
type Kind string

func (k Kind) Error() string {
	return string(k)
}

const (
	ErrValidation        Kind = "ValidationError"
	ErrMissingCredential Kind = "MissingCredential"
	ErrNotConnected      Kind = "NotConnected"
	ErrGenerationFailed  Kind = "GenerationFailed"
	ErrUploadFailed      Kind = "UploadFailed"
	ErrMintRejected      Kind = "MintRejected"
	ErrMintFailed        Kind = "MintFailed"
	ErrAlreadyInProgress Kind = "AlreadyInProgress"
	ErrRunNotActive      Kind = "RunNotActive"
)

type UploadTarget string

const (
	UploadTargetImage    UploadTarget = "image"
	UploadTargetMetadata UploadTarget = "metadata"
)

type Error struct {
	Kind   Kind
	Target UploadTarget
	Err    error
}

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func newUploadError(target UploadTarget, err error) *Error {
	return &Error{Kind: ErrUploadFailed, Target: target, Err: err}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Target != "" {
		fmt.Fprintf(&b, "(%s)", e.Target)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
