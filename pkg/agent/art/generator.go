package art

import (
	"context"
	"errors"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrGenerationFailed = errors.New("image generation failed")
	ErrEmptyPrompt      = errors.New("prompt is empty")
)

type Generator interface {
	Generate(ctx context.Context, prompt string) (*Image, error)
}

// Image is the raw output of a generator. It only lives for the duration of one run.
type Image struct {
	Data     []byte
	MimeType string
}

func NewImage(data []byte) *Image {
	return &Image{
		Data:     data,
		MimeType: mimetype.Detect(data).String(),
	}
}

// Extension returns the file extension matching the image's MIME type, including the dot.
func (i *Image) Extension() string {
	mime := mimetype.Lookup(i.MimeType)
	if mime == nil {
		return ""
	}
	return mime.Extension()
}

// UpstreamError describes a failed call to an inference service.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("inference request failed: %s", e.Message)
	}
	return fmt.Sprintf("inference service returned %d: %s", e.StatusCode, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return ErrGenerationFailed
}
