package art

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

type OpenAiGenerator struct {
	model  string
	client *openai.Client
}

var _ Generator = (*OpenAiGenerator)(nil)

func NewOpenAiGenerator(apiKey string, model string) *OpenAiGenerator {
	return NewOpenAiGeneratorWithConfig(openai.DefaultConfig(apiKey), model)
}

// NewOpenAiGeneratorWithConfig allows a custom base url, e.g. an OpenAI compatible proxy.
func NewOpenAiGeneratorWithConfig(config openai.ClientConfig, model string) *OpenAiGenerator {
	return &OpenAiGenerator{
		model:  model,
		client: openai.NewClientWithConfig(config),
	}
}

func (g *OpenAiGenerator) Generate(ctx context.Context, prompt string) (*Image, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	req := openai.ImageRequest{
		Prompt:         prompt,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
		N:              1,
		Model:          g.model,
	}

	resp, err := g.client.CreateImage(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, &UpstreamError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
		}
		return nil, &UpstreamError{Message: err.Error()}
	}

	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, &UpstreamError{Message: "no image data returned"}
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode image data: %v", ErrGenerationFailed, err)
	}

	if len(data) == 0 {
		return nil, &UpstreamError{Message: "empty image data"}
	}

	return NewImage(data), nil
}
