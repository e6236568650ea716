package art

import (
	"context"
	"net/http"
	"strings"

	"github.com/imroc/req"
	"github.com/tidwall/gjson"
)

const DefaultHuggingFaceEndpoint = "https://api-inference.huggingface.co/models/stabilityai/stable-diffusion-xl-base-1.0"

type HuggingFaceGenerator struct {
	endpoint string
	apiKey   string
	client   *req.Req
}

var _ Generator = (*HuggingFaceGenerator)(nil)

func NewHuggingFaceGenerator(endpoint string, apiKey string) *HuggingFaceGenerator {
	if endpoint == "" {
		endpoint = DefaultHuggingFaceEndpoint
	}

	return &HuggingFaceGenerator{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   req.New(),
	}
}

type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

func (g *HuggingFaceGenerator) Generate(ctx context.Context, prompt string) (*Image, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	header := req.Header{
		"Authorization": "Bearer " + g.apiKey,
		"Accept":        "image/png",
	}

	resp, err := g.client.Post(g.endpoint, header, req.BodyJSON(&inferenceRequest{Inputs: prompt}), ctx)
	if err != nil {
		return nil, &UpstreamError{Message: err.Error()}
	}

	body := resp.Bytes()
	statusCode := resp.Response().StatusCode
	if statusCode < http.StatusOK || statusCode >= http.StatusMultipleChoices {
		return nil, &UpstreamError{StatusCode: statusCode, Message: upstreamMessage(body)}
	}

	if len(body) == 0 {
		return nil, &UpstreamError{StatusCode: statusCode, Message: "empty response body"}
	}

	return NewImage(body), nil
}

func upstreamMessage(body []byte) string {
	if gjson.ValidBytes(body) {
		if msg := gjson.GetBytes(body, "error"); msg.Exists() {
			return msg.String()
		}
	}

	if len(body) == 0 {
		return http.StatusText(http.StatusInternalServerError)
	}

	return strings.TrimSpace(string(body))
}
