package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/imroc/req"
	"github.com/tidwall/gjson"
	"github.com/zde37/pinata-go-sdk/pinata"
)

const DefaultPinataApiUrl = "https://api.pinata.cloud"

type PinataUploader struct {
	jwtKey string
	apiUrl string

	client     *pinata.Client
	httpClient *req.Req
}

var _ Uploader = (*PinataUploader)(nil)

func NewPinataUploader(jwtKey string, apiUrl string) *PinataUploader {
	if apiUrl == "" {
		apiUrl = DefaultPinataApiUrl
	}

	return &PinataUploader{
		jwtKey:     jwtKey,
		apiUrl:     apiUrl,
		client:     pinata.New(pinata.NewAuthWithJWT(jwtKey)),
		httpClient: req.New(),
	}
}

func (u *PinataUploader) CheckCredential() error {
	if u.jwtKey == "" {
		return ErrMissingCredential
	}
	return nil
}

func (u *PinataUploader) UploadFile(ctx context.Context, name string, data []byte) (string, error) {
	if err := u.CheckCredential(); err != nil {
		return "", err
	}

	file := req.FileUpload{
		File:      io.NopCloser(bytes.NewReader(data)),
		FieldName: "file",
		FileName:  name,
	}
	header := req.Header{"Authorization": "Bearer " + u.jwtKey}

	resp, err := u.httpClient.Post(u.apiUrl+"/pinning/pinFileToIPFS", header, file, ctx)
	if err != nil {
		return "", fmt.Errorf("failed to upload file to pinata: %w", err)
	}

	body := resp.Bytes()
	if statusCode := resp.Response().StatusCode; statusCode != http.StatusOK {
		return "", fmt.Errorf("failed to upload file to pinata: status %d: %s", statusCode, string(body))
	}

	ipfsHash := gjson.GetBytes(body, "IpfsHash")
	if !ipfsHash.Exists() || ipfsHash.String() == "" {
		return "", ErrMalformedResponse
	}

	return ipfsHash.String(), nil
}

// UploadJson pins through the SDK, which always targets api.pinata.cloud regardless of apiUrl.
func (u *PinataUploader) UploadJson(ctx context.Context, json interface{}) (string, error) {
	if err := u.CheckCredential(); err != nil {
		return "", err
	}

	pinResponse, err := u.client.PinJSON(json, nil)
	if err != nil {
		return "", fmt.Errorf("failed to upload json to pinata: %w", err)
	}

	if pinResponse == nil || pinResponse.IpfsHash == "" {
		return "", ErrMalformedResponse
	}

	return pinResponse.IpfsHash, nil
}
