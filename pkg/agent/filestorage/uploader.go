package filestorage

import (
	"context"
	"errors"
)

var (
	ErrMissingCredential = errors.New("pinning service credential is missing")
	ErrMalformedResponse = errors.New("pinning response is missing IpfsHash")
)

type Uploader interface {
	CheckCredential() error
	UploadFile(ctx context.Context, name string, data []byte) (string, error)
	UploadJson(ctx context.Context, json interface{}) (string, error)
}
