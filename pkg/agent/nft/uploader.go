package nft

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/NethermindEth/prompt-mint/pkg/agent/art"
	"github.com/NethermindEth/prompt-mint/pkg/agent/filestorage"
)

var unsafeFileChars = regexp.MustCompile(`[^a-z0-9]+`)

type NftUploader struct {
	uploader filestorage.Uploader
	gateway  filestorage.Gateway
}

func NewNftUploader(uploader filestorage.Uploader, gateway filestorage.Gateway) *NftUploader {
	return &NftUploader{
		uploader: uploader,
		gateway:  gateway,
	}
}

func (u *NftUploader) CheckCredential() error {
	return u.uploader.CheckCredential()
}

func (u *NftUploader) UploadImage(ctx context.Context, name string, image *art.Image) (PinnedContent, error) {
	if image == nil || len(image.Data) == 0 {
		return PinnedContent{}, fmt.Errorf("image is empty")
	}

	ipfsHash, err := u.uploader.UploadFile(ctx, fileName(name, image.Extension()), image.Data)
	if err != nil {
		return PinnedContent{}, fmt.Errorf("failed to upload image to ipfs: %w", err)
	}

	return u.pinned(ipfsHash), nil
}

func (u *NftUploader) UploadMetadata(ctx context.Context, metadata Metadata, image PinnedContent) (PinnedContent, error) {
	if err := metadata.Verify(image); err != nil {
		return PinnedContent{}, err
	}

	ipfsHash, err := u.uploader.UploadJson(ctx, metadata)
	if err != nil {
		return PinnedContent{}, fmt.Errorf("failed to upload metadata to ipfs: %w", err)
	}

	return u.pinned(ipfsHash), nil
}

func (u *NftUploader) pinned(ipfsHash string) PinnedContent {
	return PinnedContent{
		ContentId: ipfsHash,
		Url:       u.gateway.Url(ipfsHash),
	}
}

func fileName(name, extension string) string {
	base := strings.Trim(unsafeFileChars.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if base == "" {
		base = "image"
	}
	return base + extension
}
