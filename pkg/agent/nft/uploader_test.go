package nft_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NethermindEth/prompt-mint/pkg/agent/art"
	"github.com/NethermindEth/prompt-mint/pkg/agent/filestorage"
	"github.com/NethermindEth/prompt-mint/pkg/agent/nft"
)

type mockUploader struct {
	checkCredential func() error
	uploadFile      func(ctx context.Context, name string, data []byte) (string, error)
	uploadJson      func(ctx context.Context, json interface{}) (string, error)
}

func (m *mockUploader) CheckCredential() error {
	if m.checkCredential == nil {
		return nil
	}
	return m.checkCredential()
}

func (m *mockUploader) UploadFile(ctx context.Context, name string, data []byte) (string, error) {
	return m.uploadFile(ctx, name, data)
}

func (m *mockUploader) UploadJson(ctx context.Context, json interface{}) (string, error) {
	return m.uploadJson(ctx, json)
}

func TestNewMetadata(t *testing.T) {
	image := nft.PinnedContent{ContentId: "Qm1mage", Url: "https://gateway/ipfs/Qm1mage"}
	metadata := nft.NewMetadata("Cyber Lion", "A futuristic lion with cybernetic enhancements.", image)

	data, err := json.Marshal(metadata)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "Cyber Lion",
		"description": "A futuristic lion with cybernetic enhancements.",
		"image": "https://gateway/ipfs/Qm1mage",
		"attributes": []
	}`, string(data))
	assert.NoError(t, metadata.Verify(image))
}

func TestMetadata_Verify(t *testing.T) {
	image := nft.PinnedContent{ContentId: "Qm1mage", Url: "https://gateway/ipfs/Qm1mage"}

	metadata := nft.NewMetadata("Cyber Lion", "A futuristic lion", image)
	metadata.Image = "https://gateway/ipfs/Qm1mage/"
	assert.ErrorIs(t, metadata.Verify(image), nft.ErrImageMismatch)

	assert.ErrorIs(t, nft.NewMetadata("n", "d", nft.PinnedContent{}).Verify(nft.PinnedContent{}), nft.ErrImageMismatch)
}

func TestNftUploader(t *testing.T) {
	var uploadedName string
	var uploadedJson interface{}

	uploader := nft.NewNftUploader(&mockUploader{
		uploadFile: func(ctx context.Context, name string, data []byte) (string, error) {
			uploadedName = name
			return "Qm1mage", nil
		},
		uploadJson: func(ctx context.Context, json interface{}) (string, error) {
			uploadedJson = json
			return "Qmeta", nil
		},
	}, filestorage.NewGateway("gateway"))

	image, err := uploader.UploadImage(context.Background(), "Cyber Lion!", &art.Image{Data: []byte("x"), MimeType: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, "cyber-lion.png", uploadedName)
	assert.Equal(t, nft.PinnedContent{ContentId: "Qm1mage", Url: "https://gateway/ipfs/Qm1mage"}, image)

	metadata := nft.NewMetadata("Cyber Lion", "A futuristic lion", image)
	pinned, err := uploader.UploadMetadata(context.Background(), metadata, image)
	require.NoError(t, err)
	assert.Equal(t, metadata, uploadedJson)
	assert.Equal(t, "https://gateway/ipfs/Qmeta", pinned.Url)

	t.Run("mismatched image is not uploaded", func(t *testing.T) {
		uploadedJson = nil
		other := nft.PinnedContent{ContentId: "QmOther", Url: "https://gateway/ipfs/QmOther"}
		_, err := uploader.UploadMetadata(context.Background(), metadata, other)
		assert.ErrorIs(t, err, nft.ErrImageMismatch)
		assert.Nil(t, uploadedJson)
	})

	t.Run("empty image is not uploaded", func(t *testing.T) {
		_, err := uploader.UploadImage(context.Background(), "Cyber Lion", &art.Image{})
		assert.Error(t, err)
	})
}
