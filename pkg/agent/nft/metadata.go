package nft

import "errors"

var ErrImageMismatch = errors.New("metadata image does not match pinned image url")

type PinnedContent struct {
	ContentId string `json:"contentId"`
	Url       string `json:"url"`
}

type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// Metadata is the token metadata document pinned next to the image.
type Metadata struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Attributes  []Attribute `json:"attributes"`
}

func NewMetadata(name, description string, image PinnedContent, attributes ...Attribute) Metadata {
	if attributes == nil {
		attributes = []Attribute{}
	}

	return Metadata{
		Name:        name,
		Description: description,
		Image:       image.Url,
		Attributes:  attributes,
	}
}

// Verify checks that the document points at the given pinned image.
func (m Metadata) Verify(image PinnedContent) error {
	if image.Url == "" || m.Image != image.Url {
		return ErrImageMismatch
	}
	return nil
}
