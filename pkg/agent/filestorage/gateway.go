package filestorage

import (
	"fmt"
	"strings"
)

const DefaultGateway = "gateway.pinata.cloud"

// Gateway turns content identifiers into retrievable URLs.
type Gateway struct {
	host string
}

func NewGateway(host string) Gateway {
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	host = strings.TrimSuffix(host, "/")
	if host == "" {
		host = DefaultGateway
	}

	return Gateway{host: host}
}

func (g Gateway) Url(ipfsHash string) string {
	return fmt.Sprintf("https://%s/ipfs/%s", g.host, ipfsHash)
}
