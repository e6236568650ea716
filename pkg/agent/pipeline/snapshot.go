package pipeline

import (
	"time"

	"github.com/NethermindEth/prompt-mint/pkg/agent/chain"
	"github.com/NethermindEth/prompt-mint/pkg/agent/nft"
)

// Snapshot is a read-only copy of a run taken after a transition.
type Snapshot struct {
	RunId     string             `json:"runId,omitempty"`
	Stage     Stage              `json:"stage"`
	Label     string             `json:"label"`
	Request   *CreationRequest   `json:"request,omitempty"`
	Image     *nft.PinnedContent `json:"image,omitempty"`
	Metadata  *nft.PinnedContent `json:"metadata,omitempty"`
	Receipt   *chain.MintReceipt `json:"receipt,omitempty"`
	ErrorKind Kind               `json:"errorKind,omitempty"`
	Error     string             `json:"error,omitempty"`
	StartedAt time.Time          `json:"startedAt,omitempty"`
	UpdatedAt time.Time          `json:"updatedAt,omitempty"`
}

func idleSnapshot() Snapshot {
	return Snapshot{Stage: StageIdle, Label: StageIdle.Label()}
}

// TokenUri is the metadata url passed to the mint call, empty before the metadata is pinned.
func (s Snapshot) TokenUri() string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata.Url
}
