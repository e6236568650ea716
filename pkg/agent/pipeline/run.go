package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/NethermindEth/prompt-mint/pkg/agent/art"
	"github.com/NethermindEth/prompt-mint/pkg/agent/chain"
	"github.com/NethermindEth/prompt-mint/pkg/agent/nft"
)

// Run is the state of one creation. Only the pipeline mutates it.
type Run struct {
	id      string
	request CreationRequest
	stage   Stage

	image       *art.Image
	imagePin    *nft.PinnedContent
	metadata    *nft.Metadata
	metadataPin *nft.PinnedContent
	receipt     *chain.MintReceipt
	err         *Error

	startedAt time.Time
	updatedAt time.Time
}

func newRun(request CreationRequest, now time.Time) *Run {
	return &Run{
		id:        uuid.NewString(),
		request:   request,
		stage:     StageValidating,
		startedAt: now,
		updatedAt: now,
	}
}

func (r *Run) Id() string {
	return r.id
}

func (r *Run) snapshot() Snapshot {
	request := r.request
	s := Snapshot{
		RunId:     r.id,
		Stage:     r.stage,
		Label:     r.stage.Label(),
		Request:   &request,
		StartedAt: r.startedAt,
		UpdatedAt: r.updatedAt,
	}

	if r.imagePin != nil {
		pin := *r.imagePin
		s.Image = &pin
	}
	if r.metadataPin != nil {
		pin := *r.metadataPin
		s.Metadata = &pin
	}
	if r.receipt != nil {
		receipt := *r.receipt
		s.Receipt = &receipt
	}
	if r.err != nil {
		s.ErrorKind = r.err.Kind
		s.Error = r.err.Error()
	}

	return s
}
