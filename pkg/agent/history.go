package agent

import (
	"context"
	"log/slog"

	"github.com/NethermindEth/prompt-mint/pkg/agent/ledger"
	"github.com/NethermindEth/prompt-mint/pkg/agent/pipeline"
)

type RunLedger interface {
	Save(ctx context.Context, rec *ledger.Record) error
	Get(ctx context.Context, id string) (*ledger.Record, error)
	List(ctx context.Context, limit int) ([]*ledger.Record, error)
	Unconfirmed(ctx context.Context) ([]*ledger.Record, error)
}

func recordFromSnapshot(s pipeline.Snapshot) *ledger.Record {
	rec := &ledger.Record{
		Id:           s.RunId,
		Stage:        string(s.Stage),
		ErrorKind:    string(s.ErrorKind),
		ErrorMessage: s.Error,
		StartedAt:    s.StartedAt,
		UpdatedAt:    s.UpdatedAt,
	}

	if s.Request != nil {
		rec.Name = s.Request.Name
		rec.Description = s.Request.Description
	}
	if s.Image != nil {
		rec.ImageCid = s.Image.ContentId
	}
	if s.Metadata != nil {
		rec.MetadataCid = s.Metadata.ContentId
		rec.TokenUri = s.Metadata.Url
	}
	if s.Receipt != nil {
		rec.TxHash = s.Receipt.TxHash.Hex()
		rec.Confirmed = s.Receipt.Confirmed
	}

	return rec
}

// recordRun keeps the snapshot in the recent runs cache and the ledger.
func (a *Agent) recordRun(s pipeline.Snapshot) {
	if s.RunId == "" {
		return
	}

	a.recentRuns.Add(s.RunId, s)

	if a.ledger == nil {
		return
	}

	// The terminal row must land even when the agent is shutting down.
	ctx := a.ctx
	if s.Stage.Terminal() {
		ctx = context.WithoutCancel(ctx)
	}

	if err := a.ledger.Save(ctx, recordFromSnapshot(s)); err != nil {
		slog.Error("failed to record run", "run", s.RunId, "stage", s.Stage, "error", err)
	}
}
