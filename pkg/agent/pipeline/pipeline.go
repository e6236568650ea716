package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/NethermindEth/prompt-mint/pkg/agent/art"
	"github.com/NethermindEth/prompt-mint/pkg/agent/chain"
	"github.com/NethermindEth/prompt-mint/pkg/agent/filestorage"
	"github.com/NethermindEth/prompt-mint/pkg/agent/nft"
)

type ContentStore interface {
	CheckCredential() error
	UploadImage(ctx context.Context, name string, image *art.Image) (nft.PinnedContent, error)
	UploadMetadata(ctx context.Context, metadata nft.Metadata, image nft.PinnedContent) (nft.PinnedContent, error)
}

type Minter interface {
	Connected() bool
	Mint(ctx context.Context, tokenUri string) (*chain.MintReceipt, error)
}

// Observer receives a snapshot after every transition. Observers run on the pipeline's goroutine.
type Observer func(Snapshot)

// Pipeline drives one creation at a time through generation, pinning and minting.
type Pipeline struct {
	generator art.Generator
	store     ContentStore
	minter    Minter
	observers []Observer
	now       func() time.Time

	mu     sync.Mutex
	active *Run
	last   *Snapshot
}

type Option func(*Pipeline)

func WithObserver(observer Observer) Option {
	return func(p *Pipeline) {
		p.observers = append(p.observers, observer)
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

func New(generator art.Generator, store ContentStore, minter Minter, opts ...Option) *Pipeline {
	p := &Pipeline{
		generator: generator,
		store:     store,
		minter:    minter,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Current returns the in-flight run, or the last finished one, or an idle snapshot.
func (p *Pipeline) Current() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.active != nil {
		return p.active.snapshot()
	}
	if p.last != nil {
		return *p.last
	}
	return idleSnapshot()
}

func (p *Pipeline) Busy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active != nil
}

// Begin validates the request and claims the pipeline slot. Invalid requests leave the pipeline
// idle; a request made while another run is in flight is refused without touching that run.
func (p *Pipeline) Begin(request CreationRequest) (*Run, error) {
	p.mu.Lock()

	if p.active != nil {
		p.mu.Unlock()
		return nil, newError(ErrAlreadyInProgress, fmt.Errorf("run %s is %s", p.active.id, p.active.stage))
	}

	if err := request.Validate(); err != nil {
		p.mu.Unlock()
		return nil, newError(ErrValidation, err)
	}

	run := newRun(request.normalized(), p.now())
	p.active = run
	snapshot := run.snapshot()
	p.mu.Unlock()

	slog.Info("creation accepted", "run", run.id, "name", run.request.Name)
	p.notify(snapshot)

	return run, nil
}

// Execute drives a run claimed by Begin to a terminal stage and releases the slot.
func (p *Pipeline) Execute(ctx context.Context, run *Run) Snapshot {
	p.mu.Lock()
	if run == nil || p.active != run {
		p.mu.Unlock()
		failed := idleSnapshot()
		failed.Stage = StageFailed
		failed.Label = StageFailed.Label()
		failed.ErrorKind = ErrRunNotActive
		failed.Error = string(ErrRunNotActive)
		return failed
	}
	p.mu.Unlock()

	if err := p.execute(ctx, run); err != nil {
		slog.Error("creation failed", "run", run.id, "stage", run.stage, "error", err)
		return p.finish(run, StageFailed, err)
	}

	slog.Info("creation succeeded", "run", run.id, "tokenUri", run.receipt.TokenUri, "tx", run.receipt.TxHash.Hex())
	return p.finish(run, StageSucceeded, nil)
}

// Submit runs a whole creation synchronously.
func (p *Pipeline) Submit(ctx context.Context, request CreationRequest) (Snapshot, error) {
	run, err := p.Begin(request)
	if err != nil {
		if errors.Is(err, ErrAlreadyInProgress) {
			return p.Current(), err
		}
		return idleSnapshot(), err
	}

	snapshot := p.Execute(ctx, run)
	if snapshot.Stage == StageFailed {
		return snapshot, run.err
	}

	return snapshot, nil
}

func (p *Pipeline) execute(ctx context.Context, run *Run) *Error {
	if err := p.store.CheckCredential(); err != nil {
		return newError(ErrMissingCredential, err)
	}
	if p.minter == nil || !p.minter.Connected() {
		return newError(ErrNotConnected, chain.ErrNotConnected)
	}

	p.transition(run, StageGeneratingImage, nil)

	image, err := p.generator.Generate(ctx, run.request.Prompt())
	if err != nil {
		return newError(ErrGenerationFailed, err)
	}
	if image == nil || len(image.Data) == 0 {
		return newError(ErrGenerationFailed, errors.New("generator returned an empty image"))
	}

	p.transition(run, StageUploadingImage, func(r *Run) {
		r.image = image
	})

	imagePin, err := p.store.UploadImage(ctx, run.request.Name, image)
	if err != nil {
		return uploadError(UploadTargetImage, err)
	}

	metadata := nft.NewMetadata(run.request.Name, run.request.Description, imagePin)
	if err := metadata.Verify(imagePin); err != nil {
		return newUploadError(UploadTargetMetadata, err)
	}

	p.transition(run, StageUploadingMetadata, func(r *Run) {
		r.image = nil
		r.imagePin = &imagePin
		r.metadata = &metadata
	})

	metadataPin, err := p.store.UploadMetadata(ctx, metadata, imagePin)
	if err != nil {
		return uploadError(UploadTargetMetadata, err)
	}

	p.transition(run, StageMinting, func(r *Run) {
		r.metadataPin = &metadataPin
	})

	receipt, err := p.minter.Mint(ctx, metadataPin.Url)
	p.update(run, func(r *Run) {
		r.receipt = receipt
	})
	if err != nil {
		return mintError(err)
	}
	if receipt == nil || !receipt.Confirmed {
		return newError(ErrMintFailed, errors.New("mint transaction was not confirmed"))
	}

	return nil
}

func uploadError(target UploadTarget, err error) *Error {
	if errors.Is(err, filestorage.ErrMissingCredential) {
		return newError(ErrMissingCredential, err)
	}
	return newUploadError(target, err)
}

func mintError(err error) *Error {
	switch {
	case errors.Is(err, chain.ErrNotConnected):
		return newError(ErrNotConnected, err)
	case errors.Is(err, chain.ErrMintRejected):
		return newError(ErrMintRejected, err)
	default:
		return newError(ErrMintFailed, err)
	}
}

func (p *Pipeline) transition(run *Run, stage Stage, mutate func(*Run)) {
	p.mu.Lock()
	if mutate != nil {
		mutate(run)
	}
	run.stage = stage
	run.updatedAt = p.now()
	snapshot := run.snapshot()
	p.mu.Unlock()

	slog.Info("creation stage", "run", run.id, "stage", stage)
	p.notify(snapshot)
}

func (p *Pipeline) update(run *Run, mutate func(*Run)) {
	p.mu.Lock()
	defer p.mu.Unlock()

	mutate(run)
	run.updatedAt = p.now()
}

func (p *Pipeline) finish(run *Run, stage Stage, err *Error) Snapshot {
	p.mu.Lock()
	run.stage = stage
	run.err = err
	run.image = nil
	run.updatedAt = p.now()

	snapshot := run.snapshot()
	p.last = &snapshot
	p.active = nil
	p.mu.Unlock()

	p.notify(snapshot)

	return snapshot
}

func (p *Pipeline) notify(snapshot Snapshot) {
	for _, observer := range p.observers {
		observer(snapshot)
	}
}
