package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/NethermindEth/prompt-mint/pkg/agent/art"
	"github.com/NethermindEth/prompt-mint/pkg/agent/chain"
	"github.com/NethermindEth/prompt-mint/pkg/agent/filestorage"
	"github.com/NethermindEth/prompt-mint/pkg/agent/ledger"
	"github.com/NethermindEth/prompt-mint/pkg/agent/nft"
	"github.com/NethermindEth/prompt-mint/pkg/agent/pipeline"
	"github.com/NethermindEth/prompt-mint/pkg/agent/setup"
)

type AgentMinter interface {
	pipeline.Minter
	Address() common.Address
}

type Agent struct {
	pipeline   *pipeline.Pipeline
	minter     AgentMinter
	ledger     RunLedger
	recentRuns *expirable.LRU[string, pipeline.Snapshot]
	pool       pond.Pool
	inFlight   sync.WaitGroup
	apiRouter  *gin.Engine

	apiIpPort string
	ctx       context.Context
}

type AgentConfig struct {
	Generator art.Generator
	Uploader  filestorage.Uploader
	Gateway   filestorage.Gateway
	Minter    AgentMinter
	Ledger    RunLedger
	Observers []pipeline.Observer

	ApiIpPort     string
	RecentRunsTTL time.Duration
}

const (
	recentRunsCacheSize  = 1000
	defaultRecentRunsTTL = 1 * time.Hour
)

func NewAgent(ctx context.Context, config *AgentConfig) (*Agent, error) {
	if config == nil {
		return nil, errors.New("config is nil")
	}
	if config.Generator == nil || config.Uploader == nil || config.Minter == nil {
		return nil, errors.New("generator, uploader and minter are required")
	}

	ttl := config.RecentRunsTTL
	if ttl == 0 {
		ttl = defaultRecentRunsTTL
	}

	agent := &Agent{
		minter:     config.Minter,
		ledger:     config.Ledger,
		recentRuns: expirable.NewLRU[string, pipeline.Snapshot](recentRunsCacheSize, nil, ttl),
		pool:       pond.NewPool(1),
		apiIpPort:  config.ApiIpPort,
		ctx:        ctx,
	}

	store := nft.NewNftUploader(config.Uploader, config.Gateway)
	opts := []pipeline.Option{pipeline.WithObserver(agent.recordRun)}
	for _, observer := range config.Observers {
		opts = append(opts, pipeline.WithObserver(observer))
	}
	agent.pipeline = pipeline.New(config.Generator, store, config.Minter, opts...)
	agent.apiRouter = agent.generateRouter()

	return agent, nil
}

func NewAgentConfigFromSetupResult(ctx context.Context, setupResult *setup.SetupResult) (*AgentConfig, error) {
	if setupResult == nil {
		return nil, errors.New("setup result is nil")
	}

	minter, err := newMinter(ctx, setupResult)
	if err != nil {
		return nil, err
	}

	runLedger, err := ledger.NewRepository(setupResult.LedgerPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}

	return &AgentConfig{
		Generator: newGenerator(setupResult),
		Uploader:  filestorage.NewPinataUploader(setupResult.PinataJwtKey, setupResult.PinataApiUrl),
		Gateway:   filestorage.NewGateway(setupResult.IpfsGateway),
		Minter:    minter,
		Ledger:    runLedger,

		ApiIpPort:     setupResult.ApiIpPort,
		RecentRunsTTL: setupResult.RecentRunsTTL,
	}, nil
}

func newGenerator(setupResult *setup.SetupResult) art.Generator {
	if setupResult.InferenceProvider == setup.ProviderOpenAi {
		return art.NewOpenAiGenerator(setupResult.OpenAiApiKey, setupResult.OpenAiModel)
	}
	return art.NewHuggingFaceGenerator(setupResult.InferenceEndpoint, setupResult.InferenceApiKey)
}

// newMinter builds a minter; without chain settings it is disconnected rather than an error.
func newMinter(ctx context.Context, setupResult *setup.SetupResult) (*chain.Minter, error) {
	opts := chain.MinterOptions{
		Price:          setupResult.MintPrice,
		ConfirmTimeout: setupResult.ConfirmTimeout,
	}

	if !setupResult.ChainConfigured() {
		return chain.NewMinter(opts)
	}

	ethClient, err := ethclient.DialContext(ctx, setupResult.EthereumRpcUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to dial ethereum client: %w", err)
	}

	session, err := chain.Connect(ctx, ethClient, setupResult.WalletPrivateKey, setupResult.WalletSeed, setupResult.ContractAddress)
	if err != nil {
		slog.Error("failed to connect chain session", "error", err)
		return chain.NewMinter(opts)
	}

	slog.Info("chain session connected", "chainId", session.ChainId, "address", session.Wallet.Address().Hex(), "contract", session.Contract.Hex())

	opts.Backend = ethClient
	opts.Session = session
	return chain.NewMinter(opts)
}

// Submit accepts a creation and runs it in the background. It returns the accepted run's
// first snapshot, or the reason the submission was refused.
func (a *Agent) Submit(request pipeline.CreationRequest) (pipeline.Snapshot, error) {
	run, err := a.pipeline.Begin(request)
	if err != nil {
		return a.pipeline.Current(), err
	}

	snapshot := a.pipeline.Current()

	a.inFlight.Add(1)
	a.pool.Submit(func() {
		defer a.inFlight.Done()
		a.pipeline.Execute(a.ctx, run)
	})

	return snapshot, nil
}

// Wait blocks until every accepted run has finished and been recorded.
func (a *Agent) Wait() {
	a.inFlight.Wait()
}

func (a *Agent) Current() pipeline.Snapshot {
	return a.pipeline.Current()
}

func (a *Agent) Pipeline() *pipeline.Pipeline {
	return a.pipeline
}

func (a *Agent) Close() error {
	a.pool.StopAndWait()

	if closer, ok := a.ledger.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (a *Agent) ApiIpPort() string {
	return a.apiIpPort
}

func (a *Agent) Address() common.Address {
	return a.minter.Address()
}
