package agent_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NethermindEth/prompt-mint/pkg/agent"
	"github.com/NethermindEth/prompt-mint/pkg/agent/art"
	"github.com/NethermindEth/prompt-mint/pkg/agent/chain"
	"github.com/NethermindEth/prompt-mint/pkg/agent/filestorage"
	"github.com/NethermindEth/prompt-mint/pkg/agent/ledger"
	"github.com/NethermindEth/prompt-mint/pkg/agent/pipeline"
)

var minterAddress = common.HexToAddress("0x1234567890123456789012345678901234567890")

var lionRequest = pipeline.CreationRequest{
	Name:        "Cyber Lion",
	Description: "A futuristic lion with cybernetic enhancements.",
}

type mockGenerator struct {
	generate func(ctx context.Context, prompt string) (*art.Image, error)
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (*art.Image, error) {
	return m.generate(ctx, prompt)
}

type mockUploader struct {
	credentialErr error
	uploadFile    func(ctx context.Context, name string, data []byte) (string, error)
	uploadJson    func(ctx context.Context, json interface{}) (string, error)
}

func (m *mockUploader) CheckCredential() error {
	return m.credentialErr
}

func (m *mockUploader) UploadFile(ctx context.Context, name string, data []byte) (string, error) {
	return m.uploadFile(ctx, name, data)
}

func (m *mockUploader) UploadJson(ctx context.Context, json interface{}) (string, error) {
	return m.uploadJson(ctx, json)
}

type mockMinter struct {
	connected bool
	mint      func(ctx context.Context, tokenUri string) (*chain.MintReceipt, error)
}

func (m *mockMinter) Connected() bool {
	return m.connected
}

func (m *mockMinter) Mint(ctx context.Context, tokenUri string) (*chain.MintReceipt, error) {
	return m.mint(ctx, tokenUri)
}

func (m *mockMinter) Address() common.Address {
	return minterAddress
}

func newTestConfig(t *testing.T) *agent.AgentConfig {
	repo, err := ledger.NewRepository(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)

	return &agent.AgentConfig{
		Generator: &mockGenerator{
			generate: func(ctx context.Context, prompt string) (*art.Image, error) {
				return &art.Image{Data: []byte("png-bytes"), MimeType: "image/png"}, nil
			},
		},
		Uploader: &mockUploader{
			uploadFile: func(ctx context.Context, name string, data []byte) (string, error) {
				return "QmImage", nil
			},
			uploadJson: func(ctx context.Context, json interface{}) (string, error) {
				return "QmMeta", nil
			},
		},
		Gateway: filestorage.NewGateway("gateway.test"),
		Minter: &mockMinter{
			connected: true,
			mint: func(ctx context.Context, tokenUri string) (*chain.MintReceipt, error) {
				return &chain.MintReceipt{TokenUri: tokenUri, TxHash: common.HexToHash("0xabc"), Confirmed: true}, nil
			},
		},
		Ledger:        repo,
		RecentRunsTTL: time.Minute,
	}
}

func setupTestAgent(t *testing.T, opts ...func(*agent.AgentConfig)) *agent.Agent {
	agentConfig := newTestConfig(t)
	for _, opt := range opts {
		opt(agentConfig)
	}

	a, err := agent.NewAgent(context.Background(), agentConfig)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	return a
}

func waitTerminal(t *testing.T, a *agent.Agent) pipeline.Snapshot {
	done := make(chan struct{})
	go func() {
		a.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("run did not finish")
	}

	return a.Current()
}

func TestNewAgent(t *testing.T) {
	tests := []struct {
		name        string
		agentConfig *agent.AgentConfig
		wantErr     bool
	}{
		{
			name:        "valid config",
			agentConfig: newTestConfig(t),
			wantErr:     false,
		},
		{
			name:        "nil config",
			agentConfig: nil,
			wantErr:     true,
		},
		{
			name:        "missing minter",
			agentConfig: &agent.AgentConfig{Generator: &mockGenerator{}, Uploader: &mockUploader{}},
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := agent.NewAgent(context.Background(), tt.agentConfig)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, a)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, a)
				assert.Equal(t, minterAddress, a.Address())
				assert.Equal(t, pipeline.StageIdle, a.Current().Stage)
			}
		})
	}
}

func TestAgent_Start(t *testing.T) {
	a := setupTestAgent(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := a.Start(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAgent_Submit(t *testing.T) {
	t.Run("runs to success and records the run", func(t *testing.T) {
		a := setupTestAgent(t)

		accepted, err := a.Submit(lionRequest)
		require.NoError(t, err)
		assert.Equal(t, pipeline.StageValidating, accepted.Stage)
		require.NotEmpty(t, accepted.RunId)

		final := waitTerminal(t, a)
		assert.Equal(t, pipeline.StageSucceeded, final.Stage)
		assert.Equal(t, accepted.RunId, final.RunId)
		assert.Equal(t, "https://gateway.test/ipfs/QmMeta", final.TokenUri())
		require.NotNil(t, final.Receipt)
		assert.True(t, final.Receipt.Confirmed)
	})

	t.Run("validation error leaves the agent idle", func(t *testing.T) {
		a := setupTestAgent(t)

		_, err := a.Submit(pipeline.CreationRequest{Name: "A", Description: lionRequest.Description})
		assert.ErrorIs(t, err, pipeline.ErrValidation)
		assert.Equal(t, pipeline.StageIdle, a.Current().Stage)
	})

	t.Run("second creation is rejected while one is in flight", func(t *testing.T) {
		release := make(chan struct{})
		a := setupTestAgent(t, func(config *agent.AgentConfig) {
			config.Generator = &mockGenerator{
				generate: func(ctx context.Context, prompt string) (*art.Image, error) {
					<-release
					return &art.Image{Data: []byte("png-bytes"), MimeType: "image/png"}, nil
				},
			}
		})

		first, err := a.Submit(lionRequest)
		require.NoError(t, err)

		current, err := a.Submit(pipeline.CreationRequest{Name: "Other Lion", Description: lionRequest.Description})
		assert.ErrorIs(t, err, pipeline.ErrAlreadyInProgress)
		assert.Equal(t, first.RunId, current.RunId)

		close(release)

		final := waitTerminal(t, a)
		assert.Equal(t, first.RunId, final.RunId)
		assert.Equal(t, pipeline.StageSucceeded, final.Stage)
		assert.Equal(t, lionRequest.Name, final.Request.Name)
	})

	t.Run("missing chain session fails with NotConnected", func(t *testing.T) {
		a := setupTestAgent(t, func(config *agent.AgentConfig) {
			config.Minter = &mockMinter{connected: false}
		})

		_, err := a.Submit(lionRequest)
		require.NoError(t, err)

		final := waitTerminal(t, a)
		assert.Equal(t, pipeline.StageFailed, final.Stage)
		assert.Equal(t, pipeline.ErrNotConnected, final.ErrorKind)
	})
}

func TestAgent_RecordsTerminalRunAfterShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	agentConfig := newTestConfig(t)
	repo := agentConfig.Ledger.(*ledger.Repository)
	agentConfig.Generator = &mockGenerator{
		generate: func(ctx context.Context, prompt string) (*art.Image, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}

	a, err := agent.NewAgent(ctx, agentConfig)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	accepted, err := a.Submit(lionRequest)
	require.NoError(t, err)

	cancel()
	final := waitTerminal(t, a)
	require.Equal(t, pipeline.StageFailed, final.Stage)

	record, err := repo.Get(context.Background(), accepted.RunId)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, string(pipeline.StageFailed), record.Stage)
	assert.Equal(t, string(pipeline.ErrGenerationFailed), record.ErrorKind)
}
