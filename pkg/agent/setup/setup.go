package setup

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

type SetupResult struct {
	EthereumRpcUrl   string
	ContractAddress  common.Address
	WalletPrivateKey string
	WalletSeed       []byte
	MintPrice        *big.Int
	ConfirmTimeout   time.Duration

	InferenceProvider string
	InferenceEndpoint string
	InferenceApiKey   string
	OpenAiApiKey      string
	OpenAiModel       string

	PinataJwtKey string
	PinataApiUrl string
	IpfsGateway  string

	ApiIpPort     string
	LedgerPath    string
	RecentRunsTTL time.Duration
}

func (r *SetupResult) ChainConfigured() bool {
	return r.EthereumRpcUrl != "" && r.ContractAddress != (common.Address{}) &&
		(r.WalletPrivateKey != "" || len(r.WalletSeed) > 0)
}

func Setup(ctx context.Context) (*SetupResult, error) {
	config, err := NewConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to get config: %w", err)
	}

	return NewSetupResult(config)
}

func NewSetupResult(config *Config) (*SetupResult, error) {
	price, err := config.MintPrice()
	if err != nil {
		return nil, err
	}

	result := &SetupResult{
		EthereumRpcUrl:   config.EthereumRpcUrl,
		WalletPrivateKey: config.WalletPrivateKey,
		MintPrice:        price,
		ConfirmTimeout:   config.ConfirmTimeout,

		InferenceProvider: config.InferenceProvider,
		InferenceEndpoint: config.InferenceEndpoint,
		InferenceApiKey:   config.InferenceApiKey,
		OpenAiApiKey:      config.OpenAiApiKey,
		OpenAiModel:       config.OpenAiModel,

		PinataJwtKey: config.PinataJwtKey,
		PinataApiUrl: config.PinataApiUrl,
		IpfsGateway:  config.IpfsGateway,

		ApiIpPort:     config.ApiIpPort,
		LedgerPath:    config.LedgerPath,
		RecentRunsTTL: config.RecentRunsTTL,
	}

	if config.ContractAddress != "" {
		result.ContractAddress = common.HexToAddress(config.ContractAddress)
	}
	if config.WalletSeed != "" {
		result.WalletSeed = []byte(config.WalletSeed)
	}

	if !result.ChainConfigured() {
		slog.Warn("chain session is not configured, mints will fail with NotConnected",
			"rpc", result.EthereumRpcUrl != "", "contract", result.ContractAddress.Hex())
	}
	if result.PinataJwtKey == "" {
		slog.Warn("pinata credential is not configured, creations will fail with MissingCredential")
	}

	return result, nil
}
