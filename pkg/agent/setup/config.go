package setup

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
)

type Config struct {
	EthereumRpcUrl   string        `mapstructure:"ETHEREUM_RPC_URL"`
	ContractAddress  string        `mapstructure:"CONTRACT_ADDRESS"`
	WalletPrivateKey string        `mapstructure:"WALLET_PRIVATE_KEY"`
	WalletSeed       string        `mapstructure:"WALLET_SEED"`
	MintPriceWei     string        `mapstructure:"MINT_PRICE_WEI"`
	ConfirmTimeout   time.Duration `mapstructure:"CONFIRM_TIMEOUT"`

	InferenceProvider string `mapstructure:"INFERENCE_PROVIDER"`
	InferenceEndpoint string `mapstructure:"INFERENCE_ENDPOINT"`
	InferenceApiKey   string `mapstructure:"INFERENCE_API_KEY"`
	OpenAiApiKey      string `mapstructure:"OPENAI_API_KEY"`
	OpenAiModel       string `mapstructure:"OPENAI_MODEL"`

	PinataJwtKey string `mapstructure:"PINATA_JWT_KEY"`
	PinataApiUrl string `mapstructure:"PINATA_API_URL"`
	IpfsGateway  string `mapstructure:"IPFS_GATEWAY"`

	ApiIpPort     string        `mapstructure:"API_IP_PORT"`
	LedgerPath    string        `mapstructure:"LEDGER_PATH"`
	RecentRunsTTL time.Duration `mapstructure:"RECENT_RUNS_TTL"`
}

var configKeys = []string{
	EnvEthereumRpcUrl, EnvContractAddress, EnvWalletPrivateKey, EnvWalletSeed, EnvMintPriceWei,
	EnvConfirmTimeout, EnvInferenceProvider, EnvInferenceEndpoint, EnvInferenceApiKey,
	EnvOpenAiApiKey, EnvOpenAiModel, EnvPinataJwtKey, EnvPinataApiUrl, EnvIpfsGateway,
	EnvApiIpPort, EnvLedgerPath, EnvRecentRunsCacheTTL,
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(EnvMintPriceWei, "1000000000000000")
	v.SetDefault(EnvConfirmTimeout, 2*time.Minute)
	v.SetDefault(EnvInferenceProvider, ProviderHuggingFace)
	v.SetDefault(EnvOpenAiModel, "dall-e-3")
	v.SetDefault(EnvIpfsGateway, "gateway.pinata.cloud")
	v.SetDefault(EnvLedgerPath, "prompt-mint.db")
	v.SetDefault(EnvRecentRunsCacheTTL, time.Hour)
}

// NewConfig reads the environment and, when present, config.yaml from the working directory
// or $HOME/.prompt-mint. Environment variables win over the file.
func NewConfig() (*Config, error) {
	return newConfig(viper.New())
}

func newConfig(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.prompt-mint")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate only rejects settings the process cannot start without. A missing pinning credential
// or chain session is reported per run instead.
func (c *Config) Validate() error {
	switch c.InferenceProvider {
	case ProviderHuggingFace:
		if c.InferenceApiKey == "" {
			return errors.New("INFERENCE_API_KEY is required")
		}
	case ProviderOpenAi:
		if c.OpenAiApiKey == "" {
			return errors.New("OPENAI_API_KEY is required")
		}
	default:
		return fmt.Errorf("INFERENCE_PROVIDER %q is not supported", c.InferenceProvider)
	}

	if c.ContractAddress != "" && !common.IsHexAddress(c.ContractAddress) {
		return fmt.Errorf("CONTRACT_ADDRESS %q is not a valid address", c.ContractAddress)
	}
	if _, err := c.MintPrice(); err != nil {
		return err
	}
	if c.ConfirmTimeout < 0 {
		return errors.New("CONFIRM_TIMEOUT must not be negative")
	}

	return nil
}

func (c *Config) MintPrice() (*big.Int, error) {
	if c.MintPriceWei == "" {
		return new(big.Int), nil
	}

	price, ok := new(big.Int).SetString(c.MintPriceWei, 10)
	if !ok || price.Sign() < 0 {
		return nil, fmt.Errorf("MINT_PRICE_WEI %q is not a valid amount", c.MintPriceWei)
	}
	return price, nil
}

// ChainConfigured reports whether enough is set to open a chain session.
func (c *Config) ChainConfigured() bool {
	return c.EthereumRpcUrl != "" && c.ContractAddress != "" && (c.WalletPrivateKey != "" || c.WalletSeed != "")
}
