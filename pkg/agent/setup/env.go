package setup

const (
	EnvEthereumRpcUrl     = "ETHEREUM_RPC_URL"
	EnvContractAddress    = "CONTRACT_ADDRESS"
	EnvWalletPrivateKey   = "WALLET_PRIVATE_KEY"
	EnvWalletSeed         = "WALLET_SEED"
	EnvMintPriceWei       = "MINT_PRICE_WEI"
	EnvConfirmTimeout     = "CONFIRM_TIMEOUT"
	EnvInferenceProvider  = "INFERENCE_PROVIDER"
	EnvInferenceEndpoint  = "INFERENCE_ENDPOINT"
	EnvInferenceApiKey    = "INFERENCE_API_KEY"
	EnvOpenAiApiKey       = "OPENAI_API_KEY"
	EnvOpenAiModel        = "OPENAI_MODEL"
	EnvPinataJwtKey       = "PINATA_JWT_KEY"
	// EnvPinataApiUrl only redirects file pins; JSON pins go through the pinata SDK's fixed host.
	EnvPinataApiUrl       = "PINATA_API_URL"
	EnvIpfsGateway        = "IPFS_GATEWAY"
	EnvApiIpPort          = "API_IP_PORT"
	EnvLedgerPath         = "LEDGER_PATH"
	EnvRecentRunsCacheTTL = "RECENT_RUNS_TTL"
)

const (
	ProviderHuggingFace = "huggingface"
	ProviderOpenAi      = "openai"
)
