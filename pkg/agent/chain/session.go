package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/NethermindEth/prompt-mint/pkg/agent/wallet"
)

// Session is the signing identity and contract resolved once per process.
type Session struct {
	Wallet   *wallet.Wallet
	ChainId  *big.Int
	Contract common.Address
}

func (s *Session) Connected() bool {
	return s != nil && s.Wallet != nil && s.ChainId != nil && s.Contract != (common.Address{})
}

// Connect resolves the network identifier and builds a session for the given key material.
// Exactly one of hexKey or seed is used, hexKey first.
func Connect(ctx context.Context, backend ethereum.ChainIDReader, hexKey string, seed []byte, contract common.Address) (*Session, error) {
	chainId, err := backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain id: %w", err)
	}

	var w *wallet.Wallet
	if hexKey != "" {
		w, err = wallet.NewWalletFromHex(hexKey, chainId)
	} else {
		w, err = wallet.NewWallet(seed, chainId)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	return &Session{
		Wallet:   w,
		ChainId:  chainId,
		Contract: contract,
	}, nil
}
