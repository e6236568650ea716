package wallet

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

type Wallet struct {
	privateKey *ecdsa.PrivateKey
	chainId    *big.Int
}

// NewWallet derives the account key from keccak256(seed).
func NewWallet(seed []byte, chainId *big.Int) (*Wallet, error) {
	if len(seed) == 0 {
		return nil, errors.New("seed is empty")
	}

	privateKey, err := crypto.ToECDSA(crypto.Keccak256(seed))
	if err != nil {
		return nil, err
	}

	return &Wallet{
		privateKey: privateKey,
		chainId:    chainId,
	}, nil
}

func NewWalletFromHex(hexKey string, chainId *big.Int) (*Wallet, error) {
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return &Wallet{
		privateKey: privateKey,
		chainId:    chainId,
	}, nil
}

func (w *Wallet) PrivateKey() *ecdsa.PrivateKey {
	return w.privateKey
}

func (w *Wallet) ChainId() *big.Int {
	return w.chainId
}

func (w *Wallet) Address() common.Address {
	return crypto.PubkeyToAddress(w.privateKey.PublicKey)
}

// Auth returns fresh transact options; callers may mutate them.
func (w *Wallet) Auth() (*bind.TransactOpts, error) {
	if w.chainId == nil {
		return nil, errors.New("chain id is not set")
	}
	return bind.NewKeyedTransactorWithChainID(w.privateKey, w.chainId)
}
