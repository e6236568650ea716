package chain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var (
	ErrNotConnected = errors.New("wallet or contract is not connected")
	ErrMintRejected = errors.New("mint transaction rejected")
	ErrMintFailed   = errors.New("mint transaction failed")
)

const DefaultConfirmTimeout = 2 * time.Minute

type MinterBackend interface {
	bind.ContractBackend
	bind.DeployBackend
}

type MintReceipt struct {
	TokenUri    string      `json:"tokenUri"`
	TxHash      common.Hash `json:"txHash"`
	BlockNumber *big.Int    `json:"blockNumber,omitempty"`
	TokenId     *big.Int    `json:"tokenId,omitempty"`
	Confirmed   bool        `json:"transactionConfirmed"`
}

type Minter struct {
	backend     MinterBackend
	session     *Session
	contractAbi abi.ABI
	contract    *bind.BoundContract

	price          *big.Int
	confirmTimeout time.Duration
}

type MinterOptions struct {
	Backend        MinterBackend
	Session        *Session
	Price          *big.Int
	ConfirmTimeout time.Duration
}

func NewMinter(opts MinterOptions) (*Minter, error) {
	contractAbi, err := parseCollectionAbi()
	if err != nil {
		return nil, fmt.Errorf("failed to parse collection abi: %w", err)
	}

	if opts.Price == nil {
		opts.Price = new(big.Int)
	}
	if opts.ConfirmTimeout == 0 {
		opts.ConfirmTimeout = DefaultConfirmTimeout
	}

	m := &Minter{
		backend:        opts.Backend,
		session:        opts.Session,
		contractAbi:    contractAbi,
		price:          opts.Price,
		confirmTimeout: opts.ConfirmTimeout,
	}

	if m.Connected() {
		m.contract = bind.NewBoundContract(opts.Session.Contract, contractAbi, opts.Backend, opts.Backend, opts.Backend)
	}

	return m, nil
}

func (m *Minter) Connected() bool {
	return m.backend != nil && m.session.Connected()
}

func (m *Minter) Address() common.Address {
	if !m.session.Connected() {
		return common.Address{}
	}
	return m.session.Wallet.Address()
}

// Mint submits mint(tokenUri) with the configured payment and waits for the transaction to be mined.
// When the transaction was submitted but not confirmed, the returned receipt carries its hash.
func (m *Minter) Mint(ctx context.Context, tokenUri string) (*MintReceipt, error) {
	if !m.Connected() {
		return nil, ErrNotConnected
	}

	auth, err := m.session.Wallet.Auth()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotConnected, err)
	}
	auth.Context = ctx
	auth.Value = new(big.Int).Set(m.price)

	tx, err := m.contract.Transact(auth, mintMethod, tokenUri)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMintRejected, err)
	}

	receipt := &MintReceipt{
		TokenUri: tokenUri,
		TxHash:   tx.Hash(),
	}
	slog.Info("mint submitted", "tx", tx.Hash().Hex(), "tokenUri", tokenUri, "value", m.price.String())

	waitCtx, cancel := context.WithTimeout(ctx, m.confirmTimeout)
	defer cancel()

	txReceipt, err := bind.WaitMined(waitCtx, m.backend, tx)
	if err != nil {
		return receipt, fmt.Errorf("%w: failed to wait for confirmation of %s: %v", ErrMintFailed, tx.Hash().Hex(), err)
	}

	receipt.BlockNumber = txReceipt.BlockNumber
	if txReceipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%w: transaction %s reverted", ErrMintFailed, tx.Hash().Hex())
	}

	receipt.Confirmed = true
	if tokenId, ok := mintedTokenId(&m.contractAbi, m.session.Contract, txReceipt); ok {
		receipt.TokenId = tokenId
	}

	slog.Info("mint confirmed", "tx", tx.Hash().Hex(), "block", txReceipt.BlockNumber, "tokenId", receipt.TokenId)

	return receipt, nil
}
