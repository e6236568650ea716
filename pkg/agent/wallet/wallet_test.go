package wallet_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NethermindEth/prompt-mint/pkg/agent/wallet"
)

func TestNewWallet(t *testing.T) {
	seed := []byte("test seed")

	w, err := wallet.NewWallet(seed, big.NewInt(1337))
	require.NoError(t, err)

	expected, err := crypto.ToECDSA(crypto.Keccak256(seed))
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(expected.PublicKey), w.Address())

	_, err = wallet.NewWallet(nil, big.NewInt(1337))
	assert.Error(t, err)
}

func TestNewWalletFromHex(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	hexKey := hexutil.Encode(crypto.FromECDSA(key))

	w, err := wallet.NewWalletFromHex(hexKey, big.NewInt(1337))
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), w.Address())

	_, err = wallet.NewWalletFromHex("not-a-key", big.NewInt(1337))
	assert.Error(t, err)
}

func TestWallet_Auth(t *testing.T) {
	w, err := wallet.NewWallet([]byte("test seed"), big.NewInt(1337))
	require.NoError(t, err)

	auth, err := w.Auth()
	require.NoError(t, err)
	assert.Equal(t, w.Address(), auth.From)

	noChain, err := wallet.NewWallet([]byte("test seed"), nil)
	require.NoError(t, err)
	_, err = noChain.Auth()
	assert.Error(t, err)
}
