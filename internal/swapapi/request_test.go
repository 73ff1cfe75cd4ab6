package swapapi

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-copybot/internal/model"
)

func TestNewRequestFields(t *testing.T) {
	walletKey := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey().String()

	req, err := NewRequest(walletKey, model.DirectionBuy, mint, 250_000_000, Options{
		PriorityFeeLevel: "high",
		SlippageBps:      100,
		Commitment:       "confirmed",
	})
	require.NoError(t, err)

	assert.Equal(t, walletKey.String(), req.Wallet)
	assert.Equal(t, "BUY", req.Type)
	assert.Equal(t, mint, req.Mint)
	assert.Equal(t, "250000000", req.InAmount)
	assert.Equal(t, "high", req.PriorityFeeLevel)
	assert.Equal(t, "100", req.SlippageBps)
	assert.Equal(t, "confirmed", req.Commitment)
}

func TestNewRequestInvalidMint(t *testing.T) {
	_, err := NewRequest(solana.NewWallet().PublicKey(), model.DirectionBuy, "not-a-valid-pubkey", 1, Options{})
	assert.Error(t, err)
}

func TestNewRequestZeroAmount(t *testing.T) {
	mint := solana.NewWallet().PublicKey().String()
	_, err := NewRequest(solana.NewWallet().PublicKey(), model.DirectionSell, mint, 0, Options{})
	assert.Error(t, err)
}

func TestNewRequestInvalidDirection(t *testing.T) {
	mint := solana.NewWallet().PublicKey().String()
	_, err := NewRequest(solana.NewWallet().PublicKey(), model.Direction("HOLD"), mint, 1, Options{})
	assert.Error(t, err)
}

func TestDecodeTransactionRejectsBadBase64(t *testing.T) {
	_, err := decodeTransaction("%%%")
	var protoErr *ProtocolError
	require.ErrorAs(t, err, &protoErr)
}

func TestDecodeTransactionRejectsBadBytes(t *testing.T) {
	_, err := decodeTransaction("aGVsbG8gd29ybGQ=") // valid base64, not a transaction
	var protoErr *ProtocolError
	require.ErrorAs(t, err, &protoErr)
}
