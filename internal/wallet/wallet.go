package wallet

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Wallet is the signing identity behind every submitted transaction.
// The private key is read-only shared state: safe for concurrent use by
// independent submissions.
type Wallet struct {
	priv solana.PrivateKey
}

// New wraps a full 64-byte Solana private key.
func New(priv solana.PrivateKey) (*Wallet, error) {
	if len(priv) != 64 {
		return nil, fmt.Errorf("invalid private key length: expected 64 bytes, got %d", len(priv))
	}
	return &Wallet{priv: priv}, nil
}

// Generate creates a new random wallet.
func Generate() *Wallet {
	return &Wallet{priv: solana.NewWallet().PrivateKey}
}

// PublicKey returns the wallet's public key.
func (w *Wallet) PublicKey() solana.PublicKey {
	return w.priv.PublicKey()
}

// Sign signs every instruction of tx that requires the wallet's key.
func (w *Wallet) Sign(tx *solana.Transaction) error {
	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if w.priv.PublicKey().Equals(key) {
			return &w.priv
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to sign transaction: %w", err)
	}
	return nil
}

// PrivateKeyBytes exposes the raw key for keystore encryption.
// Caller must zero the returned slice after use.
func (w *Wallet) PrivateKeyBytes() []byte {
	out := make([]byte, len(w.priv))
	copy(out, w.priv)
	return out
}

// Zero wipes the private key from memory.
func (w *Wallet) Zero() {
	clear(w.priv)
}
