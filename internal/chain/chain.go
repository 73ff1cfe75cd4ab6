// Package chain wraps the Solana RPC surface the engine needs behind a
// narrow interface so every component is testable with an in-memory fake.
package chain

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// Client is the chain RPC surface consumed by the execution engine.
type Client interface {
	// Balance returns the SOL balance of an account in lamports.
	Balance(ctx context.Context, account solana.PublicKey) (uint64, error)
	// AccountExists reports whether the account is visible on chain.
	AccountExists(ctx context.Context, account solana.PublicKey) (bool, error)
	// TokenBalance returns the raw token balance of a token account.
	TokenBalance(ctx context.Context, tokenAccount solana.PublicKey) (uint64, error)
	// LatestBlockhash returns a recent blockhash for transaction building.
	LatestBlockhash(ctx context.Context) (solana.Hash, error)
	// SendAndConfirm submits a signed transaction and waits until it
	// reaches the configured commitment level.
	SendAndConfirm(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
}
