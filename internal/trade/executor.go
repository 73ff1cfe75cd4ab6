// Package trade orchestrates swap execution: balance preconditions,
// token account readiness, delegation to the swap client, and copy-trade
// scaling of observed target amounts.
package trade

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"solana-copybot/internal/chain"
	"solana-copybot/internal/model"
)

// Swapper executes a swap round trip against the routing service.
type Swapper interface {
	Swap(ctx context.Context, mint string, amount uint64, direction model.Direction) (solana.Signature, error)
}

// AccountEnsurer guarantees the wallet's token account for a mint exists.
type AccountEnsurer interface {
	Ensure(ctx context.Context, mint solana.PublicKey) error
	AssociatedAccount(mint solana.PublicKey) (solana.PublicKey, error)
}

// Executor validates trade preconditions and delegates execution.
type Executor struct {
	chainClient chain.Client
	accounts    AccountEnsurer
	swapper     Swapper
	walletKey   solana.PublicKey
	log         *zap.SugaredLogger
}

// NewExecutor creates a trade executor for one wallet.
func NewExecutor(chainClient chain.Client, accounts AccountEnsurer, swapper Swapper, walletKey solana.PublicKey, log *zap.SugaredLogger) *Executor {
	return &Executor{
		chainClient: chainClient,
		accounts:    accounts,
		swapper:     swapper,
		walletKey:   walletKey,
		log:         log,
	}
}

// Buy swaps amount lamports of SOL into the given mint.
func (e *Executor) Buy(ctx context.Context, mint string, amount uint64) (solana.Signature, error) {
	if amount == 0 {
		return solana.Signature{}, &ValidationError{Reason: "cannot buy with 0 SOL", Err: ErrInvalidAmount}
	}

	mintKey, err := solana.PublicKeyFromBase58(mint)
	if err != nil {
		return solana.Signature{}, &ValidationError{Reason: "invalid mint address", Err: err}
	}

	balance, err := e.chainClient.Balance(ctx, e.walletKey)
	if err != nil {
		return solana.Signature{}, err
	}
	if balance < amount {
		return solana.Signature{}, &InsufficientFundsError{Have: balance, Need: amount}
	}

	// The wallet must be able to receive the token before buying
	if err := e.accounts.Ensure(ctx, mintKey); err != nil {
		return solana.Signature{}, err
	}

	return e.swapper.Swap(ctx, mint, amount, model.DirectionBuy)
}

// Sell swaps amount tokens of the given mint back into SOL.
func (e *Executor) Sell(ctx context.Context, mint string, amount uint64) (solana.Signature, error) {
	if amount == 0 {
		return solana.Signature{}, &ValidationError{Reason: "cannot sell 0 tokens", Err: ErrInvalidAmount}
	}

	mintKey, err := solana.PublicKeyFromBase58(mint)
	if err != nil {
		return solana.Signature{}, &ValidationError{Reason: "invalid mint address", Err: err}
	}

	// A nonzero balance observed here also proves the token account exists
	current := e.tokenBalance(ctx, mintKey)
	if current == 0 {
		return solana.Signature{}, ErrNoTokens
	}
	if current < amount {
		return solana.Signature{}, &InsufficientTokenBalanceError{Have: current, Need: amount}
	}

	return e.swapper.Swap(ctx, mint, amount, model.DirectionSell)
}

// TokenBalance returns the wallet's balance of the given mint. Read-only
// check: any failure logs a warning and reports 0 rather than aborting.
func (e *Executor) TokenBalance(ctx context.Context, mint string) uint64 {
	mintKey, err := solana.PublicKeyFromBase58(mint)
	if err != nil {
		e.log.Warnf("invalid mint address %q, assuming 0 balance: %v", mint, err)
		return 0
	}
	return e.tokenBalance(ctx, mintKey)
}

func (e *Executor) tokenBalance(ctx context.Context, mint solana.PublicKey) uint64 {
	if err := e.accounts.Ensure(ctx, mint); err != nil {
		e.log.Warnf("failed to ensure token account for mint %s, assuming 0 balance: %v", mint, err)
		return 0
	}

	ata, err := e.accounts.AssociatedAccount(mint)
	if err != nil {
		e.log.Warnf("failed to derive token account for mint %s, assuming 0 balance: %v", mint, err)
		return 0
	}

	balance, err := e.chainClient.TokenBalance(ctx, ata)
	if err != nil {
		e.log.Warnf("failed to get token balance for mint %s, assuming 0 balance: %v", mint, err)
		return 0
	}

	return balance
}
