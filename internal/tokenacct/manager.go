// Package tokenacct makes sure the wallet's associated token account for
// a mint exists before a swap touches it, creating it on demand.
package tokenacct

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"go.uber.org/zap"

	"solana-copybot/internal/chain"
)

// ErrCreationTimeout means the token account was still not visible after
// the creation transaction confirmed and the poll budget was exhausted.
// Fatal for the current trade attempt: swapping against an account that
// cannot be observed risks a swap against a nonexistent account.
var ErrCreationTimeout = errors.New("token account not visible after creation")

// signer is the slice of the wallet the manager needs.
type signer interface {
	PublicKey() solana.PublicKey
	Sign(tx *solana.Transaction) error
}

// ManagerConfig bounds the post-creation visibility poll.
type ManagerConfig struct {
	PollAttempts int
	PollDelay    time.Duration
}

// Manager ensures associated token accounts exist for the wallet.
type Manager struct {
	chainClient  chain.Client
	wallet       signer
	pollAttempts int
	pollDelay    time.Duration
	sleep        func(time.Duration)
	log          *zap.SugaredLogger
}

// NewManager creates a token account manager.
func NewManager(chainClient chain.Client, wallet signer, cfg ManagerConfig, log *zap.SugaredLogger) *Manager {
	pollAttempts := cfg.PollAttempts
	if pollAttempts <= 0 {
		pollAttempts = 3
	}
	pollDelay := cfg.PollDelay
	if pollDelay <= 0 {
		pollDelay = time.Second
	}

	return &Manager{
		chainClient:  chainClient,
		wallet:       wallet,
		pollAttempts: pollAttempts,
		pollDelay:    pollDelay,
		sleep:        time.Sleep,
		log:          log,
	}
}

// AssociatedAccount derives the wallet's deterministic token account
// address for the mint.
func (m *Manager) AssociatedAccount(mint solana.PublicKey) (solana.PublicKey, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(m.wallet.PublicKey(), mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to find associated token account address: %w", err)
	}
	return ata, nil
}

// Ensure makes the wallet's token account for mint exist on chain.
// Idempotent: if the account is already visible this is a no-op.
//
// Chain state visibility lags transaction confirmation, so after
// submitting the creation transaction the account is re-read a bounded
// number of times with a fixed pause. Exhausting the poll budget is a
// hard failure, not something to retry further up.
func (m *Manager) Ensure(ctx context.Context, mint solana.PublicKey) error {
	ata, err := m.AssociatedAccount(mint)
	if err != nil {
		return err
	}

	exists, err := m.chainClient.AccountExists(ctx, ata)
	if err != nil {
		return fmt.Errorf("failed to check token account %s: %w", ata, err)
	}
	if exists {
		return nil
	}

	m.log.Infof("token account %s for mint %s does not exist, creating", ata, mint)

	owner := m.wallet.PublicKey()
	createIx := associatedtokenaccount.NewCreateInstruction(
		owner, // payer
		owner, // wallet owner
		mint,
	).Build()

	blockhash, err := m.chainClient.LatestBlockhash(ctx)
	if err != nil {
		return err
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{createIx},
		blockhash,
		solana.TransactionPayer(owner),
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	if err := m.wallet.Sign(tx); err != nil {
		return err
	}

	if _, err := m.chainClient.SendAndConfirm(ctx, tx); err != nil {
		return fmt.Errorf("failed to create token account %s: %w", ata, err)
	}

	// Give the RPC node a moment before the first re-read
	m.sleep(m.pollDelay)

	for i := 0; i < m.pollAttempts; i++ {
		exists, err := m.chainClient.AccountExists(ctx, ata)
		if err == nil && exists {
			m.log.Infof("token account %s created", ata)
			return nil
		}
		m.sleep(m.pollDelay)
	}

	return fmt.Errorf("%w: account %s for mint %s after %d attempts",
		ErrCreationTimeout, ata, mint, m.pollAttempts)
}
