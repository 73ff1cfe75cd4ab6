package chain

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// RPCOptions tunes commitment and confirmation polling.
type RPCOptions struct {
	Commitment       rpc.CommitmentType
	ConfirmTimeout   time.Duration
	ConfirmPollDelay time.Duration
}

// RPCClient implements Client over a Solana JSON-RPC node.
type RPCClient struct {
	rpcClient  *rpc.Client
	commitment rpc.CommitmentType

	confirmTimeout   time.Duration
	confirmPollDelay time.Duration
}

// NewRPCClient creates a chain client for the given RPC endpoint.
func NewRPCClient(rpcURL string, opts RPCOptions) *RPCClient {
	commitment := opts.Commitment
	if commitment == "" {
		commitment = rpc.CommitmentConfirmed
	}
	confirmTimeout := opts.ConfirmTimeout
	if confirmTimeout <= 0 {
		confirmTimeout = 45 * time.Second
	}
	confirmPollDelay := opts.ConfirmPollDelay
	if confirmPollDelay <= 0 {
		confirmPollDelay = 500 * time.Millisecond
	}

	return &RPCClient{
		rpcClient:        rpc.New(rpcURL),
		commitment:       commitment,
		confirmTimeout:   confirmTimeout,
		confirmPollDelay: confirmPollDelay,
	}
}

// Balance returns the SOL balance in lamports.
func (c *RPCClient) Balance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	balance, err := c.rpcClient.GetBalance(ctx, account, c.commitment)
	if err != nil {
		return 0, fmt.Errorf("failed to get SOL balance: %w", err)
	}
	return balance.Value, nil
}

// AccountExists reports whether the account is visible on chain at the
// client's commitment level.
func (c *RPCClient) AccountExists(ctx context.Context, account solana.PublicKey) (bool, error) {
	info, err := c.rpcClient.GetAccountInfoWithOpts(ctx, account, &rpc.GetAccountInfoOpts{
		Commitment: c.commitment,
	})
	if err != nil {
		if isNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get account info: %w", err)
	}
	return info.Value != nil, nil
}

// TokenBalance returns the raw token balance of a token account.
func (c *RPCClient) TokenBalance(ctx context.Context, tokenAccount solana.PublicKey) (uint64, error) {
	balance, err := c.rpcClient.GetTokenAccountBalance(ctx, tokenAccount, c.commitment)
	if err != nil {
		return 0, fmt.Errorf("failed to get token account balance: %w", err)
	}

	if balance.Value == nil {
		return 0, nil
	}

	amount, err := strconv.ParseUint(balance.Value.Amount, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse token balance amount: %w", err)
	}

	return amount, nil
}

// LatestBlockhash returns a recent blockhash.
// (GetRecentBlockhash is deprecated, use GetLatestBlockhash)
func (c *RPCClient) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	recent, err := c.rpcClient.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Hash{}, fmt.Errorf("failed to get latest blockhash: %w", err)
	}
	return recent.Value.Blockhash, nil
}

// SendAndConfirm submits a signed transaction and polls signature status
// until the configured commitment is reached or the confirm timeout expires.
// The transaction may still land on-chain after a timeout; callers must not
// blindly resubmit.
func (c *RPCClient) SendAndConfirm(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := c.rpcClient.SendTransactionWithOpts(
		ctx,
		tx,
		rpc.TransactionOpts{
			SkipPreflight:       false,
			PreflightCommitment: c.commitment,
		},
	)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to send transaction: %w", err)
	}

	confirmCtx, cancel := context.WithTimeout(ctx, c.confirmTimeout)
	defer cancel()

	ticker := time.NewTicker(c.confirmPollDelay)
	defer ticker.Stop()

	for {
		select {
		case <-confirmCtx.Done():
			return sig, fmt.Errorf("transaction %s not confirmed within %s: %w",
				sig, c.confirmTimeout, confirmCtx.Err())
		case <-ticker.C:
		}

		statuses, err := c.rpcClient.GetSignatureStatuses(confirmCtx, false, sig)
		if err != nil {
			// Status reads are transient; keep polling until the deadline
			continue
		}
		if len(statuses.Value) == 0 || statuses.Value[0] == nil {
			continue
		}

		status := statuses.Value[0]
		if status.Err != nil {
			return sig, fmt.Errorf("transaction %s failed on-chain: %v", sig, status.Err)
		}
		if commitmentReached(status.ConfirmationStatus, c.commitment) {
			return sig, nil
		}
	}
}

// commitmentReached reports whether an observed confirmation status
// satisfies the wanted commitment level.
func commitmentReached(got rpc.ConfirmationStatusType, want rpc.CommitmentType) bool {
	switch want {
	case rpc.CommitmentFinalized:
		return got == rpc.ConfirmationStatusFinalized
	case rpc.CommitmentConfirmed:
		return got == rpc.ConfirmationStatusConfirmed || got == rpc.ConfirmationStatusFinalized
	default:
		return got != ""
	}
}

// isNotFoundError checks if the error indicates a missing account
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, rpc.ErrNotFound) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "could not find account") ||
		strings.Contains(errStr, "not found")
}
