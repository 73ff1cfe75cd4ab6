package trade

import (
	"errors"
	"fmt"

	"solana-copybot/internal/common"
)

// ErrInvalidAmount rejects zero-amount trades before they reach the network.
var ErrInvalidAmount = errors.New("invalid amount")

// ErrNoTokens is the distinct zero-balance sell failure: there is nothing
// to sell at all, as opposed to not enough.
var ErrNoTokens = errors.New("no tokens available in wallet to sell")

// ValidationError rejects malformed caller input before any network
// activity: bad mint, zero amount, zero scale, missing target amount.
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *ValidationError) Unwrap() error { return e.Err }

// IsValidationError checks if err is a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// InsufficientFundsError means the wallet's SOL balance cannot cover the
// requested amount (plus the fee reserve, for scaled buys).
type InsufficientFundsError struct {
	Have uint64 // lamports
	Need uint64 // lamports
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient SOL balance: have %s SOL, need %s SOL",
		common.LamportsToSOL(e.Have), common.LamportsToSOL(e.Need))
}

// InsufficientTokenBalanceError means the wallet holds some of the token
// but less than the requested sell amount.
type InsufficientTokenBalanceError struct {
	Have uint64
	Need uint64
}

func (e *InsufficientTokenBalanceError) Error() string {
	return fmt.Sprintf("insufficient token balance: have %d tokens, trying to sell %d tokens",
		e.Have, e.Need)
}
