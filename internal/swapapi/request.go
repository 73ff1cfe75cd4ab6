// Package swapapi talks to the swap-routing service: it encodes swap
// requests, decodes the returned transaction blob, and drives the
// sign-and-submit round trip with bounded retries.
package swapapi

import (
	"encoding/base64"
	"fmt"
	"strconv"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"solana-copybot/internal/model"
)

// Options are the execution parameters attached to every swap request.
type Options struct {
	PriorityFeeLevel string
	SlippageBps      uint64
	Commitment       string
}

// Request is the JSON payload sent to the routing service.
type Request struct {
	Wallet           string `json:"wallet"`
	Type             string `json:"type"`
	Mint             string `json:"mint"`
	InAmount         string `json:"inAmount"`
	PriorityFeeLevel string `json:"priorityFeeLevel"`
	SlippageBps      string `json:"slippageBps"`
	Commitment       string `json:"commitment"`
}

// response is the routing service's success body: a base64-encoded
// serialized transaction.
type response struct {
	Transaction string `json:"transaction"`
}

// NewRequest builds a swap request payload. Building is pure: malformed
// inputs fail here, before any network call.
func NewRequest(wallet solana.PublicKey, direction model.Direction, mint string, amount uint64, opts Options) (*Request, error) {
	if _, err := solana.PublicKeyFromBase58(mint); err != nil {
		return nil, fmt.Errorf("invalid mint address %q: %w", mint, err)
	}
	if !direction.IsValid() {
		return nil, fmt.Errorf("invalid swap direction %q", direction)
	}
	if amount == 0 {
		return nil, fmt.Errorf("swap amount must be positive")
	}

	return &Request{
		Wallet:           wallet.String(),
		Type:             string(direction),
		Mint:             mint,
		InAmount:         strconv.FormatUint(amount, 10),
		PriorityFeeLevel: opts.PriorityFeeLevel,
		SlippageBps:      strconv.FormatUint(opts.SlippageBps, 10),
		Commitment:       opts.Commitment,
	}, nil
}

// decodeTransaction turns the routing service's base64 blob into an
// unsigned transaction. Any failure here means the service violated its
// contract and is never retried.
func decodeTransaction(encoded string) (*solana.Transaction, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, &ProtocolError{Reason: "transaction is not valid base64", Err: err}
	}

	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return nil, &ProtocolError{Reason: "transaction bytes do not deserialize", Err: err}
	}

	return tx, nil
}
