package swapapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"solana-copybot/internal/chain"
	"solana-copybot/internal/model"
)

// Signer authorizes transactions returned by the routing service.
type Signer interface {
	PublicKey() solana.PublicKey
	Sign(tx *solana.Transaction) error
}

// ClientConfig bounds the retry policy. The policy is data, not control
// flow: tests exercise it with an injected sleep.
type ClientConfig struct {
	APIURL     string
	Attempts   int
	RetryDelay time.Duration
	Options    Options
}

// Client sends swap requests to the routing service and submits the
// resulting transactions to the chain.
type Client struct {
	httpClient  *http.Client
	wallet      Signer
	chainClient chain.Client
	apiURL      string
	attempts    int
	retryDelay  time.Duration
	opts        Options
	sleep       func(context.Context, time.Duration)
	log         *zap.SugaredLogger
}

// NewClient creates a swap client.
func NewClient(cfg ClientConfig, wallet Signer, chainClient chain.Client, log *zap.SugaredLogger) *Client {
	attempts := cfg.Attempts
	if attempts <= 0 {
		attempts = 3
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = 500 * time.Millisecond
	}

	return &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		wallet:      wallet,
		chainClient: chainClient,
		apiURL:      cfg.APIURL,
		attempts:    attempts,
		retryDelay:  retryDelay,
		opts:        cfg.Options,
		sleep:       sleepContext,
		log:         log,
	}
}

// sleepContext waits out d or returns early when ctx is done.
func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// Swap executes one swap: request the routing service, decode and sign
// the returned transaction, submit-and-confirm against the RPC node.
//
// Transport errors and non-2xx statuses are retried up to the attempt
// bound with a fixed delay, re-encoding a fresh request each time because
// the upstream transaction blob is blockhash-bounded. A ctx canceled
// during the delay stops the loop immediately. Once a transaction has
// been signed and submitted, no retry happens: a submission that may
// have partially succeeded must not be resubmitted.
func (c *Client) Swap(ctx context.Context, mint string, amount uint64, direction model.Direction) (solana.Signature, error) {
	c.log.Infof("sending %s request to swap API for %d of mint %s", direction, amount, mint)

	var lastErr error

	for attempt := 1; attempt <= c.attempts; attempt++ {
		if attempt > 1 {
			c.log.Warnf("retrying swap request (%d/%d)", attempt, c.attempts)
			c.sleep(ctx, c.retryDelay)
			if err := ctx.Err(); err != nil {
				if lastErr != nil {
					return solana.Signature{}, fmt.Errorf("%w: %w", err, lastErr)
				}
				return solana.Signature{}, err
			}
		}

		// Fresh payload per attempt: blockhash validity windows expire
		req, err := NewRequest(c.wallet.PublicKey(), direction, mint, amount, c.opts)
		if err != nil {
			return solana.Signature{}, err
		}

		body, err := json.Marshal(req)
		if err != nil {
			return solana.Signature{}, fmt.Errorf("failed to marshal swap request: %w", err)
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
		if err != nil {
			return solana.Signature{}, fmt.Errorf("failed to build swap request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			lastErr = fmt.Errorf("swap request failed: %w", err)
			c.log.Errorf("swap request error: %v", err)
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			errBody, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			lastErr = &APIError{Status: resp.StatusCode, Body: string(bytes.TrimSpace(errBody))}
			c.log.Errorf("swap API error: %s (status %d)", errBody, resp.StatusCode)
			continue
		}

		var out response
		err = json.NewDecoder(resp.Body).Decode(&out)
		resp.Body.Close()
		if err != nil {
			return solana.Signature{}, &ProtocolError{Reason: "response body is not valid JSON", Err: err}
		}

		tx, err := decodeTransaction(out.Transaction)
		if err != nil {
			return solana.Signature{}, err
		}

		if err := c.wallet.Sign(tx); err != nil {
			return solana.Signature{}, err
		}

		c.log.Info("sending transaction to the network...")

		sig, err := c.chainClient.SendAndConfirm(ctx, tx)
		if err != nil {
			return sig, &SubmissionError{Err: err}
		}

		return sig, nil
	}

	if lastErr == nil {
		return solana.Signature{}, ErrRetriesExhausted
	}
	return solana.Signature{}, fmt.Errorf("%w: %w", ErrRetriesExhausted, lastErr)
}
