package trade

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"solana-copybot/internal/chain"
	"solana-copybot/internal/common"
	"solana-copybot/internal/model"
)

// tradeExecutor is the slice of Executor the copier drives.
type tradeExecutor interface {
	Buy(ctx context.Context, mint string, amount uint64) (solana.Signature, error)
	Sell(ctx context.Context, mint string, amount uint64) (solana.Signature, error)
	TokenBalance(ctx context.Context, mint string) uint64
}

// Copier turns observed target trades into scaled trades of our own.
// One attempt per invocation: all retrying lives in the swap client.
type Copier struct {
	exec        tradeExecutor
	chainClient chain.Client
	walletKey   solana.PublicKey
	feeReserve  uint64 // lamports held back for transaction fees on buys
	log         *zap.SugaredLogger
}

// NewCopier creates a copy-trade scaler for one wallet.
func NewCopier(exec tradeExecutor, chainClient chain.Client, walletKey solana.PublicKey, feeReserveLamports uint64, log *zap.SugaredLogger) *Copier {
	return &Copier{
		exec:        exec,
		chainClient: chainClient,
		walletKey:   walletKey,
		feeReserve:  feeReserveLamports,
		log:         log,
	}
}

// Execute copies a target trade at 1/scale of its observed amount.
// The result, success or failure, is returned verbatim to the caller.
func (c *Copier) Execute(ctx context.Context, event model.TradeEvent, scale uint64) (solana.Signature, error) {
	if event.Amount == 0 {
		c.log.Info("no target transaction amount provided, skipping swap")
		return solana.Signature{}, &ValidationError{Reason: "no target amount provided for swap"}
	}
	if !event.Direction.IsValid() {
		return solana.Signature{}, &ValidationError{Reason: "unknown swap direction"}
	}
	if scale == 0 {
		return solana.Signature{}, &ValidationError{Reason: "scale must be at least 1"}
	}

	amount := event.Amount / scale
	c.log.Infof("copying target transaction amount: %s SOL scaled by 1/%d = %s SOL",
		common.LamportsToSOL(event.Amount), scale, common.LamportsToSOL(amount))

	if event.Direction == model.DirectionBuy {
		// The wallet must cover the buy plus a reserve for fees
		required := amount + c.feeReserve
		balance, err := c.chainClient.Balance(ctx, c.walletKey)
		if err != nil {
			return solana.Signature{}, err
		}
		if balance < required {
			return solana.Signature{}, &InsufficientFundsError{Have: balance, Need: required}
		}

		c.log.Infof("final buy amount after adjustments: %s SOL", common.LamportsToSOL(amount))
	}

	var (
		sig solana.Signature
		err error
	)
	switch event.Direction {
	case model.DirectionBuy:
		c.log.Infof("initiating buy transaction for %s SOL with mint %s",
			common.LamportsToSOL(amount), event.Mint)
		sig, err = c.exec.Buy(ctx, event.Mint, amount)
	case model.DirectionSell:
		sig, err = c.exec.Sell(ctx, event.Mint, amount)
	}

	if err != nil {
		c.log.Errorf("swap failed: %v", err)
		c.diagnose(ctx, event)
		return solana.Signature{}, err
	}

	c.log.Infof("swap executed successfully: %s", sig)
	return sig, nil
}

// diagnose logs current balances after a failed swap. Strictly
// best-effort observability: its own failures are ignored and the
// primary error is never replaced.
func (c *Copier) diagnose(ctx context.Context, event model.TradeEvent) {
	if event.Direction == model.DirectionBuy {
		if balance, err := c.chainClient.Balance(ctx, c.walletKey); err == nil {
			c.log.Infof("current wallet balance: %s SOL", common.LamportsToSOL(balance))
		}
		return
	}
	balance := c.exec.TokenBalance(ctx, event.Mint)
	c.log.Infof("current token balance: %d", balance)
}
