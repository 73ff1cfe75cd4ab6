package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/joho/godotenv"

	"solana-copybot/internal/chain"
	"solana-copybot/internal/common"
	"solana-copybot/internal/config"
	"solana-copybot/internal/feed"
	"solana-copybot/internal/logger"
	"solana-copybot/internal/model"
	"solana-copybot/internal/swapapi"
	"solana-copybot/internal/tokenacct"
	"solana-copybot/internal/trade"
	"solana-copybot/internal/wallet"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	scaleFlag := flag.Uint64("scale", 0, "override SCALE: copy 1/N of each target amount")
	feeReserveFlag := flag.String("fee-reserve", "", "override FEE_RESERVE_LAMPORTS, in SOL (e.g. 0.01)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.S().Fatalf("failed to load config: %v", err)
	}
	if *scaleFlag > 0 {
		cfg.Scale = *scaleFlag
	}
	if *feeReserveFlag != "" {
		reserve, err := common.SOLToLamports(*feeReserveFlag)
		if err != nil {
			logger.S().Fatalf("invalid -fee-reserve value %q: %v", *feeReserveFlag, err)
		}
		cfg.FeeReserveLamports = reserve
	}

	logger.Init(logger.Options{
		Level:      cfg.LogLevel,
		Output:     cfg.LogOutput,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
	log := logger.S()

	log.Infof("starting copy-trade bot with scale 1/%d", cfg.Scale)

	password, err := wallet.PromptPassword("Enter wallet password: ")
	if err != nil {
		log.Fatalf("failed to read password: %v", err)
	}
	w, err := wallet.Load(cfg.WalletFile, password)
	clear(password)
	if err != nil {
		log.Fatalf("failed to unlock wallet: %v", err)
	}
	defer w.Zero()

	log.Infof("bot wallet: %s", w.PublicKey())

	chainClient := chain.NewRPCClient(cfg.RPCURL, chain.RPCOptions{
		Commitment:       rpc.CommitmentType(cfg.Commitment),
		ConfirmTimeout:   cfg.ConfirmTimeout,
		ConfirmPollDelay: cfg.ConfirmPollDelay,
	})

	accounts := tokenacct.NewManager(chainClient, w, tokenacct.ManagerConfig{
		PollAttempts: cfg.AccountPollAttempts,
		PollDelay:    cfg.AccountPollDelay,
	}, log)

	swapClient := swapapi.NewClient(swapapi.ClientConfig{
		APIURL:     cfg.SwapAPIURL,
		Attempts:   cfg.SwapAttempts,
		RetryDelay: cfg.SwapRetryDelay,
		Options: swapapi.Options{
			PriorityFeeLevel: cfg.PriorityFeeLevel,
			SlippageBps:      cfg.SlippageBps,
			Commitment:       cfg.Commitment,
		},
	}, w, chainClient, log)

	executor := trade.NewExecutor(chainClient, accounts, swapClient, w.PublicKey(), log)
	copier := trade.NewCopier(executor, chainClient, w.PublicKey(), cfg.FeeReserveLamports, log)

	dispatcher := trade.NewDispatcher(func(ctx context.Context, _ string, event model.TradeEvent) (solana.Signature, error) {
		return copier.Execute(ctx, event, cfg.Scale)
	}, 16)
	defer dispatcher.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events := make(chan model.TradeEvent)
	feedErr := make(chan error, 1)
	go func() {
		feedErr <- feed.NewJSONLines(os.Stdin, log).Run(ctx, events)
		close(events)
	}()

	walletKey := w.PublicKey().String()
	log.Info("bot initialization complete, consuming target events")

	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down")
			return
		case event, ok := <-events:
			if !ok {
				if err := <-feedErr; err != nil && err != context.Canceled {
					log.Errorf("event feed stopped: %v", err)
				}
				return
			}
			results, err := dispatcher.Submit(ctx, walletKey, event)
			if err != nil {
				log.Errorf("failed to submit event for mint %s: %v", event.Mint, err)
				continue
			}
			go func(event model.TradeEvent, results <-chan trade.Result) {
				res := <-results
				if res.Err != nil {
					log.Errorf("trade for mint %s failed: %v", event.Mint, res.Err)
					return
				}
				log.Infof("trade for mint %s confirmed: %s", event.Mint, res.Signature)
			}(event, results)
		}
	}
}
