package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config contains all configuration parameters for the bot. It is loaded
// once at startup and passed into component constructors; nothing re-reads
// the environment per request.
type Config struct {
	RPCURL     string `envconfig:"RPC_URL" default:"https://api.mainnet-beta.solana.com"`
	SwapAPIURL string `envconfig:"SWAP_API_URL" default:"https://public.jupiterapi.com/pump-fun/swap"`
	WalletFile string `envconfig:"WALLET_FILE" required:"true"`

	// Scale divides every copied amount: 1 mirrors the target trade
	// exactly, 10 executes a tenth of it.
	Scale uint64 `envconfig:"SCALE" default:"1"`

	SlippageBps      uint64 `envconfig:"SLIPPAGE_BPS" default:"100"`
	PriorityFeeLevel string `envconfig:"PRIORITY_FEE_LEVEL" default:"high"`
	Commitment       string `envconfig:"COMMITMENT" default:"confirmed"`

	// FeeReserveLamports is held back on top of every buy amount so the
	// wallet can still pay transaction fees.
	FeeReserveLamports uint64 `envconfig:"FEE_RESERVE_LAMPORTS" default:"10000000"`

	SwapAttempts   int           `envconfig:"SWAP_ATTEMPTS" default:"3"`
	SwapRetryDelay time.Duration `envconfig:"SWAP_RETRY_DELAY" default:"500ms"`

	AccountPollAttempts int           `envconfig:"ACCOUNT_POLL_ATTEMPTS" default:"3"`
	AccountPollDelay    time.Duration `envconfig:"ACCOUNT_POLL_DELAY" default:"1s"`

	ConfirmTimeout   time.Duration `envconfig:"CONFIRM_TIMEOUT" default:"45s"`
	ConfirmPollDelay time.Duration `envconfig:"CONFIRM_POLL_DELAY" default:"500ms"`

	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
	LogOutput     string `envconfig:"LOG_OUTPUT" default:"console"`
	LogFile       string `envconfig:"LOG_FILE" default:"copybot.log"`
	LogMaxSizeMB  int    `envconfig:"LOG_MAX_SIZE_MB" default:"50"`
	LogMaxBackups int    `envconfig:"LOG_MAX_BACKUPS" default:"5"`
	LogMaxAgeDays int    `envconfig:"LOG_MAX_AGE_DAYS" default:"14"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if cfg.Scale == 0 {
		return nil, fmt.Errorf("SCALE must be at least 1")
	}
	return cfg, nil
}
