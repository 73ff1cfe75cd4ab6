package trade

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"solana-copybot/internal/model"
)

type fakeChain struct {
	solBalance   uint64
	solErr       error
	tokenBalance uint64
	tokenErr     error

	balanceCalls int
	tokenCalls   int
}

func (f *fakeChain) Balance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	f.balanceCalls++
	if f.solErr != nil {
		return 0, f.solErr
	}
	return f.solBalance, nil
}

func (f *fakeChain) AccountExists(ctx context.Context, account solana.PublicKey) (bool, error) {
	return true, nil
}

func (f *fakeChain) TokenBalance(ctx context.Context, tokenAccount solana.PublicKey) (uint64, error) {
	f.tokenCalls++
	if f.tokenErr != nil {
		return 0, f.tokenErr
	}
	return f.tokenBalance, nil
}

func (f *fakeChain) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	return solana.Hash{}, nil
}

func (f *fakeChain) SendAndConfirm(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	return solana.Signature{}, nil
}

type fakeAccounts struct {
	ensureCalls int
	ensureErr   error
}

func (f *fakeAccounts) Ensure(ctx context.Context, mint solana.PublicKey) error {
	f.ensureCalls++
	return f.ensureErr
}

func (f *fakeAccounts) AssociatedAccount(mint solana.PublicKey) (solana.PublicKey, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(solana.NewWallet().PublicKey(), mint)
	return ata, err
}

type fakeSwapper struct {
	calls         int
	lastMint      string
	lastAmount    uint64
	lastDirection model.Direction
	sig           solana.Signature
	err           error
}

func (f *fakeSwapper) Swap(ctx context.Context, mint string, amount uint64, direction model.Direction) (solana.Signature, error) {
	f.calls++
	f.lastMint = mint
	f.lastAmount = amount
	f.lastDirection = direction
	if f.err != nil {
		return solana.Signature{}, f.err
	}
	return f.sig, nil
}

func newTestExecutor(chainClient *fakeChain, accounts *fakeAccounts, swapper *fakeSwapper) *Executor {
	return NewExecutor(chainClient, accounts, swapper, solana.NewWallet().PublicKey(), zap.NewNop().Sugar())
}

func testMint() string {
	return solana.NewWallet().PublicKey().String()
}

func TestBuyZeroAmountRejected(t *testing.T) {
	chainClient := &fakeChain{solBalance: 1_000_000_000}
	swapper := &fakeSwapper{}
	e := newTestExecutor(chainClient, &fakeAccounts{}, swapper)

	_, err := e.Buy(context.Background(), testMint(), 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidAmount))
	assert.True(t, IsValidationError(err))

	// Must not reach the network
	assert.Equal(t, 0, chainClient.balanceCalls)
	assert.Equal(t, 0, swapper.calls)
}

func TestBuyInvalidMintRejectedSynchronously(t *testing.T) {
	chainClient := &fakeChain{solBalance: 1_000_000_000}
	accounts := &fakeAccounts{}
	swapper := &fakeSwapper{}
	e := newTestExecutor(chainClient, accounts, swapper)

	_, err := e.Buy(context.Background(), "not-a-valid-pubkey", 100)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	assert.Equal(t, 0, chainClient.balanceCalls)
	assert.Equal(t, 0, accounts.ensureCalls)
	assert.Equal(t, 0, swapper.calls)
}

func TestBuyInsufficientFunds(t *testing.T) {
	chainClient := &fakeChain{solBalance: 500}
	accounts := &fakeAccounts{}
	swapper := &fakeSwapper{}
	e := newTestExecutor(chainClient, accounts, swapper)

	_, err := e.Buy(context.Background(), testMint(), 1_000)
	require.Error(t, err)

	var fundsErr *InsufficientFundsError
	require.ErrorAs(t, err, &fundsErr)
	assert.EqualValues(t, 500, fundsErr.Have)
	assert.EqualValues(t, 1_000, fundsErr.Need)

	assert.Equal(t, 0, accounts.ensureCalls)
	assert.Equal(t, 0, swapper.calls)
}

func TestBuyEnsuresAccountThenSwaps(t *testing.T) {
	chainClient := &fakeChain{solBalance: 2_000_000_000}
	accounts := &fakeAccounts{}
	swapper := &fakeSwapper{sig: solana.Signature{9}}
	e := newTestExecutor(chainClient, accounts, swapper)

	mint := testMint()
	sig, err := e.Buy(context.Background(), mint, 1_000_000_000)
	require.NoError(t, err)
	assert.Equal(t, solana.Signature{9}, sig)

	assert.Equal(t, 1, accounts.ensureCalls)
	assert.Equal(t, 1, swapper.calls)
	assert.Equal(t, mint, swapper.lastMint)
	assert.EqualValues(t, 1_000_000_000, swapper.lastAmount)
	assert.Equal(t, model.DirectionBuy, swapper.lastDirection)
}

func TestBuyFailedEnsureAbortsSwap(t *testing.T) {
	chainClient := &fakeChain{solBalance: 2_000_000_000}
	accounts := &fakeAccounts{ensureErr: errors.New("account not visible")}
	swapper := &fakeSwapper{}
	e := newTestExecutor(chainClient, accounts, swapper)

	_, err := e.Buy(context.Background(), testMint(), 1_000)
	require.Error(t, err)
	assert.Equal(t, 0, swapper.calls)
}

func TestSellZeroAmountRejected(t *testing.T) {
	swapper := &fakeSwapper{}
	e := newTestExecutor(&fakeChain{}, &fakeAccounts{}, swapper)

	_, err := e.Sell(context.Background(), testMint(), 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidAmount))
	assert.Equal(t, 0, swapper.calls)
}

func TestSellNoTokensDistinctFromInsufficient(t *testing.T) {
	// Zero balance: the "nothing to sell at all" case
	chainClient := &fakeChain{tokenBalance: 0}
	swapper := &fakeSwapper{}
	e := newTestExecutor(chainClient, &fakeAccounts{}, swapper)

	_, err := e.Sell(context.Background(), testMint(), 100)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoTokens))

	var tokenErr *InsufficientTokenBalanceError
	assert.False(t, errors.As(err, &tokenErr))
	assert.Equal(t, 0, swapper.calls)
}

func TestSellInsufficientTokenBalance(t *testing.T) {
	chainClient := &fakeChain{tokenBalance: 50}
	swapper := &fakeSwapper{}
	e := newTestExecutor(chainClient, &fakeAccounts{}, swapper)

	_, err := e.Sell(context.Background(), testMint(), 100)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoTokens))

	var tokenErr *InsufficientTokenBalanceError
	require.ErrorAs(t, err, &tokenErr)
	assert.EqualValues(t, 50, tokenErr.Have)
	assert.EqualValues(t, 100, tokenErr.Need)
	assert.Equal(t, 0, swapper.calls)
}

func TestSellDelegatesToSwapper(t *testing.T) {
	chainClient := &fakeChain{tokenBalance: 500}
	swapper := &fakeSwapper{sig: solana.Signature{7}}
	e := newTestExecutor(chainClient, &fakeAccounts{}, swapper)

	mint := testMint()
	sig, err := e.Sell(context.Background(), mint, 200)
	require.NoError(t, err)
	assert.Equal(t, solana.Signature{7}, sig)
	assert.Equal(t, model.DirectionSell, swapper.lastDirection)
	assert.EqualValues(t, 200, swapper.lastAmount)
}

func TestTokenBalanceDefaultsToZeroOnReadFailure(t *testing.T) {
	chainClient := &fakeChain{tokenErr: errors.New("rpc timeout")}
	e := newTestExecutor(chainClient, &fakeAccounts{}, &fakeSwapper{})

	assert.EqualValues(t, 0, e.TokenBalance(context.Background(), testMint()))
}

func TestTokenBalanceDefaultsToZeroOnEnsureFailure(t *testing.T) {
	chainClient := &fakeChain{tokenBalance: 123}
	accounts := &fakeAccounts{ensureErr: errors.New("creation timed out")}
	e := newTestExecutor(chainClient, accounts, &fakeSwapper{})

	assert.EqualValues(t, 0, e.TokenBalance(context.Background(), testMint()))
	assert.Equal(t, 0, chainClient.tokenCalls)
}
