package trade

import (
	"context"
	"errors"
	"sync"

	"github.com/gagliardetto/solana-go"

	"solana-copybot/internal/model"
)

// ErrDispatcherClosed is returned by Submit after Close.
var ErrDispatcherClosed = errors.New("dispatcher is closed")

// Result is the terminal outcome of one dispatched trade attempt.
type Result struct {
	Signature solana.Signature
	Err       error
}

// ExecuteFunc runs one trade attempt for a wallet.
type ExecuteFunc func(ctx context.Context, walletKey string, event model.TradeEvent) (solana.Signature, error)

// Dispatcher serializes trade attempts per wallet. Transactions from one
// wallet share a blockhash/sequencing point, so concurrent submissions
// for the same wallet risk reference collisions and wasted signatures;
// attempts for different wallets run fully in parallel.
type Dispatcher struct {
	mu        sync.Mutex
	workers   map[string]chan task
	execute   ExecuteFunc
	queueSize int
	closed    bool
	done      chan struct{}
	pending   sync.WaitGroup
	wg        sync.WaitGroup
}

type task struct {
	ctx    context.Context
	event  model.TradeEvent
	result chan Result
}

// NewDispatcher creates a dispatcher with the given per-wallet queue depth.
func NewDispatcher(execute ExecuteFunc, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 16
	}
	return &Dispatcher{
		workers:   make(map[string]chan task),
		execute:   execute,
		queueSize: queueSize,
		done:      make(chan struct{}),
	}
}

// Submit enqueues a trade event onto the wallet's serial queue and
// returns a channel that will receive the single Result. A full queue
// blocks until there is room, ctx is done, or the dispatcher closes.
func (d *Dispatcher) Submit(ctx context.Context, walletKey string, event model.TradeEvent) (<-chan Result, error) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil, ErrDispatcherClosed
	}
	queue, ok := d.workers[walletKey]
	if !ok {
		queue = make(chan task, d.queueSize)
		d.workers[walletKey] = queue
		d.wg.Add(1)
		go d.run(walletKey, queue)
	}
	// Registered before releasing the lock so Close cannot close the
	// queue while this sender is parked on it.
	d.pending.Add(1)
	d.mu.Unlock()
	defer d.pending.Done()

	result := make(chan Result, 1)
	select {
	case queue <- task{ctx: ctx, event: event, result: result}:
		return result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-d.done:
		return nil, ErrDispatcherClosed
	}
}

// run is the single worker for one wallet; it alone executes that
// wallet's trade attempts, in submission order.
func (d *Dispatcher) run(walletKey string, queue chan task) {
	defer d.wg.Done()
	for t := range queue {
		sig, err := d.execute(t.ctx, walletKey, t.event)
		t.result <- Result{Signature: sig, Err: err}
	}
}

// Close stops accepting submissions, unblocks senders parked on full
// queues, drains every queue, and waits for in-flight attempts to
// finish. Queues are closed only after all parked senders have
// returned, so a blocked Submit never panics on a closed channel.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.done)
	d.mu.Unlock()

	d.pending.Wait()

	d.mu.Lock()
	for _, queue := range d.workers {
		close(queue)
	}
	d.mu.Unlock()

	d.wg.Wait()
}
