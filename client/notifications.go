package client

import (
	"context"
	"sync"
	"time"
)

// defaultPollInterval is how often the unread count refreshes.
const defaultPollInterval = 30 * time.Second

// CountSource supplies the unread-notification count. *Client
// satisfies it.
type CountSource interface {
	UnreadNotificationCount(ctx context.Context) (int, error)
}

// UnreadPoller periodically refreshes the unread-notification count
// and hands each value to the callback. Start/Stop tie the poll loop
// to the consuming view's lifetime.
type UnreadPoller struct {
	source   CountSource
	interval time.Duration
	onCount  func(int)

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewUnreadPoller creates a poller. interval <= 0 falls back to the
// default. onCount runs on the poller goroutine.
func NewUnreadPoller(source CountSource, interval time.Duration, onCount func(int)) *UnreadPoller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &UnreadPoller{
		source:   source,
		interval: interval,
		onCount:  onCount,
	}
}

// Start begins polling, fetching once immediately. Starting a running
// poller is a no-op.
func (p *UnreadPoller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.running = true
	p.stopCh = make(chan struct{})

	p.wg.Add(1)
	go p.run(ctx, p.stopCh)
}

// Stop cancels the poll loop and waits for it to exit. Safe to call
// when not running.
func (p *UnreadPoller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stopCh)
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *UnreadPoller) run(ctx context.Context, stopCh chan struct{}) {
	defer p.wg.Done()

	p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

// poll fetches once. Transport errors are skipped, the next tick
// retries.
func (p *UnreadPoller) poll(ctx context.Context) {
	count, err := p.source.UnreadNotificationCount(ctx)
	if err != nil {
		return
	}
	if p.onCount != nil {
		p.onCount(count)
	}
}
