package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pricehive/pricehive/internal/repository"
	"github.com/pricehive/pricehive/pkg/logger"
)

// NotificationPruneConfig contains configuration for the prune worker
type NotificationPruneConfig struct {
	// ScanInterval is the interval between prune passes
	ScanInterval time.Duration
	// Retention is how long read notifications are kept
	Retention time.Duration
}

// DefaultNotificationPruneConfig returns default configuration
func DefaultNotificationPruneConfig() *NotificationPruneConfig {
	return &NotificationPruneConfig{
		ScanInterval: 1 * time.Hour,
		Retention:    30 * 24 * time.Hour,
	}
}

// NotificationPruneWorker periodically removes read notifications
// older than the retention window.
type NotificationPruneWorker struct {
	notificationRepo repository.NotificationRepository
	config           *NotificationPruneConfig
	log              *logger.Logger
	stopCh           chan struct{}
	wg               sync.WaitGroup
	mu               sync.Mutex
	running          bool

	totalPruned int64
	lastScan    time.Time
}

// NewNotificationPruneWorker creates a new prune worker
func NewNotificationPruneWorker(notificationRepo repository.NotificationRepository, config *NotificationPruneConfig) *NotificationPruneWorker {
	if config == nil {
		config = DefaultNotificationPruneConfig()
	}

	return &NotificationPruneWorker{
		notificationRepo: notificationRepo,
		config:           config,
		log:              logger.Get(),
		stopCh:           make(chan struct{}),
	}
}

// Start starts the prune worker
func (w *NotificationPruneWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("notification prune worker already running")
	}
	w.running = true
	w.mu.Unlock()

	w.log.Info("Starting notification prune worker")

	w.wg.Add(1)
	go w.run(ctx)

	return nil
}

// Stop stops the prune worker and waits for the current pass
func (w *NotificationPruneWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	w.log.Info("Stopping notification prune worker")
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("Notification prune worker stopped")
}

func (w *NotificationPruneWorker) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.ScanInterval)
	defer ticker.Stop()

	w.prune(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.prune(ctx)
		}
	}
}

func (w *NotificationPruneWorker) prune(ctx context.Context) {
	w.mu.Lock()
	w.lastScan = time.Now()
	w.mu.Unlock()

	cutoff := time.Now().Add(-w.config.Retention)
	pruned, err := w.notificationRepo.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		w.log.Error(fmt.Sprintf("Failed to prune notifications: %v", err))
		return
	}

	if pruned > 0 {
		w.mu.Lock()
		w.totalPruned += pruned
		w.mu.Unlock()
		w.log.Info(fmt.Sprintf("Pruned %d read notifications older than %s", pruned, w.config.Retention))
	}
}

// Stats returns worker statistics
func (w *NotificationPruneWorker) Stats() (running bool, totalPruned int64, lastScan time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running, w.totalPruned, w.lastScan
}
