package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"usaha-chatbot/catalog"
	"usaha-chatbot/geocode"
	"usaha-chatbot/models"
)

type WorkerPool struct {
	jobs    chan *nats.Msg
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	handler func(ctx context.Context, msg []byte) error
}

func NewWorkerPool(ctx context.Context, maxWorkers, queueSize int, handler func(ctx context.Context, msg []byte) error) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 2
	}
	if queueSize < 1 {
		queueSize = 100
	}

	poolCtx, cancel := context.WithCancel(ctx)

	pool := &WorkerPool{
		jobs:    make(chan *nats.Msg, queueSize),
		ctx:     poolCtx,
		cancel:  cancel,
		handler: handler,
	}

	for i := 0; i < maxWorkers; i++ {
		pool.wg.Add(1)
		go pool.worker()
	}

	return pool
}

func (w *WorkerPool) worker() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case msg, ok := <-w.jobs:
			if !ok {
				return
			}
			w.processMessage(msg)
		}
	}
}

func (w *WorkerPool) processMessage(msg *nats.Msg) {
	if err := w.handler(w.ctx, msg.Data); err != nil {
		slog.Error("failed to handle change event", "err", err)
		if err := msg.Nak(); err != nil {
			slog.Error("failed to nak message", "err", err)
		}
		return
	}

	if err := msg.Ack(); err != nil {
		slog.Error("failed to ack message", "err", err)
	}
}

// Submit sends a message to the worker pool. Blocks if queue is full
// (backpressure). Returns false if context is cancelled.
func (w *WorkerPool) Submit(ctx context.Context, msg *nats.Msg) bool {
	select {
	case w.jobs <- msg:
		return true
	case <-ctx.Done():
		return false
	case <-w.ctx.Done():
		return false
	}
}

func (w *WorkerPool) Stop() {
	w.cancel()
	close(w.jobs)
}

func (w *WorkerPool) Wait() {
	w.wg.Wait()
}

// Refresher reacts to change events: it pre-resolves the row's coordinates
// and schedules a vocabulary reload. Reloads are debounced so a burst of
// changes triggers a single catalog scan.
type Refresher struct {
	vocab    *catalog.Vocabulary
	cache    *geocode.Cache
	debounce time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

func NewRefresher(vocab *catalog.Vocabulary, cache *geocode.Cache, debounce time.Duration) *Refresher {
	if debounce <= 0 {
		debounce = 5 * time.Second
	}

	return &Refresher{
		vocab:    vocab,
		cache:    cache,
		debounce: debounce,
	}
}

func (r *Refresher) Handle(ctx context.Context, msg []byte) error {
	var event models.ChangeEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		return fmt.Errorf("failed to decode change event: %w", err)
	}

	if event.Kind != models.ChangeDelete && event.Latitude != nil && event.Longitude != nil {
		r.cache.Warm(ctx, *event.Latitude, *event.Longitude)
	}

	r.scheduleRefresh()

	return nil
}

func (r *Refresher) scheduleRefresh() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.timer != nil {
		r.timer.Stop()
	}

	r.timer = time.AfterFunc(r.debounce, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := r.vocab.Refresh(ctx); err != nil {
			slog.Error("failed to refresh vocabulary", "err", err)
			return
		}
		slog.Info("vocabulary refreshed")
	})
}
