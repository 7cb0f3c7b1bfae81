// Package persistence runs best-effort writes to the durable store.
//
// Writes are queued and executed in submission order by a single worker.
// A write that fails is logged and dropped; it is never retried and never
// reported back to the submitter. The in-memory state stays authoritative.
package persistence

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

const (
	defaultQueueSize = 256
	defaultTimeout   = 5 * time.Second
)

// Config holds configuration for the writer
type Config struct {
	Log       *slog.Logger
	QueueSize int
	Timeout   time.Duration
}

// Write is one unit of work against the store
type Write func(ctx context.Context) error

type job struct {
	op     string
	roomID string
	write  Write
}

// Writer is the best-effort side channel to the store
type Writer struct {
	log     *slog.Logger
	timeout time.Duration
	queue   chan job
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewWriter creates a writer and starts its worker
func NewWriter(cfg *Config) (*Writer, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Log == nil {
		return nil, errors.New("logger cannot be nil")
	}

	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	w := &Writer{
		log:     cfg.Log,
		timeout: timeout,
		queue:   make(chan job, queueSize),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Submit queues a write without waiting for it. It returns false when the
// write was dropped because the queue is full or the writer is closed.
func (w *Writer) Submit(op, roomID string, write Write) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		w.log.Debug("Persistence writer closed, dropping write", "op", op, "room_id", roomID)
		return false
	}

	select {
	case w.queue <- job{op: op, roomID: roomID, write: write}:
		return true
	default:
		w.log.Warn("Persistence queue full, dropping write", "op", op, "room_id", roomID)
		return false
	}
}

// Close stops accepting writes and waits for queued ones to finish
func (w *Writer) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.queue)
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *Writer) run() {
	defer w.wg.Done()
	for j := range w.queue {
		w.execute(j)
	}
}

func (w *Writer) execute(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			w.log.Error("Persistence write panicked", "op", j.op, "room_id", j.roomID, "panic", r)
		}
	}()

	if err := j.write(ctx); err != nil {
		w.log.Error("Persistence write failed", "op", j.op, "room_id", j.roomID, "error", err)
		return
	}
	w.log.Debug("Persistence write done", "op", j.op, "room_id", j.roomID)
}
