package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const QueueStockAlerts = "jobs:stock_alerts"

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// StockAlertJob asks the pool to re-check one product against its reorder level.
type StockAlertJob struct {
	ProductID string `json:"product_id"`
}

// ErrBreakerOpen is returned while the dispatcher is fast-failing enqueues.
var ErrBreakerOpen = errors.New("alert dispatcher breaker open")

// breaker is a minimal circuit breaker around redis enqueues: after
// failureThreshold consecutive errors it rejects calls for openFor, so a dead
// redis costs callers nothing instead of a dial timeout per request.
type breaker struct {
	mu       sync.Mutex
	failures int
	openedAt time.Time
}

const (
	failureThreshold = 5
	openFor          = 30 * time.Second
)

func (b *breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failures < failureThreshold {
		return true
	}
	// open — permit a single probe once the window elapsed
	if time.Since(b.openedAt) >= openFor {
		b.openedAt = time.Now()
		return true
	}
	return false
}

func (b *breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		b.failures = 0
		return
	}
	b.failures++
	if b.failures == failureThreshold {
		b.openedAt = time.Now()
	}
}

// Dispatcher enqueues async jobs into a Redis list. The worker pool dequeues
// them via BRPOP. Enqueues are strictly best-effort: callers ignore errors.
type Dispatcher struct {
	rdb *redis.Client
	br  breaker
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueStockAlert pushes a low-stock check job for the product.
func (d *Dispatcher) EnqueueStockAlert(ctx context.Context, productID uuid.UUID) error {
	if d.rdb == nil {
		return nil // alerts disabled
	}
	if !d.br.allow() {
		return ErrBreakerOpen
	}
	err := d.enqueue(ctx, QueueStockAlerts, "stock_alert", StockAlertJob{ProductID: productID.String()}, 0)
	d.br.record(err)
	return err
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}, attempts int) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data, Attempts: attempts}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}
