package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"shoperp/internal/dto"
	"shoperp/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	// AlertFeedKey is the capped list of recent low-stock alerts, newest first.
	AlertFeedKey  = "alerts:low_stock"
	alertFeedSize = 100
	maxAttempts   = 3
)

// Handlers holds the dependencies job handlers need. Wired at the composition
// root so the pool has access to the repositories.
type Handlers struct {
	Products repository.ProductRepository
}

// StartWorkerPool launches numWorkers goroutines consuming the alert queue.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, h *Handlers, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, h, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, h *Handlers, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueStockAlerts).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, h, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, h *Handlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	var err error
	switch job.Type {
	case "stock_alert":
		err = handleStockAlert(ctx, rdb, h, job.Payload)
	default:
		log.Warn().Str("type", job.Type).Msg("unknown job type")
		return
	}

	if err != nil {
		retryOrPark(ctx, rdb, queue, job, err)
	}
}

// retryOrPark re-enqueues a failed job up to maxAttempts, then parks it in the DLQ.
func retryOrPark(ctx context.Context, rdb *redis.Client, queue string, job Job, cause error) {
	job.Attempts++
	if job.Attempts >= maxAttempts {
		parkJob(ctx, rdb, queue, job, cause)
		return
	}
	encoded, err := json.Marshal(job)
	if err != nil {
		log.Error().Err(err).Msg("failed to re-enqueue job")
		return
	}
	if err := rdb.LPush(ctx, queue, encoded).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("failed to re-enqueue job")
	}
}

func handleStockAlert(ctx context.Context, rdb *redis.Client, h *Handlers, payload json.RawMessage) error {
	var req StockAlertJob
	if err := json.Unmarshal(payload, &req); err != nil {
		return err
	}
	pid, err := uuid.Parse(req.ProductID)
	if err != nil {
		return err
	}

	p, err := h.Products.FindByID(ctx, pid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Product may have been deleted after the sale — nothing to alert on.
			log.Debug().Str("product_id", req.ProductID).Msg("stock alert: product gone")
			return nil
		}
		return err // store hiccup — retry, then DLQ
	}
	if p.ReorderLevel <= 0 || p.Quantity > p.ReorderLevel {
		return nil
	}

	log.Warn().
		Str("product_id", p.ID.String()).
		Str("sku", p.SKU).
		Int("quantity", p.Quantity).
		Int("reorder_level", p.ReorderLevel).
		Msg("low stock")

	alert := dto.LowStockAlert{
		ProductID:    p.ID.String(),
		SKU:          p.SKU,
		Name:         p.Name,
		Quantity:     p.Quantity,
		ReorderLevel: p.ReorderLevel,
		At:           time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	pipe := rdb.Pipeline()
	pipe.LPush(ctx, AlertFeedKey, data)
	pipe.LTrim(ctx, AlertFeedKey, 0, alertFeedSize-1)
	_, err = pipe.Exec(ctx)
	return err
}

// RecentAlerts returns up to limit alert entries from the feed, newest first.
func RecentAlerts(ctx context.Context, rdb *redis.Client, limit int) ([]dto.LowStockAlert, error) {
	if limit < 1 || limit > alertFeedSize {
		limit = alertFeedSize
	}
	raw, err := rdb.LRange(ctx, AlertFeedKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	alerts := make([]dto.LowStockAlert, 0, len(raw))
	for _, entry := range raw {
		var a dto.LowStockAlert
		if err := json.Unmarshal([]byte(entry), &a); err != nil {
			continue // skip malformed entries rather than failing the read
		}
		alerts = append(alerts, a)
	}
	return alerts, nil
}
