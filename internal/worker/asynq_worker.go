package worker

import (
	"context"
	"encoding/json"

	"github.com/shopmitra/internal/logger"
	"github.com/shopmitra/internal/provider"
	"github.com/shopmitra/internal/queue"

	"github.com/hibiken/asynq"
)

const cartRefreshPageSize = 200

// Consumer handles queued tasks.
type Consumer struct {
	*provider.Container
}

// NewConsumer creates the consumer.
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register wires task handlers into the mux.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCartPriceRefresh, c.handleCartPriceRefresh)
}

// handleCartPriceRefresh walks every cart and recomputes its stored total
// against the current catalog. The payload names the product that changed;
// the walk is product-agnostic so one task also repairs totals left stale by
// earlier missed changes.
func (c *Consumer) handleCartPriceRefresh(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_cart_price_refresh_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.CartPriceRefreshPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_cart_price_refresh_unmarshal_failed", "error", err)
		return err
	}
	if c.CartService == nil || c.CartRepo == nil {
		logger.Warnw("worker_cart_price_refresh_skip_cart_service_nil", "product_id", payload.ProductID)
		return nil
	}

	refreshed := 0
	for offset := 0; ; offset += cartRefreshPageSize {
		ids, err := c.CartRepo.ListIDs(offset, cartRefreshPageSize)
		if err != nil {
			logger.Warnw("worker_cart_price_refresh_list_failed", "offset", offset, "error", err)
			return err
		}
		if len(ids) == 0 {
			break
		}
		for _, id := range ids {
			if err := c.CartService.RefreshTotal(id); err != nil {
				logger.Warnw("worker_cart_price_refresh_failed", "cart_id", id, "product_id", payload.ProductID, "error", err)
				return err
			}
			refreshed++
		}
	}
	logger.Infow("worker_cart_price_refresh_done", "product_id", payload.ProductID, "carts", refreshed)
	return nil
}
