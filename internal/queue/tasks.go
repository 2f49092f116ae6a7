package queue

import (
	"encoding/json"

	"github.com/shopmitra/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskCartPriceRefresh recomputes stored cart totals after a catalog
	// price change.
	TaskCartPriceRefresh = constants.TaskCartPriceRefresh
)

// CartPriceRefreshPayload names the product whose price changed.
type CartPriceRefreshPayload struct {
	ProductID uint `json:"product_id"`
}

// NewCartPriceRefreshTask creates a cart total refresh task.
func NewCartPriceRefreshTask(payload CartPriceRefreshPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCartPriceRefresh, body), nil
}
