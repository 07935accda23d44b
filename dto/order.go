package dto

import (
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/jinzhu/copier"

	"github.com/evoai/commerce-agent/model"
)

// Order is the order_lookup result shape. The customer email is not echoed back.
type Order struct {
	OrderId     string            `json:"order_id"`
	CreatedAt   time.Time         `json:"created_at"`
	Items       []model.OrderItem `json:"items"`
	Status      string            `json:"status"`
	CancelledAt *time.Time        `json:"cancelled_at,omitempty"`
}

func NewOrder(m *model.Order) (*Order, error) {
	out := new(Order)
	if err := copier.Copy(out, m); err != nil {
		return nil, errors.Wrap(err, "copy order")
	}
	return out, nil
}
