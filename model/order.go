package model

import (
	"context"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v6"
	"github.com/Laisky/zap"
	"gorm.io/gorm"
)

const (
	OrderStatusPlaced    = "placed"
	OrderStatusCancelled = "cancelled"
)

// ErrOrderNotFound is returned when no order matches the lookup.
var ErrOrderNotFound = errors.New("order not found")

type OrderItem struct {
	Id   string `json:"id"`
	Size string `json:"size"`
}

type Order struct {
	OrderId     string      `json:"order_id" gorm:"primaryKey;type:varchar(32)"`
	Email       string      `json:"email" gorm:"type:varchar(255);not null;index"`
	CreatedAt   time.Time   `json:"created_at" gorm:"not null"`
	Items       []OrderItem `json:"items" gorm:"serializer:json;type:text"`
	Status      string      `json:"status" gorm:"type:varchar(16);not null;default:placed"`
	CancelledAt *time.Time  `json:"cancelled_at,omitempty"`
}

// GetOrderById returns ErrOrderNotFound when the id is unknown.
func GetOrderById(ctx context.Context, orderId string) (*Order, error) {
	var order Order
	err := DB.WithContext(ctx).Where("order_id = ?", orderId).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get order %s", orderId)
	}
	return &order, nil
}

// LookupOrder matches the order id exactly and the email case-insensitively.
func LookupOrder(ctx context.Context, orderId, email string) (*Order, error) {
	order, err := GetOrderById(ctx, orderId)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(strings.TrimSpace(order.Email), strings.TrimSpace(email)) {
		gmw.GetLogger(ctx).Debug("order email mismatch", zap.String("order_id", orderId))
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// MarkOrderCancelled flips a placed order to cancelled. Already cancelled orders are left untouched.
func MarkOrderCancelled(ctx context.Context, orderId string, at time.Time) error {
	var rows int64
	err := writeWithBusyRetry(ctx, "cancel order", func() error {
		tx := DB.WithContext(ctx).Model(&Order{}).
			Where("order_id = ? AND status = ?", orderId, OrderStatusPlaced).
			Updates(map[string]any{
				"status":       OrderStatusCancelled,
				"cancelled_at": at.UTC(),
			})
		rows = tx.RowsAffected
		return tx.Error
	})
	if err != nil {
		return errors.Wrapf(err, "cancel order %s", orderId)
	}

	gmw.GetLogger(ctx).Info("order cancelled",
		zap.String("order_id", orderId),
		zap.Int64("rows", rows))
	return nil
}

// UpsertOrders inserts or fully overwrites orders by primary key.
func UpsertOrders(ctx context.Context, orders []Order) error {
	if len(orders) == 0 {
		return nil
	}
	return errors.Wrap(DB.WithContext(ctx).Save(&orders).Error, "save orders")
}
