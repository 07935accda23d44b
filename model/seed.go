package model

import (
	"context"
	"time"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v6"
	"github.com/Laisky/zap"
)

// DemoProducts is the catalog inserted by SeedCatalog.
func DemoProducts() []Product {
	return []Product{
		{Id: "P001", Title: "Satin Midi Wrap Dress", Price: 98, Tags: []string{"wedding", "midi", "party"}, Sizes: []string{"S", "M", "L"}, Color: "champagne"},
		{Id: "P002", Title: "Floral Chiffon Midi Dress", Price: 115, Tags: []string{"wedding", "midi", "daywear"}, Sizes: []string{"XS", "S", "M", "L", "XL"}, Color: "blush"},
		{Id: "P003", Title: "Sequin Cocktail Dress", Price: 149, Tags: []string{"party", "evening"}, Sizes: []string{"S", "M", "L"}, Color: "black"},
		{Id: "P004", Title: "Linen Shirt Dress", Price: 79, Tags: []string{"daywear", "casual"}, Sizes: []string{"S", "M", "L", "XL"}, Color: "sand"},
		{Id: "P005", Title: "Pleated Maxi Dress", Price: 135, Tags: []string{"wedding", "maxi"}, Sizes: []string{"M", "L"}, Color: "sage"},
		{Id: "P006", Title: "Tailored Wool Blazer", Price: 129, Tags: []string{"workwear"}, Sizes: []string{"S", "M", "L"}, Color: "navy"},
		{Id: "P007", Title: "Velvet Slip Midi Dress", Price: 110, Tags: []string{"party", "midi"}, Sizes: []string{"XS", "S", "M"}, Color: "emerald"},
	}
}

// DemoOrders returns the demo orders with creation times relative to now:
// A1003 sits inside the cancellation window, A1001 and A1002 are well outside it.
func DemoOrders(now time.Time) []Order {
	now = now.UTC()
	return []Order{
		{
			OrderId:   "A1001",
			Email:     "rehan@example.com",
			CreatedAt: now.Add(-26 * time.Hour),
			Items:     []OrderItem{{Id: "P002", Size: "M"}},
			Status:    OrderStatusPlaced,
		},
		{
			OrderId:   "A1002",
			Email:     "alex@example.com",
			CreatedAt: now.Add(-72 * time.Hour),
			Items:     []OrderItem{{Id: "P001", Size: "L"}, {Id: "P004", Size: "M"}},
			Status:    OrderStatusPlaced,
		},
		{
			OrderId:   "A1003",
			Email:     "mira@example.com",
			CreatedAt: now.Add(-20 * time.Minute),
			Items:     []OrderItem{{Id: "P007", Size: "S"}},
			Status:    OrderStatusPlaced,
		},
	}
}

// SeedCatalog upserts the demo products and resets the demo orders so the cancellation
// scenarios behave the same after every restart.
func SeedCatalog(ctx context.Context, now time.Time) error {
	products := DemoProducts()
	if err := UpsertProducts(ctx, products); err != nil {
		return errors.Wrap(err, "seed products")
	}

	orders := DemoOrders(now)
	if err := UpsertOrders(ctx, orders); err != nil {
		return errors.Wrap(err, "seed orders")
	}

	gmw.GetLogger(ctx).Info("demo catalog seeded",
		zap.Int("products", len(products)),
		zap.Int("orders", len(orders)))
	return nil
}
