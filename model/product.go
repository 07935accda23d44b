package model

import (
	"context"
	"slices"
	"strings"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v6"
	"github.com/Laisky/zap"
	"github.com/patrickmn/go-cache"

	"github.com/evoai/commerce-agent/common/config"
)

// MaxSearchResults caps product_search output.
const MaxSearchResults = 2

// Product is a catalog entry.
type Product struct {
	Id    string   `json:"id" gorm:"primaryKey;type:varchar(32)"`
	Title string   `json:"title" gorm:"type:varchar(255);not null"`
	Price float64  `json:"price" gorm:"not null;index"`
	Tags  []string `json:"tags" gorm:"serializer:json;type:text"`
	Sizes []string `json:"sizes" gorm:"serializer:json;type:text"`
	Color string   `json:"color" gorm:"type:varchar(64)"`
}

const productSnapshotKey = "products"

var productCache = cache.New(config.CatalogCacheTTL, 2*config.CatalogCacheTTL)

// InvalidateProductCache drops the cached catalog snapshot.
func InvalidateProductCache() {
	productCache.Flush()
}

// GetAllProducts returns the catalog ordered by id, served from the in-process snapshot when warm.
// A non-positive CATALOG_CACHE_SECONDS reads the database every time.
func GetAllProducts(ctx context.Context) ([]Product, error) {
	useCache := config.CatalogCacheTTL > 0
	if useCache {
		if cached, ok := productCache.Get(productSnapshotKey); ok {
			return cached.([]Product), nil
		}
	}

	var products []Product
	if err := DB.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, errors.Wrap(err, "list products")
	}

	if useCache {
		productCache.Set(productSnapshotKey, products, config.CatalogCacheTTL)
		gmw.GetLogger(ctx).Debug("product snapshot refreshed", zap.Int("count", len(products)))
	}
	return products, nil
}

// SearchProducts keeps products whose title contains query (case-insensitive), whose price does not
// exceed priceMax and that carry at least one of tags. Empty query, non-positive priceMax and empty
// tags each disable their filter. At most MaxSearchResults products are returned.
func SearchProducts(ctx context.Context, query string, priceMax float64, tags []string) ([]Product, error) {
	products, err := GetAllProducts(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	matched := make([]Product, 0, MaxSearchResults)
	for _, p := range products {
		if query != "" && !strings.Contains(strings.ToLower(p.Title), query) {
			continue
		}
		if priceMax > 0 && p.Price > priceMax {
			continue
		}
		if len(tags) > 0 && !hasAnyTag(p.Tags, tags) {
			continue
		}
		matched = append(matched, p)
		if len(matched) == MaxSearchResults {
			break
		}
	}
	return matched, nil
}

func hasAnyTag(productTags, wanted []string) bool {
	for _, tag := range wanted {
		if slices.Contains(productTags, tag) {
			return true
		}
	}
	return false
}

// UpsertProducts writes products and invalidates the snapshot.
func UpsertProducts(ctx context.Context, products []Product) error {
	if len(products) == 0 {
		return nil
	}
	if err := DB.WithContext(ctx).Save(&products).Error; err != nil {
		return errors.Wrap(err, "save products")
	}
	InvalidateProductCache()
	return nil
}
