package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/evoai/commerce-agent/common/config"
)

func productIds(products []Product) []string {
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.Id)
	}
	return ids
}

func TestSearchProducts(t *testing.T) {
	ctx := setupTestDatabase(t, time.Now())

	tests := []struct {
		name     string
		query    string
		priceMax float64
		tags     []string
		want     []string
	}{
		{name: "midi dresses under 120", query: "dress", priceMax: 120, tags: []string{"midi"}, want: []string{"P001", "P002"}},
		{name: "wedding under 100", query: "dress", priceMax: 100, tags: []string{"wedding"}, want: []string{"P001"}},
		{name: "case insensitive query", query: "BLAZER", want: []string{"P006"}},
		{name: "any tag matches", query: "dress", priceMax: 90, tags: []string{"party", "daywear"}, want: []string{"P004"}},
		{name: "no filters caps at two", want: []string{"P001", "P002"}},
		{name: "nothing matches", query: "dress", priceMax: 10, want: []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SearchProducts(ctx, tc.query, tc.priceMax, tc.tags)
			require.NoError(t, err)
			require.Equal(t, tc.want, productIds(got))
		})
	}
}

func TestProductSnapshotInvalidation(t *testing.T) {
	ctx := setupTestDatabase(t, time.Now())

	all, err := GetAllProducts(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(DemoProducts()))

	require.NoError(t, DB.Delete(&Product{}, "id = ?", "P007").Error)
	cached, err := GetAllProducts(ctx)
	require.NoError(t, err)
	require.Len(t, cached, len(DemoProducts()), "snapshot should still be served")

	InvalidateProductCache()
	fresh, err := GetAllProducts(ctx)
	require.NoError(t, err)
	require.Len(t, fresh, len(DemoProducts())-1)
}

func TestProductJSONColumnsRoundTrip(t *testing.T) {
	ctx := setupTestDatabase(t, time.Now())

	var stored Product
	require.NoError(t, DB.WithContext(ctx).First(&stored, "id = ?", "P002").Error)
	require.Equal(t, []string{"wedding", "midi", "daywear"}, stored.Tags)
	require.Equal(t, []string{"XS", "S", "M", "L", "XL"}, stored.Sizes)
}

func TestProductSnapshotDisabled(t *testing.T) {
	ctx := setupTestDatabase(t, time.Now())

	originalTTL := config.CatalogCacheTTL
	config.CatalogCacheTTL = 0
	t.Cleanup(func() { config.CatalogCacheTTL = originalTTL })
	InvalidateProductCache()

	all, err := GetAllProducts(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(DemoProducts()))

	require.NoError(t, DB.Delete(&Product{}, "id = ?", "P007").Error)
	fresh, err := GetAllProducts(ctx)
	require.NoError(t, err)
	require.Len(t, fresh, len(DemoProducts())-1, "no snapshot should be kept")
}
