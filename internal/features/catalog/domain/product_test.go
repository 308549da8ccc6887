package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewProduct(t *testing.T) {
	tests := []struct {
		name        string
		id, sku     string
		productName string
		price       decimal.Decimal
		stock       int
		expectedErr error
	}{
		{
			name:        "Valid",
			id:          "ram-8",
			sku:         "RAM-8",
			productName: "RAM 8GB",
			price:       decimal.NewFromInt(1490),
			stock:       3,
		},
		{
			name:        "Free item",
			id:          "sticker",
			sku:         "STK",
			productName: "Sticker",
			price:       decimal.Zero,
			stock:       0,
		},
		{
			name:        "Negative price",
			id:          "x",
			sku:         "X",
			productName: "X",
			price:       decimal.NewFromInt(-1),
			expectedErr: ErrNegativePrice,
		},
		{
			name:        "Negative stock",
			id:          "x",
			sku:         "X",
			productName: "X",
			price:       decimal.NewFromInt(1),
			stock:       -2,
			expectedErr: ErrNegativeStock,
		},
		{
			name:        "Missing SKU",
			id:          "x",
			productName: "X",
			price:       decimal.NewFromInt(1),
			expectedErr: ErrMissingIdentity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProduct(tt.id, tt.sku, tt.productName, tt.price, tt.stock, 1, "memoria")

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, p)
				return
			}
			assert.NoError(t, err)
			assert.True(t, p.Active)
			assert.True(t, tt.price.Equal(p.Price))
		})
	}
}

func TestProduct_IsCriticalStock(t *testing.T) {
	p := Product{Stock: 3, CriticalStock: 3}
	assert.True(t, p.IsCriticalStock())

	p.Stock = 4
	assert.False(t, p.IsCriticalStock())
}

func TestProductFilter_Matches(t *testing.T) {
	ssd := Product{ID: "ssd", SKU: "SSD-NVME-512", Name: "SSD NVMe 512GB", Category: "almacenamiento", Active: true}
	old := Product{ID: "hdd", SKU: "HDD-1T", Name: "HDD 1TB", Category: "almacenamiento", Active: false}

	assert.True(t, ProductFilter{}.Matches(ssd))
	assert.False(t, ProductFilter{}.Matches(old))
	assert.True(t, ProductFilter{IncludeInactive: true}.Matches(old))
	assert.True(t, ProductFilter{Category: "ALMACENAMIENTO"}.Matches(ssd))
	assert.False(t, ProductFilter{Category: "memoria"}.Matches(ssd))
	assert.True(t, ProductFilter{Query: "nvme"}.Matches(ssd))
	assert.True(t, ProductFilter{Query: "ssd-nvme"}.Matches(ssd))
	assert.False(t, ProductFilter{Query: "ram"}.Matches(ssd))
}
