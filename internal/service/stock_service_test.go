package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/E7itism/stockerflow-sub001/internal/apperr"
	"github.com/E7itism/stockerflow-sub001/internal/model"
)

func TestProductStockWithNoMovements(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "SKU-100", "Untouched", 10)

	stock, err := env.stocks.ProductStock(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stock.CurrentStock)
	assert.Equal(t, 10, stock.ReorderLevel)
	assert.True(t, stock.IsLowStock)
}

func TestCurrentStockUnknownProductIsZero(t *testing.T) {
	env := newTestEnv(t)

	current, err := env.stocks.CurrentStock(uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 0, current)
}

func TestProductStockUnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.stocks.ProductStock(uuid.New())
	var notFoundErr *apperr.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, "product", notFoundErr.Resource)
}

func TestAllStockOrderedByNameWithZeroRows(t *testing.T) {
	env := newTestEnv(t)
	bolt := env.createProduct(t, "SKU-101", "Bolt", 5)
	env.createProduct(t, "SKU-102", "Anvil", 5)
	clamp := env.createProduct(t, "SKU-103", "Clamp", 5)

	env.append(t, bolt.ID, model.TxIn, 30)
	env.append(t, clamp.ID, model.TxIn, 8)
	env.append(t, clamp.ID, model.TxOut, 5)

	rows, err := env.stocks.AllStock()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Anvil", rows[0].Name)
	assert.Equal(t, 0, rows[0].CurrentStock)
	assert.True(t, rows[0].IsLowStock)

	assert.Equal(t, "Bolt", rows[1].Name)
	assert.Equal(t, 30, rows[1].CurrentStock)
	assert.False(t, rows[1].IsLowStock)

	assert.Equal(t, "Clamp", rows[2].Name)
	assert.Equal(t, 3, rows[2].CurrentStock)
	assert.True(t, rows[2].IsLowStock)
}

func TestLowStockProductsAscending(t *testing.T) {
	env := newTestEnv(t)

	// Stock / reorder level: low products end up ordered by stock ascending,
	// the healthy one is excluded.
	five := env.createProduct(t, "SKU-104", "Five", 10)
	two := env.createProduct(t, "SKU-105", "Two", 10)
	eight := env.createProduct(t, "SKU-106", "Eight", 10)
	healthy := env.createProduct(t, "SKU-107", "Healthy", 10)

	env.append(t, five.ID, model.TxIn, 5)
	env.append(t, two.ID, model.TxIn, 2)
	env.append(t, eight.ID, model.TxIn, 8)
	env.append(t, healthy.ID, model.TxIn, 50)

	rows, err := env.stocks.LowStockProducts()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, 2, rows[0].CurrentStock)
	assert.Equal(t, 5, rows[1].CurrentStock)
	assert.Equal(t, 8, rows[2].CurrentStock)
	for _, row := range rows {
		assert.True(t, row.IsLowStock)
		assert.LessOrEqual(t, row.CurrentStock, row.ReorderLevel)
	}
}

func TestLowStockBoundaryIsInclusive(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "SKU-108", "Edge", 10)
	env.append(t, product.ID, model.TxIn, 10)

	stock, err := env.stocks.ProductStock(product.ID)
	require.NoError(t, err)
	assert.True(t, stock.IsLowStock, "stock equal to reorder level counts as low")

	env.append(t, product.ID, model.TxIn, 1)
	stock, err = env.stocks.ProductStock(product.ID)
	require.NoError(t, err)
	assert.False(t, stock.IsLowStock)
}
