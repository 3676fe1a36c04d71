package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/E7itism/stockerflow-sub001/internal/model"
	"github.com/E7itism/stockerflow-sub001/internal/repository"
)

func TestDashboardStats(t *testing.T) {
	env := newTestEnv(t)
	txRepo := repository.NewTransactionRepo(env.db)
	dashboard := NewDashboardService(txRepo, env.stocks)

	cheap := env.createProduct(t, "SKU-200", "Cheap", 10)
	cheap.Price = 100
	require.NoError(t, repository.NewProductRepo(env.db).Update(cheap))

	dear := env.createProduct(t, "SKU-201", "Dear", 10)
	dear.Price = 250
	require.NoError(t, repository.NewProductRepo(env.db).Update(dear))

	env.append(t, cheap.ID, model.TxIn, 20) // above reorder level
	env.append(t, dear.ID, model.TxIn, 4)   // low

	stats, err := dashboard.GetStats()
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalProducts)
	assert.Equal(t, 1, stats.LowStockCount)
	assert.Equal(t, int64(20*100+4*250), stats.TotalValuation)
}

func TestDashboardStockMovement(t *testing.T) {
	env := newTestEnv(t)
	txRepo := repository.NewTransactionRepo(env.db)
	dashboard := NewDashboardService(txRepo, env.stocks)

	product := env.createProduct(t, "SKU-202", "Mover", 10)
	env.append(t, product.ID, model.TxIn, 40)
	env.append(t, product.ID, model.TxOut, 15)
	env.append(t, product.ID, model.TxAdjustment, -5)
	env.append(t, product.ID, model.TxAdjustment, 3)

	data, err := dashboard.GetStockMovement(7)
	require.NoError(t, err)
	require.Len(t, data, 1)

	assert.Equal(t, 43, data[0].Inbound)  // IN 40 + positive adjustment 3
	assert.Equal(t, 20, data[0].Outbound) // OUT 15 + downward adjustment 5
}
