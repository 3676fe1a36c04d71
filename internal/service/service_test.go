package service

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/E7itism/stockerflow-sub001/internal/lock"
	"github.com/E7itism/stockerflow-sub001/internal/model"
	"github.com/E7itism/stockerflow-sub001/internal/repository"
)

// newTestDB opens an isolated in-memory database per test. cache=shared keeps
// the same database visible across the pool's connections.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Category{},
		&model.Supplier{},
		&model.Product{},
		&model.Transaction{},
		&model.User{},
	))
	return db
}

type testEnv struct {
	db     *gorm.DB
	ledger LedgerService
	stocks StockService
	actor  Principal
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	productRepo := repository.NewProductRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	locks := lock.NewProductLocker()

	user := &model.User{Email: "clerk@example.com", FullName: "Clerk", Role: model.RoleStaff, IsActive: true}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, repository.NewUserRepo(db).Create(user))

	return &testEnv{
		db:     db,
		ledger: NewLedgerService(productRepo, txRepo, db, locks, nil, zap.NewNop()),
		stocks: NewStockService(productRepo, txRepo),
		actor:  Principal{ID: user.ID, Name: user.FullName, Email: user.Email},
	}
}

func (e *testEnv) createProduct(t *testing.T, sku, name string, reorderLevel int) *model.Product {
	t.Helper()

	product := &model.Product{SKU: sku, Name: name, ReorderLevel: reorderLevel}
	require.NoError(t, repository.NewProductRepo(e.db).Create(product))
	return product
}

func (e *testEnv) append(t *testing.T, productID uuid.UUID, txType model.TransactionType, quantity int) (*model.Transaction, int) {
	t.Helper()

	record, current, err := e.ledger.Append(&model.Transaction{
		ProductID: productID,
		Type:      txType,
		Quantity:  quantity,
	}, e.actor)
	require.NoError(t, err)
	return record, current
}
