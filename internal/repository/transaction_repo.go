package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/E7itism/stockerflow-sub001/internal/model"
)

// TransactionRepository is the store behind the append-mostly ledger. Writes
// that must be atomic with a stock check take an explicit *gorm.DB so the
// caller can hand in an open transaction.
type TransactionRepository interface {
	Create(db *gorm.DB, record *model.Transaction) error
	FindByID(id uuid.UUID) (*model.Transaction, error)
	FindAll() ([]model.Transaction, error)
	FindByProduct(productID uuid.UUID) ([]model.Transaction, error)
	FindRecent(limit int) ([]model.Transaction, error)
	Delete(db *gorm.DB, id uuid.UUID) error
	SumProduct(db *gorm.DB, productID uuid.UUID) (int, error)
	StockRows() ([]StockRow, error)
	StockMovement(startDate, endDate time.Time) ([]StockMovementData, error)
	InventoryValuation() (int64, error)
}

// StockRow is one per-product line of the derived stock view.
type StockRow struct {
	ProductID    uuid.UUID `json:"product_id"`
	SKU          string    `json:"sku"`
	Name         string    `json:"name"`
	ReorderLevel int       `json:"reorder_level"`
	CurrentStock int       `json:"current_stock"`
	IsLowStock   bool      `gorm:"-" json:"is_low_stock"`
}

// StockMovementData is one day of inbound/outbound volume for charting.
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

// signedQuantity mirrors model.Transaction.SignedQuantity in SQL.
const signedQuantity = "CASE WHEN type = 'OUT' THEN -quantity ELSE quantity END"

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) Create(db *gorm.DB, record *model.Transaction) error {
	if db == nil {
		db = r.db
	}
	return db.Create(record).Error
}

func (r *transactionRepo) FindByID(id uuid.UUID) (*model.Transaction, error) {
	var record model.Transaction
	err := r.db.Preload("Product").Preload("User").First(&record, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *transactionRepo) FindAll() ([]model.Transaction, error) {
	var records []model.Transaction
	err := r.db.Preload("Product").Preload("User").
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

func (r *transactionRepo) FindByProduct(productID uuid.UUID) ([]model.Transaction, error) {
	var records []model.Transaction
	err := r.db.Preload("User").
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

func (r *transactionRepo) FindRecent(limit int) ([]model.Transaction, error) {
	var records []model.Transaction
	err := r.db.Preload("Product").Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

// Delete soft-deletes the record. Aggregates exclude it from the next read
// on, while the row itself survives for audit.
func (r *transactionRepo) Delete(db *gorm.DB, id uuid.UUID) error {
	if db == nil {
		db = r.db
	}
	res := db.Delete(&model.Transaction{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SumProduct derives the current stock of one product by summing its ledger
// entries. A product with no entries sums to zero.
func (r *transactionRepo) SumProduct(db *gorm.DB, productID uuid.UUID) (int, error) {
	if db == nil {
		db = r.db
	}
	var total int64
	err := db.Model(&model.Transaction{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(" + signedQuantity + "), 0)").
		Scan(&total).Error
	return int(total), err
}

// StockRows returns one derived-stock row per live product, including
// products with no movements, ordered by product name.
func (r *transactionRepo) StockRows() ([]StockRow, error) {
	var rows []StockRow
	err := r.db.Table("products").
		Select(`products.id AS product_id, products.sku, products.name, products.reorder_level,
			COALESCE(SUM(CASE WHEN transactions.type = 'OUT' THEN -transactions.quantity ELSE transactions.quantity END), 0) AS current_stock`).
		Joins("LEFT JOIN transactions ON transactions.product_id = products.id AND transactions.deleted_at IS NULL").
		Where("products.deleted_at IS NULL").
		Group("products.id, products.sku, products.name, products.reorder_level").
		Order("products.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].IsLowStock = rows[i].CurrentStock <= rows[i].ReorderLevel
	}
	return rows, nil
}

// StockMovement aggregates daily inbound and outbound volume for charts.
// Adjustments count toward the side matching their sign.
func (r *transactionRepo) StockMovement(startDate, endDate time.Time) ([]StockMovementData, error) {
	var results []StockMovementData

	rows, err := r.db.Model(&model.Transaction{}).
		Select(`
			DATE(created_at) AS date,
			COALESCE(SUM(CASE WHEN type = 'IN' OR (type = 'ADJUSTMENT' AND quantity > 0) THEN quantity ELSE 0 END), 0) AS inbound,
			COALESCE(SUM(CASE WHEN type = 'OUT' THEN quantity WHEN type = 'ADJUSTMENT' AND quantity < 0 THEN -quantity ELSE 0 END), 0) AS outbound
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data StockMovementData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, rows.Err()
}

// InventoryValuation sums derived stock times price across the catalog.
func (r *transactionRepo) InventoryValuation() (int64, error) {
	var total int64
	err := r.db.Table("products").
		Select(`COALESCE(SUM(products.price * (
			SELECT COALESCE(SUM(CASE WHEN t.type = 'OUT' THEN -t.quantity ELSE t.quantity END), 0)
			FROM transactions t
			WHERE t.product_id = products.id AND t.deleted_at IS NULL
		)), 0)`).
		Where("products.deleted_at IS NULL").
		Scan(&total).Error
	return total, err
}
