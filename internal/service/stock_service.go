package service

import (
	"errors"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/E7itism/stockerflow-sub001/internal/apperr"
	"github.com/E7itism/stockerflow-sub001/internal/repository"
)

// ProductStock is the derived stock position of one product.
type ProductStock struct {
	ProductID    uuid.UUID `json:"product_id"`
	CurrentStock int       `json:"current_stock"`
	ReorderLevel int       `json:"reorder_level"`
	IsLowStock   bool      `json:"is_low_stock"`
}

// StockService is the read-side projection over the ledger. Every answer is
// recomputed from the transaction log on the spot; nothing here mutates
// state or holds locks, so reads never block writers.
type StockService interface {
	// CurrentStock sums the ledger for one product. A product with no
	// records sums to zero; existence is not checked here.
	CurrentStock(productID uuid.UUID) (int, error)
	// ProductStock returns the stock position of a known product, or
	// NotFoundError when the product does not resolve.
	ProductStock(productID uuid.UUID) (*ProductStock, error)
	// AllStock returns one row per product, zero-movement products
	// included, ordered by product name ascending.
	AllStock() ([]repository.StockRow, error)
	// LowStockProducts filters AllStock to rows at or below their reorder
	// level, ordered by current stock ascending.
	LowStockProducts() ([]repository.StockRow, error)
}

type stockService struct {
	productRepo repository.ProductRepository
	txRepo      repository.TransactionRepository
}

func NewStockService(pRepo repository.ProductRepository, tRepo repository.TransactionRepository) StockService {
	return &stockService{productRepo: pRepo, txRepo: tRepo}
}

func (s *stockService) CurrentStock(productID uuid.UUID) (int, error) {
	total, err := s.txRepo.SumProduct(nil, productID)
	if err != nil {
		return 0, apperr.Internal(err)
	}
	return total, nil
}

func (s *stockService) ProductStock(productID uuid.UUID) (*ProductStock, error) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperr.NotFoundError{Resource: "product", ID: productID.String()}
		}
		return nil, apperr.Internal(err)
	}

	current, err := s.txRepo.SumProduct(nil, productID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &ProductStock{
		ProductID:    product.ID,
		CurrentStock: current,
		ReorderLevel: product.ReorderLevel,
		IsLowStock:   current <= product.ReorderLevel,
	}, nil
}

func (s *stockService) AllStock() ([]repository.StockRow, error) {
	rows, err := s.txRepo.StockRows()
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return rows, nil
}

func (s *stockService) LowStockProducts() ([]repository.StockRow, error) {
	rows, err := s.txRepo.StockRows()
	if err != nil {
		return nil, apperr.Internal(err)
	}

	low := make([]repository.StockRow, 0)
	for _, row := range rows {
		if row.IsLowStock {
			low = append(low, row)
		}
	}
	sort.SliceStable(low, func(i, j int) bool {
		return low[i].CurrentStock < low[j].CurrentStock
	})
	return low, nil
}
