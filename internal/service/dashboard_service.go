package service

import (
	"time"

	"github.com/E7itism/stockerflow-sub001/internal/apperr"
	"github.com/E7itism/stockerflow-sub001/internal/repository"
)

// DashboardStats is the overview block: catalog size, products at or below
// their reorder level, and the value of stock on hand (derived stock times
// price, in price minor units).
type DashboardStats struct {
	TotalProducts  int   `json:"total_products"`
	LowStockCount  int   `json:"low_stock_count"`
	TotalValuation int64 `json:"total_valuation"`
}

type DashboardService interface {
	GetStats() (*DashboardStats, error)
	GetStockMovement(days int) ([]repository.StockMovementData, error)
}

type dashboardService struct {
	txRepo repository.TransactionRepository
	stocks StockService
}

func NewDashboardService(txRepo repository.TransactionRepository, stocks StockService) DashboardService {
	return &dashboardService{txRepo: txRepo, stocks: stocks}
}

func (s *dashboardService) GetStats() (*DashboardStats, error) {
	rows, err := s.stocks.AllStock()
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{TotalProducts: len(rows)}
	for _, row := range rows {
		if row.IsLowStock {
			stats.LowStockCount++
		}
	}

	valuation, err := s.txRepo.InventoryValuation()
	if err != nil {
		return nil, apperr.Internal(err)
	}
	stats.TotalValuation = valuation

	return stats, nil
}

func (s *dashboardService) GetStockMovement(days int) ([]repository.StockMovementData, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	data, err := s.txRepo.StockMovement(startDate, endDate)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return data, nil
}
