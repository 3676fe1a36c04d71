package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/E7itism/stockerflow-sub001/internal/apperr"
	"github.com/E7itism/stockerflow-sub001/internal/lock"
	"github.com/E7itism/stockerflow-sub001/internal/model"
	"github.com/E7itism/stockerflow-sub001/internal/repository"
	"github.com/E7itism/stockerflow-sub001/internal/ws"
	"github.com/E7itism/stockerflow-sub001/pkg/validator"
)

// Principal is the already-authenticated actor a ledger call runs on behalf
// of. It is threaded explicitly through every call; the ledger never reads
// ambient request state.
type Principal struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// LedgerService owns the append-mostly transaction log. It is the only
// writer of ledger state; stock is never stored, only derived from it.
type LedgerService interface {
	Append(req *model.Transaction, actor Principal) (*model.Transaction, int, error)
	Get(id uuid.UUID) (*model.Transaction, error)
	ListAll() ([]model.Transaction, error)
	ListByProduct(productID uuid.UUID) ([]model.Transaction, error)
	ListRecent(limit int) ([]model.Transaction, error)
	Delete(id uuid.UUID, actor Principal) error
}

const defaultRecentLimit = 10

type ledgerService struct {
	productRepo repository.ProductRepository
	txRepo      repository.TransactionRepository
	db          *gorm.DB
	locks       *lock.ProductLocker
	wsHub       *ws.Hub
	log         *zap.Logger
}

func NewLedgerService(
	pRepo repository.ProductRepository,
	tRepo repository.TransactionRepository,
	db *gorm.DB,
	locks *lock.ProductLocker,
	hub *ws.Hub,
	log *zap.Logger,
) LedgerService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ledgerService{
		productRepo: pRepo,
		txRepo:      tRepo,
		db:          db,
		locks:       locks,
		wsHub:       hub,
		log:         log,
	}
}

// Append validates and durably appends one movement record, returning it
// together with the product's post-append derived stock.
//
// OUT movements run their stock check and insert as one critical section per
// product: the per-product lock serializes concurrent removers, and the GORM
// transaction makes the insert all-or-nothing. IN and ADJUSTMENT movements
// commute under summation, so they append without cross-request exclusivity.
func (s *ledgerService) Append(req *model.Transaction, actor Principal) (*model.Transaction, int, error) {
	req.UserID = actor.ID

	if err := validateAppend(req); err != nil {
		return nil, 0, err
	}

	product, err := s.productRepo.FindByID(req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, &apperr.NotFoundError{Resource: "product", ID: req.ProductID.String()}
		}
		return nil, 0, apperr.Internal(err)
	}

	var currentStock int
	if req.Type == model.TxOut {
		s.locks.Lock(req.ProductID)
		defer s.locks.Unlock(req.ProductID)

		err = s.db.Transaction(func(tx *gorm.DB) error {
			available, err := s.txRepo.SumProduct(tx, req.ProductID)
			if err != nil {
				return apperr.Internal(err)
			}
			if available < req.Quantity {
				return &apperr.InsufficientStockError{
					ProductID: req.ProductID,
					Current:   available,
					Requested: req.Quantity,
				}
			}
			if err := s.txRepo.Create(tx, req); err != nil {
				return apperr.Internal(err)
			}
			currentStock = available - req.Quantity
			return nil
		})
		if err != nil {
			return nil, 0, err
		}
	} else {
		if err := s.txRepo.Create(nil, req); err != nil {
			return nil, 0, apperr.Internal(err)
		}
		currentStock, err = s.txRepo.SumProduct(nil, req.ProductID)
		if err != nil {
			return nil, 0, apperr.Internal(err)
		}
	}

	s.log.Info("transaction appended",
		zap.String("transaction_id", req.ID.String()),
		zap.String("product_id", req.ProductID.String()),
		zap.String("type", string(req.Type)),
		zap.Int("quantity", req.Quantity),
		zap.Int("current_stock", currentStock),
	)

	s.publish("transaction_created", actor, map[string]interface{}{
		"id":            req.ID,
		"type":          req.Type,
		"quantity":      req.Quantity,
		"product_id":    product.ID,
		"product_name":  product.Name,
		"product_sku":   product.SKU,
		"current_stock": currentStock,
	})
	if currentStock <= product.ReorderLevel {
		s.publish("low_stock", actor, map[string]interface{}{
			"product_id":    product.ID,
			"product_name":  product.Name,
			"product_sku":   product.SKU,
			"current_stock": currentStock,
			"reorder_level": product.ReorderLevel,
		})
	}

	return req, currentStock, nil
}

func (s *ledgerService) Get(id uuid.UUID) (*model.Transaction, error) {
	record, err := s.txRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperr.NotFoundError{Resource: "transaction", ID: id.String()}
		}
		return nil, apperr.Internal(err)
	}
	return record, nil
}

func (s *ledgerService) ListAll() ([]model.Transaction, error) {
	records, err := s.txRepo.FindAll()
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return records, nil
}

func (s *ledgerService) ListByProduct(productID uuid.UUID) ([]model.Transaction, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperr.NotFoundError{Resource: "product", ID: productID.String()}
		}
		return nil, apperr.Internal(err)
	}
	records, err := s.txRepo.FindByProduct(productID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return records, nil
}

func (s *ledgerService) ListRecent(limit int) ([]model.Transaction, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	records, err := s.txRepo.FindRecent(limit)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return records, nil
}

// Delete removes a record from the ledger. The deleted record's product is
// locked for the duration so a concurrent OUT check cannot base its decision
// on stock that is about to disappear.
func (s *ledgerService) Delete(id uuid.UUID, actor Principal) error {
	record, err := s.txRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &apperr.NotFoundError{Resource: "transaction", ID: id.String()}
		}
		return apperr.Internal(err)
	}

	s.locks.Lock(record.ProductID)
	defer s.locks.Unlock(record.ProductID)

	if err := s.txRepo.Delete(nil, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &apperr.NotFoundError{Resource: "transaction", ID: id.String()}
		}
		return apperr.Internal(err)
	}

	s.log.Info("transaction deleted",
		zap.String("transaction_id", id.String()),
		zap.String("product_id", record.ProductID.String()),
		zap.String("deleted_by", actor.ID.String()),
	)

	s.publish("transaction_deleted", actor, map[string]interface{}{
		"id":         id,
		"product_id": record.ProductID,
		"type":       record.Type,
		"quantity":   record.Quantity,
	})

	return nil
}

// validateAppend enforces the ledger's input rules before any durable write:
// the type must be a known kind, IN/OUT quantities must be positive, and an
// ADJUSTMENT must be non-zero (its sign encodes the correction direction).
func validateAppend(req *model.Transaction) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return &apperr.ValidationError{
			Field:  first.Field,
			Reason: fmt.Sprintf("failed on rule '%s'", first.Tag),
		}
	}
	if !req.Type.Valid() {
		return &apperr.ValidationError{Field: "Type", Reason: "must be one of IN, OUT, ADJUSTMENT"}
	}
	switch req.Type {
	case model.TxIn, model.TxOut:
		if req.Quantity <= 0 {
			return &apperr.ValidationError{Field: "Quantity", Reason: "must be greater than zero for IN and OUT"}
		}
	case model.TxAdjustment:
		if req.Quantity == 0 {
			return &apperr.ValidationError{Field: "Quantity", Reason: "must be non-zero for ADJUSTMENT"}
		}
	}
	return nil
}

func (s *ledgerService) publish(action string, actor Principal, payload interface{}) {
	if s.wsHub == nil {
		return
	}
	go s.wsHub.Publish(ws.Event{
		Type:    "stock_update",
		Action:  action,
		Payload: payload,
		Actor: ws.Actor{
			ID:    actor.ID.String(),
			Name:  actor.Name,
			Email: actor.Email,
		},
	})
}
