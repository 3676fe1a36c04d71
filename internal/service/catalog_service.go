package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/E7itism/stockerflow-sub001/internal/apperr"
	"github.com/E7itism/stockerflow-sub001/internal/model"
	"github.com/E7itism/stockerflow-sub001/internal/repository"
	"github.com/E7itism/stockerflow-sub001/internal/ws"
	"github.com/E7itism/stockerflow-sub001/pkg/validator"
)

// CatalogService owns product, category, and supplier CRUD. The ledger only
// reads a product's existence and reorder level; everything here is plumbing
// around that.
type CatalogService interface {
	CreateProduct(req *model.Product, actor Principal) error
	UpdateProduct(id uuid.UUID, req *model.Product, actor Principal) (*model.Product, error)
	DeleteProduct(id uuid.UUID, actor Principal) error
	GetProduct(id uuid.UUID) (*model.Product, error)
	ListProducts() ([]model.Product, error)

	CreateCategory(req *model.Category) error
	ListCategories() ([]model.Category, error)
	UpdateCategory(id uuid.UUID, req *model.Category) (*model.Category, error)
	DeleteCategory(id uuid.UUID) error

	CreateSupplier(req *model.Supplier) error
	ListSuppliers() ([]model.Supplier, error)
	UpdateSupplier(id uuid.UUID, req *model.Supplier) (*model.Supplier, error)
	DeleteSupplier(id uuid.UUID) error
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	supplierRepo repository.SupplierRepository
	wsHub        *ws.Hub
	log          *zap.Logger
}

func NewCatalogService(
	pRepo repository.ProductRepository,
	cRepo repository.CategoryRepository,
	sRepo repository.SupplierRepository,
	hub *ws.Hub,
	log *zap.Logger,
) CatalogService {
	if log == nil {
		log = zap.NewNop()
	}
	return &catalogService{
		productRepo:  pRepo,
		categoryRepo: cRepo,
		supplierRepo: sRepo,
		wsHub:        hub,
		log:          log,
	}
}

func validationError(errs []validator.FieldError) error {
	first := errs[0]
	return &apperr.ValidationError{
		Field:  first.Field,
		Reason: fmt.Sprintf("failed on rule '%s'", first.Tag),
	}
}

func (s *catalogService) CreateProduct(req *model.Product, actor Principal) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return validationError(errs)
	}

	existing, err := s.productRepo.FindBySKU(req.SKU)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Internal(err)
	}
	if existing != nil {
		return &apperr.ConflictError{Reason: "SKU already exists"}
	}

	if err := s.productRepo.Create(req); err != nil {
		return apperr.Internal(err)
	}

	s.log.Info("product created",
		zap.String("product_id", req.ID.String()),
		zap.String("sku", req.SKU),
		zap.String("created_by", actor.ID.String()),
	)
	s.publish("product_created", actor, req)
	return nil
}

func (s *catalogService) UpdateProduct(id uuid.UUID, req *model.Product, actor Principal) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	existing, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperr.NotFoundError{Resource: "product", ID: id.String()}
		}
		return nil, apperr.Internal(err)
	}

	if req.SKU != existing.SKU {
		dup, err := s.productRepo.FindBySKU(req.SKU)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Internal(err)
		}
		if dup != nil {
			return nil, &apperr.ConflictError{Reason: "SKU already exists"}
		}
	}

	existing.SKU = req.SKU
	existing.Name = req.Name
	existing.Unit = req.Unit
	existing.Price = req.Price
	existing.ReorderLevel = req.ReorderLevel
	existing.CategoryID = req.CategoryID
	existing.SupplierID = req.SupplierID

	if err := s.productRepo.Update(existing); err != nil {
		return nil, apperr.Internal(err)
	}

	s.publish("product_updated", actor, existing)
	return existing, nil
}

func (s *catalogService) DeleteProduct(id uuid.UUID, actor Principal) error {
	if err := s.productRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &apperr.NotFoundError{Resource: "product", ID: id.String()}
		}
		return apperr.Internal(err)
	}
	s.publish("product_deleted", actor, map[string]interface{}{"id": id})
	return nil
}

func (s *catalogService) GetProduct(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperr.NotFoundError{Resource: "product", ID: id.String()}
		}
		return nil, apperr.Internal(err)
	}
	return product, nil
}

func (s *catalogService) ListProducts() ([]model.Product, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return products, nil
}

func (s *catalogService) CreateCategory(req *model.Category) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return validationError(errs)
	}
	if err := s.categoryRepo.Create(req); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *catalogService) ListCategories() ([]model.Category, error) {
	categories, err := s.categoryRepo.FindAll()
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return categories, nil
}

func (s *catalogService) UpdateCategory(id uuid.UUID, req *model.Category) (*model.Category, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}
	existing, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperr.NotFoundError{Resource: "category", ID: id.String()}
		}
		return nil, apperr.Internal(err)
	}
	existing.Name = req.Name
	existing.Description = req.Description
	if err := s.categoryRepo.Update(existing); err != nil {
		return nil, apperr.Internal(err)
	}
	return existing, nil
}

func (s *catalogService) DeleteCategory(id uuid.UUID) error {
	if err := s.categoryRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &apperr.NotFoundError{Resource: "category", ID: id.String()}
		}
		return apperr.Internal(err)
	}
	return nil
}

func (s *catalogService) CreateSupplier(req *model.Supplier) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return validationError(errs)
	}
	if err := s.supplierRepo.Create(req); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *catalogService) ListSuppliers() ([]model.Supplier, error) {
	suppliers, err := s.supplierRepo.FindAll()
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return suppliers, nil
}

func (s *catalogService) UpdateSupplier(id uuid.UUID, req *model.Supplier) (*model.Supplier, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}
	existing, err := s.supplierRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperr.NotFoundError{Resource: "supplier", ID: id.String()}
		}
		return nil, apperr.Internal(err)
	}
	existing.Name = req.Name
	existing.Email = req.Email
	existing.PhoneNumber = req.PhoneNumber
	existing.Address = req.Address
	if err := s.supplierRepo.Update(existing); err != nil {
		return nil, apperr.Internal(err)
	}
	return existing, nil
}

func (s *catalogService) DeleteSupplier(id uuid.UUID) error {
	if err := s.supplierRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &apperr.NotFoundError{Resource: "supplier", ID: id.String()}
		}
		return apperr.Internal(err)
	}
	return nil
}

func (s *catalogService) publish(action string, actor Principal, payload interface{}) {
	if s.wsHub == nil {
		return
	}
	go s.wsHub.Publish(ws.Event{
		Type:    "catalog_update",
		Action:  action,
		Payload: payload,
		Actor: ws.Actor{
			ID:    actor.ID.String(),
			Name:  actor.Name,
			Email: actor.Email,
		},
	})
}
