package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/E7itism/stockerflow-sub001/internal/apperr"
	"github.com/E7itism/stockerflow-sub001/internal/model"
	"github.com/E7itism/stockerflow-sub001/internal/repository"
)

func newCatalog(t *testing.T, env *testEnv) CatalogService {
	t.Helper()
	return NewCatalogService(
		repository.NewProductRepo(env.db),
		repository.NewCategoryRepo(env.db),
		repository.NewSupplierRepo(env.db),
		nil,
		zap.NewNop(),
	)
}

func TestCreateProductRejectsDuplicateSKU(t *testing.T) {
	env := newTestEnv(t)
	catalog := newCatalog(t, env)

	require.NoError(t, catalog.CreateProduct(&model.Product{SKU: "DUP-1", Name: "First"}, env.actor))

	err := catalog.CreateProduct(&model.Product{SKU: "DUP-1", Name: "Second"}, env.actor)
	var conflictErr *apperr.ConflictError
	assert.ErrorAs(t, err, &conflictErr)
}

func TestCreateProductValidation(t *testing.T) {
	env := newTestEnv(t)
	catalog := newCatalog(t, env)

	err := catalog.CreateProduct(&model.Product{Name: "No SKU"}, env.actor)
	var validationErr *apperr.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestUpdateProduct(t *testing.T) {
	env := newTestEnv(t)
	catalog := newCatalog(t, env)

	product := env.createProduct(t, "UPD-1", "Before", 10)

	updated, err := catalog.UpdateProduct(product.ID, &model.Product{
		SKU:          "UPD-1",
		Name:         "After",
		Price:        500,
		ReorderLevel: 3,
	}, env.actor)
	require.NoError(t, err)
	assert.Equal(t, "After", updated.Name)
	assert.Equal(t, 3, updated.ReorderLevel)

	_, err = catalog.UpdateProduct(uuid.New(), &model.Product{SKU: "X", Name: "X"}, env.actor)
	var notFoundErr *apperr.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
}

func TestDeleteProductRemovesFromStockView(t *testing.T) {
	env := newTestEnv(t)
	catalog := newCatalog(t, env)

	env.createProduct(t, "DEL-1", "Keep", 10)
	drop := env.createProduct(t, "DEL-2", "Drop", 10)

	require.NoError(t, catalog.DeleteProduct(drop.ID, env.actor))

	rows, err := env.stocks.AllStock()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Keep", rows[0].Name)
}

func TestCategoryAndSupplierCRUD(t *testing.T) {
	env := newTestEnv(t)
	catalog := newCatalog(t, env)

	category := &model.Category{Name: "Hardware"}
	require.NoError(t, catalog.CreateCategory(category))

	updated, err := catalog.UpdateCategory(category.ID, &model.Category{Name: "Tools", Description: "hand tools"})
	require.NoError(t, err)
	assert.Equal(t, "Tools", updated.Name)

	supplier := &model.Supplier{Name: "Acme", Email: "sales@acme.test"}
	require.NoError(t, catalog.CreateSupplier(supplier))

	suppliers, err := catalog.ListSuppliers()
	require.NoError(t, err)
	require.Len(t, suppliers, 1)

	require.NoError(t, catalog.DeleteSupplier(supplier.ID))
	require.NoError(t, catalog.DeleteCategory(category.ID))

	var notFoundErr *apperr.NotFoundError
	assert.ErrorAs(t, catalog.DeleteCategory(category.ID), &notFoundErr)
}
