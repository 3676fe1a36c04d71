package service

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/E7itism/stockerflow-sub001/internal/apperr"
	"github.com/E7itism/stockerflow-sub001/internal/model"
)

func TestAppendDerivesStock(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "SKU-001", "Widget", 10)

	_, current := env.append(t, product.ID, model.TxIn, 100)
	assert.Equal(t, 100, current)

	_, current = env.append(t, product.ID, model.TxOut, 30)
	assert.Equal(t, 70, current)

	_, current = env.append(t, product.ID, model.TxAdjustment, -5)
	assert.Equal(t, 65, current)

	derived, err := env.stocks.CurrentStock(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 65, derived)
}

func TestAppendInsufficientStock(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "SKU-002", "Gadget", 10)

	env.append(t, product.ID, model.TxIn, 100)
	env.append(t, product.ID, model.TxOut, 30)

	_, _, err := env.ledger.Append(&model.Transaction{
		ProductID: product.ID,
		Type:      model.TxOut,
		Quantity:  80,
	}, env.actor)

	var insufficientErr *apperr.InsufficientStockError
	require.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, 70, insufficientErr.Current)
	assert.Equal(t, 80, insufficientErr.Requested)

	// The failed append must leave the ledger untouched.
	records, err := env.ledger.ListByProduct(product.ID)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	current, err := env.stocks.CurrentStock(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 70, current)
}

func TestAppendValidation(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "SKU-003", "Bolt", 10)

	cases := []struct {
		name string
		req  model.Transaction
	}{
		{"unknown type", model.Transaction{ProductID: product.ID, Type: "TRANSFER", Quantity: 5}},
		{"zero quantity out", model.Transaction{ProductID: product.ID, Type: model.TxOut, Quantity: 0}},
		{"negative quantity in", model.Transaction{ProductID: product.ID, Type: model.TxIn, Quantity: -3}},
		{"zero adjustment", model.Transaction{ProductID: product.ID, Type: model.TxAdjustment, Quantity: 0}},
		{"missing product", model.Transaction{Type: model.TxIn, Quantity: 5}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := env.ledger.Append(&tc.req, env.actor)
			var validationErr *apperr.ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}

	t.Run("missing principal", func(t *testing.T) {
		_, _, err := env.ledger.Append(&model.Transaction{
			ProductID: product.ID,
			Type:      model.TxIn,
			Quantity:  5,
		}, Principal{})
		var validationErr *apperr.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	// No record slipped through any of the rejected appends.
	records, err := env.ledger.ListByProduct(product.ID)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAppendUnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.ledger.Append(&model.Transaction{
		ProductID: uuid.New(),
		Type:      model.TxIn,
		Quantity:  5,
	}, env.actor)

	var notFoundErr *apperr.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, "product", notFoundErr.Resource)
}

func TestConcurrentOutAppends(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "SKU-004", "Scarce", 10)
	env.append(t, product.ID, model.TxIn, 100)

	// Two removers whose combined quantity exceeds available stock: exactly
	// one may commit.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = env.ledger.Append(&model.Transaction{
				ProductID: product.ID,
				Type:      model.TxOut,
				Quantity:  60,
			}, env.actor)
		}(i)
	}
	wg.Wait()

	var failures int
	for _, err := range errs {
		if err != nil {
			var insufficientErr *apperr.InsufficientStockError
			require.ErrorAs(t, err, &insufficientErr)
			assert.Equal(t, 40, insufficientErr.Current)
			assert.Equal(t, 60, insufficientErr.Requested)
			failures++
		}
	}
	assert.Equal(t, 1, failures)

	current, err := env.stocks.CurrentStock(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, current)
}

func TestListRecent(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "SKU-005", "Nut", 10)

	quantities := []int{10, 20, 30, 40, 50}
	for _, q := range quantities {
		env.append(t, product.ID, model.TxIn, q)
		time.Sleep(time.Millisecond)
	}

	records, err := env.ledger.ListRecent(2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 50, records[0].Quantity)
	assert.Equal(t, 40, records[1].Quantity)

	// Zero or negative falls back to the default of 10.
	records, err = env.ledger.ListRecent(0)
	require.NoError(t, err)
	assert.Len(t, records, 5)
}

func TestListByProduct(t *testing.T) {
	env := newTestEnv(t)
	widget := env.createProduct(t, "SKU-006", "Widget", 10)
	other := env.createProduct(t, "SKU-007", "Other", 10)

	env.append(t, widget.ID, model.TxIn, 10)
	time.Sleep(time.Millisecond)
	env.append(t, other.ID, model.TxIn, 99)
	time.Sleep(time.Millisecond)
	env.append(t, widget.ID, model.TxIn, 20)

	records, err := env.ledger.ListByProduct(widget.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 20, records[0].Quantity)
	assert.Equal(t, 10, records[1].Quantity)

	_, err = env.ledger.ListByProduct(uuid.New())
	var notFoundErr *apperr.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
}

func TestDeleteExcludesFromAggregates(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "SKU-008", "Correctable", 10)

	env.append(t, product.ID, model.TxIn, 100)
	outRecord, _ := env.append(t, product.ID, model.TxOut, 30)

	require.NoError(t, env.ledger.Delete(outRecord.ID, env.actor))

	current, err := env.stocks.CurrentStock(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, current)

	_, err = env.ledger.Get(outRecord.ID)
	var notFoundErr *apperr.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)

	err = env.ledger.Delete(uuid.New(), env.actor)
	assert.ErrorAs(t, err, &notFoundErr)
}

func TestGetIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "SKU-009", "Stable", 10)
	record, _ := env.append(t, product.ID, model.TxIn, 42)

	first, err := env.ledger.Get(record.ID)
	require.NoError(t, err)
	second, err := env.ledger.Get(record.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Quantity, second.Quantity)
	assert.Equal(t, first.Type, second.Type)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))
}
