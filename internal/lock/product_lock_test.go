package lock

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestLockSerializesSameProduct(t *testing.T) {
	locker := NewProductLocker()
	productID := uuid.New()

	var counter int
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			locker.Lock(productID)
			defer locker.Unlock(productID)
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestDifferentProductsDoNotBlock(t *testing.T) {
	locker := NewProductLocker()
	productA := uuid.New()
	productB := uuid.New()

	locker.Lock(productA)
	defer locker.Unlock(productA)

	acquired := make(chan struct{})
	go func() {
		locker.Lock(productB)
		defer locker.Unlock(productB)
		close(acquired)
	}()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("lock on a different product should not block")
	}
}

func TestLockIsStablePerProduct(t *testing.T) {
	locker := NewProductLocker()
	productID := uuid.New()

	// Lock/unlock cycles must reuse the same mutex.
	locker.Lock(productID)
	locker.Unlock(productID)
	assert.Same(t, locker.get(productID), locker.get(productID))
}
