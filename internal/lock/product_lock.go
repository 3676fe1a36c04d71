package lock

import (
	"sync"

	"github.com/google/uuid"
)

// ProductLocker hands out one mutex per product id so that a stock check and
// the append that depends on it run as a single critical section for that
// product. Different products never block each other. Mutexes are created on
// first use and kept for the life of the process; the working set is bounded
// by the catalog size.
type ProductLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewProductLocker() *ProductLocker {
	return &ProductLocker{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// Lock acquires the mutex for the given product, blocking until it is free.
func (l *ProductLocker) Lock(productID uuid.UUID) {
	l.get(productID).Lock()
}

// Unlock releases the mutex for the given product.
func (l *ProductLocker) Unlock(productID uuid.UUID) {
	l.get(productID).Unlock()
}

func (l *ProductLocker) get(productID uuid.UUID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[productID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[productID] = m
	}
	return m
}
