package model

import "github.com/google/uuid"

// Product is a catalog entry. It intentionally has no stock column: current
// stock is always derived by summing the transaction ledger, so a counter
// here could only drift out of sync.
type Product struct {
	BaseModel
	SKU          string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name         string     `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Unit         string     `gorm:"type:varchar(20)" json:"unit"`
	Price        int64      `gorm:"default:0" json:"price"`
	ReorderLevel int        `gorm:"default:10" json:"reorder_level" validate:"gte=0"`
	CategoryID   *uuid.UUID `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Category     *Category  `json:"category,omitempty" validate:"-"`
	SupplierID   *uuid.UUID `gorm:"type:uuid;index" json:"supplier_id,omitempty"`
	Supplier     *Supplier  `json:"supplier,omitempty" validate:"-"`

	Transactions []Transaction `json:"transactions,omitempty" validate:"-"`
}
