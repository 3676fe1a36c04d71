package model

import "github.com/google/uuid"

// TransactionType is the closed set of stock movement kinds. Unknown strings
// are rejected at the API boundary, never deep in business logic.
type TransactionType string

const (
	TxIn         TransactionType = "IN"
	TxOut        TransactionType = "OUT"
	TxAdjustment TransactionType = "ADJUSTMENT"
)

// Valid reports whether t is one of the known movement kinds.
func (t TransactionType) Valid() bool {
	switch t {
	case TxIn, TxOut, TxAdjustment:
		return true
	}
	return false
}

// Transaction is one immutable entry in the stock ledger. Records are never
// updated after creation; corrections are expressed as new ADJUSTMENT entries
// or by (soft) deleting the offending record.
type Transaction struct {
	BaseModel
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product   *Product        `json:"product,omitempty" validate:"-"`
	Type      TransactionType `gorm:"type:varchar(16);not null" json:"type" validate:"required,oneof=IN OUT ADJUSTMENT"`
	Quantity  int             `gorm:"not null" json:"quantity" validate:"required"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null" json:"user_id" validate:"uuid_required"`
	User      *User           `gorm:"foreignKey:UserID" json:"user,omitempty" validate:"-"`
	Notes     string          `json:"notes"`
}

// SignedQuantity is the record's contribution to derived stock: OUT subtracts
// its quantity, IN adds it, and ADJUSTMENT carries its own sign.
func (t *Transaction) SignedQuantity() int {
	if t.Type == TxOut {
		return -t.Quantity
	}
	return t.Quantity
}
