package model

// Supplier is the external party a product is restocked from.
type Supplier struct {
	BaseModel
	Name        string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Email       string `gorm:"type:varchar(255)" json:"email" validate:"omitempty,email"`
	PhoneNumber string `gorm:"type:varchar(20)" json:"phone_number"`
	Address     string `gorm:"type:text" json:"address"`
}
