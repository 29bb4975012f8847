package models

import "time"

// ProductStatus is the operator's working annotation per product.
// Single-operator tool: writes are last-wins by design of the product.
type ProductStatus struct {
	ProductID string    `gorm:"primaryKey;type:text"`
	Status    string    `gorm:"type:varchar(40);not null"`
	Note      string    `gorm:"type:text"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (ProductStatus) TableName() string {
	return "product_statuses"
}
