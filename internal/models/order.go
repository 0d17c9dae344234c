// internal/models/order.go
package models

import (
	"github.com/google/uuid"
)

// Order is a vendor's or buyer's request to purchase part of a crop listing.
// TotalAmount is fixed at creation (quantity * offered_price) and never
// re-derived afterwards.
type Order struct {
	BaseModel
	CropID             uuid.UUID   `json:"crop_id" gorm:"type:uuid;not null;index"`
	FarmerID           uuid.UUID   `json:"farmer_id" gorm:"type:uuid;not null;index"`
	VendorID           uuid.UUID   `json:"vendor_id" gorm:"type:uuid;not null;index"`
	Quantity           float64     `json:"quantity" gorm:"type:decimal(10,2);not null"`
	OfferedPrice       float64     `json:"offered_price" gorm:"type:decimal(10,2);not null"`
	TotalAmount        float64     `json:"total_amount" gorm:"type:decimal(12,2);not null"`
	DeliveryPreference string      `json:"delivery_preference,omitempty" gorm:"size:255"`
	BuybackGuarantee   bool        `json:"buyback_guarantee" gorm:"default:false"`
	Notes              string      `json:"notes,omitempty" gorm:"type:text"`
	Status             OrderStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`

	// Relationships
	Crop   Crop `json:"crop,omitempty" gorm:"foreignKey:CropID"`
	Farmer User `json:"farmer,omitempty" gorm:"foreignKey:FarmerID"`
	Vendor User `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`
}
