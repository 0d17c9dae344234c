// internal/models/crop.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Crop is a farmer's listing: quantity on offer, price bounds, and a
// status that walks fresh -> ready -> surplus -> sold.
type Crop struct {
	BaseModel
	FarmerID      uuid.UUID      `json:"farmer_id" gorm:"type:uuid;not null;index"`
	CropType      string         `json:"crop_type" gorm:"size:100;not null;index"`
	Variety       string         `json:"variety,omitempty" gorm:"size:100"`
	Quantity      float64        `json:"quantity" gorm:"type:decimal(10,2);not null"`
	Unit          string         `json:"unit" gorm:"size:20;not null;default:'kg'"`
	QualityGrade  QualityGrade   `json:"quality_grade" gorm:"type:varchar(20);default:'standard';index"`
	ExpectedPrice float64        `json:"expected_price" gorm:"type:decimal(10,2);not null"`
	MinimumPrice  *float64       `json:"minimum_price,omitempty" gorm:"type:decimal(10,2)"`
	HarvestDate   *time.Time     `json:"harvest_date,omitempty" gorm:"type:date"`
	Location      string         `json:"location,omitempty" gorm:"size:255"`
	Description   string         `json:"description,omitempty" gorm:"type:text"`
	Images        pq.StringArray `json:"images,omitempty" gorm:"type:text[]"`
	Status        CropStatus     `json:"status" gorm:"type:varchar(20);default:'fresh';index"`

	// Relationships
	Farmer User    `json:"farmer,omitempty" gorm:"foreignKey:FarmerID"`
	Orders []Order `json:"orders,omitempty" gorm:"foreignKey:CropID"`
}

// MarketplaceStatuses are the only crop statuses visible to vendors and buyers.
var MarketplaceStatuses = []CropStatus{CropStatusReady, CropStatusSurplus}
