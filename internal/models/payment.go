// internal/models/payment.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Payment struct {
	BaseModel
	OrderID         uuid.UUID     `json:"order_id" gorm:"type:uuid;not null;index"`
	PayerID         uuid.UUID     `json:"payer_id" gorm:"type:uuid;not null;index"`
	PayeeID         uuid.UUID     `json:"payee_id" gorm:"type:uuid;not null;index"`
	Amount          float64       `json:"amount" gorm:"type:decimal(12,2);not null"`
	Currency        string        `json:"currency" gorm:"size:3;not null;default:'inr'"`
	PaymentIntentID string        `json:"payment_intent_id" gorm:"size:255;index"`
	Status          PaymentStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	ProcessedAt     *time.Time    `json:"processed_at"`
	FailureReason   string        `json:"failure_reason,omitempty" gorm:"type:text"`

	// Relationships
	Order Order `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	Payer User  `json:"payer,omitempty" gorm:"foreignKey:PayerID"`
	Payee User  `json:"payee,omitempty" gorm:"foreignKey:PayeeID"`
}
