// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type AppRole string

const (
	AppRoleFarmer AppRole = "farmer"
	AppRoleVendor AppRole = "vendor"
	AppRoleBuyer  AppRole = "buyer"
)

func (r AppRole) Valid() bool {
	switch r {
	case AppRoleFarmer, AppRoleVendor, AppRoleBuyer:
		return true
	}
	return false
}

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

type CropStatus string

const (
	CropStatusFresh   CropStatus = "fresh"
	CropStatusReady   CropStatus = "ready"
	CropStatusSurplus CropStatus = "surplus"
	CropStatusSold    CropStatus = "sold"
)

func (s CropStatus) Valid() bool {
	switch s {
	case CropStatusFresh, CropStatusReady, CropStatusSurplus, CropStatusSold:
		return true
	}
	return false
}

type OrderStatus string

const (
	OrderStatusPending     OrderStatus = "pending"
	OrderStatusNegotiating OrderStatus = "negotiating"
	OrderStatusConfirmed   OrderStatus = "confirmed"
	OrderStatusInTransit   OrderStatus = "in_transit"
	OrderStatusDelivered   OrderStatus = "delivered"
	OrderStatusCancelled   OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusNegotiating, OrderStatusConfirmed,
		OrderStatusInTransit, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal statuses accept no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

type QualityGrade string

const (
	QualityGradePremium  QualityGrade = "premium"
	QualityGradeA        QualityGrade = "grade_a"
	QualityGradeB        QualityGrade = "grade_b"
	QualityGradeStandard QualityGrade = "standard"
)

func (g QualityGrade) Valid() bool {
	switch g {
	case QualityGradePremium, QualityGradeA, QualityGradeB, QualityGradeStandard:
		return true
	}
	return false
}

type UserLanguage string

const (
	LanguageEnglish UserLanguage = "english"
	LanguageTamil   UserLanguage = "tamil"
	LanguageHindi   UserLanguage = "hindi"
	LanguageTelugu  UserLanguage = "telugu"
	LanguageKannada UserLanguage = "kannada"
)

type CommunicationMethod string

const (
	CommunicationApp      CommunicationMethod = "app"
	CommunicationSMS      CommunicationMethod = "sms"
	CommunicationVoice    CommunicationMethod = "voice"
	CommunicationWhatsApp CommunicationMethod = "whatsapp"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// ThemeID selects the UI theme rendered for a role. Derived, never stored.
type ThemeID string

const (
	ThemeFarmer ThemeID = "theme-farmer"
	ThemeVendor ThemeID = "theme-vendor"
)

// Theme maps a role to its theme. Vendors and buyers share the vendor theme.
func Theme(role AppRole) ThemeID {
	if role == AppRoleFarmer {
		return ThemeFarmer
	}
	return ThemeVendor
}
