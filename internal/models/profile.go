// internal/models/profile.go
package models

import (
	"github.com/google/uuid"
)

type Profile struct {
	BaseModel
	UserID                  uuid.UUID            `json:"user_id" gorm:"type:uuid;uniqueIndex;not null"`
	FullName                string               `json:"full_name" gorm:"size:255;not null"`
	PhoneNumber             string               `json:"phone_number,omitempty" gorm:"size:20"`
	PreferredLanguage       UserLanguage         `json:"preferred_language" gorm:"type:varchar(20);default:'english'"`
	CommunicationPreference *CommunicationMethod `json:"communication_preference,omitempty" gorm:"type:varchar(20)"`
	OnboardingCompleted     bool                 `json:"onboarding_completed" gorm:"default:false"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

type UserRole struct {
	BaseModel
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_roles_user_role"`
	Role   AppRole   `json:"role" gorm:"type:varchar(20);not null;uniqueIndex:idx_user_roles_user_role"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
