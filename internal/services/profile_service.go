// internal/services/profile_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrilink/agrilink-backend/internal/apperrors"
	"github.com/agrilink/agrilink-backend/internal/models"
	"github.com/agrilink/agrilink-backend/internal/utils"
)

type ProfileService struct {
	db *gorm.DB
}

type UpdateProfileRequest struct {
	FullName                *string                     `json:"full_name,omitempty" validate:"omitempty,min=2,max=100"`
	PhoneNumber             *string                     `json:"phone_number,omitempty" validate:"omitempty,phone"`
	PreferredLanguage       *models.UserLanguage        `json:"preferred_language,omitempty"`
	CommunicationPreference *models.CommunicationMethod `json:"communication_preference,omitempty"`
}

// CompleteOnboardingRequest records the choices made in the first-run flow.
type CompleteOnboardingRequest struct {
	PreferredLanguage       models.UserLanguage        `json:"preferred_language" validate:"required"`
	CommunicationPreference models.CommunicationMethod `json:"communication_preference" validate:"required"`
	PhoneNumber             string                     `json:"phone_number,omitempty" validate:"omitempty,phone"`
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

func (s *ProfileService) GetProfile(userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("profile")
		}
		return nil, apperrors.NewTransportError("load profile", err)
	}
	return &profile, nil
}

func (s *ProfileService) UpdateProfile(userID uuid.UUID, req *UpdateProfileRequest) (*models.Profile, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	profile, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		profile.FullName = *req.FullName
	}
	if req.PhoneNumber != nil {
		profile.PhoneNumber = *req.PhoneNumber
	}
	if req.PreferredLanguage != nil {
		profile.PreferredLanguage = *req.PreferredLanguage
	}
	if req.CommunicationPreference != nil {
		profile.CommunicationPreference = req.CommunicationPreference
	}

	if err := s.db.Save(profile).Error; err != nil {
		return nil, apperrors.NewTransportError("update profile", err)
	}
	return profile, nil
}

// CompleteOnboarding stores the first-run choices and marks onboarding done.
// Calling it again simply overwrites the stored preferences.
func (s *ProfileService) CompleteOnboarding(userID uuid.UUID, req *CompleteOnboardingRequest) (*models.Profile, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	profile, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	profile.PreferredLanguage = req.PreferredLanguage
	profile.CommunicationPreference = &req.CommunicationPreference
	if req.PhoneNumber != "" {
		profile.PhoneNumber = req.PhoneNumber
	}
	profile.OnboardingCompleted = true

	if err := s.db.Save(profile).Error; err != nil {
		return nil, apperrors.NewTransportError("complete onboarding", err)
	}
	return profile, nil
}
