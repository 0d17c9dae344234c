// internal/services/crop_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/agrilink/agrilink-backend/internal/apperrors"
	"github.com/agrilink/agrilink-backend/internal/feed"
	"github.com/agrilink/agrilink-backend/internal/models"
	"github.com/agrilink/agrilink-backend/internal/utils"
)

type CropService struct {
	db     *gorm.DB
	broker *feed.Broker
}

type CreateCropRequest struct {
	CropType      string              `json:"crop_type" validate:"required,min=2,max=100"`
	Variety       string              `json:"variety,omitempty" validate:"omitempty,max=100"`
	Quantity      float64             `json:"quantity" validate:"required,gt=0"`
	Unit          string              `json:"unit,omitempty" validate:"omitempty,max=20"`
	QualityGrade  models.QualityGrade `json:"quality_grade,omitempty"`
	ExpectedPrice float64             `json:"expected_price" validate:"required,gt=0"`
	MinimumPrice  *float64            `json:"minimum_price,omitempty" validate:"omitempty,gt=0"`
	HarvestDate   *time.Time          `json:"harvest_date,omitempty"`
	Location      string              `json:"location,omitempty" validate:"omitempty,max=255"`
	Description   string              `json:"description,omitempty" validate:"omitempty,max=2000"`
	Images        []string            `json:"images,omitempty" validate:"omitempty,max=10"`
}

type UpdateCropRequest struct {
	Variety       *string              `json:"variety,omitempty" validate:"omitempty,max=100"`
	Quantity      *float64             `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	Unit          *string              `json:"unit,omitempty" validate:"omitempty,max=20"`
	QualityGrade  *models.QualityGrade `json:"quality_grade,omitempty"`
	ExpectedPrice *float64             `json:"expected_price,omitempty" validate:"omitempty,gt=0"`
	MinimumPrice  *float64             `json:"minimum_price,omitempty" validate:"omitempty,gt=0"`
	HarvestDate   *time.Time           `json:"harvest_date,omitempty"`
	Location      *string              `json:"location,omitempty" validate:"omitempty,max=255"`
	Description   *string              `json:"description,omitempty" validate:"omitempty,max=2000"`
	Status        *models.CropStatus   `json:"status,omitempty"`
}

// MarketplaceParams are the server-side filters for browsing listings. Price
// bounds are inclusive on both ends.
type MarketplaceParams struct {
	Search   string
	Status   models.CropStatus
	Quality  models.QualityGrade
	PriceMin *float64
	PriceMax *float64
}

// PriceSummary aggregates expected prices over marketplace-visible listings
// of one crop type.
type PriceSummary struct {
	CropType     string  `json:"crop_type"`
	Listings     int64   `json:"listings"`
	AveragePrice float64 `json:"average_price"`
	MinPrice     float64 `json:"min_price"`
	MaxPrice     float64 `json:"max_price"`
}

func NewCropService(db *gorm.DB, broker *feed.Broker) *CropService {
	return &CropService{
		db:     db,
		broker: broker,
	}
}

func (s *CropService) CreateCrop(farmerID uuid.UUID, req *CreateCropRequest) (*models.Crop, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.QualityGrade != "" && !req.QualityGrade.Valid() {
		return nil, apperrors.NewValidationError("quality_grade", "unknown quality grade %q", req.QualityGrade)
	}
	if req.MinimumPrice != nil && *req.MinimumPrice > req.ExpectedPrice {
		return nil, apperrors.NewValidationError("minimum_price",
			"minimum price %.2f exceeds expected price %.2f", *req.MinimumPrice, req.ExpectedPrice)
	}

	crop := &models.Crop{
		FarmerID:      farmerID,
		CropType:      req.CropType,
		Variety:       req.Variety,
		Quantity:      req.Quantity,
		Unit:          req.Unit,
		QualityGrade:  req.QualityGrade,
		ExpectedPrice: req.ExpectedPrice,
		MinimumPrice:  req.MinimumPrice,
		HarvestDate:   req.HarvestDate,
		Location:      req.Location,
		Description:   req.Description,
		Images:        pq.StringArray(req.Images),
		Status:        models.CropStatusFresh,
	}
	if crop.Unit == "" {
		crop.Unit = "kg"
	}
	if crop.QualityGrade == "" {
		crop.QualityGrade = models.QualityGradeStandard
	}

	if err := s.db.Create(crop).Error; err != nil {
		return nil, apperrors.NewTransportError("create crop", err)
	}

	s.publishCropEvent("insert", crop)
	return crop, nil
}

// GetFarmerCrops lists a farmer's own listings, optionally filtered to one
// status tab, newest first.
func (s *CropService) GetFarmerCrops(farmerID uuid.UUID, status models.CropStatus, params utils.PaginationParams) ([]models.Crop, *utils.PaginationResult, error) {
	query := s.db.Model(&models.Crop{}).Where("farmer_id = ?", farmerID)

	if status != "" {
		if !status.Valid() {
			return nil, nil, apperrors.NewValidationError("status", "unknown status %q", status)
		}
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, apperrors.NewTransportError("count crops", err)
	}

	var crops []models.Crop
	err := utils.ApplyPagination(query.Order("created_at DESC"), params).Find(&crops).Error
	if err != nil {
		return nil, nil, apperrors.NewTransportError("list crops", err)
	}

	pagination := utils.CreatePaginationResult(nil, total, params)
	return crops, &pagination, nil
}

// SearchMarketplace lists listings visible to vendors and buyers: only ready
// and surplus crops, newest first. Search matches crop type or variety,
// case-insensitively, as a substring. Status and quality filters are exact,
// price bounds inclusive.
func (s *CropService) SearchMarketplace(filters MarketplaceParams, params utils.PaginationParams) ([]models.Crop, *utils.PaginationResult, error) {
	query := s.db.Model(&models.Crop{}).Where("status IN ?", models.MarketplaceStatuses)

	if filters.Status != "" {
		visible := false
		for _, st := range models.MarketplaceStatuses {
			if filters.Status == st {
				visible = true
				break
			}
		}
		if !visible {
			return nil, nil, apperrors.NewValidationError("status",
				"status %q is not browsable; use ready or surplus", filters.Status)
		}
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where("crop_type ILIKE ? OR variety ILIKE ?", pattern, pattern)
	}
	if filters.Quality != "" {
		if !filters.Quality.Valid() {
			return nil, nil, apperrors.NewValidationError("quality_grade", "unknown quality grade %q", filters.Quality)
		}
		query = query.Where("quality_grade = ?", filters.Quality)
	}
	if filters.PriceMin != nil {
		query = query.Where("expected_price >= ?", *filters.PriceMin)
	}
	if filters.PriceMax != nil {
		query = query.Where("expected_price <= ?", *filters.PriceMax)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, apperrors.NewTransportError("count marketplace listings", err)
	}

	var crops []models.Crop
	err := utils.ApplyPagination(query.Order("created_at DESC"), params).Find(&crops).Error
	if err != nil {
		return nil, nil, apperrors.NewTransportError("search marketplace", err)
	}

	pagination := utils.CreatePaginationResult(nil, total, params)
	return crops, &pagination, nil
}

func (s *CropService) GetCrop(cropID uuid.UUID) (*models.Crop, error) {
	var crop models.Crop
	if err := s.db.First(&crop, cropID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("crop")
		}
		return nil, apperrors.NewTransportError("load crop", err)
	}
	return &crop, nil
}

func (s *CropService) UpdateCrop(cropID, farmerID uuid.UUID, req *UpdateCropRequest) (*models.Crop, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	crop, err := s.getOwnedCrop(cropID, farmerID)
	if err != nil {
		return nil, err
	}

	if req.Variety != nil {
		crop.Variety = *req.Variety
	}
	if req.Quantity != nil {
		crop.Quantity = *req.Quantity
	}
	if req.Unit != nil {
		crop.Unit = *req.Unit
	}
	if req.QualityGrade != nil {
		if !req.QualityGrade.Valid() {
			return nil, apperrors.NewValidationError("quality_grade", "unknown quality grade %q", *req.QualityGrade)
		}
		crop.QualityGrade = *req.QualityGrade
	}
	if req.ExpectedPrice != nil {
		crop.ExpectedPrice = *req.ExpectedPrice
	}
	if req.MinimumPrice != nil {
		crop.MinimumPrice = req.MinimumPrice
	}
	if req.HarvestDate != nil {
		crop.HarvestDate = req.HarvestDate
	}
	if req.Location != nil {
		crop.Location = *req.Location
	}
	if req.Description != nil {
		crop.Description = *req.Description
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, apperrors.NewValidationError("status", "unknown status %q", *req.Status)
		}
		crop.Status = *req.Status
	}

	if crop.MinimumPrice != nil && *crop.MinimumPrice > crop.ExpectedPrice {
		return nil, apperrors.NewValidationError("minimum_price",
			"minimum price %.2f exceeds expected price %.2f", *crop.MinimumPrice, crop.ExpectedPrice)
	}

	if err := s.db.Save(crop).Error; err != nil {
		return nil, apperrors.NewTransportError("update crop", err)
	}

	s.publishCropEvent("update", crop)
	return crop, nil
}

// MarkReady flips a fresh listing to ready, making it visible on the
// marketplace. The update is compare-and-set on the fresh status.
func (s *CropService) MarkReady(cropID, farmerID uuid.UUID) (*models.Crop, error) {
	crop, err := s.GetCrop(cropID)
	if err != nil {
		return nil, err
	}

	if err := CheckMarkReady(crop, farmerID); err != nil {
		return nil, err
	}

	result := s.db.Model(&models.Crop{}).
		Where("id = ? AND status = ?", crop.ID, models.CropStatusFresh).
		Update("status", models.CropStatusReady)
	if result.Error != nil {
		return nil, apperrors.NewTransportError("mark crop ready", result.Error)
	}
	if result.RowsAffected == 0 {
		current, err := s.GetCrop(cropID)
		if err != nil {
			return nil, err
		}
		return nil, apperrors.NewIllegalTransitionError(string(current.Status), string(models.CropStatusReady),
			"crop status changed concurrently")
	}

	crop.Status = models.CropStatusReady
	s.publishCropEvent("update", crop)
	return crop, nil
}

func (s *CropService) DeleteCrop(cropID, farmerID uuid.UUID) error {
	crop, err := s.getOwnedCrop(cropID, farmerID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(crop).Error; err != nil {
		return apperrors.NewTransportError("delete crop", err)
	}

	s.publishCropEvent("delete", crop)
	return nil
}

// AppendImage records an uploaded image URL on the listing.
func (s *CropService) AppendImage(cropID, farmerID uuid.UUID, url string) (*models.Crop, error) {
	crop, err := s.getOwnedCrop(cropID, farmerID)
	if err != nil {
		return nil, err
	}

	crop.Images = append(crop.Images, url)
	if err := s.db.Model(crop).Update("images", crop.Images).Error; err != nil {
		return nil, apperrors.NewTransportError("save crop image", err)
	}

	s.publishCropEvent("update", crop)
	return crop, nil
}

// PriceSummaries aggregates expected prices per crop type over marketplace
// listings, for the insights view.
func (s *CropService) PriceSummaries(cropType string) ([]PriceSummary, error) {
	query := s.db.Model(&models.Crop{}).
		Select("crop_type, COUNT(*) AS listings, AVG(expected_price) AS average_price, MIN(expected_price) AS min_price, MAX(expected_price) AS max_price").
		Where("status IN ?", models.MarketplaceStatuses).
		Group("crop_type").
		Order("crop_type ASC")

	if cropType != "" {
		query = query.Where("crop_type ILIKE ?", cropType)
	}

	var summaries []PriceSummary
	if err := query.Scan(&summaries).Error; err != nil {
		return nil, apperrors.NewTransportError("aggregate prices", err)
	}
	return summaries, nil
}

func (s *CropService) getOwnedCrop(cropID, farmerID uuid.UUID) (*models.Crop, error) {
	crop, err := s.GetCrop(cropID)
	if err != nil {
		return nil, err
	}
	if crop.FarmerID != farmerID {
		return nil, apperrors.NewNotFoundError("crop")
	}
	return crop, nil
}

func (s *CropService) publishCropEvent(action string, crop *models.Crop) {
	s.broker.Publish(feed.Event{
		Table:  "crops",
		Action: action,
		RowID:  crop.ID,
		Fields: map[string]string{
			"farmer_id": crop.FarmerID.String(),
			"status":    string(crop.Status),
		},
	})
}
