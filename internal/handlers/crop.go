// internal/handlers/crop.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agrilink/agrilink-backend/internal/i18n"
	"github.com/agrilink/agrilink-backend/internal/models"
	"github.com/agrilink/agrilink-backend/internal/services"
	"github.com/agrilink/agrilink-backend/internal/utils"
)

type CropHandler struct {
	cropService    *services.CropService
	storageService *services.StorageService
}

func NewCropHandler(cropService *services.CropService, storageService *services.StorageService) *CropHandler {
	return &CropHandler{
		cropService:    cropService,
		storageService: storageService,
	}
}

// POST /crops
func (h *CropHandler) CreateCrop(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateCropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	crop, err := h.cropService.CreateCrop(userID, &req)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCropCreated),
		"crop":    crop,
	})
}

// GET /crops
func (h *CropHandler) GetMyCrops(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	status := models.CropStatus(c.Query("status"))
	params := utils.GetPaginationParams(c)

	crops, pagination, err := h.cropService.GetFarmerCrops(userID, status, params)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, gin.H{"crops": crops}, pagination)
}

// GET /marketplace
func (h *CropHandler) SearchMarketplace(c *gin.Context) {
	filters := services.MarketplaceParams{
		Search:  c.Query("search"),
		Status:  models.CropStatus(c.Query("status")),
		Quality: models.QualityGrade(c.Query("quality_grade")),
	}
	if v := c.Query("price_min"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filters.PriceMin = &f
		}
	}
	if v := c.Query("price_max"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filters.PriceMax = &f
		}
	}

	params := utils.GetPaginationParams(c)

	crops, pagination, err := h.cropService.SearchMarketplace(filters, params)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, gin.H{"crops": crops}, pagination)
}

// GET /marketplace/:id
func (h *CropHandler) GetCrop(c *gin.Context) {
	cropID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid crop ID", nil)
		return
	}

	crop, err := h.cropService.GetCrop(cropID)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"crop": crop})
}

// PUT /crops/:id
func (h *CropHandler) UpdateCrop(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	cropID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid crop ID", nil)
		return
	}

	var req services.UpdateCropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	crop, err := h.cropService.UpdateCrop(cropID, userID, &req)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCropUpdated),
		"crop":    crop,
	})
}

// POST /crops/:id/ready
func (h *CropHandler) MarkReady(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	cropID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid crop ID", nil)
		return
	}

	crop, err := h.cropService.MarkReady(cropID, userID)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCropMarkReady),
		"crop":    crop,
	})
}

// DELETE /crops/:id
func (h *CropHandler) DeleteCrop(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	cropID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid crop ID", nil)
		return
	}

	if err := h.cropService.DeleteCrop(cropID, userID); err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCropDeleted),
	})
}

// POST /crops/:id/images
func (h *CropHandler) UploadImage(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	cropID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid crop ID", nil)
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}
	defer file.Close()

	options := h.storageService.GetDefaultUploadOptions("crop_images")
	result, err := h.storageService.UploadFile(file, header, options)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}

	crop, err := h.cropService.AppendImage(cropID, userID, result.URL)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFileUploadSuccess),
		"upload":  result,
		"crop":    crop,
	})
}

// GET /insights/prices
func (h *CropHandler) PriceInsights(c *gin.Context) {
	summaries, err := h.cropService.PriceSummaries(c.Query("crop_type"))
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"prices": summaries})
}
