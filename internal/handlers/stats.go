// internal/handlers/stats.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/agrilink/agrilink-backend/internal/models"
	"github.com/agrilink/agrilink-backend/internal/services"
	"github.com/agrilink/agrilink-backend/internal/utils"
)

type StatsHandler struct {
	statsService *services.StatsService
}

func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// GET /stats/dashboard
func (h *StatsHandler) Dashboard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	role := currentRole(c)

	if role == models.AppRoleFarmer {
		stats, err := h.statsService.FarmerDashboard(userID)
		if err != nil {
			utils.DomainErrorResponse(c, err)
			return
		}
		utils.SuccessResponse(c, gin.H{"stats": stats, "theme": models.Theme(role)})
		return
	}

	stats, err := h.statsService.VendorDashboard(userID)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"stats": stats, "theme": models.Theme(role)})
}
