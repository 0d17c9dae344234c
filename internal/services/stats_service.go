// internal/services/stats_service.go
package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrilink/agrilink-backend/internal/apperrors"
	"github.com/agrilink/agrilink-backend/internal/models"
)

type StatsService struct {
	db *gorm.DB
}

// FarmerStats backs the farmer dashboard cards.
type FarmerStats struct {
	CropsByStatus  map[models.CropStatus]int64  `json:"crops_by_status"`
	OrdersByStatus map[models.OrderStatus]int64 `json:"orders_by_status"`
	PendingOrders  int64                        `json:"pending_orders"`
	Revenue        float64                      `json:"revenue"`
}

// VendorStats backs the vendor and buyer dashboard cards.
type VendorStats struct {
	OrdersByStatus map[models.OrderStatus]int64 `json:"orders_by_status"`
	ActiveOrders   int64                        `json:"active_orders"`
	TotalSpent     float64                      `json:"total_spent"`
}

type statusCount struct {
	Status string
	Count  int64
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

func (s *StatsService) FarmerDashboard(farmerID uuid.UUID) (*FarmerStats, error) {
	stats := &FarmerStats{
		CropsByStatus:  make(map[models.CropStatus]int64),
		OrdersByStatus: make(map[models.OrderStatus]int64),
	}

	var cropCounts []statusCount
	err := s.db.Model(&models.Crop{}).
		Select("status, COUNT(*) AS count").
		Where("farmer_id = ?", farmerID).
		Group("status").
		Scan(&cropCounts).Error
	if err != nil {
		return nil, apperrors.NewTransportError("count crops", err)
	}
	for _, c := range cropCounts {
		stats.CropsByStatus[models.CropStatus(c.Status)] = c.Count
	}

	var orderCounts []statusCount
	err = s.db.Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Where("farmer_id = ?", farmerID).
		Group("status").
		Scan(&orderCounts).Error
	if err != nil {
		return nil, apperrors.NewTransportError("count orders", err)
	}
	for _, c := range orderCounts {
		stats.OrdersByStatus[models.OrderStatus(c.Status)] = c.Count
	}
	stats.PendingOrders = stats.OrdersByStatus[models.OrderStatusPending]

	// Revenue counts only delivered orders.
	err = s.db.Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("farmer_id = ? AND status = ?", farmerID, models.OrderStatusDelivered).
		Scan(&stats.Revenue).Error
	if err != nil {
		return nil, apperrors.NewTransportError("sum revenue", err)
	}

	return stats, nil
}

func (s *StatsService) VendorDashboard(vendorID uuid.UUID) (*VendorStats, error) {
	stats := &VendorStats{
		OrdersByStatus: make(map[models.OrderStatus]int64),
	}

	var orderCounts []statusCount
	err := s.db.Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Where("vendor_id = ?", vendorID).
		Group("status").
		Scan(&orderCounts).Error
	if err != nil {
		return nil, apperrors.NewTransportError("count orders", err)
	}
	for _, c := range orderCounts {
		stats.OrdersByStatus[models.OrderStatus(c.Status)] = c.Count
	}
	stats.ActiveOrders = stats.OrdersByStatus[models.OrderStatusPending] +
		stats.OrdersByStatus[models.OrderStatusNegotiating] +
		stats.OrdersByStatus[models.OrderStatusConfirmed] +
		stats.OrdersByStatus[models.OrderStatusInTransit]

	// Spend counts only delivered orders.
	err = s.db.Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("vendor_id = ? AND status = ?", vendorID, models.OrderStatusDelivered).
		Scan(&stats.TotalSpent).Error
	if err != nil {
		return nil, apperrors.NewTransportError("sum spend", err)
	}

	return stats, nil
}
