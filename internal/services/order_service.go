// internal/services/order_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrilink/agrilink-backend/internal/apperrors"
	"github.com/agrilink/agrilink-backend/internal/feed"
	"github.com/agrilink/agrilink-backend/internal/models"
	"github.com/agrilink/agrilink-backend/internal/utils"
)

type OrderService struct {
	db            *gorm.DB
	broker        *feed.Broker
	notifications *NotificationService
}

type PlaceOrderRequest struct {
	CropID             uuid.UUID `json:"crop_id" validate:"required"`
	Quantity           float64   `json:"quantity" validate:"required,gt=0"`
	OfferedPrice       float64   `json:"offered_price" validate:"required,gt=0"`
	DeliveryPreference string    `json:"delivery_preference,omitempty" validate:"omitempty,max=255"`
	BuybackGuarantee   bool      `json:"buyback_guarantee,omitempty"`
	Notes              string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

func NewOrderService(db *gorm.DB, broker *feed.Broker, notifications *NotificationService) *OrderService {
	return &OrderService{
		db:            db,
		broker:        broker,
		notifications: notifications,
	}
}

// PlaceOrder creates a pending order against a listing. The total amount is
// derived here, once, from the requested quantity and offered price.
func (s *OrderService) PlaceOrder(vendorID uuid.UUID, req *PlaceOrderRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var crop models.Crop
	if err := s.db.First(&crop, req.CropID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("crop")
		}
		return nil, apperrors.NewTransportError("load crop", err)
	}

	if err := ValidatePlacement(&crop, req.Quantity, req.OfferedPrice); err != nil {
		return nil, err
	}

	order := &models.Order{
		CropID:             crop.ID,
		FarmerID:           crop.FarmerID,
		VendorID:           vendorID,
		Quantity:           req.Quantity,
		OfferedPrice:       req.OfferedPrice,
		TotalAmount:        OrderTotal(req.Quantity, req.OfferedPrice),
		DeliveryPreference: req.DeliveryPreference,
		BuybackGuarantee:   req.BuybackGuarantee,
		Notes:              req.Notes,
		Status:             models.OrderStatusPending,
	}

	if err := s.db.Create(order).Error; err != nil {
		return nil, apperrors.NewTransportError("create order", err)
	}

	order.Crop = crop
	s.publishOrderEvent("insert", order)
	go s.notifications.NotifyOrderPlaced(order)

	return order, nil
}

// Transition moves an order to the target status after checking the
// transition table. The update is compare-and-set on the current status so two
// racing actors cannot both win.
func (s *OrderService) Transition(orderID, actorID uuid.UUID, actorRole models.AppRole, target models.OrderStatus) (*models.Order, error) {
	order, err := s.getOrder(orderID)
	if err != nil {
		return nil, err
	}

	if err := CheckTransition(order, target, actorID, actorRole); err != nil {
		return nil, err
	}

	from := order.Status
	result := s.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, from).
		Update("status", target)
	if result.Error != nil {
		return nil, apperrors.NewTransportError("update order status", result.Error)
	}
	if result.RowsAffected == 0 {
		// Lost a race: the stored status moved between read and update.
		current, err := s.getOrder(orderID)
		if err != nil {
			return nil, err
		}
		return nil, apperrors.NewIllegalTransitionError(string(current.Status), string(target),
			"order status changed concurrently")
	}

	order.Status = target
	s.publishOrderEvent("update", order)
	go s.notifications.NotifyOrderStatusChanged(order, from)

	return order, nil
}

// GetOrder returns a single order visible to the actor. Orders are visible
// only to the two parties; anyone else gets not-found rather than a hint that
// the order exists.
func (s *OrderService) GetOrder(orderID, actorID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Crop").First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("order")
		}
		return nil, apperrors.NewTransportError("load order", err)
	}

	if order.FarmerID != actorID && order.VendorID != actorID {
		return nil, apperrors.NewNotFoundError("order")
	}

	return &order, nil
}

// GetOrders lists the actor's orders, newest first. Farmers see orders on
// their listings, vendors and buyers see orders they placed.
func (s *OrderService) GetOrders(actorID uuid.UUID, actorRole models.AppRole, status models.OrderStatus, params utils.PaginationParams) ([]models.Order, *utils.PaginationResult, error) {
	query := s.db.Model(&models.Order{}).Preload("Crop")

	if actorRole == models.AppRoleFarmer {
		query = query.Where("farmer_id = ?", actorID)
	} else {
		query = query.Where("vendor_id = ?", actorID)
	}

	if status != "" {
		if !status.Valid() {
			return nil, nil, apperrors.NewValidationError("status", "unknown status %q", status)
		}
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, apperrors.NewTransportError("count orders", err)
	}

	var orders []models.Order
	err := utils.ApplyPagination(query.Order("created_at DESC"), params).Find(&orders).Error
	if err != nil {
		return nil, nil, apperrors.NewTransportError("list orders", err)
	}

	pagination := utils.CreatePaginationResult(nil, total, params)
	return orders, &pagination, nil
}

// GetDeliveries lists the actor's orders that are moving or have arrived:
// confirmed, in transit, and delivered, newest first.
func (s *OrderService) GetDeliveries(actorID uuid.UUID, actorRole models.AppRole, params utils.PaginationParams) ([]models.Order, *utils.PaginationResult, error) {
	query := s.db.Model(&models.Order{}).Preload("Crop").
		Where("status IN ?", []models.OrderStatus{
			models.OrderStatusConfirmed,
			models.OrderStatusInTransit,
			models.OrderStatusDelivered,
		})

	if actorRole == models.AppRoleFarmer {
		query = query.Where("farmer_id = ?", actorID)
	} else {
		query = query.Where("vendor_id = ?", actorID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, apperrors.NewTransportError("count deliveries", err)
	}

	var orders []models.Order
	err := utils.ApplyPagination(query.Order("created_at DESC"), params).Find(&orders).Error
	if err != nil {
		return nil, nil, apperrors.NewTransportError("list deliveries", err)
	}

	pagination := utils.CreatePaginationResult(nil, total, params)
	return orders, &pagination, nil
}

func (s *OrderService) getOrder(orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("order")
		}
		return nil, apperrors.NewTransportError("load order", err)
	}
	return &order, nil
}

func (s *OrderService) publishOrderEvent(action string, order *models.Order) {
	s.broker.Publish(feed.Event{
		Table:  "orders",
		Action: action,
		RowID:  order.ID,
		Fields: map[string]string{
			"farmer_id": order.FarmerID.String(),
			"vendor_id": order.VendorID.String(),
		},
	})
}
