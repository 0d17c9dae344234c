// internal/services/payment_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"github.com/stripe/stripe-go/v74/refund"
	"gorm.io/gorm"

	"github.com/agrilink/agrilink-backend/internal/apperrors"
	"github.com/agrilink/agrilink-backend/internal/config"
	"github.com/agrilink/agrilink-backend/internal/models"
	"github.com/agrilink/agrilink-backend/internal/utils"
)

type PaymentService struct {
	db     *gorm.DB
	config *config.Config
}

type CreatePaymentIntentRequest struct {
	OrderID uuid.UUID `json:"order_id" validate:"required"`
}

type PaymentIntentResponse struct {
	ClientSecret string    `json:"client_secret"`
	PaymentID    uuid.UUID `json:"payment_id"`
	Status       string    `json:"status"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id" validate:"required"`
}

type RefundRequest struct {
	PaymentID uuid.UUID `json:"payment_id" validate:"required"`
	Reason    string    `json:"reason" validate:"required"`
}

func NewPaymentService(db *gorm.DB, config *config.Config) *PaymentService {
	// Initialize Stripe
	stripe.Key = config.Payment.StripeSecretKey

	return &PaymentService{
		db:     db,
		config: config,
	}
}

// CreatePaymentIntent starts the checkout for a confirmed order. Only the
// vendor who placed the order may pay, and only after the farmer confirmed.
func (s *PaymentService) CreatePaymentIntent(payerID uuid.UUID, req *CreatePaymentIntentRequest) (*PaymentIntentResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var order models.Order
	if err := s.db.First(&order, req.OrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("order")
		}
		return nil, apperrors.NewTransportError("load order", err)
	}

	if order.VendorID != payerID {
		return nil, apperrors.NewNotFoundError("order")
	}
	if order.Status != models.OrderStatusConfirmed {
		return nil, apperrors.NewValidationError("order_id",
			"order must be confirmed before payment; current status is %s", order.Status)
	}

	// Refuse a second intent for the same order
	var existing int64
	err := s.db.Model(&models.Payment{}).
		Where("order_id = ? AND status IN ?", order.ID,
			[]models.PaymentStatus{models.PaymentStatusPending, models.PaymentStatusCompleted}).
		Count(&existing).Error
	if err != nil {
		return nil, apperrors.NewTransportError("check existing payment", err)
	}
	if existing > 0 {
		return nil, apperrors.NewValidationError("order_id", "order already has a payment in progress")
	}

	// Stripe amounts are in the smallest currency unit
	amountInPaise := int64(order.TotalAmount * 100)

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountInPaise),
		Currency: stripe.String(s.config.Payment.Currency),
	}
	params.AddMetadata("order_id", order.ID.String())
	params.AddMetadata("payer_id", payerID.String())

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, apperrors.NewTransportError("create payment intent", err)
	}

	payment := &models.Payment{
		OrderID:         order.ID,
		PayerID:         payerID,
		PayeeID:         order.FarmerID,
		Amount:          order.TotalAmount,
		Currency:        s.config.Payment.Currency,
		PaymentIntentID: pi.ID,
		Status:          models.PaymentStatusPending,
	}
	if err := s.db.Create(payment).Error; err != nil {
		return nil, apperrors.NewTransportError("record payment", err)
	}

	return &PaymentIntentResponse{
		ClientSecret: pi.ClientSecret,
		PaymentID:    payment.ID,
		Status:       string(pi.Status),
	}, nil
}

// ConfirmPayment reconciles a payment record against its Stripe intent after
// the client-side flow finishes.
func (s *PaymentService) ConfirmPayment(req *ConfirmPaymentRequest) (*models.Payment, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	pi, err := paymentintent.Get(req.PaymentIntentID, nil)
	if err != nil {
		return nil, apperrors.NewTransportError("get payment intent", err)
	}

	var payment models.Payment
	if err := s.db.Where("payment_intent_id = ?", req.PaymentIntentID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("payment")
		}
		return nil, apperrors.NewTransportError("load payment", err)
	}

	updates := map[string]interface{}{}
	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		updates["status"] = models.PaymentStatusCompleted
		updates["processed_at"] = gorm.Expr("NOW()")
	case stripe.PaymentIntentStatusCanceled:
		updates["status"] = models.PaymentStatusFailed
		updates["failure_reason"] = "payment intent cancelled"
	default:
		// Still in flight; nothing to record yet.
		return &payment, nil
	}

	if err := s.db.Model(&payment).Updates(updates).Error; err != nil {
		return nil, apperrors.NewTransportError("update payment", err)
	}

	return &payment, nil
}

// RefundPayment reverses a completed payment through Stripe.
func (s *PaymentService) RefundPayment(req *RefundRequest) (*models.Payment, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var payment models.Payment
	if err := s.db.First(&payment, req.PaymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("payment")
		}
		return nil, apperrors.NewTransportError("load payment", err)
	}

	if payment.Status != models.PaymentStatusCompleted {
		return nil, apperrors.NewValidationError("payment_id",
			"only completed payments can be refunded; current status is %s", payment.Status)
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(payment.PaymentIntentID),
	}
	params.AddMetadata("reason", req.Reason)

	if _, err := refund.New(params); err != nil {
		return nil, apperrors.NewTransportError("create refund", err)
	}

	if err := s.db.Model(&payment).Update("status", models.PaymentStatusRefunded).Error; err != nil {
		return nil, apperrors.NewTransportError("update payment", err)
	}

	return &payment, nil
}

// GetPaymentHistory lists payments the user made or received, newest first.
func (s *PaymentService) GetPaymentHistory(userID uuid.UUID, params utils.PaginationParams) ([]models.Payment, *utils.PaginationResult, error) {
	query := s.db.Model(&models.Payment{}).
		Where("payer_id = ? OR payee_id = ?", userID, userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, apperrors.NewTransportError("count payments", err)
	}

	var payments []models.Payment
	err := utils.ApplyPagination(query.Order("created_at DESC"), params).Find(&payments).Error
	if err != nil {
		return nil, nil, apperrors.NewTransportError("list payments", err)
	}

	pagination := utils.CreatePaginationResult(nil, total, params)
	return payments, &pagination, nil
}
