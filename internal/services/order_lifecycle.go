// internal/services/order_lifecycle.go
package services

import (
	"github.com/google/uuid"

	"github.com/agrilink/agrilink-backend/internal/apperrors"
	"github.com/agrilink/agrilink-backend/internal/models"
)

// orderTransitions is the complete set of legal order status changes. Every
// entry maps a (from, to) pair to the role allowed to perform it. Anything
// absent from the table is illegal, including any transition out of a
// terminal status.
//
// Note there is no path into negotiating: the status exists in the enum and
// is rendered when present in stored data, but no operation produces it yet.
var orderTransitions = map[models.OrderStatus]map[models.OrderStatus]models.AppRole{
	models.OrderStatusPending: {
		models.OrderStatusConfirmed: models.AppRoleFarmer,
		models.OrderStatusCancelled: models.AppRoleFarmer,
	},
	models.OrderStatusConfirmed: {
		models.OrderStatusInTransit: models.AppRoleFarmer,
	},
	models.OrderStatusInTransit: {
		models.OrderStatusDelivered: models.AppRoleFarmer,
	},
}

// CanTransition reports whether any role may move an order from one status to
// another.
func CanTransition(from, to models.OrderStatus) bool {
	_, ok := orderTransitions[from][to]
	return ok
}

// TransitionRole returns the role permitted to perform the transition, or
// false when the transition is illegal for everyone.
func TransitionRole(from, to models.OrderStatus) (models.AppRole, bool) {
	role, ok := orderTransitions[from][to]
	return role, ok
}

// CheckTransition decides whether the actor may move the order to the target
// status. It inspects only its arguments, so callers must pass the order's
// current stored state.
func CheckTransition(order *models.Order, target models.OrderStatus, actorID uuid.UUID, actorRole models.AppRole) error {
	if !target.Valid() {
		return apperrors.NewValidationError("status", "unknown status %q", target)
	}

	role, ok := orderTransitions[order.Status][target]
	if !ok {
		reason := ""
		if order.Status.Terminal() {
			reason = "order is in a terminal status"
		}
		return apperrors.NewIllegalTransitionError(string(order.Status), string(target), reason)
	}

	if actorRole != role {
		return apperrors.NewIllegalTransitionError(string(order.Status), string(target),
			"only the "+string(role)+" may perform this transition")
	}

	// The permitted role is always the farmer today, and only on their own
	// orders.
	if role == models.AppRoleFarmer && order.FarmerID != actorID {
		return apperrors.NewIllegalTransitionError(string(order.Status), string(target),
			"order belongs to another farmer")
	}

	return nil
}

// ValidatePlacement checks a proposed order against the listing it targets.
// Quantity may not exceed what the listing has available, and when the farmer
// set a minimum price the offer must meet it. Offers exactly at the minimum
// and orders for the exact available quantity both pass.
func ValidatePlacement(crop *models.Crop, quantity, offeredPrice float64) error {
	if quantity <= 0 {
		return apperrors.NewValidationError("quantity", "quantity must be greater than zero")
	}
	if quantity > crop.Quantity {
		return apperrors.NewValidationError("quantity",
			"requested %g %s exceeds available %g %s", quantity, crop.Unit, crop.Quantity, crop.Unit)
	}
	if offeredPrice <= 0 {
		return apperrors.NewValidationError("offered_price", "offered price must be greater than zero")
	}
	if crop.MinimumPrice != nil && offeredPrice < *crop.MinimumPrice {
		return apperrors.NewValidationError("offered_price",
			"offered price %.2f is below the minimum price %.2f", offeredPrice, *crop.MinimumPrice)
	}
	return nil
}

// CheckMarkReady decides whether the actor may flip a listing from fresh to
// ready. Only the owning farmer may do it, and only from fresh.
func CheckMarkReady(crop *models.Crop, actorID uuid.UUID) error {
	if crop.FarmerID != actorID {
		return apperrors.NewIllegalTransitionError(string(crop.Status), string(models.CropStatusReady),
			"listing belongs to another farmer")
	}
	if crop.Status != models.CropStatusFresh {
		return apperrors.NewIllegalTransitionError(string(crop.Status), string(models.CropStatusReady),
			"only fresh listings can be marked ready")
	}
	return nil
}

// OrderTotal derives the amount stored on a new order. It is computed once at
// placement and never re-derived afterwards, so later edits to the listing
// price do not move already-placed orders.
func OrderTotal(quantity, offeredPrice float64) float64 {
	return quantity * offeredPrice
}
