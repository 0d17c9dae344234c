// internal/services/order_lifecycle_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrilink/agrilink-backend/internal/apperrors"
	"github.com/agrilink/agrilink-backend/internal/models"
)

var allOrderStatuses = []models.OrderStatus{
	models.OrderStatusPending,
	models.OrderStatusNegotiating,
	models.OrderStatusConfirmed,
	models.OrderStatusInTransit,
	models.OrderStatusDelivered,
	models.OrderStatusCancelled,
}

func TestTransitionTable(t *testing.T) {
	legal := map[[2]models.OrderStatus]bool{
		{models.OrderStatusPending, models.OrderStatusConfirmed}:   true,
		{models.OrderStatusPending, models.OrderStatusCancelled}:   true,
		{models.OrderStatusConfirmed, models.OrderStatusInTransit}: true,
		{models.OrderStatusInTransit, models.OrderStatusDelivered}: true,
	}

	// Every (from, to) pair must agree with the table, including self
	// transitions and everything out of terminal statuses.
	for _, from := range allOrderStatuses {
		for _, to := range allOrderStatuses {
			got := CanTransition(from, to)
			want := legal[[2]models.OrderStatus{from, to}]
			assert.Equal(t, want, got, "transition %s -> %s", from, to)
		}
	}
}

func TestTransitionsOutOfTerminalStatuses(t *testing.T) {
	for _, from := range []models.OrderStatus{models.OrderStatusDelivered, models.OrderStatusCancelled} {
		require.True(t, from.Terminal())
		for _, to := range allOrderStatuses {
			assert.False(t, CanTransition(from, to), "terminal %s must not allow -> %s", from, to)
		}
	}
}

func TestEveryTransitionRequiresFarmer(t *testing.T) {
	for _, from := range allOrderStatuses {
		for _, to := range allOrderStatuses {
			if role, ok := TransitionRole(from, to); ok {
				assert.Equal(t, models.AppRoleFarmer, role, "%s -> %s", from, to)
			}
		}
	}
}

func TestNegotiatingIsUnreachable(t *testing.T) {
	for _, from := range allOrderStatuses {
		assert.False(t, CanTransition(from, models.OrderStatusNegotiating),
			"nothing may move into negotiating, from %s", from)
	}
}

func TestCheckTransition(t *testing.T) {
	farmerID := uuid.New()
	vendorID := uuid.New()
	otherFarmer := uuid.New()

	order := &models.Order{
		FarmerID: farmerID,
		VendorID: vendorID,
		Status:   models.OrderStatusPending,
	}
	order.ID = uuid.New()

	t.Run("farmer confirms own order", func(t *testing.T) {
		err := CheckTransition(order, models.OrderStatusConfirmed, farmerID, models.AppRoleFarmer)
		assert.NoError(t, err)
	})

	t.Run("vendor cannot confirm", func(t *testing.T) {
		err := CheckTransition(order, models.OrderStatusConfirmed, vendorID, models.AppRoleVendor)
		require.Error(t, err)
		assert.True(t, apperrors.IsIllegalTransition(err))
	})

	t.Run("another farmer cannot confirm", func(t *testing.T) {
		err := CheckTransition(order, models.OrderStatusConfirmed, otherFarmer, models.AppRoleFarmer)
		require.Error(t, err)
		assert.True(t, apperrors.IsIllegalTransition(err))
	})

	t.Run("cannot skip to delivered", func(t *testing.T) {
		err := CheckTransition(order, models.OrderStatusDelivered, farmerID, models.AppRoleFarmer)
		require.Error(t, err)
		assert.True(t, apperrors.IsIllegalTransition(err))
	})

	t.Run("unknown target status", func(t *testing.T) {
		err := CheckTransition(order, models.OrderStatus("shipped"), farmerID, models.AppRoleFarmer)
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestCheckTransitionFullLifecycle(t *testing.T) {
	farmerID := uuid.New()
	order := &models.Order{
		FarmerID: farmerID,
		VendorID: uuid.New(),
		Status:   models.OrderStatusPending,
	}

	steps := []models.OrderStatus{
		models.OrderStatusConfirmed,
		models.OrderStatusInTransit,
		models.OrderStatusDelivered,
	}
	for _, next := range steps {
		require.NoError(t, CheckTransition(order, next, farmerID, models.AppRoleFarmer))
		order.Status = next
	}

	// Delivered is the end of the road.
	err := CheckTransition(order, models.OrderStatusPending, farmerID, models.AppRoleFarmer)
	require.Error(t, err)

	var ite *apperrors.IllegalTransitionError
	require.ErrorAs(t, err, &ite)
	assert.Equal(t, string(models.OrderStatusDelivered), ite.From)
}

func TestValidatePlacement(t *testing.T) {
	min := 20.0
	crop := &models.Crop{
		Quantity:      100,
		Unit:          "kg",
		ExpectedPrice: 25,
		MinimumPrice:  &min,
	}

	t.Run("valid order", func(t *testing.T) {
		assert.NoError(t, ValidatePlacement(crop, 50, 22))
	})

	t.Run("quantity over available", func(t *testing.T) {
		err := ValidatePlacement(crop, 150, 22)
		require.Error(t, err)

		var ve *apperrors.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "quantity", ve.Field)
	})

	t.Run("exact available quantity passes", func(t *testing.T) {
		assert.NoError(t, ValidatePlacement(crop, 100, 22))
	})

	t.Run("offer below minimum", func(t *testing.T) {
		err := ValidatePlacement(crop, 50, 19.99)
		require.Error(t, err)

		var ve *apperrors.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "offered_price", ve.Field)
	})

	t.Run("offer exactly at minimum passes", func(t *testing.T) {
		assert.NoError(t, ValidatePlacement(crop, 50, 20))
	})

	t.Run("no minimum price set", func(t *testing.T) {
		open := &models.Crop{Quantity: 100, Unit: "kg", ExpectedPrice: 25}
		assert.NoError(t, ValidatePlacement(open, 50, 0.01))
	})

	t.Run("zero quantity", func(t *testing.T) {
		err := ValidatePlacement(crop, 0, 22)
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("zero price", func(t *testing.T) {
		err := ValidatePlacement(crop, 50, 0)
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestOrderTotal(t *testing.T) {
	assert.Equal(t, 1100.0, OrderTotal(50, 22))
	assert.Equal(t, 2000.0, OrderTotal(100, 20))
	assert.Equal(t, 0.5, OrderTotal(0.25, 2))
}

func TestCheckMarkReady(t *testing.T) {
	farmerID := uuid.New()

	t.Run("owner marks fresh crop", func(t *testing.T) {
		crop := &models.Crop{FarmerID: farmerID, Status: models.CropStatusFresh}
		assert.NoError(t, CheckMarkReady(crop, farmerID))
	})

	t.Run("non-owner rejected", func(t *testing.T) {
		crop := &models.Crop{FarmerID: farmerID, Status: models.CropStatusFresh}
		err := CheckMarkReady(crop, uuid.New())
		require.Error(t, err)
		assert.True(t, apperrors.IsIllegalTransition(err))
	})

	t.Run("already ready rejected", func(t *testing.T) {
		crop := &models.Crop{FarmerID: farmerID, Status: models.CropStatusReady}
		err := CheckMarkReady(crop, farmerID)
		require.Error(t, err)
		assert.True(t, apperrors.IsIllegalTransition(err))
	})

	t.Run("sold crop rejected", func(t *testing.T) {
		crop := &models.Crop{FarmerID: farmerID, Status: models.CropStatusSold}
		err := CheckMarkReady(crop, farmerID)
		require.Error(t, err)
		assert.True(t, apperrors.IsIllegalTransition(err))
	})
}
