// internal/models/common_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTheme(t *testing.T) {
	assert.Equal(t, ThemeFarmer, Theme(AppRoleFarmer))
	assert.Equal(t, ThemeVendor, Theme(AppRoleVendor))

	// Buyers share the vendor theme.
	assert.Equal(t, ThemeVendor, Theme(AppRoleBuyer))
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.True(t, OrderStatusDelivered.Terminal())
	assert.True(t, OrderStatusCancelled.Terminal())

	for _, s := range []OrderStatus{OrderStatusPending, OrderStatusNegotiating, OrderStatusConfirmed, OrderStatusInTransit} {
		assert.False(t, s.Terminal(), "%s", s)
	}
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, AppRoleFarmer.Valid())
	assert.False(t, AppRole("admin").Valid())

	assert.True(t, CropStatusSurplus.Valid())
	assert.False(t, CropStatus("rotten").Valid())

	assert.True(t, OrderStatusNegotiating.Valid())
	assert.False(t, OrderStatus("shipped").Valid())

	assert.True(t, QualityGradeA.Valid())
	assert.False(t, QualityGrade("grade_c").Valid())
}

func TestUserPrimaryRole(t *testing.T) {
	u := &User{Roles: []UserRole{{Role: AppRoleFarmer}}}
	assert.Equal(t, AppRoleFarmer, u.PrimaryRole())

	// No role rows defaults to the least privileged role.
	assert.Equal(t, AppRoleBuyer, (&User{}).PrimaryRole())
}

func TestUserPassword(t *testing.T) {
	u := &User{}
	assert.NoError(t, u.SetPassword("Sup3rSecret"))
	assert.NotEqual(t, "Sup3rSecret", u.PasswordHash)

	assert.NoError(t, u.CheckPassword("Sup3rSecret"))
	assert.Error(t, u.CheckPassword("wrong"))
}
