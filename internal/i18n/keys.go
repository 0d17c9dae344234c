// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthLogoutSuccess      = "auth.logout_success"
	KeyAuthRegisterSuccess    = "auth.register_success"

	// Roles
	KeyRoleAccessDenied = "role.access_denied"
	KeyRoleInvalid      = "role.invalid"

	// Profiles
	KeyProfileUpdated  = "profile.updated"
	KeyProfileNotFound = "profile.not_found"

	// Crops
	KeyCropCreated   = "crop.created"
	KeyCropUpdated   = "crop.updated"
	KeyCropDeleted   = "crop.deleted"
	KeyCropNotFound  = "crop.not_found"
	KeyCropMarkReady = "crop.marked_ready"

	// Orders
	KeyOrderPlaced    = "order.placed"
	KeyOrderNotFound  = "order.not_found"
	KeyOrderConfirmed = "order.confirmed"
	KeyOrderCancelled = "order.cancelled"
	KeyOrderInTransit = "order.in_transit"
	KeyOrderDelivered = "order.delivered"

	// Payments
	KeyPaymentSuccess  = "payment.success"
	KeyPaymentFailed   = "payment.failed"
	KeyPaymentNotFound = "payment.not_found"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"

	// File Upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
)
