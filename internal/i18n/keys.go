// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthRegisterSuccess    = "auth.register_success"

	// Access control
	KeyAccessDenied      = "access.denied"
	KeyAdminAccessDenied = "access.admin_only"

	// Products
	KeyProductCreated  = "product.created"
	KeyProductUpdated  = "product.updated"
	KeyProductDeleted  = "product.deleted"
	KeyProductNotFound = "product.not_found"
	KeyProductApproved = "product.approved"

	// Notifications
	KeyNotificationNotFound = "notification.not_found"
	KeyNotificationHidden   = "notification.hidden"
	KeyNotificationRestored = "notification.restored"
	KeyNotificationRead     = "notification.read"

	// Settings
	KeySettingsUpdated = "settings.updated"

	// File upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileInvalidType   = "file.invalid_type"
	KeyFileTooLarge      = "file.too_large"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
)
