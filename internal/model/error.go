package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON          = "INVALID_JSON"
	ErrCodeMissingField         = "MISSING_FIELD"
	ErrCodeMenuItemNotFound     = "MENU_ITEM_NOT_FOUND"
	ErrCodeItemUnavailable      = "ITEM_UNAVAILABLE"
	ErrCodeInsufficientServings = "INSUFFICIENT_SERVINGS"
	ErrCodeInvalidQuantity      = "INVALID_QUANTITY"
	ErrCodeInvalidOrderType     = "INVALID_ORDER_TYPE"
	ErrCodeInvalidSeating       = "INVALID_SEATING"
	ErrCodeOrderNotFound        = "ORDER_NOT_FOUND"
	ErrCodeDeviceBlocked        = "DEVICE_BLOCKED"
	ErrCodeMissingAddress       = "MISSING_ADDRESS"
	ErrCodeDeliveryUnavailable  = "DELIVERY_UNAVAILABLE"
	ErrCodeInvalidRole          = "INVALID_ROLE"
	ErrCodePasswordTooShort     = "PASSWORD_TOO_SHORT"
	ErrCodeEmailTaken           = "EMAIL_TAKEN"
	ErrCodeSelfDelete           = "SELF_DELETE"
	ErrCodeUserNotFound         = "USER_NOT_FOUND"
	ErrCodeUnauthorised         = "UNAUTHORIZED"
	ErrCodeForbidden            = "FORBIDDEN"
	ErrCodeInternalError        = "INTERNAL_ERROR"
)

// DomainError carries a stable code alongside the message so handlers can
// map business failures to HTTP statuses.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrMenuItemNotFound     = NewDomainError(ErrCodeMenuItemNotFound, "One or more menu items not found")
	ErrItemUnavailable      = NewDomainError(ErrCodeItemUnavailable, "One or more menu items are not available")
	ErrInsufficientServings = NewDomainError(ErrCodeInsufficientServings, "Not enough servings left for the requested quantity")
	ErrInvalidQuantity      = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInvalidOrderType     = NewDomainError(ErrCodeInvalidOrderType, "Order type must be table, delivery or saboy")
	ErrInvalidSeating       = NewDomainError(ErrCodeInvalidSeating, "Exactly one of table number or room number is required")
	ErrOrderNotFound        = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrDeviceBlocked        = NewDomainError(ErrCodeDeviceBlocked, "This device is blocked from placing orders")
	ErrEmailTaken           = NewDomainError(ErrCodeEmailTaken, "A user with this email already exists")
	ErrSelfDelete           = NewDomainError(ErrCodeSelfDelete, "Admins cannot delete their own account")
	ErrUserNotFound         = NewDomainError(ErrCodeUserNotFound, "User not found")
	ErrMissingAddress       = NewDomainError(ErrCodeMissingAddress, "Delivery orders require an address")
	ErrDeliveryUnavailable  = NewDomainError(ErrCodeDeliveryUnavailable, "Delivery is currently switched off")
	ErrInvalidRole          = NewDomainError(ErrCodeInvalidRole, "Role must be admin or waiter")
	ErrPasswordTooShort     = NewDomainError(ErrCodePasswordTooShort, "Password must be at least 6 characters")
)
