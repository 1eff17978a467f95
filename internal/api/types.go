package api

// APIError represents RESTful error response structure
type APIError struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// Common error codes
const (
	ErrorCodeInvalidRequest = "INVALID_REQUEST"
	ErrorCodeAuthRequired   = "AUTH_REQUIRED"
	ErrorCodeSigningFailed  = "SIGNING_FAILED"
	ErrorCodeVendorError    = "VENDOR_ERROR"
	ErrorCodeInternalError  = "INTERNAL_ERROR"
)
