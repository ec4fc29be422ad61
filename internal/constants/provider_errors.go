package constants

// Provider error codes
const (
	ErrCodeNetworkError      = "NETWORK_ERROR"
	ErrCodeInvalidAPIKey     = "INVALID_API_KEY"
	ErrCodeRateLimited       = "RATE_LIMITED"
	ErrCodeInvalidDataFormat = "INVALID_DATA_FORMAT"
	ErrCodeNotFound          = "RESOURCE_NOT_FOUND"
)

var providerErrorMessages = map[string]string{
	ErrCodeNetworkError:      "Failed to reach flight data provider",
	ErrCodeInvalidAPIKey:     "Provider rejected the configured API key",
	ErrCodeRateLimited:       "Provider rate limit exceeded, retry later",
	ErrCodeInvalidDataFormat: "Provider returned data in an unexpected format",
	ErrCodeNotFound:          "Requested flight was not found",
}

// GetErrorMessage returns the human-readable message for an error code.
func GetErrorMessage(code string) string {
	if msg, ok := providerErrorMessages[code]; ok {
		return msg
	}
	return "Unknown provider error"
}
