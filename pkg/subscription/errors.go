package subscription

import "errors"

var (
	ErrMissingBaseURL   = errors.New("billing API base URL is required")
	ErrInvalidBaseURL   = errors.New("invalid billing API base URL")
	ErrUnexpectedStatus = errors.New("billing API returned unexpected status")
	ErrDecodeResponse   = errors.New("failed to decode billing API response")

	ErrFetchSubscription = errors.New("failed to fetch current subscription")
	ErrFetchUsage        = errors.New("failed to fetch usage stats")
)
