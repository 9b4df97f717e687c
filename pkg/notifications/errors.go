package notifications

import "errors"

var (
	ErrNotificationNotFound = errors.New("notifications.errors.not_found")
	ErrMissingID            = errors.New("notifications.errors.missing_id")
	ErrMissingUserID        = errors.New("notifications.errors.missing_user_id")
	ErrMissingRecipient     = errors.New("notifications.errors.missing_recipient")
	ErrFailedToStore        = errors.New("notifications.errors.failed_to_store")
	ErrFailedToRender       = errors.New("notifications.errors.failed_to_render")
)
