package binder

import "errors"

// Common binding errors
var (
	ErrUnsupportedMediaType = errors.New("binder.errors.unsupported_media_type")
	ErrMissingContentType   = errors.New("binder.errors.missing_content_type")
	ErrFailedToParseJSON    = errors.New("binder.errors.failed_to_parse_json")
	ErrFailedToParseQuery   = errors.New("binder.errors.failed_to_parse_query")
	ErrFailedToParsePath    = errors.New("binder.errors.failed_to_parse_path")
)
