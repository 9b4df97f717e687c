package usage

import "errors"

var (
	ErrRefreshFailed   = errors.New("usage.errors.refresh_failed")
	ErrUnknownPlan     = errors.New("usage.errors.unknown_plan")
	ErrStoreGet        = errors.New("usage.errors.store_get_failed")
	ErrStoreSet        = errors.New("usage.errors.store_set_failed")
	ErrStoreDelete     = errors.New("usage.errors.store_delete_failed")
	ErrMissingTenantID = errors.New("usage.errors.missing_tenant_id")
	ErrInvalidBackend  = errors.New("usage.errors.invalid_cache_backend")
)
