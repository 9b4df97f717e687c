package limits

import "errors"

// Domain errors for policy lookups
var (
	// Lookup diagnostics. Callers treat them as "no limit defined".
	ErrUnknownPlan    = errors.New("limits.errors.unknown_plan")
	ErrUnknownFeature = errors.New("limits.errors.unknown_feature")

	// Table configuration errors
	ErrInvalidQuota             = errors.New("limits.errors.invalid_quota")
	ErrInvalidPolicyTable       = errors.New("limits.errors.invalid_policy_table")
	ErrFailedToLoadPolicyTable  = errors.New("limits.errors.failed_to_load_policy_table")
	ErrFailedToParsePolicyTable = errors.New("limits.errors.failed_to_parse_policy_table")
)
