// Package limits holds the quota policy table: which plan tier gets how many
// units of each metered feature per billing period.
//
// Plans and features are closed enumerations. A lookup for a combination the
// table does not know returns ErrUnknownPlan or ErrUnknownFeature as a
// diagnostic; the usage client logs it and lets the action through.
//
// Basic usage:
//
//	policy := limits.DefaultPolicy()
//	limit, err := policy.Limit(limits.PlanFree, limits.FeatureAIEnhancement)
//	// limit == 5
//
// Overriding the built-in quotas from a YAML document:
//
//	f, _ := os.Open("quotas.yaml")
//	policy, err := limits.NewTablePolicy(ctx, limits.NewYAMLSource(f))
//
// A limit of Unlimited (-1) means the plan has no cap for the feature.
// Quota bundles a resolved limit with the current usage and answers the
// threshold questions the notification layer needs (Remaining, NearLimit,
// Exceeded).
package limits
