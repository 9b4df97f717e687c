package limits

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Policy resolves the quota for a (plan, feature) pair.
// Unknown combinations return ErrUnknownPlan or ErrUnknownFeature; callers
// decide whether that blocks anything (the usage client fails open).
type Policy interface {
	Limit(plan Plan, feature Feature) (int64, error)
}

// Table maps each plan to its per-feature quotas.
type Table map[Plan]map[Feature]int64

// Source defines how a policy table is loaded.
type Source interface {
	Load(ctx context.Context) (Table, error)
}

type defaultPolicy struct{}

// DefaultPolicy returns the built-in quotas.
//
//	Free      ai_enhancement  5
//	Pro       ai_enhancement  100
//	Ultimate  ai_enhancement  unlimited
func DefaultPolicy() Policy {
	return defaultPolicy{}
}

func (defaultPolicy) Limit(plan Plan, feature Feature) (int64, error) {
	switch feature {
	case FeatureAIEnhancement:
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFeature, feature)
	}

	switch plan {
	case PlanFree:
		return 5, nil
	case PlanPro:
		return 100, nil
	case PlanUltimate:
		return Unlimited, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPlan, plan)
}

// DefaultTable returns the built-in quotas as a Table.
func DefaultTable() Table {
	t := make(Table, len(Plans))
	p := DefaultPolicy()
	for _, plan := range Plans {
		t[plan] = make(map[Feature]int64, len(Features))
		for _, feature := range Features {
			limit, _ := p.Limit(plan, feature)
			t[plan][feature] = limit
		}
	}
	return t
}

// tablePolicy serves lookups from a validated, private copy of a Table.
// Treated as immutable after construction.
type tablePolicy struct {
	table Table
}

// NewTablePolicy loads a table from src, validates it and returns a Policy over it.
func NewTablePolicy(ctx context.Context, src Source) (Policy, error) {
	table, err := src.Load(ctx)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadPolicyTable, err)
	}
	if err := validateTable(table); err != nil {
		return nil, err
	}
	return &tablePolicy{table: cloneTable(table)}, nil
}

func (p *tablePolicy) Limit(plan Plan, feature Feature) (int64, error) {
	quotas, ok := p.table[plan]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPlan, plan)
	}
	limit, ok := quotas[feature]
	if !ok {
		return 0, fmt.Errorf("%w: %q on plan %q", ErrUnknownFeature, feature, plan)
	}
	return limit, nil
}

// validateTable rejects tiers and features outside the closed enumerations
// and quotas below the Unlimited sentinel.
func validateTable(t Table) error {
	if len(t) == 0 {
		return errors.Join(ErrInvalidPolicyTable, errors.New("table is empty"))
	}
	for plan, quotas := range t {
		if !slices.Contains(Plans, plan) {
			return errors.Join(ErrInvalidPolicyTable, fmt.Errorf("plan %q is not supported", plan))
		}
		for feature, limit := range quotas {
			if !slices.Contains(Features, feature) {
				return errors.Join(ErrInvalidPolicyTable, fmt.Errorf("feature %q is not supported", feature))
			}
			if limit < Unlimited {
				return errors.Join(ErrInvalidQuota,
					fmt.Errorf("plan %s feature %s has quota %d", plan, feature, limit))
			}
		}
	}
	return nil
}

func cloneTable(t Table) Table {
	out := make(Table, len(t))
	for plan, quotas := range t {
		out[plan] = maps.Clone(quotas)
	}
	return out
}
