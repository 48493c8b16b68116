// Package workspace holds the live state of each business being worked
// on: its latest profile, strategy and marketing plan. Generation
// requests draw a monotonically increasing token and a result is applied
// only while its token is still the latest one issued.
package workspace

import (
	"context"
	"time"

	"omnia-service/internal/domain/business"
	"omnia-service/internal/domain/strategy"
)

type Kind string

const (
	KindStrategy Kind = "strategy"
	KindPlan     Kind = "plan"
)

type Snapshot struct {
	BusinessID     string                      `json:"business_id" msgpack:"business_id"`
	Profile        *business.Profile           `json:"profile,omitempty" msgpack:"profile"`
	Strategy       *strategy.GeneratedStrategy `json:"strategy,omitempty" msgpack:"strategy"`
	StrategySource strategy.Source             `json:"strategy_source,omitempty" msgpack:"strategy_source"`
	StrategyToken  uint64                      `json:"strategy_token" msgpack:"strategy_token"`
	Plan           *strategy.MarketingPlan     `json:"plan,omitempty" msgpack:"plan"`
	PlanSource     strategy.Source             `json:"plan_source,omitempty" msgpack:"plan_source"`
	PlanToken      uint64                      `json:"plan_token" msgpack:"plan_token"`
	UpdatedAt      time.Time                   `json:"updated_at" msgpack:"updated_at"`
}

// Result is a finished generation waiting to be applied.
type Result struct {
	Kind     Kind
	Token    uint64
	Source   strategy.Source
	Strategy *strategy.GeneratedStrategy
	Plan     *strategy.MarketingPlan
}

type Store interface {
	// NextToken issues the next generation token for a business and kind.
	NextToken(ctx context.Context, businessID string, kind Kind) (uint64, error)
	// Apply stores the result only if its token is the latest issued and
	// reports whether it did.
	Apply(ctx context.Context, businessID string, res Result) (bool, error)
	SaveProfile(ctx context.Context, businessID string, p business.Profile) error
	// Get returns an empty snapshot for unknown businesses.
	Get(ctx context.Context, businessID string) (*Snapshot, error)
	// Delete drops the snapshot. Token counters survive so a request still
	// in flight cannot match a token issued after the delete.
	Delete(ctx context.Context, businessID string) error
}

func (s *Snapshot) apply(res Result, now time.Time) {
	switch res.Kind {
	case KindStrategy:
		s.Strategy = res.Strategy
		s.StrategySource = res.Source
		s.StrategyToken = res.Token
	case KindPlan:
		s.Plan = res.Plan
		s.PlanSource = res.Source
		s.PlanToken = res.Token
	}
	s.UpdatedAt = now
}
