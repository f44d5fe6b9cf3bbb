package scheduler

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/gyaneshwarpardhi/banksim/internal/activity"
	"github.com/gyaneshwarpardhi/banksim/internal/catalog"
	"github.com/gyaneshwarpardhi/banksim/internal/composer"
)

// Pacing controls burst size and the pause between cycles.
type Pacing struct {
	BurstMin, BurstMax int
	DelayMin, DelayMax time.Duration
	// ScaleDelay divides the delay by the activity multiplier. When false
	// the delay is drawn from the fixed range regardless of the hour.
	ScaleDelay bool
}

// Plan is everything a cycle needs that can change on reload. A Plan is
// never modified after construction.
type Plan struct {
	Catalog *catalog.Catalog
	Profile *activity.Profile
	Pacing  Pacing
	// Escalations replace the composer domain's own when non-nil.
	Escalations []composer.Escalation
}

// NewPlan validates the parts and returns a Plan.
func NewPlan(cat *catalog.Catalog, profile *activity.Profile, p Pacing) (*Plan, error) {
	switch {
	case cat == nil:
		return nil, fmt.Errorf("plan: catalog is required")
	case profile == nil:
		return nil, fmt.Errorf("plan: activity profile is required")
	case p.BurstMin < 0 || p.BurstMax < p.BurstMin:
		return nil, fmt.Errorf("plan: invalid burst range [%d,%d]", p.BurstMin, p.BurstMax)
	case p.DelayMin <= 0 || p.DelayMax < p.DelayMin:
		return nil, fmt.Errorf("plan: invalid delay range [%s,%s]", p.DelayMin, p.DelayMax)
	}
	return &Plan{Catalog: cat, Profile: profile, Pacing: p}, nil
}

// BurstPlan is the outcome of pacing for one cycle.
type BurstPlan struct {
	Hour       int
	Multiplier float64
	EventCount int
	Delay      time.Duration
}

// Burst computes the cycle plan for hour. The event count is a base draw
// from [BurstMin, BurstMax] scaled by the multiplier and floored at 1.
func (p *Plan) Burst(hour int, rng *rand.Rand) BurstPlan {
	m := p.Profile.MultiplierFor(hour)
	base := p.Pacing.BurstMin + rng.IntN(p.Pacing.BurstMax-p.Pacing.BurstMin+1)
	count := int(float64(base) * m)
	if count < 1 {
		count = 1
	}
	span := float64(p.Pacing.DelayMax - p.Pacing.DelayMin)
	delay := float64(p.Pacing.DelayMin) + rng.Float64()*span
	if p.Pacing.ScaleDelay {
		delay /= m
	}
	d := time.Duration(delay)
	if d <= 0 {
		d = time.Millisecond
	}
	return BurstPlan{Hour: hour, Multiplier: m, EventCount: count, Delay: d}
}
