package billing

import (
	"github.com/alexanderramin/coachdesk/internal/domain"
	"github.com/shopspring/decimal"
)

type Plan struct {
	ID    domain.PlanID
	Name  string
	Value decimal.Decimal
}

// Plans is the fixed set of mentorship subscription tiers.
var Plans = []Plan{
	{ID: domain.PlanBasic, Name: "Basic", Value: decimal.NewFromInt(150)},
	{ID: domain.PlanStandard, Name: "Standard", Value: decimal.NewFromInt(250)},
	{ID: domain.PlanPremium, Name: "Premium", Value: decimal.NewFromInt(400)},
}

// PlanByID looks up a plan. The second result is false for unknown ids.
func PlanByID(id domain.PlanID) (Plan, bool) {
	for _, p := range Plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

// DefaultValueProvider supplies the value of months synthesized by
// normalization or appended by AddMonth.
type DefaultValueProvider interface {
	DefaultValue() decimal.Decimal
}

// PlanDefault resolves the default from a mentorship plan. Unknown plans yield zero.
type PlanDefault domain.PlanID

func (p PlanDefault) DefaultValue() decimal.Decimal {
	plan, ok := PlanByID(domain.PlanID(p))
	if !ok {
		return decimal.Zero
	}
	return plan.Value
}

// ScalarDefault uses a fixed monthly value, as the follow-up tier does.
type ScalarDefault decimal.Decimal

func (s ScalarDefault) DefaultValue() decimal.Decimal {
	return decimal.Decimal(s)
}

// DefaultsFor picks the provider for a recurring tier.
func DefaultsFor(tier domain.Tier, r *domain.RecurringBilling) DefaultValueProvider {
	if r == nil {
		return ScalarDefault(decimal.Zero)
	}
	switch tier {
	case domain.TierMentorship:
		return PlanDefault(r.PlanID)
	default:
		return ScalarDefault(r.MonthlyValue)
	}
}

func defaultValue(def DefaultValueProvider) decimal.Decimal {
	if def == nil {
		return decimal.Zero
	}
	return def.DefaultValue()
}
