package billing

import (
	"fmt"
	"time"

	"github.com/alexanderramin/coachdesk/internal/domain"
	"github.com/shopspring/decimal"
)

// TogglePart flips the paid flag of consulting part 1 or 2.
func TogglePart(c *domain.ConsultingBilling, part int) error {
	switch part {
	case 1:
		c.Part1Paid = !c.Part1Paid
	case 2:
		if !c.SplitsPayment() {
			return fmt.Errorf("part 2 on a single-tranche fee: %w", ErrPartNotApplicable)
		}
		c.Part2Paid = !c.Part2Paid
	default:
		return fmt.Errorf("part %d: %w", part, ErrPartNotApplicable)
	}
	return nil
}

// EnsureRecurring returns the tier's sub-record, creating an empty one if missing.
func EnsureRecurring(rec *domain.BillingRecord, tier domain.Tier) (*domain.RecurringBilling, error) {
	if tier != domain.TierMentorship && tier != domain.TierFollowUp {
		return nil, fmt.Errorf("%q: %w", tier, ErrUnknownTier)
	}
	r := rec.Recurring(tier)
	if r == nil {
		r = &domain.RecurringBilling{}
		if tier == domain.TierMentorship {
			r.PlanID = domain.PlanStandard
		}
		rec.SetRecurring(tier, r)
	}
	return r, nil
}

func checkFrozen(tier domain.Tier, r *domain.RecurringBilling) error {
	if r.Frozen() {
		return fmt.Errorf("%s since %s: %w", tier, r.ToolOnlySince.Format(time.DateOnly), ErrToolOnlyFrozen)
	}
	return nil
}

// ToggleMonth flips the paid flag of month idx. The value is untouched.
func ToggleMonth(tier domain.Tier, r *domain.RecurringBilling, idx int) error {
	if err := checkFrozen(tier, r); err != nil {
		return err
	}
	months := NormalizeRecurring(r, DefaultsFor(tier, r))
	if idx < 0 || idx >= len(months) {
		return fmt.Errorf("month %d of %d: %w", idx+1, len(months), ErrMonthOutOfRange)
	}
	absorbLegacy(tier, r)
	r.Months[idx].Paid = !r.Months[idx].Paid
	return nil
}

// SetMonthValue overrides the value billed for month idx.
func SetMonthValue(tier domain.Tier, r *domain.RecurringBilling, idx int, value decimal.Decimal) error {
	if err := checkFrozen(tier, r); err != nil {
		return err
	}
	months := NormalizeRecurring(r, DefaultsFor(tier, r))
	if idx < 0 || idx >= len(months) {
		return fmt.Errorf("month %d of %d: %w", idx+1, len(months), ErrMonthOutOfRange)
	}
	absorbLegacy(tier, r)
	r.Months[idx].Value = value
	return nil
}

// AddMonth appends an unpaid month valued like the last one. A record with
// no months gets the provider default through normalization first.
func AddMonth(tier domain.Tier, r *domain.RecurringBilling) error {
	if err := checkFrozen(tier, r); err != nil {
		return err
	}
	absorbLegacy(tier, r)
	last := r.Months[len(r.Months)-1]
	r.Months = append(r.Months, domain.Month{Value: last.Value})
	return nil
}

// RemoveMonth drops the last month. It reports false and changes nothing
// when only one month remains.
func RemoveMonth(tier domain.Tier, r *domain.RecurringBilling) (bool, error) {
	if err := checkFrozen(tier, r); err != nil {
		return false, err
	}
	if len(NormalizeRecurring(r, DefaultsFor(tier, r))) <= 1 {
		return false, nil
	}
	absorbLegacy(tier, r)
	r.Months = r.Months[:len(r.Months)-1]
	return true, nil
}

// ToggleToolOnly sets or clears the freeze. It is the one mutation allowed
// while frozen. A tier that was never started has nothing to freeze.
func ToggleToolOnly(tier domain.Tier, r *domain.RecurringBilling, now time.Time) error {
	if r == nil {
		return fmt.Errorf("%s: %w", tier, ErrTierNotStarted)
	}
	if r.ToolOnlySince != nil {
		r.ToolOnlySince = nil
		return nil
	}
	t := now.UTC()
	r.ToolOnlySince = &t
	return nil
}

// StartRecurring creates the tier's sub-record with the given plan or
// monthly value as its default, so its first month is priced from that
// default rather than from the one it replaces. An existing sub-record is
// returned unchanged with false.
func StartRecurring(rec *domain.BillingRecord, tier domain.Tier, plan domain.PlanID, monthly decimal.Decimal) (*domain.RecurringBilling, bool, error) {
	if r := rec.Recurring(tier); r != nil {
		return r, false, nil
	}
	r, err := EnsureRecurring(rec, tier)
	if err != nil {
		return nil, false, err
	}
	if plan != "" {
		r.PlanID = plan
	}
	r.MonthlyValue = monthly
	return r, true, nil
}

// SetPlan switches the mentorship plan. Every month shown so far, including
// a derived first month, is stored at the old plan's value first, so only
// months added afterwards see the new default.
func SetPlan(r *domain.RecurringBilling, plan domain.PlanID) error {
	if _, ok := PlanByID(plan); !ok {
		return fmt.Errorf("%q: %w", plan, ErrUnknownPlan)
	}
	if err := checkFrozen(domain.TierMentorship, r); err != nil {
		return err
	}
	absorbLegacy(domain.TierMentorship, r)
	r.PlanID = plan
	return nil
}

// SetMonthlyValue changes the follow-up default for new months, with the
// same handling of existing months as SetPlan.
func SetMonthlyValue(r *domain.RecurringBilling, value decimal.Decimal) error {
	if value.IsNegative() {
		return fmt.Errorf("monthly value %s is negative: %w", value, ErrInvalidDraftValue)
	}
	if err := checkFrozen(domain.TierFollowUp, r); err != nil {
		return err
	}
	absorbLegacy(domain.TierFollowUp, r)
	r.MonthlyValue = value
	return nil
}
