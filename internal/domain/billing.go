package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Month is one billing period of a recurring tier.
type Month struct {
	Paid  bool
	Value decimal.Decimal
}

type ConsultingBilling struct {
	BaseValue        decimal.Decimal
	PaymentMethod    PaymentMethod
	HasDownPayment   bool
	DownPaymentValue decimal.Decimal
	Part1Paid        bool
	Part2Paid        bool
}

// SplitsPayment reports whether the fee is billed as down payment plus remainder.
func (c *ConsultingBilling) SplitsPayment() bool {
	return c.PaymentMethod == PaymentInstallment && c.HasDownPayment
}

// RecurringBilling is shared by the mentorship and follow-up tiers.
//
// LegacyPayments holds the pre-month-list boolean flags. Records written by
// older versions may carry only that field, or both.
type RecurringBilling struct {
	Months         []Month
	LegacyPayments []bool
	ToolOnlySince  *time.Time
	PlanID         PlanID
	MonthlyValue   decimal.Decimal
}

// Frozen reports whether tool-only mode blocks month mutations.
func (r *RecurringBilling) Frozen() bool {
	return r != nil && r.ToolOnlySince != nil
}

func (r *RecurringBilling) Clone() *RecurringBilling {
	if r == nil {
		return nil
	}
	out := *r
	if r.Months != nil {
		out.Months = append([]Month(nil), r.Months...)
	}
	if r.LegacyPayments != nil {
		out.LegacyPayments = append([]bool(nil), r.LegacyPayments...)
	}
	if r.ToolOnlySince != nil {
		t := *r.ToolOnlySince
		out.ToolOnlySince = &t
	}
	return &out
}

type BillingRecord struct {
	Consulting *ConsultingBilling
	Mentorship *RecurringBilling
	FollowUp   *RecurringBilling
}

// Recurring returns the sub-record for a recurring tier, or nil.
func (b *BillingRecord) Recurring(tier Tier) *RecurringBilling {
	switch tier {
	case TierMentorship:
		return b.Mentorship
	case TierFollowUp:
		return b.FollowUp
	default:
		return nil
	}
}

// SetRecurring replaces the sub-record for a recurring tier.
func (b *BillingRecord) SetRecurring(tier Tier, r *RecurringBilling) {
	switch tier {
	case TierMentorship:
		b.Mentorship = r
	case TierFollowUp:
		b.FollowUp = r
	}
}

func (b BillingRecord) Clone() BillingRecord {
	out := BillingRecord{
		Mentorship: b.Mentorship.Clone(),
		FollowUp:   b.FollowUp.Clone(),
	}
	if b.Consulting != nil {
		c := *b.Consulting
		out.Consulting = &c
	}
	return out
}
