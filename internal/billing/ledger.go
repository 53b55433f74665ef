package billing

import (
	"github.com/alexanderramin/coachdesk/internal/domain"
	"github.com/shopspring/decimal"
)

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// DownPayment returns the down-payment tranche, capped at the base value.
func DownPayment(c *domain.ConsultingBilling) decimal.Decimal {
	base := nonNegative(c.BaseValue)
	return decimal.Min(nonNegative(c.DownPaymentValue), base)
}

// Remainder returns the second tranche: base minus down payment, clamped at zero.
func Remainder(c *domain.ConsultingBilling) decimal.Decimal {
	return nonNegative(c.BaseValue.Sub(nonNegative(c.DownPaymentValue)))
}

// ConsultingPaid returns the amount paid to date on the consulting fee.
func ConsultingPaid(c *domain.ConsultingBilling) decimal.Decimal {
	if c == nil {
		return decimal.Zero
	}
	if !c.SplitsPayment() {
		if c.Part1Paid {
			return nonNegative(c.BaseValue)
		}
		return decimal.Zero
	}
	total := decimal.Zero
	if c.Part1Paid {
		total = total.Add(DownPayment(c))
	}
	if c.Part2Paid {
		total = total.Add(Remainder(c))
	}
	return total
}

// ConsultingDue returns what is still owed on the consulting fee.
func ConsultingDue(c *domain.ConsultingBilling) decimal.Decimal {
	if c == nil {
		return decimal.Zero
	}
	return nonNegative(nonNegative(c.BaseValue).Sub(ConsultingPaid(c)))
}

// RecurringPaid sums the values of paid months.
func RecurringPaid(months []domain.Month) decimal.Decimal {
	total := decimal.Zero
	for _, m := range months {
		if m.Paid {
			total = total.Add(m.Value)
		}
	}
	return total
}

// RecurringDue sums the values of unpaid months.
func RecurringDue(months []domain.Month) decimal.Decimal {
	total := decimal.Zero
	for _, m := range months {
		if !m.Paid {
			total = total.Add(m.Value)
		}
	}
	return total
}

// TierLedger is the paid/due position of one tier for one client.
type TierLedger struct {
	Tier    domain.Tier
	Present bool
	Paid    decimal.Decimal
	Due     decimal.Decimal
	Months  int
	Frozen  bool
}

// Ledger is the per-client billing position across all tiers.
type Ledger struct {
	Consulting TierLedger
	Mentorship TierLedger
	FollowUp   TierLedger
}

func (l Ledger) Tiers() []TierLedger {
	return []TierLedger{l.Consulting, l.Mentorship, l.FollowUp}
}

func (l Ledger) TotalPaid() decimal.Decimal {
	return l.Consulting.Paid.Add(l.Mentorship.Paid).Add(l.FollowUp.Paid)
}

func (l Ledger) TotalDue() decimal.Decimal {
	return l.Consulting.Due.Add(l.Mentorship.Due).Add(l.FollowUp.Due)
}

// ForRecord computes the ledger of rec. When draft is non-nil its consulting
// configuration shadows the persisted one; paid flags always come from rec.
func ForRecord(rec domain.BillingRecord, draft *domain.ConsultingBilling) Ledger {
	norm := Normalize(rec)

	consulting := norm.Consulting
	if draft != nil {
		consulting = MergeDraft(norm.Consulting, draft)
	}

	l := Ledger{
		Consulting: TierLedger{
			Tier:    domain.TierConsulting,
			Present: consulting != nil,
			Paid:    ConsultingPaid(consulting),
			Due:     ConsultingDue(consulting),
		},
		Mentorship: recurringLedger(domain.TierMentorship, norm.Mentorship),
		FollowUp:   recurringLedger(domain.TierFollowUp, norm.FollowUp),
	}
	return l
}

func recurringLedger(tier domain.Tier, r *domain.RecurringBilling) TierLedger {
	tl := TierLedger{Tier: tier, Paid: decimal.Zero, Due: decimal.Zero}
	if r == nil {
		return tl
	}
	tl.Present = true
	tl.Paid = RecurringPaid(r.Months)
	tl.Due = RecurringDue(r.Months)
	tl.Months = len(r.Months)
	tl.Frozen = r.Frozen()
	return tl
}
