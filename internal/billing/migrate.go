package billing

import (
	"github.com/alexanderramin/coachdesk/internal/domain"
)

// Shape classifies which schema generation a recurring sub-record was written in.
type Shape int

const (
	ShapeEmpty Shape = iota
	ShapeLegacy
	ShapeCurrent
	ShapeMixed
)

func (s Shape) String() string {
	switch s {
	case ShapeLegacy:
		return "legacy"
	case ShapeCurrent:
		return "current"
	case ShapeMixed:
		return "mixed"
	default:
		return "empty"
	}
}

// DetectShape reports the schema generation of r.
func DetectShape(r *domain.RecurringBilling) Shape {
	if r == nil {
		return ShapeEmpty
	}
	hasLegacy := len(r.LegacyPayments) > 0
	hasMonths := len(r.Months) > 0
	switch {
	case hasLegacy && hasMonths:
		return ShapeMixed
	case hasLegacy:
		return ShapeLegacy
	case hasMonths:
		return ShapeCurrent
	default:
		return ShapeEmpty
	}
}

// NormalizeRecurring returns the month list of r with every index covered
// only by the legacy payment flags synthesized from def. Existing months are
// kept as-is, the result is never shorter than either source and has at least
// one entry. r is not modified.
func NormalizeRecurring(r *domain.RecurringBilling, def DefaultValueProvider) []domain.Month {
	var months []domain.Month
	var legacy []bool
	if r != nil {
		months = r.Months
		legacy = r.LegacyPayments
	}

	n := max(len(legacy), len(months), 1)
	out := make([]domain.Month, n)
	for i := range out {
		if i < len(months) {
			out[i] = months[i]
			continue
		}
		out[i] = domain.Month{
			Paid:  i < len(legacy) && legacy[i],
			Value: defaultValue(def),
		}
	}
	return out
}

// Normalize returns a deep copy of rec with both recurring sub-records
// normalized and the single-payment consulting invariant applied.
// Missing sub-records stay missing.
func Normalize(rec domain.BillingRecord) domain.BillingRecord {
	out := rec.Clone()
	if out.Consulting != nil && out.Consulting.PaymentMethod != domain.PaymentInstallment {
		out.Consulting.HasDownPayment = false
	}
	for _, tier := range domain.RecurringTiers {
		r := out.Recurring(tier)
		if r == nil {
			continue
		}
		r.Months = NormalizeRecurring(r, DefaultsFor(tier, r))
	}
	return out
}

// absorbLegacy rewrites r in the current shape before a mutation. The legacy
// flags are fully represented in the normalized months at that point, so
// dropping them loses nothing and keeps a later removal from being undone by
// the next read.
func absorbLegacy(tier domain.Tier, r *domain.RecurringBilling) {
	r.Months = NormalizeRecurring(r, DefaultsFor(tier, r))
	r.LegacyPayments = nil
}
