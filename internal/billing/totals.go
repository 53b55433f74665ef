package billing

import "github.com/shopspring/decimal"

// TierTotal aggregates one tier across a set of clients.
type TierTotal struct {
	Paid    decimal.Decimal
	Due     decimal.Decimal
	Clients int
}

func (t TierTotal) add(tl TierLedger) TierTotal {
	if !tl.Present {
		return t
	}
	return TierTotal{
		Paid:    t.Paid.Add(tl.Paid),
		Due:     t.Due.Add(tl.Due),
		Clients: t.Clients + 1,
	}
}

// Totals is the aggregate position across the clients visible to the caller.
type Totals struct {
	Consulting TierTotal
	Mentorship TierTotal
	FollowUp   TierTotal
	Clients    int
}

func (t Totals) GrandPaid() decimal.Decimal {
	return t.Consulting.Paid.Add(t.Mentorship.Paid).Add(t.FollowUp.Paid)
}

func (t Totals) GrandDue() decimal.Decimal {
	return t.Consulting.Due.Add(t.Mentorship.Due).Add(t.FollowUp.Due)
}

// Aggregate sums per-client ledgers. Tiers a client does not use contribute zero.
func Aggregate(ledgers []Ledger) Totals {
	var t Totals
	for _, l := range ledgers {
		t.Consulting = t.Consulting.add(l.Consulting)
		t.Mentorship = t.Mentorship.add(l.Mentorship)
		t.FollowUp = t.FollowUp.add(l.FollowUp)
		t.Clients++
	}
	return t
}
