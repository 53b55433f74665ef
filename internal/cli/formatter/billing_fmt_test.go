package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/coachdesk/internal/billing"
	"github.com/alexanderramin/coachdesk/internal/domain"
	"github.com/alexanderramin/coachdesk/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func billingViewFor(rec domain.BillingRecord) *service.BillingView {
	norm := billing.Normalize(rec)
	shapes := map[domain.Tier]billing.Shape{}
	for _, tier := range domain.RecurringTiers {
		shapes[tier] = billing.DetectShape(rec.Recurring(tier))
	}
	return &service.BillingView{
		ClientID:   "c1",
		ClientName: "Ana Souza",
		Record:     norm,
		Consulting: norm.Consulting,
		Ledger:     billing.ForRecord(rec, nil),
		Shapes:     shapes,
		SaveStatus: domain.SaveCommitted,
	}
}

func TestFormatBillingView_InstallmentWithDownPayment(t *testing.T) {
	v := billingViewFor(domain.BillingRecord{
		Consulting: &domain.ConsultingBilling{
			BaseValue:        decimal.NewFromInt(497),
			PaymentMethod:    domain.PaymentInstallment,
			HasDownPayment:   true,
			DownPaymentValue: decimal.NewFromInt(147),
			Part1Paid:        true,
		},
	})

	out := stripANSI(FormatBillingView(v))
	assert.Contains(t, out, "BILLING · ANA SOUZA")
	assert.Contains(t, out, "Part 1    $147.00")
	assert.Contains(t, out, "Part 2    $350.00")
	assert.Contains(t, out, "paid $147.00 · due $350.00")
	assert.Contains(t, out, "Mentorship\n  not contracted")
}

func TestFormatBillingView_LegacyMentorship(t *testing.T) {
	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	v := billingViewFor(domain.BillingRecord{
		Mentorship: &domain.RecurringBilling{
			LegacyPayments: []bool{true, false, true},
			PlanID:         domain.PlanPremium,
			ToolOnlySince:  &since,
		},
	})
	v.SaveStatus = domain.SaveFailed

	out := stripANSI(FormatBillingView(v))
	assert.Contains(t, out, "not saved")
	assert.Contains(t, out, "(migrated from legacy record)")
	assert.Contains(t, out, "Premium ($400.00/month)")
	assert.Contains(t, out, "Tool-only since Mar 1, 2026")
	assert.Contains(t, out, "paid $800.00 · due $400.00")
	assert.Contains(t, out, "Paid $800.00   Due $400.00")
}

func TestFormatBillingView_DraftMarker(t *testing.T) {
	v := billingViewFor(domain.BillingRecord{
		Consulting: &domain.ConsultingBilling{BaseValue: decimal.NewFromInt(300), PaymentMethod: domain.PaymentSingle},
	})
	v.HasDraft = true

	out := stripANSI(FormatBillingView(v))
	assert.Contains(t, out, "(unsaved draft)")
	assert.Contains(t, out, "single payment")
}

func TestFormatTotals(t *testing.T) {
	totals := billing.Totals{
		Consulting: billing.TierTotal{Paid: decimal.NewFromInt(147), Due: decimal.NewFromInt(350), Clients: 1},
		Mentorship: billing.TierTotal{Paid: decimal.NewFromInt(500), Due: decimal.NewFromInt(250), Clients: 2},
		Clients:    2,
	}

	out := stripANSI(FormatTotals(&totals))
	assert.Contains(t, out, "BILLING TOTALS")
	assert.Contains(t, out, "Consulting")
	assert.Contains(t, out, "$647.00")
	assert.Contains(t, out, "$600.00")
}
