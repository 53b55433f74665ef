package importer

import (
	"strings"

	"github.com/alexanderramin/coachdesk/internal/billing"
	"github.com/alexanderramin/coachdesk/internal/domain"
	"github.com/shopspring/decimal"
)

// Convert transforms a validated ImportSchema into clients ready for
// ClientService.Create. Call ValidateImportSchema first; Convert assumes the
// schema is valid and leaves ids and timestamps to the service.
func Convert(schema *ImportSchema) []*domain.Client {
	out := make([]*domain.Client, 0, len(schema.Clients))
	for _, in := range schema.Clients {
		c := &domain.Client{
			Name:            strings.TrimSpace(in.Name),
			Email:           strings.TrimSpace(in.Email),
			Phone:           strings.TrimSpace(in.Phone),
			Role:            domain.Role(in.Role),
			Status:          domain.ClientStatus(in.Status),
			ChecklistAccess: domain.ChecklistAccess(in.ChecklistAccess),
			Checklist:       domain.NewChecklistRecord(),
		}
		c.Billing.Consulting = convertConsulting(in.Consulting)
		c.Billing.Mentorship = convertRecurring(domain.TierMentorship, in.Mentorship)
		c.Billing.FollowUp = convertRecurring(domain.TierFollowUp, in.FollowUp)
		out = append(out, c)
	}
	return out
}

func mustAmount(s string) decimal.Decimal {
	d, _ := billing.ParseAmount(s)
	return d
}

func convertConsulting(in *ConsultingImport) *domain.ConsultingBilling {
	if in == nil {
		return nil
	}
	c := &domain.ConsultingBilling{
		BaseValue:        mustAmount(in.BaseValue),
		PaymentMethod:    domain.PaymentMethod(in.PaymentMethod),
		HasDownPayment:   in.HasDownPayment,
		DownPaymentValue: mustAmount(in.DownPaymentValue),
		Part1Paid:        in.Part1Paid,
		Part2Paid:        in.Part2Paid,
	}
	if c.PaymentMethod == "" {
		c.PaymentMethod = domain.PaymentSingle
	}
	return c
}

// convertRecurring prices months without a value from the tier default, and
// gives a tier declared without months its single unpaid month.
func convertRecurring(tier domain.Tier, in *RecurringImport) *domain.RecurringBilling {
	if in == nil {
		return nil
	}
	r := &domain.RecurringBilling{
		PlanID:       domain.PlanID(in.Plan),
		MonthlyValue: mustAmount(in.MonthlyValue),
	}
	def := billing.DefaultsFor(tier, r).DefaultValue()

	if len(in.Months) == 0 {
		r.Months = []domain.Month{{Value: def}}
		return r
	}
	r.Months = make([]domain.Month, len(in.Months))
	for i, m := range in.Months {
		v := def
		if strings.TrimSpace(m.Value) != "" {
			v = mustAmount(m.Value)
		}
		r.Months[i] = domain.Month{Paid: m.Paid, Value: v}
	}
	return r
}
