package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/coachdesk/internal/billing"
	"github.com/alexanderramin/coachdesk/internal/domain"
)

var validPaymentMethods = map[string]bool{"": true, "single": true, "installment": true}

// ValidateImportSchema checks the import schema for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	if len(schema.Clients) == 0 {
		return []error{fmt.Errorf("clients: at least one client is required")}
	}

	refs := make(map[string]bool)
	emails := make(map[string]string)
	for i := range schema.Clients {
		c := &schema.Clients[i]
		label := rowLabel(i, c)

		if c.Ref != "" {
			if refs[c.Ref] {
				errs = append(errs, fmt.Errorf("%s: duplicate ref %q", label, c.Ref))
			}
			refs[c.Ref] = true
		}
		if email := strings.ToLower(strings.TrimSpace(c.Email)); email != "" {
			if prev, ok := emails[email]; ok {
				errs = append(errs, fmt.Errorf("%s: email %q already used by %s", label, c.Email, prev))
			} else {
				emails[email] = label
			}
		}

		profile := domain.Client{
			Name:            c.Name,
			Email:           strings.TrimSpace(c.Email),
			Role:            domain.Role(c.Role),
			Status:          domain.ClientStatus(c.Status),
			ChecklistAccess: domain.ChecklistAccess(c.ChecklistAccess),
		}
		if err := profile.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", label, err))
		}

		errs = append(errs, validateConsulting(label, c.Consulting)...)
		errs = append(errs, validateRecurring(label, domain.TierMentorship, c.Mentorship)...)
		errs = append(errs, validateRecurring(label, domain.TierFollowUp, c.FollowUp)...)
	}

	return errs
}

func rowLabel(i int, c *ClientImport) string {
	if c.Ref != "" {
		return fmt.Sprintf("clients[%d] (%s)", i, c.Ref)
	}
	return fmt.Sprintf("clients[%d]", i)
}

func validateConsulting(label string, c *ConsultingImport) []error {
	if c == nil {
		return nil
	}
	var errs []error

	base, err := billing.ParseAmount(c.BaseValue)
	if err != nil {
		errs = append(errs, fmt.Errorf("%s: consulting.base_value: %w", label, err))
	}
	if !validPaymentMethods[c.PaymentMethod] {
		errs = append(errs, fmt.Errorf("%s: consulting.payment_method: invalid value %q (single|installment)", label, c.PaymentMethod))
	}

	split := c.PaymentMethod == string(domain.PaymentInstallment) && c.HasDownPayment
	if split {
		down, downErr := billing.ParseAmount(c.DownPaymentValue)
		switch {
		case downErr != nil:
			errs = append(errs, fmt.Errorf("%s: consulting.down_payment_value: %w", label, downErr))
		case err == nil && down.GreaterThan(base):
			errs = append(errs, fmt.Errorf("%s: consulting.down_payment_value %s exceeds base_value %s", label, down, base))
		}
	} else if c.Part2Paid {
		errs = append(errs, fmt.Errorf("%s: consulting.part2_paid set on a single-payment fee", label))
	}

	return errs
}

func validateRecurring(label string, tier domain.Tier, r *RecurringImport) []error {
	if r == nil {
		return nil
	}
	var errs []error
	field := string(tier)

	switch tier {
	case domain.TierMentorship:
		if r.Plan != "" {
			if _, ok := billing.PlanByID(domain.PlanID(r.Plan)); !ok {
				errs = append(errs, fmt.Errorf("%s: %s.plan: invalid value %q", label, field, r.Plan))
			}
		}
		if r.MonthlyValue != "" {
			errs = append(errs, fmt.Errorf("%s: %s.monthly_value is priced by plan, not a fixed value", label, field))
		}
	case domain.TierFollowUp:
		if r.Plan != "" {
			errs = append(errs, fmt.Errorf("%s: %s.plan is only valid for mentorship", label, field))
		}
		if _, err := billing.ParseAmount(r.MonthlyValue); err != nil {
			errs = append(errs, fmt.Errorf("%s: %s.monthly_value: %w", label, field, err))
		}
	}

	for j, m := range r.Months {
		if _, err := billing.ParseAmount(m.Value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %s.months[%d].value: %w", label, field, j, err))
		}
	}

	return errs
}
