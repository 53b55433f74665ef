package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/coachdesk/internal/billing"
	"github.com/alexanderramin/coachdesk/internal/domain"
	"github.com/alexanderramin/coachdesk/internal/service"
)

// FormatBillingView renders one client's billing across all tiers.
func FormatBillingView(v *service.BillingView) string {
	var b strings.Builder

	b.WriteString(Header("Billing · " + v.ClientName))
	b.WriteString("\n")
	if v.SaveStatus != domain.SaveCommitted {
		b.WriteString(SaveIndicator(v.SaveStatus) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(formatConsulting(v.Consulting, v.Ledger.Consulting, v.HasDraft))
	for _, tier := range domain.RecurringTiers {
		b.WriteString("\n")
		b.WriteString(formatRecurring(tier, v.Record.Recurring(tier), ledgerFor(v.Ledger, tier), v.Shapes[tier]))
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s   %s %s\n",
		Bold("Paid"), StyleGreen.Render(Money(v.Ledger.TotalPaid())),
		Bold("Due"), StyleYellow.Render(Money(v.Ledger.TotalDue()))))
	return b.String()
}

func ledgerFor(l billing.Ledger, tier domain.Tier) billing.TierLedger {
	switch tier {
	case domain.TierMentorship:
		return l.Mentorship
	case domain.TierFollowUp:
		return l.FollowUp
	default:
		return l.Consulting
	}
}

func formatConsulting(c *domain.ConsultingBilling, tl billing.TierLedger, draft bool) string {
	var b strings.Builder
	title := Bold(TierLabel(domain.TierConsulting))
	if draft {
		title += "  " + StyleYellow.Render("(unsaved draft)")
	}
	b.WriteString(title + "\n")

	if c == nil {
		b.WriteString("  " + Dim("not contracted") + "\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("  Base value   %s\n", Money(c.BaseValue)))
	if !c.SplitsPayment() {
		method := "single payment"
		if c.PaymentMethod == domain.PaymentInstallment {
			method = "installments"
		}
		b.WriteString(fmt.Sprintf("  Method       %s\n", method))
		b.WriteString(fmt.Sprintf("  %s Payment   %s\n", PaidMark(c.Part1Paid), Money(c.BaseValue)))
	} else {
		b.WriteString("  Method       installments with down payment\n")
		b.WriteString(fmt.Sprintf("  %s Part 1    %s\n", PaidMark(c.Part1Paid), Money(billing.DownPayment(c))))
		b.WriteString(fmt.Sprintf("  %s Part 2    %s\n", PaidMark(c.Part2Paid), Money(billing.Remainder(c))))
	}
	b.WriteString(fmt.Sprintf("  %s\n", Dim(fmt.Sprintf("paid %s · due %s", Money(tl.Paid), Money(tl.Due)))))
	return b.String()
}

func formatRecurring(tier domain.Tier, r *domain.RecurringBilling, tl billing.TierLedger, shape billing.Shape) string {
	var b strings.Builder
	title := Bold(TierLabel(tier))
	if shape == billing.ShapeLegacy || shape == billing.ShapeMixed {
		title += "  " + Dim("(migrated from "+shape.String()+" record)")
	}
	b.WriteString(title + "\n")

	if r == nil {
		b.WriteString("  " + Dim("not contracted") + "\n")
		return b.String()
	}

	if tier == domain.TierMentorship && r.PlanID != "" {
		if plan, ok := billing.PlanByID(r.PlanID); ok {
			b.WriteString(fmt.Sprintf("  Plan         %s (%s/month)\n", plan.Name, Money(plan.Value)))
		}
	}
	if tier == domain.TierFollowUp && r.MonthlyValue.IsPositive() {
		b.WriteString(fmt.Sprintf("  Monthly      %s\n", Money(r.MonthlyValue)))
	}
	if r.Frozen() {
		b.WriteString(fmt.Sprintf("  %s since %s\n",
			StylePurple.Render("Tool-only"), r.ToolOnlySince.Format("Jan 2, 2006")))
	}

	rows := make([][]string, 0, len(r.Months))
	for i, m := range r.Months {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			PaidMark(m.Paid),
			Money(m.Value),
		})
	}
	table := Table{
		Headers:      []string{"MONTH", "PAID", "VALUE"},
		Rows:         rows,
		RightAligned: map[int]bool{2: true},
	}
	for _, line := range strings.Split(strings.TrimRight(table.Render(), "\n"), "\n") {
		b.WriteString("  " + line + "\n")
	}
	b.WriteString(fmt.Sprintf("  %s\n", Dim(fmt.Sprintf("paid %s · due %s", Money(tl.Paid), Money(tl.Due)))))
	return b.String()
}

// FormatTotals renders the aggregate position across clients.
func FormatTotals(t *billing.Totals) string {
	rows := [][]string{
		totalsRow(domain.TierConsulting, t.Consulting),
		totalsRow(domain.TierMentorship, t.Mentorship),
		totalsRow(domain.TierFollowUp, t.FollowUp),
		{Bold("Total"), fmt.Sprintf("%d", t.Clients),
			StyleGreen.Render(Money(t.GrandPaid())), StyleYellow.Render(Money(t.GrandDue()))},
	}
	table := Table{
		Headers:      []string{"TIER", "CLIENTS", "PAID", "DUE"},
		Rows:         rows,
		RightAligned: map[int]bool{1: true, 2: true, 3: true},
	}
	return Header("Billing totals") + "\n\n" + table.Render()
}

func totalsRow(tier domain.Tier, tt billing.TierTotal) []string {
	return []string{TierLabel(tier), fmt.Sprintf("%d", tt.Clients), Money(tt.Paid), Money(tt.Due)}
}
