package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/coachdesk/internal/checklist"
	"github.com/alexanderramin/coachdesk/internal/domain"
	"github.com/alexanderramin/coachdesk/internal/service"
)

// FormatChecklist renders the phases visible to the client as a tree.
func FormatChecklist(v *service.ChecklistView) string {
	var b strings.Builder
	b.WriteString(Header("Checklist · " + v.ClientName))
	b.WriteString("\n")

	if len(v.Steps) == 0 {
		b.WriteString("\n" + Dim("Checklist is locked for this client. Unlock it with: coachdesk checklist phase <client> phase1") + "\n")
		return b.String()
	}

	b.WriteString(RenderProgress(v.Completed, len(v.Steps), 20))
	b.WriteString("  " + AccessBadge(v.Access))
	switch {
	case v.PendingSave:
		b.WriteString("  " + SaveIndicator(domain.SavePending))
	case v.SaveStatus != domain.SaveCommitted:
		b.WriteString("  " + SaveIndicator(v.SaveStatus))
	}
	b.WriteString("\n")

	var phase checklist.Phase
	var items []TreeItem
	flush := func() {
		if len(items) > 0 {
			b.WriteString(RenderTree(items))
			items = nil
		}
	}
	for _, sv := range v.Steps {
		if sv.Step.Phase != phase {
			flush()
			phase = sv.Step.Phase
			b.WriteString("\n" + StylePurple.Render(phase.String()) + "\n")
		}
		items = append(items, StepTreeItems(sv)...)
	}
	flush()
	return b.String()
}

// StepTreeItems flattens one step, its sub-items, and their visible fields.
func StepTreeItems(sv service.StepView) []TreeItem {
	items := []TreeItem{{
		Title:  sv.Step.Title,
		Seq:    int(sv.Step.ID),
		Status: string(sv.Status),
		Detail: stepDetail(sv),
	}}

	for i, sub := range sv.SubItems {
		status := "unchecked"
		if sub.State.Checked {
			status = "checked"
		}
		items = append(items, TreeItem{
			Title:  sub.SubItem.Label,
			Level:  1,
			IsLast: i == len(sv.SubItems)-1,
			Status: status,
			Detail: string(sub.SubItem.ID),
		})
		for _, line := range subItemLines(sub) {
			items = append(items, TreeItem{Title: line, Level: 2, IsLast: true})
		}
	}
	return items
}

func stepDetail(sv service.StepView) string {
	if len(sv.SubItems) == 0 {
		return ""
	}
	checked := 0
	for _, sub := range sv.SubItems {
		if sub.State.Checked {
			checked++
		}
	}
	return fmt.Sprintf("%d/%d", checked, len(sv.SubItems))
}

func subItemLines(sub service.SubItemView) []string {
	var lines []string
	if sub.Fields.ShowInput {
		value := sub.State.Value
		if value == "" {
			value = Dim("(empty)")
		}
		lines = append(lines, fmt.Sprintf("%s %s", Dim(sub.Fields.InputLabel+":"), value))
	}
	if sub.Fields.Info != "" {
		lines = append(lines, StyleBlue.Render("ℹ "+sub.Fields.Info))
	}
	switch sub.SubItem.Nested {
	case checklist.NestedExpenseLimits:
		for _, l := range sub.State.ExpenseLimits {
			lines = append(lines, fmt.Sprintf("%s → %s", l.Category, l.Limit))
		}
	case checklist.NestedDebtNegotiations:
		for _, n := range sub.State.Negotiations {
			line := fmt.Sprintf("%s: %s", n.Creditor, n.Proposal)
			if n.Status != "" {
				line += " " + Dim("["+n.Status+"]")
			}
			lines = append(lines, line)
		}
	}
	return lines
}
