package checklist

import (
	"github.com/alexanderramin/coachdesk/internal/domain"
)

type Phase int

const (
	Phase1 Phase = 1
	Phase2 Phase = 2
)

func (p Phase) String() string {
	if p == Phase2 {
		return "Phase 2: return and negotiation follow-up"
	}
	return "Phase 1: diagnosis and triage"
}

// NestedKind marks sub-items whose data is a typed list rather than free text.
type NestedKind int

const (
	NestedNone NestedKind = iota
	NestedExpenseLimits
	NestedDebtNegotiations
)

// ConditionalInput is a free-text field shown only while the sub-item's
// checked flag equals WhenChecked.
type ConditionalInput struct {
	Label       string
	WhenChecked bool
}

type SubItem struct {
	ID     domain.SubItemID
	Label  string
	Input  *ConditionalInput
	Info   string // shown only while checked
	Nested NestedKind
}

type Step struct {
	ID       domain.StepID
	Phase    Phase
	Title    string
	SubItems []SubItem
}

func whenChecked(label string) *ConditionalInput {
	return &ConditionalInput{Label: label, WhenChecked: true}
}

func whenUnchecked(label string) *ConditionalInput {
	return &ConditionalInput{Label: label, WhenChecked: false}
}

var catalog = []Step{
	{ID: 1, Phase: Phase1, Title: "Income survey", SubItems: []SubItem{
		{ID: "net_income", Label: "Net monthly income recorded", Input: whenChecked("Net monthly income")},
		{ID: "extra_income", Label: "Additional income sources reviewed", Input: whenChecked("Describe the additional sources")},
	}},
	{ID: 2, Phase: Phase1, Title: "Debt map", SubItems: []SubItem{
		{ID: "debts_listed", Label: "All debts listed with creditor and balance"},
		{ID: "debts_current", Label: "All debts are up to date", Input: whenUnchecked("Which debts are overdue?")},
	}},
	{ID: 3, Phase: Phase1, Title: "Fixed expenses", SubItems: []SubItem{
		{ID: "expenses_listed", Label: "Fixed monthly expenses listed"},
		{ID: "expense_limits", Label: "Spending limits set per category", Nested: NestedExpenseLimits},
	}},
	{ID: 4, Phase: Phase1, Title: "Emergency reserve", SubItems: []SubItem{
		{ID: "has_reserve", Label: "Client keeps an emergency reserve",
			Input: whenUnchecked("Target reserve amount"),
			Info:  "Keep the reserve in a liquid, low-risk account."},
	}},
	{ID: 5, Phase: Phase1, Title: "Credit card usage", SubItems: []SubItem{
		{ID: "cards_blocked", Label: "Revolving cards blocked or cancelled", Input: whenUnchecked("Why are the cards still active?")},
		{ID: "installments_listed", Label: "Open installment purchases listed"},
	}},
	{ID: 6, Phase: Phase1, Title: "Bank account review"},
	{ID: 7, Phase: Phase1, Title: "Spending diary started"},
	{ID: 8, Phase: Phase1, Title: "Household alignment", SubItems: []SubItem{
		{ID: "family_informed", Label: "Household members informed of the plan", Input: whenUnchecked("Reason the household was not informed")},
	}},
	{ID: 9, Phase: Phase1, Title: "Priority plan", SubItems: []SubItem{
		{ID: "essentials_prioritized", Label: "Essential debts prioritized",
			Info: "Housing, utilities and secured loans come before unsecured debt."},
		{ID: "negotiation_plan", Label: "Negotiation targets chosen", Nested: NestedDebtNegotiations},
	}},
	{ID: 10, Phase: Phase2, Title: "Negotiation follow-up", SubItems: []SubItem{
		{ID: "creditor_contacted", Label: "Creditors contacted", Input: whenChecked("Describe what you negotiated")},
		{ID: "agreement_signed", Label: "Agreements signed"},
	}},
	{ID: 11, Phase: Phase2, Title: "Budget adherence", SubItems: []SubItem{
		{ID: "limits_respected", Label: "Category limits respected this month", Input: whenUnchecked("Which categories went over?")},
	}},
	{ID: 12, Phase: Phase2, Title: "Reserve progress", SubItems: []SubItem{
		{ID: "contribution_made", Label: "Monthly reserve contribution made", Input: whenChecked("Amount contributed")},
		{ID: "reserve_untouched", Label: "Reserve left untouched", Input: whenUnchecked("What was the reserve used for?")},
	}},
	{ID: 13, Phase: Phase2, Title: "Closing review"},
}

// Steps returns the full catalog in display order.
func Steps() []Step {
	return catalog
}

// StepByID looks up a catalog step.
func StepByID(id domain.StepID) (Step, bool) {
	for _, s := range catalog {
		if s.ID == id {
			return s, true
		}
	}
	return Step{}, false
}

// SubItemByID looks up a sub-item within a step.
func (s Step) SubItemByID(id domain.SubItemID) (SubItem, bool) {
	for _, sub := range s.SubItems {
		if sub.ID == id {
			return sub, true
		}
	}
	return SubItem{}, false
}

// PhaseSteps returns the steps of one phase.
func PhaseSteps(p Phase) []Step {
	var out []Step
	for _, s := range catalog {
		if s.Phase == p {
			out = append(out, s)
		}
	}
	return out
}

// VisibleSteps applies a client's access flag to the catalog.
func VisibleSteps(access domain.ChecklistAccess) []Step {
	switch access {
	case domain.AccessPhase1:
		return PhaseSteps(Phase1)
	case domain.AccessPhase1And2:
		return Steps()
	default:
		return nil
	}
}

// Fields is what a sub-item shows for a given checked state.
type Fields struct {
	ShowInput  bool
	InputLabel string
	Info       string
}

// VisibleFields evaluates a sub-item's conditional input and info gates.
// Both depend only on the sub-item's own checked flag.
func VisibleFields(sub SubItem, checked bool) Fields {
	var f Fields
	if sub.Input != nil && sub.Input.WhenChecked == checked {
		f.ShowInput = true
		f.InputLabel = sub.Input.Label
	}
	if checked {
		f.Info = sub.Info
	}
	return f
}
