package service

import (
	"github.com/alexanderramin/coachdesk/internal/billing"
	"github.com/alexanderramin/coachdesk/internal/checklist"
	"github.com/alexanderramin/coachdesk/internal/domain"
)

// BillingView is the display model of one client's billing. Record is the
// normalized persisted shape; Consulting is the draft-shadowed fee.
type BillingView struct {
	ClientID   string
	ClientName string
	Record     domain.BillingRecord
	Consulting *domain.ConsultingBilling
	HasDraft   bool
	Ledger     billing.Ledger
	Shapes     map[domain.Tier]billing.Shape
	SaveStatus domain.SaveStatus
}

// ChecklistView is the display model of the phases a client can see.
type ChecklistView struct {
	ClientID   string
	ClientName string
	Access     domain.ChecklistAccess
	Steps      []StepView
	Completed  int
	SaveStatus domain.SaveStatus
	// PendingSave is true while a debounced edit has not been written yet.
	PendingSave bool
}

type StepView struct {
	Step     checklist.Step
	Status   checklist.Status
	SubItems []SubItemView
}

type SubItemView struct {
	SubItem checklist.SubItem
	State   domain.SubItemState
	Fields  checklist.Fields
}
