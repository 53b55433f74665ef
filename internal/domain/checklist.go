package domain

import "sort"

type StepID int

type SubItemID string

// ExpenseLimit caps monthly spending for one expense category.
type ExpenseLimit struct {
	Category string
	Limit    string
}

// DebtNegotiation tracks one negotiation against an entry of the client's debt map.
type DebtNegotiation struct {
	DebtID   string
	Creditor string
	Proposal string
	Status   string
}

type SubItemState struct {
	Checked       bool
	Value         string
	ExpenseLimits []ExpenseLimit
	Negotiations  []DebtNegotiation
}

// HasInput reports whether the sub-item carries any operator input.
func (s SubItemState) HasInput() bool {
	return s.Checked || s.Value != "" || len(s.ExpenseLimits) > 0 || len(s.Negotiations) > 0
}

type StepState struct {
	SubItems map[SubItemID]SubItemState
}

// ChecklistRecord stores per-sub-item data and the flat completed-step set.
// Completed is a materialized view; see checklist.DeriveCompleted.
type ChecklistRecord struct {
	Steps     map[StepID]StepState
	Completed map[StepID]bool
}

// NewChecklistRecord returns an empty record with initialized maps.
func NewChecklistRecord() ChecklistRecord {
	return ChecklistRecord{
		Steps:     make(map[StepID]StepState),
		Completed: make(map[StepID]bool),
	}
}

// SubItem returns the stored state of a sub-item, zero value if absent.
func (r ChecklistRecord) SubItem(step StepID, sub SubItemID) SubItemState {
	return r.Steps[step].SubItems[sub]
}

// SetSubItem stores a sub-item state, allocating maps as needed.
func (r *ChecklistRecord) SetSubItem(step StepID, sub SubItemID, s SubItemState) {
	if r.Steps == nil {
		r.Steps = make(map[StepID]StepState)
	}
	st := r.Steps[step]
	if st.SubItems == nil {
		st.SubItems = make(map[SubItemID]SubItemState)
	}
	st.SubItems[sub] = s
	r.Steps[step] = st
}

// CompletedIDs returns the completed step ids in ascending order.
func (r ChecklistRecord) CompletedIDs() []StepID {
	ids := make([]StepID, 0, len(r.Completed))
	for id, ok := range r.Completed {
		if ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (r ChecklistRecord) Clone() ChecklistRecord {
	out := NewChecklistRecord()
	for id, st := range r.Steps {
		subs := make(map[SubItemID]SubItemState, len(st.SubItems))
		for sid, s := range st.SubItems {
			if s.ExpenseLimits != nil {
				s.ExpenseLimits = append([]ExpenseLimit(nil), s.ExpenseLimits...)
			}
			if s.Negotiations != nil {
				s.Negotiations = append([]DebtNegotiation(nil), s.Negotiations...)
			}
			subs[sid] = s
		}
		out.Steps[id] = StepState{SubItems: subs}
	}
	for id, ok := range r.Completed {
		if ok {
			out.Completed[id] = true
		}
	}
	return out
}
