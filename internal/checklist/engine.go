package checklist

import (
	"fmt"

	"github.com/alexanderramin/coachdesk/internal/domain"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// DeriveCompleted recomputes the completed-step set from the per-sub-item
// data. Steps with sub-items are complete iff every sub-item is checked.
// Steps without sub-items, and ids outside the catalog, keep their recorded
// membership since nothing else determines it.
func DeriveCompleted(rec domain.ChecklistRecord) map[domain.StepID]bool {
	out := make(map[domain.StepID]bool, len(rec.Completed))
	for id, ok := range rec.Completed {
		if ok {
			out[id] = true
		}
	}
	for _, step := range catalog {
		if len(step.SubItems) == 0 {
			continue
		}
		if allChecked(rec, step) {
			out[step.ID] = true
		} else {
			delete(out, step.ID)
		}
	}
	return out
}

func allChecked(rec domain.ChecklistRecord, step Step) bool {
	for _, sub := range step.SubItems {
		if !rec.SubItem(step.ID, sub.ID).Checked {
			return false
		}
	}
	return true
}

// Reconcile replaces rec.Completed with the derived set.
func Reconcile(rec *domain.ChecklistRecord) {
	rec.Completed = DeriveCompleted(*rec)
}

// StepStatus derives the state of a step from rec.
func StepStatus(rec domain.ChecklistRecord, id domain.StepID) Status {
	if rec.Completed[id] {
		return StatusCompleted
	}
	for _, s := range rec.Steps[id].SubItems {
		if s.HasInput() {
			return StatusInProgress
		}
	}
	return StatusPending
}

func lookup(stepID domain.StepID, subID domain.SubItemID) (Step, SubItem, error) {
	step, ok := StepByID(stepID)
	if !ok {
		return Step{}, SubItem{}, fmt.Errorf("step %d: %w", stepID, ErrUnknownStep)
	}
	sub, ok := step.SubItemByID(subID)
	if !ok {
		return Step{}, SubItem{}, fmt.Errorf("step %d sub-item %q: %w", stepID, subID, ErrUnknownSubItem)
	}
	return step, sub, nil
}

// ToggleSubItem flips a sub-item's checked flag and recomputes the parent's
// completion.
func ToggleSubItem(rec *domain.ChecklistRecord, stepID domain.StepID, subID domain.SubItemID) error {
	if _, _, err := lookup(stepID, subID); err != nil {
		return err
	}
	s := rec.SubItem(stepID, subID)
	s.Checked = !s.Checked
	rec.SetSubItem(stepID, subID, s)
	Reconcile(rec)
	return nil
}

// SetSubItemValue stores the free text of a sub-item. The text is kept even
// when its input is currently hidden so flipping the flag back restores it.
func SetSubItemValue(rec *domain.ChecklistRecord, stepID domain.StepID, subID domain.SubItemID, value string) error {
	if _, _, err := lookup(stepID, subID); err != nil {
		return err
	}
	s := rec.SubItem(stepID, subID)
	s.Value = value
	rec.SetSubItem(stepID, subID, s)
	Reconcile(rec)
	return nil
}

// ToggleStep flips completion of a step that has no sub-items.
func ToggleStep(rec *domain.ChecklistRecord, stepID domain.StepID) error {
	step, ok := StepByID(stepID)
	if !ok {
		return fmt.Errorf("step %d: %w", stepID, ErrUnknownStep)
	}
	if len(step.SubItems) > 0 {
		return fmt.Errorf("step %d: %w", stepID, ErrStepHasSubItems)
	}
	if rec.Completed == nil {
		rec.Completed = make(map[domain.StepID]bool)
	}
	if rec.Completed[stepID] {
		delete(rec.Completed, stepID)
	} else {
		rec.Completed[stepID] = true
	}
	Reconcile(rec)
	return nil
}

// SetExpenseLimits replaces the expense-limit list of a NestedExpenseLimits sub-item.
func SetExpenseLimits(rec *domain.ChecklistRecord, stepID domain.StepID, subID domain.SubItemID, limits []domain.ExpenseLimit) error {
	_, sub, err := lookup(stepID, subID)
	if err != nil {
		return err
	}
	if sub.Nested != NestedExpenseLimits {
		return fmt.Errorf("step %d sub-item %q: %w", stepID, subID, ErrNotNestedList)
	}
	s := rec.SubItem(stepID, subID)
	s.ExpenseLimits = append([]domain.ExpenseLimit(nil), limits...)
	rec.SetSubItem(stepID, subID, s)
	return nil
}

// SetNegotiations replaces the negotiation list of a NestedDebtNegotiations sub-item.
func SetNegotiations(rec *domain.ChecklistRecord, stepID domain.StepID, subID domain.SubItemID, negs []domain.DebtNegotiation) error {
	_, sub, err := lookup(stepID, subID)
	if err != nil {
		return err
	}
	if sub.Nested != NestedDebtNegotiations {
		return fmt.Errorf("step %d sub-item %q: %w", stepID, subID, ErrNotNestedList)
	}
	s := rec.SubItem(stepID, subID)
	s.Negotiations = append([]domain.DebtNegotiation(nil), negs...)
	rec.SetSubItem(stepID, subID, s)
	return nil
}
