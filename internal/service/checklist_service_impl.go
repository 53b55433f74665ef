package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/coachdesk/internal/checklist"
	"github.com/alexanderramin/coachdesk/internal/domain"
)

const opSaveChecklistText = "save-checklist-text"

type checklistService struct {
	store     *ClientStore
	debouncer *checklist.Debouncer
	observer  UseCaseObserver
}

// NewChecklistService creates the checklist use cases. Free-text edits are
// saved once no further edit arrives for debounce.
func NewChecklistService(store *ClientStore, debounce time.Duration, observers ...UseCaseObserver) ChecklistService {
	s := &checklistService{store: store, observer: useCaseObserverOrNoop(observers)}
	s.debouncer = checklist.NewDebouncer(debounce, func(ctx context.Context, id string) error {
		return s.store.SaveDeferred(ctx, id, opSaveChecklistText, persistChecklist)
	})
	return s
}

func (s *checklistService) View(ctx context.Context, id string) (*ChecklistView, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	v := &ChecklistView{
		ClientID:    c.ID,
		ClientName:  c.Name,
		Access:      c.ChecklistAccess,
		SaveStatus:  s.store.Status(c.ID),
		PendingSave: s.debouncer.Pending(c.ID),
	}
	for _, step := range checklist.VisibleSteps(c.ChecklistAccess) {
		sv := StepView{Step: step, Status: checklist.StepStatus(c.Checklist, step.ID)}
		if sv.Status == checklist.StatusCompleted {
			v.Completed++
		}
		for _, sub := range step.SubItems {
			state := c.Checklist.SubItem(step.ID, sub.ID)
			sv.SubItems = append(sv.SubItems, SubItemView{
				SubItem: sub,
				State:   state,
				Fields:  checklist.VisibleFields(sub, state.Checked),
			})
		}
		v.Steps = append(v.Steps, sv)
	}
	return v, nil
}

// checkVisible rejects edits to steps outside the client's unlocked phases.
// Unknown steps pass through so the engine can report them.
func checkVisible(c *domain.Client, stepID domain.StepID) error {
	if _, ok := checklist.StepByID(stepID); !ok {
		return nil
	}
	for _, step := range checklist.VisibleSteps(c.ChecklistAccess) {
		if step.ID == stepID {
			return nil
		}
	}
	return fmt.Errorf("step %d with access %s: %w", stepID, c.ChecklistAccess, ErrStepLocked)
}

func (s *checklistService) mutate(ctx context.Context, id, operation string, stepID domain.StepID, fn func(rec *domain.ChecklistRecord) error) error {
	_, err := s.store.Mutate(ctx, id, operation, func(c *domain.Client) error {
		if err := checkVisible(c, stepID); err != nil {
			return err
		}
		return fn(&c.Checklist)
	}, persistChecklist)
	return err
}

func (s *checklistService) ToggleSubItem(ctx context.Context, id string, step domain.StepID, sub domain.SubItemID) (err error) {
	defer observe(ctx, s.observer, "toggle-checklist-item", map[string]any{"client_id": id, "step": int(step), "sub_item": string(sub)}, &err)()

	return s.mutate(ctx, id, "toggle-checklist-item", step, func(rec *domain.ChecklistRecord) error {
		return checklist.ToggleSubItem(rec, step, sub)
	})
}

func (s *checklistService) ToggleStep(ctx context.Context, id string, step domain.StepID) (err error) {
	defer observe(ctx, s.observer, "toggle-checklist-step", map[string]any{"client_id": id, "step": int(step)}, &err)()

	return s.mutate(ctx, id, "toggle-checklist-step", step, func(rec *domain.ChecklistRecord) error {
		return checklist.ToggleStep(rec, step)
	})
}

func (s *checklistService) SetSubItemValue(ctx context.Context, id string, step domain.StepID, sub domain.SubItemID, value string) error {
	_, err := s.store.ApplyDeferred(ctx, id, func(c *domain.Client) error {
		if err := checkVisible(c, step); err != nil {
			return err
		}
		return checklist.SetSubItemValue(&c.Checklist, step, sub, value)
	})
	if err != nil {
		return err
	}
	s.debouncer.Touch(id)
	return nil
}

func (s *checklistService) SetExpenseLimits(ctx context.Context, id string, step domain.StepID, sub domain.SubItemID, limits []domain.ExpenseLimit) (err error) {
	defer observe(ctx, s.observer, "set-expense-limits", map[string]any{"client_id": id, "count": len(limits)}, &err)()

	return s.mutate(ctx, id, "set-expense-limits", step, func(rec *domain.ChecklistRecord) error {
		return checklist.SetExpenseLimits(rec, step, sub, limits)
	})
}

func (s *checklistService) SetNegotiations(ctx context.Context, id string, step domain.StepID, sub domain.SubItemID, negs []domain.DebtNegotiation) (err error) {
	defer observe(ctx, s.observer, "set-negotiations", map[string]any{"client_id": id, "count": len(negs)}, &err)()

	return s.mutate(ctx, id, "set-negotiations", step, func(rec *domain.ChecklistRecord) error {
		return checklist.SetNegotiations(rec, step, sub, negs)
	})
}

func (s *checklistService) SetPhase(ctx context.Context, id string, access domain.ChecklistAccess) (err error) {
	defer observe(ctx, s.observer, "set-checklist-phase", map[string]any{"client_id": id, "access": string(access)}, &err)()

	if !domain.ValidChecklistAccess[string(access)] {
		return fmt.Errorf("invalid checklist access %q (locked|phase1|phase1_and_2)", access)
	}
	_, err = s.store.Mutate(ctx, id, "set-checklist-phase", func(c *domain.Client) error {
		c.ChecklistAccess = access
		return nil
	}, persistPhase)
	return err
}

func (s *checklistService) Flush(ctx context.Context, id string) error {
	return s.debouncer.Flush(ctx, id)
}

func (s *checklistService) Close(ctx context.Context) error {
	return s.debouncer.FlushAll(ctx)
}
