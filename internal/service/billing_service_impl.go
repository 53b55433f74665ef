package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alexanderramin/coachdesk/internal/billing"
	"github.com/alexanderramin/coachdesk/internal/domain"
)

type billingService struct {
	store    *ClientStore
	drafts   *billing.Drafts
	now      func() time.Time
	observer UseCaseObserver
}

func NewBillingService(store *ClientStore, observers ...UseCaseObserver) BillingService {
	return &billingService{
		store:    store,
		drafts:   billing.NewDrafts(),
		now:      func() time.Time { return time.Now().UTC() },
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *billingService) View(ctx context.Context, id string) (*BillingView, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(c), nil
}

func (s *billingService) view(c *domain.Client) *BillingView {
	draft, hasDraft := s.drafts.Get(c.ID)
	norm := billing.Normalize(c.Billing)

	consulting := norm.Consulting
	if hasDraft {
		consulting = billing.MergeDraft(norm.Consulting, draft)
	}

	shapes := make(map[domain.Tier]billing.Shape, len(domain.RecurringTiers))
	for _, tier := range domain.RecurringTiers {
		shapes[tier] = billing.DetectShape(c.Billing.Recurring(tier))
	}

	return &BillingView{
		ClientID:   c.ID,
		ClientName: c.Name,
		Record:     norm,
		Consulting: consulting,
		HasDraft:   hasDraft,
		Ledger:     billing.ForRecord(c.Billing, draft),
		Shapes:     shapes,
		SaveStatus: s.store.Status(c.ID),
	}
}

func (s *billingService) Totals(ctx context.Context, status domain.ClientStatus) (*billing.Totals, error) {
	clients, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	ledgers := make([]billing.Ledger, 0, len(clients))
	for _, c := range clients {
		if status != "" && c.Status != status {
			continue
		}
		draft, _ := s.drafts.Get(c.ID)
		ledgers = append(ledgers, billing.ForRecord(c.Billing, draft))
	}
	totals := billing.Aggregate(ledgers)
	return &totals, nil
}

func (s *billingService) SetDraftField(ctx context.Context, id string, field billing.DraftField, value string) (*BillingView, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	persisted := billing.Normalize(c.Billing).Consulting
	if err := s.drafts.Set(id, persisted, field, value); err != nil {
		return nil, err
	}
	return s.view(c), nil
}

func (s *billingService) CommitDraft(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "commit-consulting-draft", map[string]any{"client_id": id}, &err)()

	draft, ok := s.drafts.Get(id)
	if !ok {
		return nil
	}
	_, err = s.store.Mutate(ctx, id, "commit-consulting-draft", func(c *domain.Client) error {
		c.Billing.Consulting = billing.MergeDraft(c.Billing.Consulting, draft)
		return nil
	}, persistBilling)
	if err != nil && !isSaveFailed(err) {
		return err
	}
	// The merged values now live in the local record even when the save
	// failed, so the draft has nothing left to shadow.
	s.drafts.Discard(id)
	return err
}

func (s *billingService) DiscardDraft(id string) {
	s.drafts.Discard(id)
}

func (s *billingService) HasDraft(id string) bool {
	return s.drafts.Has(id)
}

func (s *billingService) TogglePart(ctx context.Context, id string, part int) (err error) {
	defer observe(ctx, s.observer, "toggle-consulting-part", map[string]any{"client_id": id, "part": part}, &err)()

	_, err = s.store.Mutate(ctx, id, "toggle-consulting-part", func(c *domain.Client) error {
		if c.Billing.Consulting == nil {
			return fmt.Errorf("no consulting fee configured: %w", billing.ErrPartNotApplicable)
		}
		if c.Billing.Consulting.PaymentMethod != domain.PaymentInstallment {
			c.Billing.Consulting.HasDownPayment = false
		}
		return billing.TogglePart(c.Billing.Consulting, part)
	}, persistBilling)
	return err
}

// mutateRecurring runs fn on the tier's existing sub-record.
func (s *billingService) mutateRecurring(ctx context.Context, id, operation string, tier domain.Tier, fn func(r *domain.RecurringBilling) error) error {
	_, err := s.store.Mutate(ctx, id, operation, func(c *domain.Client) error {
		if tier != domain.TierMentorship && tier != domain.TierFollowUp {
			return fmt.Errorf("%q: %w", tier, billing.ErrUnknownTier)
		}
		r := c.Billing.Recurring(tier)
		if r == nil {
			return fmt.Errorf("%s: %w", tier, billing.ErrTierNotStarted)
		}
		return fn(r)
	}, persistBilling)
	return err
}

func (s *billingService) ToggleMonth(ctx context.Context, id string, tier domain.Tier, idx int) (err error) {
	defer observe(ctx, s.observer, "toggle-month", map[string]any{"client_id": id, "tier": string(tier), "month": idx + 1}, &err)()

	return s.mutateRecurring(ctx, id, "toggle-month", tier, func(r *domain.RecurringBilling) error {
		return billing.ToggleMonth(tier, r, idx)
	})
}

func (s *billingService) AddMonth(ctx context.Context, id string, tier domain.Tier) (err error) {
	defer observe(ctx, s.observer, "add-month", map[string]any{"client_id": id, "tier": string(tier)}, &err)()

	// Adding a month is how a tier is started, so it may create the sub-record.
	_, err = s.store.Mutate(ctx, id, "add-month", func(c *domain.Client) error {
		r, err := billing.EnsureRecurring(&c.Billing, tier)
		if err != nil {
			return err
		}
		return billing.AddMonth(tier, r)
	}, persistBilling)
	return err
}

func (s *billingService) RemoveMonth(ctx context.Context, id string, tier domain.Tier) (removed bool, err error) {
	defer observe(ctx, s.observer, "remove-month", map[string]any{"client_id": id, "tier": string(tier)}, &err)()

	c, err := s.store.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if tier != domain.TierMentorship && tier != domain.TierFollowUp {
		return false, fmt.Errorf("%q: %w", tier, billing.ErrUnknownTier)
	}
	// The floor check runs before Mutate so a no-op never touches the store.
	r := c.Billing.Recurring(tier)
	if r == nil {
		return false, nil
	}
	if !r.Frozen() && len(billing.NormalizeRecurring(r, billing.DefaultsFor(tier, r))) <= 1 {
		return false, nil
	}
	err = s.mutateRecurring(ctx, id, "remove-month", tier, func(r *domain.RecurringBilling) error {
		var rerr error
		removed, rerr = billing.RemoveMonth(tier, r)
		return rerr
	})
	return removed, err
}

func (s *billingService) SetMonthValue(ctx context.Context, id string, tier domain.Tier, idx int, value decimal.Decimal) (err error) {
	defer observe(ctx, s.observer, "set-month-value", map[string]any{"client_id": id, "tier": string(tier), "month": idx + 1}, &err)()

	if value.IsNegative() {
		return fmt.Errorf("month value %s is negative: %w", value, billing.ErrInvalidDraftValue)
	}
	return s.mutateRecurring(ctx, id, "set-month-value", tier, func(r *domain.RecurringBilling) error {
		return billing.SetMonthValue(tier, r, idx, value)
	})
}

func (s *billingService) SetMentorshipPlan(ctx context.Context, id string, plan domain.PlanID) (err error) {
	defer observe(ctx, s.observer, "set-mentorship-plan", map[string]any{"client_id": id, "plan": string(plan)}, &err)()

	if _, ok := billing.PlanByID(plan); !ok {
		return fmt.Errorf("%q: %w", plan, billing.ErrUnknownPlan)
	}
	_, err = s.store.Mutate(ctx, id, "set-mentorship-plan", func(c *domain.Client) error {
		r, created, err := billing.StartRecurring(&c.Billing, domain.TierMentorship, plan, decimal.Zero)
		if err != nil || created {
			return err
		}
		return billing.SetPlan(r, plan)
	}, persistBilling)
	return err
}

func (s *billingService) SetFollowUpMonthlyValue(ctx context.Context, id string, value decimal.Decimal) (err error) {
	defer observe(ctx, s.observer, "set-follow-up-value", map[string]any{"client_id": id}, &err)()

	if value.IsNegative() {
		return fmt.Errorf("monthly value %s is negative: %w", value, billing.ErrInvalidDraftValue)
	}
	_, err = s.store.Mutate(ctx, id, "set-follow-up-value", func(c *domain.Client) error {
		r, created, err := billing.StartRecurring(&c.Billing, domain.TierFollowUp, "", value)
		if err != nil || created {
			return err
		}
		return billing.SetMonthlyValue(r, value)
	}, persistBilling)
	return err
}

func (s *billingService) ToggleToolOnly(ctx context.Context, id string, tier domain.Tier) (err error) {
	defer observe(ctx, s.observer, "toggle-tool-only", map[string]any{"client_id": id, "tier": string(tier)}, &err)()

	return s.mutateRecurring(ctx, id, "toggle-tool-only", tier, func(r *domain.RecurringBilling) error {
		return billing.ToggleToolOnly(tier, r, s.now())
	})
}
