package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/alexanderramin/coachdesk/internal/billing"
	"github.com/alexanderramin/coachdesk/internal/domain"
)

type ClientService interface {
	Create(ctx context.Context, c *domain.Client) error
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	// Resolve finds a client by full id, id prefix or case-insensitive name.
	Resolve(ctx context.Context, ref string) (*domain.Client, error)
	// List returns all clients, or only those in status when it is non-empty.
	List(ctx context.Context, status domain.ClientStatus) ([]*domain.Client, error)
	UpdateProfile(ctx context.Context, c *domain.Client) error
	SetStatus(ctx context.Context, id string, status domain.ClientStatus) error
	Delete(ctx context.Context, id string) error
	SaveStatus(id string) domain.SaveStatus
}

type BillingService interface {
	View(ctx context.Context, id string) (*BillingView, error)
	Totals(ctx context.Context, status domain.ClientStatus) (*billing.Totals, error)

	SetDraftField(ctx context.Context, id string, field billing.DraftField, value string) (*BillingView, error)
	CommitDraft(ctx context.Context, id string) error
	DiscardDraft(id string)
	HasDraft(id string) bool

	TogglePart(ctx context.Context, id string, part int) error
	ToggleMonth(ctx context.Context, id string, tier domain.Tier, idx int) error
	AddMonth(ctx context.Context, id string, tier domain.Tier) error
	// RemoveMonth reports false when the tier is already down to one month.
	RemoveMonth(ctx context.Context, id string, tier domain.Tier) (bool, error)
	SetMonthValue(ctx context.Context, id string, tier domain.Tier, idx int, value decimal.Decimal) error
	SetMentorshipPlan(ctx context.Context, id string, plan domain.PlanID) error
	SetFollowUpMonthlyValue(ctx context.Context, id string, value decimal.Decimal) error
	ToggleToolOnly(ctx context.Context, id string, tier domain.Tier) error
}

type ChecklistService interface {
	View(ctx context.Context, id string) (*ChecklistView, error)
	ToggleSubItem(ctx context.Context, id string, step domain.StepID, sub domain.SubItemID) error
	ToggleStep(ctx context.Context, id string, step domain.StepID) error
	// SetSubItemValue records free text locally and schedules a debounced save.
	SetSubItemValue(ctx context.Context, id string, step domain.StepID, sub domain.SubItemID, value string) error
	SetExpenseLimits(ctx context.Context, id string, step domain.StepID, sub domain.SubItemID, limits []domain.ExpenseLimit) error
	SetNegotiations(ctx context.Context, id string, step domain.StepID, sub domain.SubItemID, negs []domain.DebtNegotiation) error
	SetPhase(ctx context.Context, id string, access domain.ChecklistAccess) error
	// Flush saves a pending debounced edit for the client immediately.
	Flush(ctx context.Context, id string) error
	// Close flushes every pending edit.
	Close(ctx context.Context) error
}
