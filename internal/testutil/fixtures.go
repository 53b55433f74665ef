package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alexanderramin/coachdesk/internal/domain"
)

var testClientCounter atomic.Int64

// Client options
type ClientOption func(*domain.Client)

func WithClientStatus(s domain.ClientStatus) ClientOption {
	return func(c *domain.Client) {
		c.Status = s
	}
}

func WithChecklistAccess(a domain.ChecklistAccess) ClientOption {
	return func(c *domain.Client) {
		c.ChecklistAccess = a
	}
}

func WithEmail(email string) ClientOption {
	return func(c *domain.Client) {
		c.Email = email
	}
}

func WithConsulting(cb domain.ConsultingBilling) ClientOption {
	return func(c *domain.Client) {
		c.Billing.Consulting = &cb
	}
}

func WithMentorship(r domain.RecurringBilling) ClientOption {
	return func(c *domain.Client) {
		c.Billing.Mentorship = &r
	}
}

func WithFollowUp(r domain.RecurringBilling) ClientOption {
	return func(c *domain.Client) {
		c.Billing.FollowUp = &r
	}
}

// WithLegacyMentorship stores only the pre-month-list payment flags.
func WithLegacyMentorship(plan domain.PlanID, payments ...bool) ClientOption {
	return func(c *domain.Client) {
		c.Billing.Mentorship = &domain.RecurringBilling{PlanID: plan, LegacyPayments: payments}
	}
}

func WithCheckedSubItem(step domain.StepID, sub domain.SubItemID) ClientOption {
	return func(c *domain.Client) {
		state := c.Checklist.SubItem(step, sub)
		state.Checked = true
		c.Checklist.SetSubItem(step, sub, state)
	}
}

// NewTestClient returns a valid regular client with empty sub-records.
// A blank name gets a unique generated one.
func NewTestClient(name string, opts ...ClientOption) *domain.Client {
	if name == "" {
		name = fmt.Sprintf("Client %02d", testClientCounter.Add(1))
	}
	now := time.Now().UTC().Truncate(time.Second)
	c := &domain.Client{
		ID:              uuid.New().String(),
		Name:            name,
		Role:            domain.RoleRegular,
		Status:          domain.StatusPreRegistration,
		ChecklistAccess: domain.AccessLocked,
		Checklist:       domain.NewChecklistRecord(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Months builds a month list with integer values.
func Months(entries ...MonthEntry) []domain.Month {
	out := make([]domain.Month, len(entries))
	for i, e := range entries {
		out[i] = domain.Month{Paid: e.Paid, Value: decimal.NewFromInt(e.Value)}
	}
	return out
}

type MonthEntry struct {
	Paid  bool
	Value int64
}
