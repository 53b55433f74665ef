package billing

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/alexanderramin/coachdesk/internal/domain"
	"github.com/shopspring/decimal"
)

// DraftField names a consulting configuration field editable through a draft.
type DraftField string

const (
	FieldBaseValue        DraftField = "base_value"
	FieldPaymentMethod    DraftField = "payment_method"
	FieldHasDownPayment   DraftField = "has_down_payment"
	FieldDownPaymentValue DraftField = "down_payment_value"
)

// ValidDraftFields is the canonical set of draft-owned fields.
var ValidDraftFields = map[string]bool{
	"base_value": true, "payment_method": true,
	"has_down_payment": true, "down_payment_value": true,
}

// Drafts buffers in-flight consulting edits per client. A draft shadows the
// persisted sub-record for display and is never written until committed.
type Drafts struct {
	mu     sync.Mutex
	drafts map[string]*domain.ConsultingBilling
}

func NewDrafts() *Drafts {
	return &Drafts{drafts: make(map[string]*domain.ConsultingBilling)}
}

// Set applies one field edit. The draft is seeded from persisted on first edit.
func (d *Drafts) Set(clientID string, persisted *domain.ConsultingBilling, field DraftField, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	draft, ok := d.drafts[clientID]
	if !ok {
		draft = &domain.ConsultingBilling{PaymentMethod: domain.PaymentSingle}
		if persisted != nil {
			c := *persisted
			draft = &c
		}
	}

	next := *draft
	if err := applyField(&next, field, value); err != nil {
		return err
	}
	if next.PaymentMethod != domain.PaymentInstallment {
		next.HasDownPayment = false
	}
	d.drafts[clientID] = &next
	return nil
}

func applyField(c *domain.ConsultingBilling, field DraftField, value string) error {
	value = strings.TrimSpace(value)
	switch field {
	case FieldBaseValue, FieldDownPaymentValue:
		amount, err := ParseAmount(value)
		if err != nil {
			return err
		}
		if field == FieldBaseValue {
			c.BaseValue = amount
		} else {
			c.DownPaymentValue = amount
		}
	case FieldPaymentMethod:
		switch domain.PaymentMethod(value) {
		case domain.PaymentSingle, domain.PaymentInstallment:
			c.PaymentMethod = domain.PaymentMethod(value)
		default:
			return fmt.Errorf("payment method %q (single|installment): %w", value, ErrInvalidDraftValue)
		}
	case FieldHasDownPayment:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("has_down_payment %q: %w", value, ErrInvalidDraftValue)
		}
		c.HasDownPayment = b
	default:
		return fmt.Errorf("unknown draft field %q: %w", field, ErrInvalidDraftValue)
	}
	return nil
}

// ParseAmount parses a non-negative currency amount. A comma decimal separator is accepted.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount %q: %w", s, ErrInvalidDraftValue)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount %q is negative: %w", s, ErrInvalidDraftValue)
	}
	return d, nil
}

// Get returns a copy of the client's draft, if any.
func (d *Drafts) Get(clientID string) (*domain.ConsultingBilling, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	draft, ok := d.drafts[clientID]
	if !ok {
		return nil, false
	}
	c := *draft
	return &c, true
}

func (d *Drafts) Has(clientID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.drafts[clientID]
	return ok
}

// Discard drops the client's draft without writing it.
func (d *Drafts) Discard(clientID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.drafts, clientID)
}

// MergeDraft lays the draft's configuration fields over persisted. Paid flags
// are owned by the toggle operations and always come from persisted.
func MergeDraft(persisted, draft *domain.ConsultingBilling) *domain.ConsultingBilling {
	if draft == nil {
		if persisted == nil {
			return nil
		}
		c := *persisted
		return &c
	}
	merged := &domain.ConsultingBilling{
		BaseValue:        draft.BaseValue,
		PaymentMethod:    draft.PaymentMethod,
		HasDownPayment:   draft.HasDownPayment,
		DownPaymentValue: draft.DownPaymentValue,
	}
	if persisted != nil {
		merged.Part1Paid = persisted.Part1Paid
		merged.Part2Paid = persisted.Part2Paid
	}
	if merged.PaymentMethod != domain.PaymentInstallment {
		merged.HasDownPayment = false
	}
	return merged
}
