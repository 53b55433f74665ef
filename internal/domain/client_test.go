package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientValidate(t *testing.T) {
	tests := []struct {
		name    string
		client  Client
		wantErr string
	}{
		{"minimal", Client{Name: "Ana"}, ""},
		{"full", Client{Name: "Ana", Email: "ana@example.com", Role: RoleSecretary, Status: StatusLost, ChecklistAccess: AccessPhase1And2}, ""},
		{"blank name", Client{Name: "   "}, "name is required"},
		{"bad email", Client{Name: "Ana", Email: "ana@"}, "not a valid address"},
		{"bad role", Client{Name: "Ana", Role: "owner"}, "invalid role"},
		{"bad status", Client{Name: "Ana", Status: "archived"}, "invalid status"},
		{"bad access", Client{Name: "Ana", ChecklistAccess: "phase2"}, "invalid checklist access"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.client.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestClientDisplayID(t *testing.T) {
	assert.Equal(t, "0f3c2a9b", (&Client{ID: "0f3c2a9b-1111-2222-3333-444455556666"}).DisplayID())
	assert.Equal(t, "abc", (&Client{ID: "abc"}).DisplayID())
}

func TestClientClone_IsDeep(t *testing.T) {
	since := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	c := &Client{
		Name:      "Ana",
		Checklist: NewChecklistRecord(),
		Billing: BillingRecord{
			Consulting: &ConsultingBilling{BaseValue: decimal.NewFromInt(497)},
			Mentorship: &RecurringBilling{
				Months:         []Month{{Paid: true, Value: decimal.NewFromInt(150)}},
				LegacyPayments: []bool{true},
				ToolOnlySince:  &since,
			},
		},
	}
	c.Checklist.SetSubItem(1, "net_income", SubItemState{Checked: true, Value: "4200"})

	cp := c.Clone()
	cp.Billing.Consulting.Part1Paid = true
	cp.Billing.Mentorship.Months[0].Paid = false
	cp.Billing.Mentorship.LegacyPayments[0] = false
	*cp.Billing.Mentorship.ToolOnlySince = since.AddDate(1, 0, 0)
	cp.Checklist.SetSubItem(1, "net_income", SubItemState{})

	assert.False(t, c.Billing.Consulting.Part1Paid)
	assert.True(t, c.Billing.Mentorship.Months[0].Paid)
	assert.True(t, c.Billing.Mentorship.LegacyPayments[0])
	assert.Equal(t, since, *c.Billing.Mentorship.ToolOnlySince)
	assert.Equal(t, "4200", c.Checklist.SubItem(1, "net_income").Value)

	assert.Nil(t, (*Client)(nil).Clone())
}
