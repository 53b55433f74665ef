package checklist

import (
	"testing"

	"github.com/alexanderramin/coachdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExpenseLimits(t *testing.T) {
	keyed := ParseExpenseLimits(`{"Transport": 300, "Food": "800"}`)
	assert.Equal(t, []domain.ExpenseLimit{
		{Category: "Food", Limit: "800"},
		{Category: "Transport", Limit: "300"},
	}, keyed)

	list := ParseExpenseLimits(`[{"category":"Leisure","limit":150},{"limit":1}]`)
	assert.Equal(t, []domain.ExpenseLimit{{Category: "Leisure", Limit: "150"}}, list)

	assert.Nil(t, ParseExpenseLimits(""))
	assert.Nil(t, ParseExpenseLimits("spend less on food"))
	assert.Nil(t, ParseExpenseLimits(`{"Food":`))
}

func TestParseNegotiations(t *testing.T) {
	keyed := ParseNegotiations(`{"d-2":{"creditor":"Bank B","status":"done"},"d-1":{"creditor":"Bank A","proposal":"12x"}}`)
	require.Len(t, keyed, 2)
	assert.Equal(t, "d-1", keyed[0].DebtID)
	assert.Equal(t, "12x", keyed[0].Proposal)
	assert.Equal(t, "done", keyed[1].Status)

	list := ParseNegotiations(`[{"debtId":"d-9","creditor":"Store"},{"creditor":"orphan"}]`)
	assert.Equal(t, []domain.DebtNegotiation{{DebtID: "d-9", Creditor: "Store"}}, list)

	assert.Nil(t, ParseNegotiations("[not json"))
}

func TestUpgradeNested(t *testing.T) {
	rec := domain.NewChecklistRecord()
	rec.SetSubItem(3, "expense_limits", domain.SubItemState{Checked: true, Value: `{"Food":"800"}`})
	rec.SetSubItem(9, "negotiation_plan", domain.SubItemState{Value: "call the bank"})
	rec.SetSubItem(2, "debts_current", domain.SubItemState{Value: `{"x":"y"}`})

	UpgradeNested(&rec)

	limits := rec.SubItem(3, "expense_limits")
	assert.True(t, limits.Checked)
	assert.Empty(t, limits.Value)
	assert.Equal(t, []domain.ExpenseLimit{{Category: "Food", Limit: "800"}}, limits.ExpenseLimits)

	// Unparseable text is kept and treated as no list data.
	negs := rec.SubItem(9, "negotiation_plan")
	assert.Equal(t, "call the bank", negs.Value)
	assert.Empty(t, negs.Negotiations)

	// Plain sub-items are never reinterpreted.
	assert.Equal(t, `{"x":"y"}`, rec.SubItem(2, "debts_current").Value)
}
