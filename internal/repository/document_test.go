package repository

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/alexanderramin/coachdesk/internal/domain"
	"github.com/alexanderramin/coachdesk/internal/testutil"
)

func decodeBilling(t *testing.T, raw string) domain.BillingRecord {
	t.Helper()
	tree, err := decodeTree([]byte(raw))
	require.NoError(t, err)
	rec, ok := billingFromTree(tree)
	require.True(t, ok, "billing not fully understood: %s", raw)
	return rec
}

func TestBillingDocument_NumbersAsStrings(t *testing.T) {
	rec := decodeBilling(t, `{
		"consulting": {"baseValue": "497,00", "paymentMethod": "installment",
			"hasDownPayment": true, "downPaymentValue": "147", "part1Paid": true},
		"followUp": {"monthlyValue": "90.5", "months": [{"paid": "true", "value": "90.5"}]}
	}`)

	require.NotNil(t, rec.Consulting)
	assert.Equal(t, "497", rec.Consulting.BaseValue.String())
	assert.Equal(t, "147", rec.Consulting.DownPaymentValue.String())
	require.NotNil(t, rec.FollowUp)
	assert.Equal(t, "90.5", rec.FollowUp.MonthlyValue.String())
	require.Len(t, rec.FollowUp.Months, 1)
	assert.True(t, rec.FollowUp.Months[0].Paid)
}

func TestBillingDocument_NonArrayPaymentsIsEmpty(t *testing.T) {
	for _, payments := range []string{`"yes"`, `42`, `{"0": true}`, `null`} {
		rec := decodeBilling(t, `{"mentorship": {"subscriptionPlanId": "basic", "payments": `+payments+`}}`)
		require.NotNil(t, rec.Mentorship, "payments=%s", payments)
		assert.Empty(t, rec.Mentorship.LegacyPayments, "payments=%s", payments)
	}
}

func TestBillingDocument_LegacyPaymentsRead(t *testing.T) {
	rec := decodeBilling(t, `{"mentorship": {"subscriptionPlanId": "standard", "payments": [true, false, 1]}}`)
	require.NotNil(t, rec.Mentorship)
	assert.Equal(t, []bool{true, false, true}, rec.Mentorship.LegacyPayments)
	assert.Empty(t, rec.Mentorship.Months)
}

func TestBillingDocument_MissingPaymentMethodDefaultsToSingle(t *testing.T) {
	rec := decodeBilling(t, `{"consulting": {"baseValue": 300}}`)
	require.NotNil(t, rec.Consulting)
	assert.Equal(t, domain.PaymentSingle, rec.Consulting.PaymentMethod)
}

func TestChecklistDocument_LegacyNestedTextUpgraded(t *testing.T) {
	data, err := decodeTree([]byte(`{
		"3": {"subItems": {"expense_limits": {"value": {"food": "800", "transport": 300}}}},
		"9": {"subItems": {"negotiation_plan": {"value": "not json at all"}}}
	}`))
	require.NoError(t, err)
	rec, ok := checklistFromTree(data, nil)
	assert.True(t, ok)

	limits := rec.SubItem(3, "expense_limits")
	assert.Equal(t, []domain.ExpenseLimit{
		{Category: "food", Limit: "800"},
		{Category: "transport", Limit: "300"},
	}, limits.ExpenseLimits)
	assert.Empty(t, limits.Value)

	negs := rec.SubItem(9, "negotiation_plan")
	assert.Empty(t, negs.Negotiations)
}

func TestChecklistDocument_CompletedTolerant(t *testing.T) {
	rec, ok := checklistFromTree(nil, []any{json.Number("6"), "7", 13.0, "x"})
	assert.True(t, ok)
	assert.Equal(t, []domain.StepID{6, 7, 13}, rec.CompletedIDs())

	rec, ok = checklistFromTree(nil, "6,7")
	assert.False(t, ok)
	assert.Empty(t, rec.CompletedIDs())
}

func TestClientDocument_BSONRoundTrip(t *testing.T) {
	since := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	c := testutil.NewTestClient("Ana",
		testutil.WithMentorship(domain.RecurringBilling{
			PlanID:        domain.PlanBasic,
			Months:        testutil.Months(testutil.MonthEntry{Paid: true, Value: 150}),
			ToolOnlySince: &since,
		}),
		testutil.WithCheckedSubItem(8, "family_informed"),
	)

	raw, err := bson.Marshal(toDocument(c))
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))
	got := clientFromTree(plain(doc))

	assert.Equal(t, c.ID, got.ID)
	require.NotNil(t, got.Billing.Mentorship)
	require.Len(t, got.Billing.Mentorship.Months, 1)
	assert.True(t, got.Billing.Mentorship.Months[0].Value.Equal(decimal.NewFromInt(150)))
	assert.True(t, got.Billing.Mentorship.Months[0].Paid)
	require.NotNil(t, got.Billing.Mentorship.ToolOnlySince)
	assert.True(t, since.Equal(*got.Billing.Mentorship.ToolOnlySince))
	assert.Equal(t, []domain.StepID{8}, got.Checklist.CompletedIDs())
}

func TestClientDocument_LegacyPaymentsOmittedWhenAbsorbed(t *testing.T) {
	doc := recurringToDocument(&domain.RecurringBilling{
		Months: testutil.Months(testutil.MonthEntry{Value: 250}),
	})
	assert.Nil(t, doc.Payments)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "payments")
}

func TestBillingDocument_LooselyTypedFieldsKeepSiblings(t *testing.T) {
	rec := decodeBilling(t, `{
		"consulting": {"baseValue": 497, "part1Paid": "true", "part2Paid": 0},
		"mentorship": {"payments": [true, false, true], "subscriptionPlanId": "standard"},
		"followUp": {"months": {}, "monthlyValue": "180"}
	}`)

	require.NotNil(t, rec.Consulting)
	assert.True(t, rec.Consulting.Part1Paid)
	assert.False(t, rec.Consulting.Part2Paid)
	assert.Equal(t, "497", rec.Consulting.BaseValue.String())
	require.NotNil(t, rec.Mentorship)
	assert.Equal(t, domain.PlanStandard, rec.Mentorship.PlanID)
	assert.Equal(t, []bool{true, false, true}, rec.Mentorship.LegacyPayments)
	require.NotNil(t, rec.FollowUp)
	assert.Empty(t, rec.FollowUp.Months)
	assert.Equal(t, "180", rec.FollowUp.MonthlyValue.String())
}

func TestChecklistDocument_StringCheckedFlag(t *testing.T) {
	data, err := decodeTree([]byte(`{"1": {"subItems": {"net_income": {"checked": "true", "value": 4200}}}}`))
	require.NoError(t, err)

	rec, ok := checklistFromTree(data, []any{})
	require.True(t, ok)
	sub := rec.SubItem(1, "net_income")
	assert.True(t, sub.Checked)
	assert.Equal(t, "4200", sub.Value)
}

func TestFieldReadable(t *testing.T) {
	cases := []struct {
		name string
		key  string
		raw  string
		want bool
	}{
		{"empty billing", keyBilling, `{}`, true},
		{"billing null", keyBilling, `null`, true},
		{"billing is a string", keyBilling, `"paid"`, false},
		{"consulting is a list", keyBilling, `{"consulting": [1]}`, false},
		{"months hold scalars", keyBilling, `{"mentorship": {"months": [true]}}`, false},
		{"bad tool-only date", keyBilling, `{"followUp": {"toolOnlySince": "last spring"}}`, false},
		{"non numeric step", keyChecklist, `{"intro": {"subItems": {}}}`, false},
		{"sub-items as list", keyChecklist, `{"1": {"subItems": []}}`, true},
		{"sub-items as text", keyChecklist, `{"1": {"subItems": "x"}}`, false},
		{"completed list", keyCompleted, `[1, "2"]`, true},
		{"completed as text", keyCompleted, `"1,2"`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, textReadable(tc.key, tc.raw))
		})
	}
	assert.False(t, textReadable(keyBilling, `{not json`))
	assert.True(t, textReadable(keyBilling, ``))
}

func TestWriteGuards(t *testing.T) {
	assert.Equal(t, []string{keyBilling}, writeGuards(keyBilling))
	assert.Equal(t, []string{keyChecklist, keyCompleted}, writeGuards(keyCompleted))
	assert.Nil(t, writeGuards("name"))
}

func TestPlain_ConvertsBSONShapes(t *testing.T) {
	got := plain(bson.M{
		"billing": bson.D{{Key: "mentorship", Value: bson.D{{Key: "payments", Value: bson.A{true, false}}}}},
	})
	assert.Equal(t, map[string]any{
		"billing": map[string]any{"mentorship": map[string]any{"payments": []any{true, false}}},
	}, got)
}

func TestCoerceDecimal(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, "0"},
		{int32(150), "150"},
		{int64(250), "250"},
		{99.5, "99.5"},
		{"1.234,5", "0"},
		{"12,5", "12.5"},
		{" 40 ", "40"},
		{"abc", "0"},
		{true, "0"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, coerceDecimal(tc.in).String(), "input %#v", tc.in)
	}
}

func TestBillingDocument_AmountsWrittenExactly(t *testing.T) {
	exact := decimal.RequireFromString("1234.567890123456789")
	raw, err := json.Marshal(billingToDocument(domain.BillingRecord{
		Consulting: &domain.ConsultingBilling{BaseValue: exact, PaymentMethod: domain.PaymentSingle},
		FollowUp: &domain.RecurringBilling{
			MonthlyValue: exact,
			Months:       []domain.Month{{Value: exact}},
		},
	}))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"baseValue":"1234.567890123456789"`)
	assert.Contains(t, string(raw), `"monthlyValue":"1234.567890123456789"`)

	rec := decodeBilling(t, string(raw))
	assert.True(t, rec.Consulting.BaseValue.Equal(exact))
	assert.True(t, rec.FollowUp.Months[0].Value.Equal(exact))
}
