package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/coachdesk/internal/checklist"
	"github.com/alexanderramin/coachdesk/internal/domain"
	"github.com/alexanderramin/coachdesk/internal/testutil"
)

func TestChecklistService_TwoSubItemStep(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.seed(t, testutil.NewTestClient("Ana", testutil.WithChecklistAccess(domain.AccessPhase1)))

	require.NoError(t, env.checklist.ToggleSubItem(ctx, c.ID, 1, "net_income"))
	view, err := env.checklist.View(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, checklist.StatusInProgress, view.Steps[0].Status)
	assert.Empty(t, env.persisted(t, c.ID).Checklist.CompletedIDs())

	require.NoError(t, env.checklist.ToggleSubItem(ctx, c.ID, 1, "extra_income"))
	assert.Equal(t, []domain.StepID{1}, env.persisted(t, c.ID).Checklist.CompletedIDs())

	require.NoError(t, env.checklist.ToggleSubItem(ctx, c.ID, 1, "net_income"))
	stored := env.persisted(t, c.ID).Checklist
	assert.Empty(t, stored.CompletedIDs())
	assert.False(t, stored.SubItem(1, "net_income").Checked)
	assert.True(t, stored.SubItem(1, "extra_income").Checked)
}

func TestChecklistService_ViewRespectsAccess(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.seed(t, testutil.NewTestClient("Ana"))

	view, err := env.checklist.View(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Steps)

	require.NoError(t, env.checklist.SetPhase(ctx, c.ID, domain.AccessPhase1))
	view, err = env.checklist.View(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, view.Steps, 9)

	require.NoError(t, env.checklist.SetPhase(ctx, c.ID, domain.AccessPhase1And2))
	view, err = env.checklist.View(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, view.Steps, 13)
	assert.Equal(t, domain.AccessPhase1And2, env.persisted(t, c.ID).ChecklistAccess)

	assert.Error(t, env.checklist.SetPhase(ctx, c.ID, "phase3"))
}

func TestChecklistService_LockedPhaseRejectsEdits(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.seed(t, testutil.NewTestClient("Ana", testutil.WithChecklistAccess(domain.AccessPhase1)))

	assert.ErrorIs(t, env.checklist.ToggleSubItem(ctx, c.ID, 10, "creditor_contacted"), ErrStepLocked)
	assert.ErrorIs(t, env.checklist.ToggleStep(ctx, c.ID, 13), ErrStepLocked)
	assert.ErrorIs(t, env.checklist.SetSubItemValue(ctx, c.ID, 12, "contribution_made", "100"), ErrStepLocked)
	assert.ErrorIs(t, env.checklist.ToggleSubItem(ctx, c.ID, 42, "x"), checklist.ErrUnknownStep)
}

func TestChecklistService_ToggleStepWithoutSubItems(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.seed(t, testutil.NewTestClient("Ana", testutil.WithChecklistAccess(domain.AccessPhase1)))

	require.NoError(t, env.checklist.ToggleStep(ctx, c.ID, 6))
	assert.Equal(t, []domain.StepID{6}, env.persisted(t, c.ID).Checklist.CompletedIDs())

	assert.ErrorIs(t, env.checklist.ToggleStep(ctx, c.ID, 1), checklist.ErrStepHasSubItems)
}

func TestChecklistService_ConditionalFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.seed(t, testutil.NewTestClient("Ana", testutil.WithChecklistAccess(domain.AccessPhase1)))

	view, err := env.checklist.View(ctx, c.ID)
	require.NoError(t, err)
	debts := view.Steps[1].SubItems[1]
	require.Equal(t, domain.SubItemID("debts_current"), debts.SubItem.ID)
	assert.True(t, debts.Fields.ShowInput, "unchecked-gated input shows while unchecked")

	require.NoError(t, env.checklist.ToggleSubItem(ctx, c.ID, 2, "debts_current"))
	view, err = env.checklist.View(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, view.Steps[1].SubItems[1].Fields.ShowInput)
}

func TestChecklistService_TextEditsAreDebounced(t *testing.T) {
	env := newTestEnvWithDebounce(t, 30*time.Millisecond)
	ctx := context.Background()
	c := env.seed(t, testutil.NewTestClient("Ana", testutil.WithChecklistAccess(domain.AccessPhase1)))

	for _, v := range []string{"5", "52", "520", "5200"} {
		require.NoError(t, env.checklist.SetSubItemValue(ctx, c.ID, 1, "net_income", v))
	}
	view, err := env.checklist.View(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "5200", view.Steps[0].SubItems[0].State.Value)

	require.Eventually(t, func() bool {
		stored, err := env.repo.GetByID(ctx, c.ID)
		return err == nil && stored.Checklist.SubItem(1, "net_income").Value == "5200"
	}, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		return env.clients.SaveStatus(c.ID) == domain.SaveCommitted
	}, 2*time.Second, 10*time.Millisecond)
}

func TestChecklistService_FlushSavesPendingText(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.seed(t, testutil.NewTestClient("Ana", testutil.WithChecklistAccess(domain.AccessPhase1)))

	require.NoError(t, env.checklist.SetSubItemValue(ctx, c.ID, 2, "debts_current", "card and overdraft"))
	view, err := env.checklist.View(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, view.PendingSave)
	assert.Equal(t, domain.SavePending, view.SaveStatus)
	assert.Empty(t, env.persisted(t, c.ID).Checklist.SubItem(2, "debts_current").Value)

	require.NoError(t, env.checklist.Flush(ctx, c.ID))
	assert.Equal(t, "card and overdraft", env.persisted(t, c.ID).Checklist.SubItem(2, "debts_current").Value)
	assert.Equal(t, domain.SaveCommitted, env.clients.SaveStatus(c.ID))
}

func TestChecklistService_CloseFlushesEveryClient(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.seed(t, testutil.NewTestClient("Ana", testutil.WithChecklistAccess(domain.AccessPhase1)))
	b := env.seed(t, testutil.NewTestClient("Bruno", testutil.WithChecklistAccess(domain.AccessPhase1)))

	require.NoError(t, env.checklist.SetSubItemValue(ctx, a.ID, 1, "net_income", "3000"))
	require.NoError(t, env.checklist.SetSubItemValue(ctx, b.ID, 1, "net_income", "4100"))
	require.NoError(t, env.checklist.Close(ctx))

	assert.Equal(t, "3000", env.persisted(t, a.ID).Checklist.SubItem(1, "net_income").Value)
	assert.Equal(t, "4100", env.persisted(t, b.ID).Checklist.SubItem(1, "net_income").Value)
}

func TestChecklistService_FlushFailureReported(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.seed(t, testutil.NewTestClient("Ana", testutil.WithChecklistAccess(domain.AccessPhase1)))

	require.NoError(t, env.checklist.SetSubItemValue(ctx, c.ID, 1, "net_income", "5200"))
	env.failing.Arm()
	assert.ErrorIs(t, env.checklist.Flush(ctx, c.ID), ErrSaveFailed)
	assert.Equal(t, domain.SaveFailed, env.clients.SaveStatus(c.ID))

	view, err := env.checklist.View(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "5200", view.Steps[0].SubItems[0].State.Value)
}

func TestChecklistService_NestedLists(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.seed(t, testutil.NewTestClient("Ana", testutil.WithChecklistAccess(domain.AccessPhase1)))

	limits := []domain.ExpenseLimit{{Category: "food", Limit: "800"}}
	require.NoError(t, env.checklist.SetExpenseLimits(ctx, c.ID, 3, "expense_limits", limits))
	negs := []domain.DebtNegotiation{{DebtID: "card-1", Creditor: "Bank", Status: "proposed"}}
	require.NoError(t, env.checklist.SetNegotiations(ctx, c.ID, 9, "negotiation_plan", negs))

	stored := env.persisted(t, c.ID).Checklist
	assert.Equal(t, limits, stored.SubItem(3, "expense_limits").ExpenseLimits)
	assert.Equal(t, negs, stored.SubItem(9, "negotiation_plan").Negotiations)

	err := env.checklist.SetExpenseLimits(ctx, c.ID, 1, "net_income", limits)
	assert.ErrorIs(t, err, checklist.ErrNotNestedList)
}
