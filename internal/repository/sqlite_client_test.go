package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/coachdesk/internal/db"
	"github.com/alexanderramin/coachdesk/internal/domain"
	"github.com/alexanderramin/coachdesk/internal/testutil"
)

func setupMockRepo(t *testing.T) (sqlmock.Sqlmock, *SQLiteClientRepo) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return mock, NewSQLiteClientRepo(conn)
}

func TestSQLiteClientRepo_UpdateBillingRecord_ExecError(t *testing.T) {
	mock, repo := setupMockRepo(t)

	mock.ExpectQuery(`SELECT billing FROM clients WHERE id = \?`).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"billing"}).AddRow(`{}`))
	mock.ExpectExec(`UPDATE clients SET billing = \?`).
		WillReturnError(errors.New("disk I/O error"))

	err := repo.UpdateBillingRecord(context.Background(), "c1", domain.BillingRecord{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "updating client billing")
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteClientRepo_UpdateChecklistPhase_NoRows(t *testing.T) {
	mock, repo := setupMockRepo(t)

	mock.ExpectExec(`UPDATE clients SET checklist_access = \?`).
		WithArgs("phase1", sqlmock.AnyArg(), "c1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateChecklistPhase(context.Background(), "c1", domain.AccessPhase1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteClientRepo_UpdateChecklistProgress_WritesSortedIDs(t *testing.T) {
	mock, repo := setupMockRepo(t)

	mock.ExpectQuery(`SELECT checklist_data, completed_steps FROM clients WHERE id = \?`).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"checklist_data", "completed_steps"}).AddRow(`{}`, `[6]`))
	mock.ExpectExec(`UPDATE clients SET completed_steps = \?.* AND checklist_data IS \? AND completed_steps IS \?`).
		WithArgs("[1,6,9]", sqlmock.AnyArg(), "c1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateChecklistProgress(context.Background(), "c1", []domain.StepID{1, 6, 9})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteClientRepo_List_QueryError(t *testing.T) {
	mock, repo := setupMockRepo(t)

	mock.ExpectQuery(`SELECT .* FROM clients ORDER BY name`).
		WillReturnError(errors.New("database is locked"))

	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing clients")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteClientRepo_ReadsLegacyRow(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	// Written by an older version: flat payments array, string amounts,
	// expense limits as text and no checklist access column value.
	_, err := database.Exec(`INSERT INTO clients (id, name, role, status, billing, checklist_data, completed_steps, created_at, updated_at)
		VALUES ('legacy', 'Old Client', 'regular', 'converted_mentorship',
		'{"mentorship":{"subscriptionPlanId":"standard","payments":[true,false,true]},"consulting":{"baseValue":"300","paymentMethod":"single","part1Paid":true}}',
		'{"3":{"subItems":{"expense_limits":{"checked":false,"value":"[{\"category\":\"food\",\"limit\":\"700\"}]"}}}}',
		'["7"]',
		'2024-01-10T09:00:00Z', '2024-01-10T09:00:00Z')`)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(database))

	repo := NewSQLiteClientRepo(database)
	c, err := repo.GetByID(ctx, "legacy")
	require.NoError(t, err)

	assert.Equal(t, domain.AccessLocked, c.ChecklistAccess)
	require.NotNil(t, c.Billing.Mentorship)
	assert.Equal(t, []bool{true, false, true}, c.Billing.Mentorship.LegacyPayments)
	assert.Empty(t, c.Billing.Mentorship.Months)
	assert.Equal(t, "300", c.Billing.Consulting.BaseValue.String())
	assert.Equal(t, []domain.ExpenseLimit{{Category: "food", Limit: "700"}},
		c.Checklist.SubItem(3, "expense_limits").ExpenseLimits)
	assert.Equal(t, []domain.StepID{7}, c.Checklist.CompletedIDs())
}

func TestSQLiteClientRepo_UpdateBillingRecord_MissingRow(t *testing.T) {
	mock, repo := setupMockRepo(t)

	mock.ExpectQuery(`SELECT billing FROM clients WHERE id = \?`).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"billing"}))

	err := repo.UpdateBillingRecord(context.Background(), "c1", domain.BillingRecord{})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteClientRepo_UpdateBillingRecord_ChangedUnderneath(t *testing.T) {
	mock, repo := setupMockRepo(t)

	mock.ExpectQuery(`SELECT billing FROM clients WHERE id = \?`).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"billing"}).AddRow(`{}`))
	mock.ExpectExec(`UPDATE clients SET billing = \?.* AND billing IS \?`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateBillingRecord(context.Background(), "c1", domain.BillingRecord{})
	assert.ErrorIs(t, err, ErrConcurrentUpdate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteClientRepo_BrokenDocumentColumnIsNotOverwritten(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	_, err := database.Exec(`INSERT INTO clients (id, name, billing, checklist_data, completed_steps, created_at, updated_at, checklist_access)
		VALUES ('broken', 'Broken', '{not json', 'null', '{"6":true}', '2024-01-10T09:00:00Z', '2024-01-10T09:00:00Z', 'phase1')`)
	require.NoError(t, err)

	repo := NewSQLiteClientRepo(database)
	c, err := repo.GetByID(ctx, "broken")
	require.NoError(t, err)
	assert.Nil(t, c.Billing.Consulting)
	assert.Nil(t, c.Billing.Mentorship)
	assert.Empty(t, c.Checklist.CompletedIDs())
	assert.Equal(t, domain.AccessPhase1, c.ChecklistAccess)

	err = repo.UpdateBillingRecord(ctx, "broken", domain.BillingRecord{
		FollowUp: &domain.RecurringBilling{Months: testutil.Months(testutil.MonthEntry{Value: 180})},
	})
	assert.ErrorIs(t, err, ErrUnreadableDocument)

	// completed_steps holds an object, so progress is refused too, while the
	// readable checklist data can still be replaced.
	err = repo.UpdateChecklistProgress(ctx, "broken", []domain.StepID{1})
	assert.ErrorIs(t, err, ErrUnreadableDocument)
	require.NoError(t, repo.UpdateChecklistData(ctx, "broken", domain.NewChecklistRecord()))

	var billing, completed string
	require.NoError(t, database.QueryRow(`SELECT billing, completed_steps FROM clients WHERE id = 'broken'`).Scan(&billing, &completed))
	assert.Equal(t, "{not json", billing)
	assert.Equal(t, `{"6":true}`, completed)
}

func TestSQLiteClientRepo_LooselyTypedRowSurvivesBillingWrite(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	_, err := database.Exec(`INSERT INTO clients (id, name, billing, checklist_data, completed_steps, created_at, updated_at)
		VALUES ('loose', 'Loose',
		'{"consulting":{"baseValue":"497","paymentMethod":"single","part1Paid":"true"},"mentorship":{"payments":[true,false,true],"subscriptionPlanId":"standard"},"followUp":{"months":{}}}',
		'{"1":{"subItems":{"net_income":{"checked":"true","value":"4200"}}}}',
		'[]', '2024-01-10T09:00:00Z', '2024-01-10T09:00:00Z')`)
	require.NoError(t, err)

	repo := NewSQLiteClientRepo(database)
	c, err := repo.GetByID(ctx, "loose")
	require.NoError(t, err)
	require.NotNil(t, c.Billing.Consulting)
	assert.True(t, c.Billing.Consulting.Part1Paid)
	require.NotNil(t, c.Billing.Mentorship)
	assert.Equal(t, []bool{true, false, true}, c.Billing.Mentorship.LegacyPayments)
	assert.True(t, c.Checklist.SubItem(1, "net_income").Checked)

	c.Billing.FollowUp.Months = testutil.Months(testutil.MonthEntry{Value: 180})
	require.NoError(t, repo.UpdateBillingRecord(ctx, "loose", c.Billing))

	got, err := repo.GetByID(ctx, "loose")
	require.NoError(t, err)
	require.NotNil(t, got.Billing.Consulting)
	assert.True(t, got.Billing.Consulting.Part1Paid)
	assert.Equal(t, "497", got.Billing.Consulting.BaseValue.String())
	require.NotNil(t, got.Billing.Mentorship)
	assert.Equal(t, domain.PlanStandard, got.Billing.Mentorship.PlanID)
	assert.Equal(t, []bool{true, false, true}, got.Billing.Mentorship.LegacyPayments)
	require.Len(t, got.Billing.FollowUp.Months, 1)
	assert.Equal(t, "180", got.Billing.FollowUp.Months[0].Value.String())
}
