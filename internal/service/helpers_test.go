package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/alexanderramin/coachdesk/internal/domain"
	"github.com/alexanderramin/coachdesk/internal/repository"
	"github.com/alexanderramin/coachdesk/internal/testutil"
)

var errStoreDown = errors.New("store down")

// testEnv wires the services over an in-memory SQLite store whose writes
// can be switched to fail.
type testEnv struct {
	repo      repository.ClientRepo
	failing   *testutil.FailingExecDB
	store     *ClientStore
	logs      *observer.ObservedLogs
	clients   ClientService
	billing   BillingService
	checklist ChecklistService
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithDebounce(t, time.Hour)
}

func newTestEnvWithDebounce(t *testing.T, debounce time.Duration) *testEnv {
	t.Helper()
	failing := testutil.NewFailingExecDB(testutil.NewTestDB(t), errStoreDown)
	repo := repository.NewSQLiteClientRepo(failing)

	core, logs := observer.New(zapcore.DebugLevel)
	store := NewClientStore(repo, zap.New(core))

	env := &testEnv{
		repo:      repo,
		failing:   failing,
		store:     store,
		logs:      logs,
		clients:   NewClientService(store),
		billing:   NewBillingService(store),
		checklist: NewChecklistService(store, debounce),
	}
	t.Cleanup(func() {
		failing.Disarm()
		_ = env.checklist.Close(context.Background())
	})
	return env
}

// seed stores c directly through the gateway, bypassing the services.
func (e *testEnv) seed(t *testing.T, c *domain.Client) *domain.Client {
	t.Helper()
	require.NoError(t, e.repo.Create(context.Background(), c))
	return c
}

// persisted reads the client straight from the gateway.
func (e *testEnv) persisted(t *testing.T, id string) *domain.Client {
	t.Helper()
	c, err := e.repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	return c
}
