package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/coachdesk/internal/domain"
	"github.com/alexanderramin/coachdesk/internal/repository"
	"github.com/alexanderramin/coachdesk/internal/testutil"
)

func TestClientService_CreateAppliesDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	c := &domain.Client{Name: "  Ana Souza ", Email: "ana@example.com"}
	require.NoError(t, env.clients.Create(ctx, c))

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Ana Souza", c.Name)
	assert.Equal(t, domain.RoleRegular, c.Role)
	assert.Equal(t, domain.StatusPreRegistration, c.Status)
	assert.Equal(t, domain.AccessLocked, c.ChecklistAccess)
	assert.False(t, c.CreatedAt.IsZero())

	got := env.persisted(t, c.ID)
	assert.Equal(t, "Ana Souza", got.Name)
	assert.Nil(t, got.Billing.Consulting)
	assert.Empty(t, got.Checklist.CompletedIDs())
	assert.Equal(t, domain.SaveCommitted, env.clients.SaveStatus(c.ID))
}

func TestClientService_CreateValidates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	assert.Error(t, env.clients.Create(ctx, &domain.Client{Name: " "}))
	assert.Error(t, env.clients.Create(ctx, &domain.Client{Name: "Ana", Email: "not-an-email"}))
	assert.Error(t, env.clients.Create(ctx, &domain.Client{Name: "Ana", Role: "owner"}))

	clients, err := env.clients.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, clients)
}

func TestClientService_Resolve(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ana := env.seed(t, testutil.NewTestClient("Ana"))
	env.seed(t, testutil.NewTestClient("Bruno"))

	got, err := env.clients.Resolve(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, ana.ID, got.ID)

	got, err = env.clients.Resolve(ctx, ana.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, ana.ID, got.ID)

	got, err = env.clients.Resolve(ctx, "bruno")
	require.NoError(t, err)
	assert.Equal(t, "Bruno", got.Name)

	_, err = env.clients.Resolve(ctx, "Carla")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestClientService_ResolveAmbiguousName(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, testutil.NewTestClient("Ana"))
	env.seed(t, testutil.NewTestClient("ana"))

	_, err := env.clients.Resolve(context.Background(), "ANA")
	assert.ErrorIs(t, err, ErrAmbiguousClient)
}

func TestClientService_ListFiltersByStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seed(t, testutil.NewTestClient("Ana", testutil.WithClientStatus(domain.StatusActiveConsulting)))
	env.seed(t, testutil.NewTestClient("Bruno", testutil.WithClientStatus(domain.StatusLost)))
	env.seed(t, testutil.NewTestClient("Carla", testutil.WithClientStatus(domain.StatusActiveConsulting)))

	all, err := env.clients.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	active, err := env.clients.List(ctx, domain.StatusActiveConsulting)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "Ana", active[0].Name)
	assert.Equal(t, "Carla", active[1].Name)
}

func TestClientService_SetStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.seed(t, testutil.NewTestClient("Ana"))

	require.NoError(t, env.clients.SetStatus(ctx, c.ID, domain.StatusConvertedMentorship))
	assert.Equal(t, domain.StatusConvertedMentorship, env.persisted(t, c.ID).Status)

	assert.Error(t, env.clients.SetStatus(ctx, c.ID, "archived"))
}

func TestClientService_UpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.seed(t, testutil.NewTestClient("Ana"))

	c.Name = "Ana Lima"
	c.Phone = "555-0100"
	require.NoError(t, env.clients.UpdateProfile(ctx, c))

	got := env.persisted(t, c.ID)
	assert.Equal(t, "Ana Lima", got.Name)
	assert.Equal(t, "555-0100", got.Phone)
}

func TestClientService_Delete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.seed(t, testutil.NewTestClient("Ana"))

	_, err := env.clients.GetByID(ctx, c.ID)
	require.NoError(t, err)

	require.NoError(t, env.clients.Delete(ctx, c.ID))
	_, err = env.clients.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, env.clients.Delete(ctx, c.ID), repository.ErrNotFound)
}

func TestClientService_SaveFailureKeepsLocalChange(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.seed(t, testutil.NewTestClient("Ana"))

	env.failing.Arm()
	err := env.clients.SetStatus(ctx, c.ID, domain.StatusInFollowUp)
	assert.ErrorIs(t, err, ErrSaveFailed)
	assert.NotContains(t, err.Error(), "store down")

	local, err := env.clients.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInFollowUp, local.Status)
	assert.Equal(t, domain.SaveFailed, env.clients.SaveStatus(c.ID))
	assert.Equal(t, domain.StatusPreRegistration, env.persisted(t, c.ID).Status)

	entries := env.logs.FilterMessage("persisting client").All()
	require.Len(t, entries, 1)
	assert.Equal(t, c.ID, entries[0].ContextMap()["client_id"])
	assert.Equal(t, "set-client-status", entries[0].ContextMap()["operation"])
	assert.Contains(t, entries[0].ContextMap()["error"], "store down")
}
