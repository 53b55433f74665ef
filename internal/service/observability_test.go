package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/alexanderramin/coachdesk/internal/domain"
	"github.com/alexanderramin/coachdesk/internal/testutil"
)

func TestZapUseCaseObserver_LogsOutcome(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	obs := NewZapUseCaseObserver(zap.New(core))

	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "toggle-month", Success: true, Fields: map[string]any{"tier": "mentorship"}})
	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "add-month", Err: errors.New("frozen")})

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "toggle-month", entries[0].ContextMap()["use_case"])
	assert.Equal(t, "mentorship", entries[0].ContextMap()["tier"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "frozen", entries[1].ContextMap()["error"])
}

func TestNewZapUseCaseObserver_NilLoggerIsNoop(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, NewZapUseCaseObserver(nil))
}

func TestServices_ReportUseCases(t *testing.T) {
	env := newTestEnv(t)
	core, logs := observer.New(zapcore.InfoLevel)
	obs := NewZapUseCaseObserver(zap.New(core))
	billingSvc := NewBillingService(env.store, obs)

	c := env.seed(t, testutil.NewTestClient("Ana"))
	require.NoError(t, billingSvc.AddMonth(context.Background(), c.ID, domain.TierFollowUp))

	entries := logs.FilterField(zap.String("use_case", "add-month")).All()
	require.Len(t, entries, 1)
	assert.Equal(t, true, entries[0].ContextMap()["success"])
	assert.Equal(t, c.ID, entries[0].ContextMap()["client_id"])
}
