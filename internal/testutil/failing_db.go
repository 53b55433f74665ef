package testutil

import (
	"context"
	"database/sql"
	"sync/atomic"

	"github.com/alexanderramin/coachdesk/internal/db"
)

// FailingExecDB wraps a DBTX and injects Err into ExecContext calls once
// Arm is called. Reads pass through, so a repository over it can still load
// clients while every write fails.
type FailingExecDB struct {
	db.DBTX
	Err   error
	armed atomic.Bool
	calls atomic.Int32
}

// NewFailingExecDB wraps conn. Writes succeed until Arm is called.
func NewFailingExecDB(conn db.DBTX, err error) *FailingExecDB {
	return &FailingExecDB{DBTX: conn, Err: err}
}

// Arm makes every following ExecContext call fail.
func (f *FailingExecDB) Arm() { f.armed.Store(true) }

// Disarm lets writes through again.
func (f *FailingExecDB) Disarm() { f.armed.Store(false) }

// FailedCalls reports how many writes were rejected.
func (f *FailingExecDB) FailedCalls() int { return int(f.calls.Load()) }

func (f *FailingExecDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.armed.Load() {
		f.calls.Add(1)
		return nil, f.Err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
