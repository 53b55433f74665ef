package repository

import (
	"context"

	"github.com/alexanderramin/coachdesk/internal/domain"
)

// ClientRepo is the persistence gateway for client documents. Every update
// overwrites the named sub-document whole; nothing is versioned.
type ClientRepo interface {
	Create(ctx context.Context, c *domain.Client) error
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	List(ctx context.Context) ([]*domain.Client, error)
	Delete(ctx context.Context, id string) error
	UpdateProfile(ctx context.Context, c *domain.Client) error
	UpdateBillingRecord(ctx context.Context, id string, rec domain.BillingRecord) error
	UpdateChecklistProgress(ctx context.Context, id string, completed []domain.StepID) error
	UpdateChecklistData(ctx context.Context, id string, rec domain.ChecklistRecord) error
	UpdateChecklistPhase(ctx context.Context, id string, access domain.ChecklistAccess) error
}

var (
	_ ClientRepo = (*SQLiteClientRepo)(nil)
	_ ClientRepo = (*MongoClientRepo)(nil)
	_ ClientRepo = (*RedisClientRepo)(nil)
)
