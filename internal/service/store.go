package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/alexanderramin/coachdesk/internal/domain"
	"github.com/alexanderramin/coachdesk/internal/repository"
)

// ClientStore is the optimistic local copy of client documents shared by
// the services. Mutations land here first and are then persisted; a failed
// save leaves the local change in place and marks the client failed.
type ClientStore struct {
	repo   repository.ClientRepo
	logger *zap.Logger

	mu      sync.Mutex
	clients map[string]*domain.Client
	status  map[string]domain.SaveStatus
	version map[string]uint64
	// deferred holds the version of the newest change whose save was
	// scheduled for later rather than run with it.
	deferred map[string]uint64
}

// NewClientStore creates a store over repo. A nil logger discards output.
func NewClientStore(repo repository.ClientRepo, logger *zap.Logger) *ClientStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClientStore{
		repo:    repo,
		logger:  logger,
		clients: make(map[string]*domain.Client),
		status:  make(map[string]domain.SaveStatus),
		version:  make(map[string]uint64),
		deferred: make(map[string]uint64),
	}
}

// persistFunc writes the relevant part of c through the gateway.
type persistFunc func(ctx context.Context, repo repository.ClientRepo, c *domain.Client) error

// Get returns a copy of the client, loading it on first use.
func (s *ClientStore) Get(ctx context.Context, id string) (*domain.Client, error) {
	s.mu.Lock()
	if c, ok := s.clients[id]; ok {
		s.mu.Unlock()
		return c.Clone(), nil
	}
	s.mu.Unlock()

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// A concurrent mutation may have cached a newer local copy meanwhile.
	if cached, ok := s.clients[id]; ok {
		return cached.Clone(), nil
	}
	s.clients[id] = c
	s.status[id] = domain.SaveCommitted
	return c.Clone(), nil
}

// List loads every client from the gateway and overlays local copies that
// may hold unsaved changes.
func (s *ClientStore) List(ctx context.Context) ([]*domain.Client, error) {
	clients, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Client, len(clients))
	for i, c := range clients {
		if cached, ok := s.clients[c.ID]; ok {
			out[i] = cached.Clone()
			continue
		}
		out[i] = c
	}
	return out, nil
}

// Insert persists a new client and caches it.
func (s *ClientStore) Insert(ctx context.Context, c *domain.Client) error {
	if err := s.repo.Create(ctx, c); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c.ID] = c.Clone()
	s.status[c.ID] = domain.SaveCommitted
	return nil
}

// Remove deletes the client from the gateway and the local copy.
func (s *ClientStore) Remove(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, id)
	delete(s.status, id)
	delete(s.version, id)
	delete(s.deferred, id)
	return nil
}

// Status reports the save state of the client's local copy. Clients never
// loaded are committed by definition.
func (s *ClientStore) Status(id string) domain.SaveStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.status[id]; ok {
		return st
	}
	return domain.SaveCommitted
}

// Apply runs mutate on a copy of the client. If mutate fails nothing
// changes. Otherwise the copy replaces the local state and the client is
// marked pending; it is returned for the caller to persist or schedule.
func (s *ClientStore) Apply(ctx context.Context, id string, mutate func(c *domain.Client) error) (*domain.Client, error) {
	return s.apply(ctx, id, mutate, false)
}

// ApplyDeferred is Apply for a change saved later through SaveDeferred. Until
// then other saves of the client leave it pending.
func (s *ClientStore) ApplyDeferred(ctx context.Context, id string, mutate func(c *domain.Client) error) (*domain.Client, error) {
	return s.apply(ctx, id, mutate, true)
}

func (s *ClientStore) apply(ctx context.Context, id string, mutate func(c *domain.Client) error, deferSave bool) (*domain.Client, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cached, ok := s.clients[id]; ok {
		current = cached.Clone()
	}
	if err := mutate(current); err != nil {
		return nil, err
	}
	s.clients[id] = current
	s.status[id] = domain.SavePending
	s.version[id]++
	if deferSave {
		s.deferred[id] = s.version[id]
	}
	return current.Clone(), nil
}

// Mutate applies the change locally and persists it synchronously.
func (s *ClientStore) Mutate(ctx context.Context, id, operation string, mutate func(c *domain.Client) error, persist persistFunc) (*domain.Client, error) {
	c, err := s.Apply(ctx, id, mutate)
	if err != nil {
		return nil, err
	}
	return c, s.Save(ctx, id, operation, persist)
}

// Save persists the current local copy of the client. Failures are logged
// with their cause and reported as ErrSaveFailed; the local copy is kept.
func (s *ClientStore) Save(ctx context.Context, id, operation string, persist persistFunc) error {
	return s.save(ctx, id, operation, persist, false)
}

// SaveDeferred is Save for the changes made through ApplyDeferred.
func (s *ClientStore) SaveDeferred(ctx context.Context, id, operation string, persist persistFunc) error {
	return s.save(ctx, id, operation, persist, true)
}

func (s *ClientStore) save(ctx context.Context, id, operation string, persist persistFunc, settlesDeferred bool) error {
	s.mu.Lock()
	cached, ok := s.clients[id]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	snapshot := cached.Clone()
	version := s.version[id]
	s.mu.Unlock()

	err := persist(ctx, s.repo, snapshot)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.logger.Error("persisting client",
			zap.String("client_id", id),
			zap.String("operation", operation),
			zap.Error(err),
		)
		s.status[id] = domain.SaveFailed
		return fmt.Errorf("%s: %w", operation, ErrSaveFailed)
	}
	if d, ok := s.deferred[id]; ok && settlesDeferred && d <= version {
		delete(s.deferred, id)
	}
	// A newer local change, or a deferred one this save did not cover, may
	// still be waiting for its own save.
	if _, waiting := s.deferred[id]; !waiting && s.version[id] == version {
		s.status[id] = domain.SaveCommitted
	}
	return nil
}

func persistBilling(ctx context.Context, repo repository.ClientRepo, c *domain.Client) error {
	return repo.UpdateBillingRecord(ctx, c.ID, c.Billing)
}

func persistProfile(ctx context.Context, repo repository.ClientRepo, c *domain.Client) error {
	return repo.UpdateProfile(ctx, c)
}

func persistPhase(ctx context.Context, repo repository.ClientRepo, c *domain.Client) error {
	return repo.UpdateChecklistPhase(ctx, c.ID, c.ChecklistAccess)
}

// persistChecklist writes the sub-item data and then the completed set.
func persistChecklist(ctx context.Context, repo repository.ClientRepo, c *domain.Client) error {
	if err := repo.UpdateChecklistData(ctx, c.ID, c.Checklist); err != nil {
		return err
	}
	return repo.UpdateChecklistProgress(ctx, c.ID, c.Checklist.CompletedIDs())
}
