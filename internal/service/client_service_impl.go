package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/coachdesk/internal/domain"
	"github.com/alexanderramin/coachdesk/internal/repository"
)

type clientService struct {
	store    *ClientStore
	observer UseCaseObserver
}

func NewClientService(store *ClientStore, observers ...UseCaseObserver) ClientService {
	return &clientService{store: store, observer: useCaseObserverOrNoop(observers)}
}

func (s *clientService) Create(ctx context.Context, c *domain.Client) (err error) {
	defer observe(ctx, s.observer, "create-client", map[string]any{"name": c.Name}, &err)()

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Role == "" {
		c.Role = domain.RoleRegular
	}
	if c.Status == "" {
		c.Status = domain.StatusPreRegistration
	}
	if c.ChecklistAccess == "" {
		c.ChecklistAccess = domain.AccessLocked
	}
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	if err = c.Validate(); err != nil {
		return err
	}
	if c.Checklist.Steps == nil {
		c.Checklist = domain.NewChecklistRecord()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	return s.store.Insert(ctx, c)
}

func (s *clientService) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	return s.store.Get(ctx, id)
}

func (s *clientService) Resolve(ctx context.Context, ref string) (*domain.Client, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("empty client reference: %w", repository.ErrNotFound)
	}
	if c, err := s.store.Get(ctx, ref); err == nil {
		return c, nil
	}

	clients, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	var matches []*domain.Client
	for _, c := range clients {
		if strings.HasPrefix(c.ID, ref) || strings.EqualFold(c.Name, ref) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("client %q: %w", ref, repository.ErrNotFound)
	case 1:
		return s.store.Get(ctx, matches[0].ID)
	default:
		return nil, fmt.Errorf("%q matches %d clients: %w", ref, len(matches), ErrAmbiguousClient)
	}
}

func (s *clientService) List(ctx context.Context, status domain.ClientStatus) ([]*domain.Client, error) {
	clients, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return clients, nil
	}
	filtered := clients[:0]
	for _, c := range clients {
		if c.Status == status {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

func (s *clientService) UpdateProfile(ctx context.Context, c *domain.Client) (err error) {
	defer observe(ctx, s.observer, "update-client", map[string]any{"client_id": c.ID}, &err)()

	if err = c.Validate(); err != nil {
		return err
	}
	_, err = s.store.Mutate(ctx, c.ID, "update-client", func(cur *domain.Client) error {
		cur.Name = strings.TrimSpace(c.Name)
		cur.Email = strings.TrimSpace(c.Email)
		cur.Phone = c.Phone
		cur.Role = c.Role
		cur.Status = c.Status
		cur.UpdatedAt = time.Now().UTC()
		return nil
	}, persistProfile)
	return err
}

func (s *clientService) SetStatus(ctx context.Context, id string, status domain.ClientStatus) (err error) {
	defer observe(ctx, s.observer, "set-client-status", map[string]any{"client_id": id, "status": string(status)}, &err)()

	if !domain.ValidClientStatuses[string(status)] {
		return fmt.Errorf("invalid status %q", status)
	}
	_, err = s.store.Mutate(ctx, id, "set-client-status", func(cur *domain.Client) error {
		cur.Status = status
		cur.UpdatedAt = time.Now().UTC()
		return nil
	}, persistProfile)
	return err
}

func (s *clientService) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "delete-client", map[string]any{"client_id": id}, &err)()
	return s.store.Remove(ctx, id)
}

func (s *clientService) SaveStatus(id string) domain.SaveStatus {
	return s.store.Status(id)
}
