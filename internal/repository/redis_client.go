package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alexanderramin/coachdesk/internal/domain"
)

const (
	redisKeyPrefix = "coachdesk:client:"
	redisIndexKey  = "coachdesk:clients"
)

// getter is the read half shared by *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

// RedisClientRepo implements ClientRepo with one JSON value per client and
// a set indexing the known ids.
type RedisClientRepo struct {
	rdb *redis.Client
}

// NewRedisClientRepo creates a RedisClientRepo.
func NewRedisClientRepo(rdb *redis.Client) *RedisClientRepo {
	return &RedisClientRepo{rdb: rdb}
}

func (r *RedisClientRepo) Create(ctx context.Context, c *domain.Client) error {
	payload, err := json.Marshal(toDocument(c))
	if err != nil {
		return fmt.Errorf("encoding client: %w", err)
	}
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisKey(c.ID), payload, 0)
		pipe.SAdd(ctx, redisIndexKey, c.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("inserting client: %w", err)
	}
	return nil
}

func (r *RedisClientRepo) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	doc, err := r.load(ctx, r.rdb, id)
	if err != nil {
		return nil, err
	}
	return clientFromTree(doc), nil
}

func (r *RedisClientRepo) List(ctx context.Context) ([]*domain.Client, error) {
	ids, err := r.rdb.SMembers(ctx, redisIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("listing client ids: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = redisKey(id)
	}
	values, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("loading clients: %w", err)
	}

	clients := make([]*domain.Client, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Index entry without a value; skip it.
			continue
		}
		doc, err := decodeObject([]byte(raw))
		if err != nil {
			return nil, err
		}
		clients = append(clients, clientFromTree(doc))
	}
	sortClients(clients)
	return clients, nil
}

func (r *RedisClientRepo) Delete(ctx context.Context, id string) error {
	var del *redis.IntCmd
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, redisKey(id))
		pipe.SRem(ctx, redisIndexKey, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("deleting client: %w", err)
	}
	if del.Val() == 0 {
		return fmt.Errorf("client %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *RedisClientRepo) UpdateProfile(ctx context.Context, c *domain.Client) error {
	return r.update(ctx, c.ID, func(doc map[string]any) error {
		doc["name"] = c.Name
		doc["email"] = c.Email
		doc["phone"] = c.Phone
		doc["role"] = string(c.Role)
		doc["status"] = string(c.Status)
		return nil
	})
}

func (r *RedisClientRepo) UpdateBillingRecord(ctx context.Context, id string, rec domain.BillingRecord) error {
	return r.update(ctx, id, replaceField(id, keyBilling, billingToDocument(rec)))
}

func (r *RedisClientRepo) UpdateChecklistProgress(ctx context.Context, id string, completed []domain.StepID) error {
	return r.update(ctx, id, replaceField(id, keyCompleted, completedToDocument(completed)))
}

func (r *RedisClientRepo) UpdateChecklistData(ctx context.Context, id string, rec domain.ChecklistRecord) error {
	return r.update(ctx, id, replaceField(id, keyChecklist, checklistToDocument(rec)))
}

func (r *RedisClientRepo) UpdateChecklistPhase(ctx context.Context, id string, access domain.ChecklistAccess) error {
	return r.update(ctx, id, func(doc map[string]any) error {
		doc["checklistAccess"] = string(access)
		return nil
	})
}

// replaceField sets key unless a field it depends on holds a value that
// does not read back.
func replaceField(id, key string, value any) func(map[string]any) error {
	return func(doc map[string]any) error {
		for _, g := range writeGuards(key) {
			if !fieldReadable(g, doc[g]) {
				return fmt.Errorf("client %s %s: %w", id, g, ErrUnreadableDocument)
			}
		}
		doc[key] = value
		return nil
	}
}

// update rewrites the stored document under WATCH so a concurrent writer
// makes this call fail instead of being silently overwritten. Fields this
// version does not know about are written back as found.
func (r *RedisClientRepo) update(ctx context.Context, id string, mutate func(map[string]any) error) error {
	key := redisKey(id)
	err := r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		doc, err := r.load(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := mutate(doc); err != nil {
			return err
		}
		doc["updatedAt"] = time.Now().UTC()

		payload, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("encoding client: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, 0)
			return nil
		})
		return err
	}, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnreadableDocument) {
			return err
		}
		if errors.Is(err, redis.TxFailedErr) {
			return fmt.Errorf("client %s: %w", id, ErrConcurrentUpdate)
		}
		return fmt.Errorf("updating client: %w", err)
	}
	return nil
}

func (r *RedisClientRepo) load(ctx context.Context, c getter, id string) (map[string]any, error) {
	raw, err := c.Get(ctx, redisKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("client %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("loading client: %w", err)
	}
	return decodeObject(raw)
}

func decodeObject(raw []byte) (map[string]any, error) {
	tree, err := decodeTree(raw)
	if err != nil {
		return nil, err
	}
	doc, ok := tree.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("decoding document: stored client is not an object")
	}
	return doc, nil
}
