package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"playops/internal/playbook/models"
)

// ============================================================
// Redis Store
// ============================================================
//
// Each play is stored as JSON under play:{id}. The sorted set plays:updated
// scores ids by UpdatedAt in microseconds and drives List ordering.

const redisUpdatedKey = "plays:updated"

func redisPlayKey(id string) string {
	return fmt.Sprintf("play:%s", id)
}

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// OpenRedis parses a redis:// URL and returns a client.
func OpenRedis(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

func (s *RedisStore) List(ctx context.Context) ([]models.Play, error) {
	ids, err := s.client.ZRevRange(ctx, redisUpdatedKey, 0, -1).Result()
	if err != nil {
		return nil, unavailable("list plays", err)
	}
	out := []models.Play{}
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = redisPlayKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, unavailable("list plays", err)
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// index entry without a record; skipped until the next delete cleans it
			continue
		}
		p, err := decodePlay(ids[i], []byte(raw))
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	sortByUpdated(out)
	return out, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (models.Play, error) {
	raw, err := s.client.Get(ctx, redisPlayKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.Play{}, ErrNotFound
		}
		return models.Play{}, unavailable("get play", err)
	}

	return decodePlay(id, raw)
}

func (s *RedisStore) Create(ctx context.Context, n models.NewPlay) (models.Play, error) {
	p := n.Build(uuid.NewString(), models.Now())
	if err := s.write(ctx, p); err != nil {
		return models.Play{}, err
	}
	return p, nil
}

func (s *RedisStore) Update(ctx context.Context, id string, patch models.PlayPatch) (models.Play, error) {
	var updated models.Play
	key := redisPlayKey(id)

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrNotFound
			}
			return err
		}
		existing, err := decodePlay(id, raw)
		if err != nil {
			return err
		}

		updated = patch.Apply(existing, models.Now())
		data, err := json.Marshal(updated)
		if err != nil {
			return fmt.Errorf("encode play: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			pipe.ZAdd(ctx, redisUpdatedKey, redis.Z{Score: float64(updated.UpdatedAt.UnixMicro()), Member: id})
			return nil
		})
		return err
	}

	if err := s.client.Watch(ctx, txf, key); err != nil {
		return models.Play{}, updateFailure(err)
	}
	return updated, nil
}

// corruptPlayError is a stored record that no longer decodes.
type corruptPlayError struct {
	id  string
	err error
}

func (e *corruptPlayError) Error() string { return fmt.Sprintf("decode play %s: %v", e.id, e.err) }
func (e *corruptPlayError) Unwrap() error { return e.err }

func decodePlay(id string, raw []byte) (models.Play, error) {
	var p models.Play
	if err := json.Unmarshal(raw, &p); err != nil {
		return models.Play{}, &corruptPlayError{id: id, err: err}
	}
	return p, nil
}

// updateFailure maps an error out of the Update transaction. Only
// connection and transaction failures count as the backend being unavailable.
func updateFailure(err error) error {
	var corrupt *corruptPlayError
	switch {
	case errors.Is(err, ErrNotFound):
		return ErrNotFound
	case errors.As(err, &corrupt):
		return err
	}
	return unavailable("update play", err)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	var deleted *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		deleted = pipe.Del(ctx, redisPlayKey(id))
		pipe.ZRem(ctx, redisUpdatedKey, id)
		return nil
	})
	if err != nil {
		return unavailable("delete play", err)
	}
	if deleted.Val() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) write(ctx context.Context, p models.Play) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode play: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisPlayKey(p.ID), data, 0)
		pipe.ZAdd(ctx, redisUpdatedKey, redis.Z{Score: float64(p.UpdatedAt.UnixMicro()), Member: p.ID})
		return nil
	})
	if err != nil {
		return unavailable("write play", err)
	}
	return nil
}
