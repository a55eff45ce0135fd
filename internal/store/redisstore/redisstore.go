// Package redisstore keeps job records in Redis: one JSON string per job at
// <prefix>:<owner>:<id> and a set of the owner's ids at <prefix>:<owner>.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/job"
	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/store"
)

// Options selects the Redis server and key namespace.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type redisStore struct {
	rdb    *redis.Client
	prefix string
}

// New connects to Redis and checks the connection.
func New(ctx context.Context, opts Options) (store.Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}
	return NewWithClient(rdb, opts.Prefix), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(rdb *redis.Client, prefix string) store.Store {
	if prefix == "" {
		prefix = "diario:jobs"
	}
	return &redisStore{rdb: rdb, prefix: prefix}
}

func (s *redisStore) jobKey(owner, id string) string {
	return s.prefix + ":" + owner + ":" + id
}

func (s *redisStore) ownerKey(owner string) string {
	return s.prefix + ":" + owner
}

func (s *redisStore) Create(ctx context.Context, owner, id string, rec job.Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}

	var created *redis.BoolCmd
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		created = pipe.SetNX(ctx, s.jobKey(owner, id), b, 0)
		pipe.SAdd(ctx, s.ownerKey(owner), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	if !created.Val() {
		return store.ErrExists
	}
	return nil
}

func (s *redisStore) Put(ctx context.Context, owner, id string, rec job.Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.jobKey(owner, id), b, 0)
		pipe.SAdd(ctx, s.ownerKey(owner), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("put job: %w", err)
	}
	return nil
}

func (s *redisStore) Get(ctx context.Context, owner, id string) (job.Record, error) {
	b, err := s.rdb.Get(ctx, s.jobKey(owner, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return job.Record{}, store.ErrNotFound
		}
		return job.Record{}, fmt.Errorf("get job: %w", err)
	}

	var rec job.Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return job.Record{}, fmt.Errorf("decode job %s: %w", id, err)
	}
	return rec, nil
}

func (s *redisStore) Exists(ctx context.Context, owner, id string) (bool, error) {
	n, err := s.rdb.Exists(ctx, s.jobKey(owner, id)).Result()
	if err != nil {
		return false, fmt.Errorf("check job: %w", err)
	}
	return n > 0, nil
}

func (s *redisStore) List(ctx context.Context, owner string) ([]job.Entry, error) {
	ids, err := s.rdb.SMembers(ctx, s.ownerKey(owner)).Result()
	if err != nil {
		return nil, fmt.Errorf("list job ids: %w", err)
	}
	if len(ids) == 0 {
		return []job.Entry{}, nil
	}
	sort.Strings(ids)

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.jobKey(owner, id)
	}
	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load jobs: %w", err)
	}

	out := make([]job.Entry, 0, len(ids))
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var rec job.Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("decode job %s: %w", ids[i], err)
		}
		out = append(out, job.Entry{ID: ids[i], Record: rec})
	}
	return out, nil
}

func (s *redisStore) Close() error {
	return s.rdb.Close()
}
