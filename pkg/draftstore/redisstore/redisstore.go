// Package redisstore keeps wizard drafts in Redis hashes, one hash per
// (session, namespace) with JSON-encoded field values.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-formwizard/pkg/draftstore"
)

const (
	DefaultPrefix = "formwizard:draft:"
	DefaultTTL    = 24 * time.Hour
)

// Connect initializes a Redis client from URL or host:port input.
func Connect(_ context.Context, redisURL string) (*redis.Client, error) {
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("redisstore: parse redis url: %w", err)
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisURL}), nil
}

// Option configures the Store.
type Option func(*Store)

// WithTTL sets how long an untouched draft survives. Every merge refreshes
// it. Zero disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl >= 0 {
			s.ttl = ttl
		}
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// Store implements draftstore.Store and draftstore.Discarder on Redis.
type Store struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

var (
	_ draftstore.Store     = (*Store)(nil)
	_ draftstore.Discarder = (*Store)(nil)
)

// New wraps a Redis client.
func New(client redis.Cmdable, options ...Option) *Store {
	s := &Store{client: client, prefix: DefaultPrefix, ttl: DefaultTTL}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Store) key(sessionID string, ns draftstore.Namespace) string {
	return s.prefix + sessionID + ":" + string(ns)
}

func (s *Store) Get(ctx context.Context, sessionID string, ns draftstore.Namespace) (draftstore.Fields, error) {
	if err := draftstore.CheckKey(sessionID, ns); err != nil {
		return nil, err
	}
	data, err := s.client.HGetAll(ctx, s.key(sessionID, ns)).Result()
	if err != nil {
		return nil, fmt.Errorf("redisstore: get draft: %w", err)
	}
	out := make(draftstore.Fields, len(data))
	for name, raw := range data {
		value, err := decodeValue(raw)
		if err != nil {
			return nil, fmt.Errorf("redisstore: decode field %s: %w", name, err)
		}
		out[name] = value
	}
	return out, nil
}

func (s *Store) Field(ctx context.Context, sessionID string, ns draftstore.Namespace, name string) (any, bool, error) {
	if err := draftstore.CheckKey(sessionID, ns); err != nil {
		return nil, false, err
	}
	raw, err := s.client.HGet(ctx, s.key(sessionID, ns), name).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redisstore: get field %s: %w", name, err)
	}
	value, err := decodeValue(raw)
	if err != nil {
		return nil, false, fmt.Errorf("redisstore: decode field %s: %w", name, err)
	}
	return value, true, nil
}

// Merge writes each field with HSET. The write and the TTL refresh are
// pipelined, not wrapped in MULTI.
func (s *Store) Merge(ctx context.Context, sessionID string, ns draftstore.Namespace, fields draftstore.Fields) error {
	if err := draftstore.CheckKey(sessionID, ns); err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}
	values := make([]any, 0, len(fields)*2)
	for _, name := range fields.Names() {
		raw, err := json.Marshal(fields[name])
		if err != nil {
			return fmt.Errorf("redisstore: encode field %s: %w", name, err)
		}
		values = append(values, name, string(raw))
	}

	key := s.key(sessionID, ns)
	_, err := s.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key, values...)
		if s.ttl > 0 {
			p.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redisstore: merge draft: %w", err)
	}
	return nil
}

func (s *Store) Discard(ctx context.Context, sessionID string, ns draftstore.Namespace) error {
	if err := draftstore.CheckKey(sessionID, ns); err != nil {
		return err
	}
	if err := s.client.Del(ctx, s.key(sessionID, ns)).Err(); err != nil {
		return fmt.Errorf("redisstore: discard draft: %w", err)
	}
	return nil
}

func decodeValue(raw string) (any, error) {
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return nil, err
	}
	return value, nil
}
