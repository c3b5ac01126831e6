package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jwold/trailblazerstrivia/internal/trivia"
)

const sessionKeyPrefix = "trivia:session:"

// RedisSessionStore keeps each session as one JSON value. The TTL is set at
// creation and updates keep whatever remains of it.
type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisSessionStore returns a store whose sessions expire ttl after
// creation. A zero ttl keeps sessions until they are deleted.
func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

func sessionKey(code string) string {
	return sessionKeyPrefix + code
}

func (s *RedisSessionStore) CreateSession(ctx context.Context, sess trivia.Session) (trivia.Session, error) {
	for range createAttempts {
		sess.GameCode = trivia.NewGameCode()
		data, err := marshalSession(sess)
		if err != nil {
			return trivia.Session{}, err
		}
		ok, err := s.rdb.SetNX(ctx, sessionKey(sess.GameCode), data, s.ttl).Result()
		if err != nil {
			return trivia.Session{}, err
		}
		if ok {
			return sess.Clone(), nil
		}
	}
	return trivia.Session{}, errors.New("could not allocate a unique game code")
}

func (s *RedisSessionStore) GetSession(ctx context.Context, code string) (trivia.Session, error) {
	data, err := s.rdb.Get(ctx, sessionKey(code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return trivia.Session{}, trivia.ErrNotFound
	}
	if err != nil {
		return trivia.Session{}, err
	}
	return unmarshalSession(data)
}

// UpdateSession merges p into the stored session. The write only succeeds
// while the key still exists, so an update racing an expiry reports
// ErrNotFound instead of resurrecting the session.
func (s *RedisSessionStore) UpdateSession(ctx context.Context, code string, p trivia.Patch) (trivia.Session, error) {
	current, err := s.GetSession(ctx, code)
	if err != nil {
		return trivia.Session{}, err
	}
	next, err := p.ApplyTo(current)
	if err != nil {
		return trivia.Session{}, err
	}
	data, err := marshalSession(next)
	if err != nil {
		return trivia.Session{}, err
	}

	err = s.rdb.SetArgs(ctx, sessionKey(code), data, redis.SetArgs{Mode: "XX", KeepTTL: true}).Err()
	if errors.Is(err, redis.Nil) {
		return trivia.Session{}, trivia.ErrNotFound
	}
	if err != nil {
		return trivia.Session{}, err
	}
	return next, nil
}

func (s *RedisSessionStore) DeleteSession(ctx context.Context, code string) (bool, error) {
	n, err := s.rdb.Del(ctx, sessionKey(code)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func marshalSession(sess trivia.Session) ([]byte, error) {
	d, err := encodeSession(sess)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encoding session: %w", err)
	}
	return data, nil
}

func unmarshalSession(data []byte) (trivia.Session, error) {
	var d sessionDoc
	if err := json.Unmarshal(data, &d); err != nil {
		return trivia.Session{}, fmt.Errorf("decoding session: %w", err)
	}
	return decodeSession(d)
}
