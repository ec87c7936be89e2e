package auth

import (
	"context"
	"encoding/json"
	"time"

	"inkwell/internal/cache"
)

const (
	revokedKeyPrefix = "revoked_session:"
	flashKeyPrefix   = "flash:"
	prefillKeyPrefix = "login_email:"

	// stashTTL bounds the life of flashes and the login prefill; both are
	// consumed on first read.
	stashTTL = 5 * time.Minute
)

// SessionStoreInterface defines the server-side session state operations.
type SessionStoreInterface interface {
	RevokeSession(ctx context.Context, tokenID string, ttl time.Duration) error
	IsSessionRevoked(ctx context.Context, tokenID string) (bool, error)
	AddFlash(ctx context.Context, browserID, message string) error
	ConsumeFlashes(ctx context.Context, browserID string) ([]string, error)
	StashLoginEmail(ctx context.Context, browserID, email string) error
	ConsumeLoginEmail(ctx context.Context, browserID string) (string, error)
}

// SessionStore keeps revoked session ids and consume-once browser state
// (flash messages, duplicate-registration email prefill) in Redis.
type SessionStore struct {
	cache *cache.Client
}

var _ SessionStoreInterface = (*SessionStore)(nil)

// NewSessionStore creates a new session store.
func NewSessionStore(cache *cache.Client) *SessionStore {
	return &SessionStore{cache: cache}
}

// RevokeSession marks a session token id invalid until the cookie would have
// expired anyway.
func (s *SessionStore) RevokeSession(ctx context.Context, tokenID string, ttl time.Duration) error {
	return s.cache.Set(ctx, revokedKeyPrefix+tokenID, []byte("1"), ttl)
}

// IsSessionRevoked checks whether a session token id has been revoked.
func (s *SessionStore) IsSessionRevoked(ctx context.Context, tokenID string) (bool, error) {
	data, err := s.cache.Get(ctx, revokedKeyPrefix+tokenID)
	if err != nil {
		return false, nil // fail safe: keep sessions alive through redis outages
	}
	return data != nil, nil
}

// AddFlash appends a one-shot message for the browser.
func (s *SessionStore) AddFlash(ctx context.Context, browserID, message string) error {
	key := flashKeyPrefix + browserID
	messages, _ := s.readFlashes(ctx, key)
	messages = append(messages, message)
	payload, err := json.Marshal(messages)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, payload, stashTTL)
}

// ConsumeFlashes returns pending messages and removes them; a second read
// comes back empty.
func (s *SessionStore) ConsumeFlashes(ctx context.Context, browserID string) ([]string, error) {
	key := flashKeyPrefix + browserID
	data, err := s.cache.GetDel(ctx, key)
	if err != nil || data == nil {
		return nil, nil
	}
	var messages []string
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, nil
	}
	return messages, nil
}

// StashLoginEmail records the email of a duplicate registration attempt so
// the login form can pre-fill it after the redirect.
func (s *SessionStore) StashLoginEmail(ctx context.Context, browserID, email string) error {
	return s.cache.Set(ctx, prefillKeyPrefix+browserID, []byte(email), stashTTL)
}

// ConsumeLoginEmail returns the stashed email exactly once, or "".
func (s *SessionStore) ConsumeLoginEmail(ctx context.Context, browserID string) (string, error) {
	data, err := s.cache.GetDel(ctx, prefillKeyPrefix+browserID)
	if err != nil || data == nil {
		return "", nil
	}
	return string(data), nil
}

func (s *SessionStore) readFlashes(ctx context.Context, key string) ([]string, error) {
	data, err := s.cache.Get(ctx, key)
	if err != nil || data == nil {
		return nil, err
	}
	var messages []string
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
