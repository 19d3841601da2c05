// Package session keeps the signed-in identity of the terminal client. The
// Store is the single source of truth: it is loaded from the local database
// at start-up, replaced on login and cleared on logout or when the server
// rejects the token.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/autodealer/internal/client/models"
	"github.com/dmitrijs2005/autodealer/internal/client/repositories/metadata"
	"github.com/golang-jwt/jwt/v5"
)

const metadataKey = "session"

// now is a seam for tests.
var now = time.Now

type Store struct {
	mu      sync.RWMutex
	repo    metadata.Repository
	current *models.Session
}

func NewStore(repo metadata.Repository) *Store {
	return &Store{repo: repo}
}

// Load restores the persisted session. An unreadable or expired session is
// discarded, leaving the store signed out.
func (s *Store) Load(ctx context.Context) error {
	raw, err := s.repo.Get(ctx, metadataKey)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	if raw == nil {
		return nil
	}

	var sess models.Session
	if err := json.Unmarshal(raw, &sess); err != nil || Expired(sess.Token) {
		return s.repo.Delete(ctx, metadataKey)
	}
	s.current = &sess
	return nil
}

// Save persists sess and makes it current.
func (s *Store) Save(ctx context.Context, sess *models.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.repo.Set(ctx, metadataKey, raw); err != nil {
		return err
	}

	s.mu.Lock()
	cp := *sess
	s.current = &cp
	s.mu.Unlock()
	return nil
}

// Clear signs out. The in-memory session is dropped even if the delete fails.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	return s.repo.Delete(ctx, metadataKey)
}

// Current returns a copy of the active session, or nil when signed out or
// when the token has expired since it was loaded.
func (s *Store) Current() *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil || Expired(s.current.Token) {
		return nil
	}
	cp := *s.current
	return &cp
}

// Token returns the bearer token of the active session, or "".
func (s *Store) Token() string {
	if sess := s.Current(); sess != nil {
		return sess.Token
	}
	return ""
}

// Expired reports whether token is unparsable or past its exp claim. The
// signature is not checked; only the server can do that.
func Expired(token string) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now().Before(claims.ExpiresAt.Time)
}
