package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/hykleas/Review-Guard/internal/public/domain"
)

// DefaultSessionTTL bounds how long an idle review session is kept.
const DefaultSessionTTL = 30 * time.Minute

// SessionStore keeps review sessions in a TTL cache. Saving a session extends its lifetime.
type SessionStore struct {
	cache *cache.Cache
}

// NewSessionStore creates a store that expires idle sessions after ttl.
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{cache: cache.New(ttl, ttl*2)}
}

// Save stores or refreshes a session.
func (s *SessionStore) Save(session *domain.Session) {
	s.cache.Set(session.ID, session, cache.DefaultExpiration)
}

// Get returns a live session or domain.ErrSessionNotFound.
func (s *SessionStore) Get(id string) (*domain.Session, error) {
	value, ok := s.cache.Get(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	session, ok := value.(*domain.Session)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// Delete drops a session.
func (s *SessionStore) Delete(id string) {
	s.cache.Delete(id)
}

// Len returns the number of cached sessions, including expired ones not yet purged.
func (s *SessionStore) Len() int {
	return s.cache.ItemCount()
}
