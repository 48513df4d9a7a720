package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/softmatrices/forique-sub000/internal/domain"
	apperrors "github.com/softmatrices/forique-sub000/pkg/errors"
)

const cleanupInterval = 5 * time.Minute

type entry struct {
	data      []byte
	version   int
	expiresAt time.Time
}

// SessionRepository implements repository.SessionRepository in process
// memory. Sessions are stored encoded so callers never share state with the
// store.
type SessionRepository struct {
	mu       sync.Mutex
	sessions map[string]entry
	ttl      time.Duration
	nowFunc  func() time.Time
	done     chan struct{}
	stopOnce sync.Once
}

// NewSessionRepository creates a memory-backed session repository whose
// entries expire ttl after their last save. A background goroutine evicts
// expired entries until Close is called.
func NewSessionRepository(ttl time.Duration) *SessionRepository {
	r := &SessionRepository{
		sessions: make(map[string]entry),
		ttl:      ttl,
		nowFunc:  time.Now,
		done:     make(chan struct{}),
	}
	go r.cleanupLoop()
	return r
}

// Get retrieves a live session by ID.
func (r *SessionRepository) Get(_ context.Context, sessionID string) (*domain.Session, error) {
	r.mu.Lock()
	e, ok := r.sessions[sessionID]
	if ok && !r.now().Before(e.expiresAt) {
		delete(r.sessions, sessionID)
		ok = false
	}
	r.mu.Unlock()

	if !ok {
		return nil, apperrors.NotFound("session", sessionID)
	}

	var session domain.Session
	if err := json.Unmarshal(e.data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

// Save stores the session unconditionally.
func (r *SessionRepository) Save(_ context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = entry{data: data, version: session.Version, expiresAt: r.now().Add(r.ttl)}
	return nil
}

// SaveIfVersion stores the session when the stored version matches.
func (r *SessionRepository) SaveIfVersion(_ context.Context, session *domain.Session, expectedVersion int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := 0
	if e, ok := r.sessions[session.ID]; ok && r.now().Before(e.expiresAt) {
		current = e.version
	}
	if current != expectedVersion {
		return false, nil
	}

	next := *session
	next.Version = expectedVersion + 1
	data, err := json.Marshal(&next)
	if err != nil {
		return false, fmt.Errorf("marshal session: %w", err)
	}

	r.sessions[session.ID] = entry{data: data, version: next.Version, expiresAt: r.now().Add(r.ttl)}
	session.Version = next.Version
	return true, nil
}

// Delete removes a session by ID.
func (r *SessionRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	return nil
}

// Close stops the background eviction loop.
func (r *SessionRepository) Close() {
	r.stopOnce.Do(func() { close(r.done) })
}

func (r *SessionRepository) now() time.Time {
	return r.nowFunc()
}

func (r *SessionRepository) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.cleanup()
		case <-r.done:
			return
		}
	}
}

// cleanup evicts every session past its expiry.
func (r *SessionRepository) cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, e := range r.sessions {
		if !now.Before(e.expiresAt) {
			delete(r.sessions, id)
		}
	}
}

// len returns the number of stored sessions, expired or not.
func (r *SessionRepository) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
