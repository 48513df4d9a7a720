package repository

import (
	"context"

	"github.com/softmatrices/forique-sub000/internal/domain"
)

// SessionRepository defines the interface for session persistence operations.
type SessionRepository interface {
	// Get retrieves a session by its ID. Missing and expired sessions both
	// yield an apperrors.ErrNotFound error.
	Get(ctx context.Context, sessionID string) (*domain.Session, error)

	// Save persists a session, overwriting any stored copy.
	Save(ctx context.Context, session *domain.Session) error

	// SaveIfVersion persists the session only if the stored version equals
	// expectedVersion (0 for a session that has never been saved). On success
	// the session's Version is incremented. It returns false on a mismatch.
	SaveIfVersion(ctx context.Context, session *domain.Session, expectedVersion int) (bool, error)

	// Delete removes a session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, sessionID string) error
}
