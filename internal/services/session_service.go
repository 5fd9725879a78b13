package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/deltanitt/clubs-api/internal/models"
	"github.com/deltanitt/clubs-api/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrSessionNotFound is returned when a token resolves to no active session.
var ErrSessionNotFound = errors.New("session not found")

// SessionService issues and resolves session tokens. Each user has at
// most one active session: creating a new one replaces the previous row,
// so a cookie carrying a superseded token stops resolving.
type SessionService struct {
	sessionRepo repository.SessionRepository
}

// NewSessionService creates a new SessionService.
func NewSessionService(sessionRepo repository.SessionRepository) *SessionService {
	return &SessionService{sessionRepo: sessionRepo}
}

// Create issues a fresh token for the user, invalidating any prior session.
func (s *SessionService) Create(userID uint64) (string, error) {
	token := strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")

	session := &models.UserSession{
		UserID: userID,
		Token:  token,
	}
	if err := s.sessionRepo.Replace(session); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	return token, nil
}

// Resolve maps a token to the user it belongs to.
func (s *SessionService) Resolve(token string) (uint64, error) {
	session, err := s.sessionRepo.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrSessionNotFound
		}
		return 0, fmt.Errorf("failed to resolve session: %w", err)
	}
	return session.UserID, nil
}

// Revoke deletes the session for a token. Revoking an unknown token is a no-op.
func (s *SessionService) Revoke(token string) error {
	if err := s.sessionRepo.DeleteByToken(token); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}
