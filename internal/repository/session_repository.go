package repository

import (
	"time"

	"github.com/deltanitt/clubs-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSessionRepository is a GORM implementation of SessionRepository
type GormSessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &GormSessionRepository{db: db}
}

// Replace upserts the user's session row through the unique index on
// user_id, so a login from a second device replaces the first token.
func (r *GormSessionRepository) Replace(session *models.UserSession) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"token":      session.Token,
			"created_at": time.Now(),
		}),
	}).Create(session).Error
}

// FindByToken resolves a token to its session
func (r *GormSessionRepository) FindByToken(token string) (*models.UserSession, error) {
	var session models.UserSession
	if err := r.db.Where("token = ?", token).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteByToken revokes a session
func (r *GormSessionRepository) DeleteByToken(token string) error {
	return r.db.Where("token = ?", token).Delete(&models.UserSession{}).Error
}
