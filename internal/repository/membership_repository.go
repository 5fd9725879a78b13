package repository

import (
	"fmt"
	"time"

	"github.com/deltanitt/clubs-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormMembershipRepository is a GORM implementation of MembershipRepository
type GormMembershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &GormMembershipRepository{db: db}
}

// GrantOrUpdate upserts a membership entry through the composite unique
// index on (resource, user). Two concurrent grants for the same pair
// serialize in the database; the later write's level wins.
func (r *GormMembershipRepository) GrantOrUpdate(kind models.ResourceKind, resourceID, userID uint64, level models.PrivilegeLevel) error {
	now := time.Now()
	assignments := clause.Assignments(map[string]interface{}{
		"level":      level,
		"updated_at": now,
	})

	switch kind {
	case models.ResourceClub:
		entry := models.ClubMembership{ClubID: resourceID, UserID: userID, Level: level}
		return r.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "club_id"}, {Name: "user_id"}},
			DoUpdates: assignments,
		}).Create(&entry).Error
	case models.ResourceProject:
		entry := models.ProjectMembership{ProjectID: resourceID, UserID: userID, Level: level}
		return r.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}, {Name: "user_id"}},
			DoUpdates: assignments,
		}).Create(&entry).Error
	default:
		return fmt.Errorf("unknown resource kind: %q", kind)
	}
}

// Revoke deletes the membership entry for the pair
func (r *GormMembershipRepository) Revoke(kind models.ResourceKind, resourceID, userID uint64) error {
	var res *gorm.DB
	switch kind {
	case models.ResourceClub:
		res = r.db.Where("club_id = ? AND user_id = ?", resourceID, userID).
			Delete(&models.ClubMembership{})
	case models.ResourceProject:
		res = r.db.Where("project_id = ? AND user_id = ?", resourceID, userID).
			Delete(&models.ProjectMembership{})
	default:
		return fmt.Errorf("unknown resource kind: %q", kind)
	}

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// LevelOf resolves a user's privilege level for a resource
func (r *GormMembershipRepository) LevelOf(kind models.ResourceKind, resourceID, userID uint64) (models.PrivilegeLevel, error) {
	switch kind {
	case models.ResourceClub:
		var entry models.ClubMembership
		if err := r.db.Where("club_id = ? AND user_id = ?", resourceID, userID).
			First(&entry).Error; err != nil {
			return 0, err
		}
		return entry.Level, nil
	case models.ResourceProject:
		var entry models.ProjectMembership
		if err := r.db.Where("project_id = ? AND user_id = ?", resourceID, userID).
			First(&entry).Error; err != nil {
			return 0, err
		}
		return entry.Level, nil
	default:
		return 0, fmt.Errorf("unknown resource kind: %q", kind)
	}
}

// ListClubMembersByLevel lists club memberships at a level with User preloaded
func (r *GormMembershipRepository) ListClubMembersByLevel(clubID uint64, level models.PrivilegeLevel) ([]models.ClubMembership, error) {
	var entries []models.ClubMembership
	if err := r.db.Preload("User").
		Where("club_id = ? AND level = ?", clubID, level).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListProjectMembersByLevel lists project memberships at a level with User preloaded
func (r *GormMembershipRepository) ListProjectMembersByLevel(projectID uint64, level models.PrivilegeLevel) ([]models.ProjectMembership, error) {
	var entries []models.ProjectMembership
	if err := r.db.Preload("User").
		Where("project_id = ? AND level = ?", projectID, level).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListClubsByUser lists a user's club memberships at a level with Club preloaded
func (r *GormMembershipRepository) ListClubsByUser(userID uint64, level models.PrivilegeLevel) ([]models.ClubMembership, error) {
	var entries []models.ClubMembership
	if err := r.db.Preload("Club").
		Where("user_id = ? AND level = ?", userID, level).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
