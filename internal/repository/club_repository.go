package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/deltanitt/clubs-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormClubRepository is a GORM implementation of ClubRepository
type GormClubRepository struct {
	db *gorm.DB
}

var (
	// ErrCreateClub is returned when creating the club row fails inside the create transaction.
	ErrCreateClub = errors.New("club repository: create club failed")
	// ErrGrantHeadMembership is returned when granting the head's membership fails inside the create transaction.
	ErrGrantHeadMembership = errors.New("club repository: grant head membership failed")
)

// NewClubRepository creates a new ClubRepository
func NewClubRepository(db *gorm.DB) ClubRepository {
	return &GormClubRepository{db: db}
}

// CreateWithHead creates the club row and the head's Admin membership
// atomically. Either both exist afterwards or neither does.
func (r *GormClubRepository) CreateWithHead(club *models.Club, headID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(club).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateClub, err)
		}

		entry := models.ClubMembership{
			ClubID: club.ID,
			UserID: headID,
			Level:  models.PrivilegeAdmin,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrGrantHeadMembership, err)
		}

		return nil
	})
}

// SetHeadWithGrant sets the club's head and upserts their Admin
// membership atomically. A failed grant rolls the head change back.
func (r *GormClubRepository) SetHeadWithGrant(club *models.Club, headID uint64) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Club{}).Where("id = ?", club.ID).
			Update("head_id", headID).Error; err != nil {
			return err
		}

		entry := models.ClubMembership{
			ClubID: club.ID,
			UserID: headID,
			Level:  models.PrivilegeAdmin,
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "club_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"level":      models.PrivilegeAdmin,
				"updated_at": time.Now(),
			}),
		}).Create(&entry).Error
	})
	if err != nil {
		return err
	}

	club.HeadID = &headID
	club.Head = nil
	return nil
}

// RemoveHeadWithClear revokes the user's membership and clears the head
// field if they were the designated head, atomically. The club row is
// never deleted here.
func (r *GormClubRepository) RemoveHeadWithClear(club *models.Club, userID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("club_id = ? AND user_id = ?", club.ID, userID).
			Delete(&models.ClubMembership{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if club.HeadID != nil && *club.HeadID == userID {
			if err := tx.Model(&models.Club{}).Where("id = ?", club.ID).
				Update("head_id", nil).Error; err != nil {
				return err
			}
			club.HeadID = nil
			club.Head = nil
		}
		return nil
	})
}

// FindByID finds a club by ID
func (r *GormClubRepository) FindByID(id uint64) (*models.Club, error) {
	var club models.Club
	if err := r.db.Preload("Head").First(&club, id).Error; err != nil {
		return nil, err
	}
	return &club, nil
}

// FindByName finds a club by its unique name
func (r *GormClubRepository) FindByName(name string) (*models.Club, error) {
	var club models.Club
	if err := r.db.Preload("Head").Where("name = ?", name).First(&club).Error; err != nil {
		return nil, err
	}
	return &club, nil
}

// Update updates a club
func (r *GormClubRepository) Update(club *models.Club) error {
	return r.db.Save(club).Error
}

// List returns all clubs with heads preloaded
func (r *GormClubRepository) List() ([]models.Club, error) {
	var clubs []models.Club
	if err := r.db.Preload("Head").Find(&clubs).Error; err != nil {
		return nil, err
	}
	return clubs, nil
}

// CountProjects counts projects referencing a club
func (r *GormClubRepository) CountProjects(clubID uint64) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Project{}).Where("club_id = ?", clubID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Delete removes a club and its membership rows in a transaction. The
// service checks CountProjects first; this does not touch projects.
func (r *GormClubRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("club_id = ?", id).Delete(&models.ClubMembership{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Club{}, id).Error; err != nil {
			return err
		}
		return nil
	})
}
