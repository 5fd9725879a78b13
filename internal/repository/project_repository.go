package repository

import (
	"errors"
	"fmt"

	"github.com/deltanitt/clubs-api/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

var (
	// ErrCreateProject is returned when creating the project row fails inside the create transaction.
	ErrCreateProject = errors.New("project repository: create project failed")
	// ErrGrantProjectMembership is returned when granting the head's membership fails inside the create transaction.
	ErrGrantProjectMembership = errors.New("project repository: grant head membership failed")
	// ErrCreateRoster is returned when creating roster entries fails inside the create transaction.
	ErrCreateRoster = errors.New("project repository: create roster failed")
)

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// CreateWithHead creates the project row, the head's Admin membership,
// and the initial roster atomically.
func (r *GormProjectRepository) CreateWithHead(project *models.Project, headID uint64, roster []models.ProjectMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateProject, err)
		}

		entry := models.ProjectMembership{
			ProjectID: project.ID,
			UserID:    headID,
			Level:     models.PrivilegeAdmin,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrGrantProjectMembership, err)
		}

		for i := range roster {
			roster[i].ProjectID = project.ID
			if err := tx.Create(&roster[i]).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrCreateRoster, err)
			}
		}

		return nil
	})
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByName finds a project by its globally unique name
func (r *GormProjectRepository) FindByName(name string, preload ...string) (*models.Project, error) {
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}

	var project models.Project
	if err := query.Where("name = ?", name).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Update saves project fields; when replaceRoster is true the existing
// ProjectMember rows are deleted and replaced in the same transaction.
// An empty roster with replaceRoster true clears the list.
func (r *GormProjectRepository) Update(project *models.Project, replaceRoster bool, roster []models.ProjectMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(project).Error; err != nil {
			return err
		}

		if !replaceRoster {
			return nil
		}

		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		for i := range roster {
			roster[i].ID = 0
			roster[i].ProjectID = project.ID
			if err := tx.Create(&roster[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// List returns all projects with head and club preloaded
func (r *GormProjectRepository) List() ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Preload("Head").Preload("Club").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// ListByClub returns all projects referencing a club
func (r *GormProjectRepository) ListByClub(clubID uint64) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Preload("Head").Where("club_id = ?", clubID).Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Delete removes a project, cascading its roster and membership rows
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMembership{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Project{}, id).Error; err != nil {
			return err
		}
		return nil
	})
}
