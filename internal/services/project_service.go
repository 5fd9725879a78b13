package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/deltanitt/clubs-api/internal/authz"
	"github.com/deltanitt/clubs-api/internal/models"
	"github.com/deltanitt/clubs-api/internal/repository"
	"github.com/deltanitt/clubs-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound      = errors.New("project does not exist")
	ErrDuplicateProjectName = errors.New("a project with the same name exists")
	ErrInvalidProjectName   = errors.New("project name cannot be empty")
)

// RosterEntry is one member in a project's displayed roster.
type RosterEntry struct {
	Name       string
	ProfilePic string
}

// ProjectService provides business logic for project operations.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	clubRepo    repository.ClubRepository
	userRepo    repository.UserRepository
	memberships repository.MembershipRepository
	gate        *authz.Gate
}

// NewProjectService creates a new ProjectService.
func NewProjectService(
	projectRepo repository.ProjectRepository,
	clubRepo repository.ClubRepository,
	userRepo repository.UserRepository,
	memberships repository.MembershipRepository,
	gate *authz.Gate,
) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		clubRepo:    clubRepo,
		userRepo:    userRepo,
		memberships: memberships,
		gate:        gate,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name      string
	Abstract  string
	Link      string
	ImageURL  string
	HeadEmail string
	ClubName  string
	Techstack []string
	Roster    []RosterEntry
}

// Create creates a project under a club. The caller must be an overall
// admin or hold Admin on the parent club. Project names are globally
// unique, not per-club. The project row, the head's Admin membership,
// and the roster are created atomically.
func (s *ProjectService) Create(caller authz.Caller, input CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidProjectName
	}

	club, err := s.clubRepo.FindByName(input.ClubName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, fmt.Errorf("failed to find club: %w", err)
	}

	if err := s.gate.Authorize(caller, authz.ActionManage, models.ResourceClub, club.ID); err != nil {
		return nil, err
	}

	head, err := s.userRepo.FindByEmail(input.HeadEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find head: %w", err)
	}

	if _, err := s.projectRepo.FindByName(name); err == nil {
		return nil, ErrDuplicateProjectName
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check project name: %w", err)
	}

	project := &models.Project{
		Name:      name,
		Abstract:  input.Abstract,
		Link:      input.Link,
		Image:     input.ImageURL,
		Techstack: input.Techstack,
		HeadID:    head.ID,
		ClubID:    club.ID,
	}
	roster := rosterModels(input.Roster)

	if err := s.projectRepo.CreateWithHead(project, head.ID, roster); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	project.Head = *head
	project.Club = *club
	return project, nil
}

// EditProjectInput holds the mutable project fields. Techstack and Roster
// are wholesale-replaced when non-nil; a non-nil empty roster clears the
// stored list.
type EditProjectInput struct {
	Abstract  string
	Link      string
	Techstack []string
	Roster    []RosterEntry
	HasRoster bool
}

// Edit overwrites a project's abstract and link, and replaces the
// techstack and roster when supplied. Requires Admin on the project.
func (s *ProjectService) Edit(caller authz.Caller, name string, input EditProjectInput) (*models.Project, error) {
	project, err := s.projectRepo.FindByName(name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if err := s.gate.Authorize(caller, authz.ActionEdit, models.ResourceProject, project.ID); err != nil {
		return nil, err
	}

	project.Abstract = input.Abstract
	project.Link = input.Link
	if input.Techstack != nil {
		project.Techstack = input.Techstack
	}

	roster := rosterModels(input.Roster)
	if err := s.projectRepo.Update(project, input.HasRoster, roster); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// ListAll returns every project with head and club. Public read.
func (s *ProjectService) ListAll() ([]models.Project, error) {
	projects, err := s.projectRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// Search matches the query against project name, head display name, or
// club name, ignoring case and accents. Public read.
func (s *ProjectService) Search(query string) ([]models.Project, error) {
	projects, err := s.projectRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	matched := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if utils.ContainsFold(p.Name, query) ||
			utils.ContainsFold(p.Head.Name, query) ||
			utils.ContainsFold(p.Club.Name, query) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// Detail returns a project with its head, club, and roster. Public read.
func (s *ProjectService) Detail(name string) (*models.Project, error) {
	project, err := s.projectRepo.FindByName(name, "Head", "Club", "Roster")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// Delete removes a project and cascades its roster. Requires Admin on
// the project.
func (s *ProjectService) Delete(caller authz.Caller, name string) error {
	project, err := s.projectRepo.FindByName(name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	if err := s.gate.Authorize(caller, authz.ActionManage, models.ResourceProject, project.ID); err != nil {
		return err
	}

	if err := s.projectRepo.Delete(project.ID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

func rosterModels(entries []RosterEntry) []models.ProjectMember {
	roster := make([]models.ProjectMember, len(entries))
	for i, e := range entries {
		roster[i] = models.ProjectMember{
			Name:       e.Name,
			ProfilePic: e.ProfilePic,
		}
	}
	return roster
}
