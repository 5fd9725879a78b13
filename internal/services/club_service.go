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
	ErrClubNotFound      = errors.New("club does not exist")
	ErrDuplicateClubName = errors.New("a club with this name already exists")
	ErrInvalidClubName   = errors.New("club name cannot be empty")
	ErrNotAClubHead      = errors.New("user is not a club head in this club")
	ErrClubHasProjects   = errors.New("club still has projects referencing it")
)

// ClubService provides business logic for club operations.
type ClubService struct {
	clubRepo    repository.ClubRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	memberships repository.MembershipRepository
	gate        *authz.Gate
}

// NewClubService creates a new ClubService.
func NewClubService(
	clubRepo repository.ClubRepository,
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
	memberships repository.MembershipRepository,
	gate *authz.Gate,
) *ClubService {
	return &ClubService{
		clubRepo:    clubRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		memberships: memberships,
		gate:        gate,
	}
}

// CreateClubInput represents parameters to create a new club.
type CreateClubInput struct {
	Name      string
	Abstract  string
	Link      string
	ImageURL  string
	HeadEmail string
}

// Create creates a club and grants the head an Admin membership on it.
// Only an overall admin may create clubs.
func (s *ClubService) Create(caller authz.Caller, input CreateClubInput) (*models.Club, error) {
	if err := s.gate.Authorize(caller, authz.ActionGlobal, models.ResourceClub, 0); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidClubName
	}

	if _, err := s.clubRepo.FindByName(name); err == nil {
		return nil, ErrDuplicateClubName
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check club name: %w", err)
	}

	head, err := s.userRepo.FindByEmail(input.HeadEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find head: %w", err)
	}

	club := &models.Club{
		Name:     name,
		Abstract: input.Abstract,
		Link:     input.Link,
		Image:    input.ImageURL,
		HeadID:   &head.ID,
	}
	if err := s.clubRepo.CreateWithHead(club, head.ID); err != nil {
		return nil, fmt.Errorf("failed to create club: %w", err)
	}

	club.Head = head
	return club, nil
}

// EditClubInput holds the mutable club fields.
type EditClubInput struct {
	Abstract string
	Link     string
	ImageURL string
}

// Edit overwrites a club's abstract and link, and its image when a new
// one was uploaded. Requires Admin on the club.
func (s *ClubService) Edit(caller authz.Caller, name string, input EditClubInput) (*models.Club, error) {
	club, err := s.clubRepo.FindByName(name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, fmt.Errorf("failed to find club: %w", err)
	}

	if err := s.gate.Authorize(caller, authz.ActionEdit, models.ResourceClub, club.ID); err != nil {
		return nil, err
	}

	club.Abstract = input.Abstract
	club.Link = input.Link
	if input.ImageURL != "" {
		club.Image = input.ImageURL
	}

	if err := s.clubRepo.Update(club); err != nil {
		return nil, fmt.Errorf("failed to update club: %w", err)
	}
	return club, nil
}

// AssignHead makes a user a head of the club: the club's designated head
// field is updated and the user receives an Admin membership. Re-granting
// an existing Admin is idempotent.
func (s *ClubService) AssignHead(caller authz.Caller, clubName, newHeadEmail string) error {
	club, err := s.clubRepo.FindByName(clubName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClubNotFound
		}
		return fmt.Errorf("failed to find club: %w", err)
	}

	if err := s.gate.Authorize(caller, authz.ActionManage, models.ResourceClub, club.ID); err != nil {
		return err
	}

	newHead, err := s.userRepo.FindByEmail(newHeadEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.clubRepo.SetHeadWithGrant(club, newHead.ID); err != nil {
		return fmt.Errorf("failed to assign club head: %w", err)
	}

	return nil
}

// RemoveHead revokes a user's membership on the club. If the removed user
// is the club's designated head, the head field is cleared; the club is
// never deleted or auto-reassigned.
func (s *ClubService) RemoveHead(caller authz.Caller, clubName, headEmail string) error {
	club, err := s.clubRepo.FindByName(clubName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClubNotFound
		}
		return fmt.Errorf("failed to find club: %w", err)
	}

	if err := s.gate.Authorize(caller, authz.ActionManage, models.ResourceClub, club.ID); err != nil {
		return err
	}

	user, err := s.userRepo.FindByEmail(headEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.clubRepo.RemoveHeadWithClear(club, user.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotAClubHead
		}
		return fmt.Errorf("failed to remove club head: %w", err)
	}

	return nil
}

// ListAll returns every club. Public read.
func (s *ClubService) ListAll() ([]models.Club, error) {
	clubs, err := s.clubRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list clubs: %w", err)
	}
	return clubs, nil
}

// Search returns clubs whose name contains the query, ignoring case and
// accents. Public read.
func (s *ClubService) Search(query string) ([]models.Club, error) {
	clubs, err := s.clubRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list clubs: %w", err)
	}

	matched := make([]models.Club, 0, len(clubs))
	for _, club := range clubs {
		if utils.ContainsFold(club.Name, query) {
			matched = append(matched, club)
		}
	}
	return matched, nil
}

// Detail returns a club with its Admin roster and projects.
func (s *ClubService) Detail(name string) (*models.Club, []models.ClubMembership, []models.Project, error) {
	club, err := s.clubRepo.FindByName(name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, ErrClubNotFound
		}
		return nil, nil, nil, fmt.Errorf("failed to find club: %w", err)
	}

	admins, err := s.memberships.ListClubMembersByLevel(club.ID, models.PrivilegeAdmin)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list club admins: %w", err)
	}

	projects, err := s.projectRepo.ListByClub(club.ID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list club projects: %w", err)
	}

	return club, admins, projects, nil
}

// DashboardEntry is one club on a head's dashboard with its Admin roster
// and projects.
type DashboardEntry struct {
	Club     models.Club
	Admins   []models.ClubMembership
	Projects []models.Project
}

// DashboardFor returns every club where the caller holds an Admin
// membership, annotated with roster and projects.
func (s *ClubService) DashboardFor(caller authz.Caller) ([]DashboardEntry, error) {
	memberships, err := s.memberships.ListClubsByUser(caller.UserID, models.PrivilegeAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to list caller's clubs: %w", err)
	}

	entries := make([]DashboardEntry, 0, len(memberships))
	for _, m := range memberships {
		admins, err := s.memberships.ListClubMembersByLevel(m.ClubID, models.PrivilegeAdmin)
		if err != nil {
			return nil, fmt.Errorf("failed to list club admins: %w", err)
		}

		projects, err := s.projectRepo.ListByClub(m.ClubID)
		if err != nil {
			return nil, fmt.Errorf("failed to list club projects: %w", err)
		}

		entries = append(entries, DashboardEntry{
			Club:     m.Club,
			Admins:   admins,
			Projects: projects,
		})
	}
	return entries, nil
}

// Delete removes a club. Only an overall admin may delete, and the delete
// is blocked while any project still references the club.
func (s *ClubService) Delete(caller authz.Caller, name string) error {
	if err := s.gate.Authorize(caller, authz.ActionGlobal, models.ResourceClub, 0); err != nil {
		return err
	}

	club, err := s.clubRepo.FindByName(name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClubNotFound
		}
		return fmt.Errorf("failed to find club: %w", err)
	}

	count, err := s.clubRepo.CountProjects(club.ID)
	if err != nil {
		return fmt.Errorf("failed to count club projects: %w", err)
	}
	if count > 0 {
		return ErrClubHasProjects
	}

	if err := s.clubRepo.Delete(club.ID); err != nil {
		return fmt.Errorf("failed to delete club: %w", err)
	}
	return nil
}
