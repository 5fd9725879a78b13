package repository

import (
	"github.com/deltanitt/clubs-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}

// ClubRepository defines the interface for club data access
type ClubRepository interface {
	// CreateWithHead creates a club and the head's Admin membership
	// within a single transaction.
	CreateWithHead(club *models.Club, headID uint64) error

	// SetHeadWithGrant sets the club's head and upserts their Admin
	// membership within a single transaction.
	SetHeadWithGrant(club *models.Club, headID uint64) error

	// RemoveHeadWithClear revokes the user's membership and, when they
	// are the designated head, clears the head field, within a single
	// transaction. Returns gorm.ErrRecordNotFound when the user has no
	// membership entry.
	RemoveHeadWithClear(club *models.Club, userID uint64) error

	// FindByID finds a club by ID
	FindByID(id uint64) (*models.Club, error)

	// FindByName finds a club by its unique name
	FindByName(name string) (*models.Club, error)

	// Update updates a club
	Update(club *models.Club) error

	// List returns all clubs with heads preloaded
	List() ([]models.Club, error)

	// CountProjects counts projects referencing a club
	CountProjects(clubID uint64) (int64, error)

	// Delete removes a club and its membership rows in a transaction.
	// Callers must check CountProjects first; projects are delete-protected.
	Delete(id uint64) error
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// CreateWithHead creates a project, the head's Admin membership, and
	// the initial roster within a single transaction.
	CreateWithHead(project *models.Project, headID uint64, roster []models.ProjectMember) error

	// FindByID finds a project by ID
	FindByID(id uint64) (*models.Project, error)

	// FindByName finds a project by its globally unique name
	FindByName(name string, preload ...string) (*models.Project, error)

	// Update updates project fields; when replaceRoster is true the
	// existing ProjectMember rows are deleted and replaced by roster in
	// the same transaction (a full replace, never a merge).
	Update(project *models.Project, replaceRoster bool, roster []models.ProjectMember) error

	// List returns all projects with head and club preloaded
	List() ([]models.Project, error)

	// ListByClub returns all projects referencing a club
	ListByClub(clubID uint64) ([]models.Project, error)

	// Delete removes a project, cascading its roster and membership rows
	Delete(id uint64) error
}

// MembershipRepository is the membership registry for both resource
// kinds. All privilege rows are written through GrantOrUpdate/Revoke so
// the at-most-one-entry-per-(resource,user) invariant holds.
type MembershipRepository interface {
	// GrantOrUpdate inserts a membership entry or overwrites its level.
	// Idempotent; concurrent writers serialize through the composite
	// unique index with last-write-wins.
	GrantOrUpdate(kind models.ResourceKind, resourceID, userID uint64, level models.PrivilegeLevel) error

	// Revoke deletes the entry, returning gorm.ErrRecordNotFound if the
	// pair has no entry.
	Revoke(kind models.ResourceKind, resourceID, userID uint64) error

	// LevelOf resolves the caller's level for a resource.
	LevelOf(kind models.ResourceKind, resourceID, userID uint64) (models.PrivilegeLevel, error)

	// ListClubMembersByLevel lists club memberships at a level with User preloaded
	ListClubMembersByLevel(clubID uint64, level models.PrivilegeLevel) ([]models.ClubMembership, error)

	// ListProjectMembersByLevel lists project memberships at a level with User preloaded
	ListProjectMembersByLevel(projectID uint64, level models.PrivilegeLevel) ([]models.ProjectMembership, error)

	// ListClubsByUser lists a user's club memberships at a level with Club preloaded
	ListClubsByUser(userID uint64, level models.PrivilegeLevel) ([]models.ClubMembership, error)
}

// SessionRepository stores the single active session per user
type SessionRepository interface {
	// Replace upserts the user's session row, invalidating any prior token
	Replace(session *models.UserSession) error

	// FindByToken resolves a token to its session
	FindByToken(token string) (*models.UserSession, error)

	// DeleteByToken revokes a session
	DeleteByToken(token string) error
}
