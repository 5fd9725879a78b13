package authz

import (
	"errors"
	"fmt"

	"github.com/deltanitt/clubs-api/internal/models"
	"github.com/deltanitt/clubs-api/internal/repository"
	"gorm.io/gorm"
)

var (
	// ErrNotGlobalAdmin is returned when an overall-admin-only action is
	// attempted by a caller without the global admin flag.
	ErrNotGlobalAdmin = errors.New("only an overall admin can perform this action")
	// ErrNoPrivilege is returned when the caller holds no membership
	// entry on the target resource at all.
	ErrNoPrivilege = errors.New("no privilege on this resource")
	// ErrInsufficientPrivilege is returned when the caller's level is
	// below the action's minimum.
	ErrInsufficientPrivilege = errors.New("insufficient privilege for this action")
)

// Caller is the authenticated identity a request acts as. IsAdmin is the
// user's stored global flag, resolved once at authentication and never
// re-derived per call site.
type Caller struct {
	UserID  uint64
	IsAdmin bool
}

// Action classifies what a request wants to do with a resource.
type Action int

const (
	// ActionView covers list/detail reads. Public, no privilege needed.
	ActionView Action = iota
	// ActionEdit covers mutations of a resource's mutable fields
	// (abstract, link, techstack, roster). Requires Admin on the resource.
	ActionEdit
	// ActionManage covers create/delete and head assignment/removal.
	// Requires Admin on the resource.
	ActionManage
	// ActionGlobal covers overall-admin-only views (admin club lists and
	// cross-resource detail). Membership never satisfies it.
	ActionGlobal
)

func (a Action) String() string {
	switch a {
	case ActionView:
		return "view"
	case ActionEdit:
		return "edit"
	case ActionManage:
		return "manage"
	case ActionGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// minimumLevel returns the membership level an action demands when the
// caller is not a global admin.
func minimumLevel(action Action) models.PrivilegeLevel {
	switch action {
	case ActionEdit, ActionManage:
		return models.PrivilegeAdmin
	default:
		return models.PrivilegeView
	}
}

// Gate decides whether a caller may perform an action on a resource. One
// gate serves both resource kinds; the algorithm never branches on kind.
type Gate struct {
	memberships repository.MembershipRepository
}

// NewGate creates a new Gate.
func NewGate(memberships repository.MembershipRepository) *Gate {
	return &Gate{memberships: memberships}
}

// Authorize returns nil when the action is allowed, or one of the typed
// denial errors. Resolution order, each a hard short-circuit:
//  1. views are public
//  2. a global admin is allowed unconditionally
//  3. ActionGlobal denies everyone else
//  4. no membership entry denies with ErrNoPrivilege
//  5. a level below the action's minimum denies with ErrInsufficientPrivilege
func (g *Gate) Authorize(caller Caller, action Action, kind models.ResourceKind, resourceID uint64) error {
	if action == ActionView {
		return nil
	}

	if caller.IsAdmin {
		return nil
	}

	if action == ActionGlobal {
		return ErrNotGlobalAdmin
	}

	level, err := g.memberships.LevelOf(kind, resourceID, caller.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoPrivilege
		}
		return fmt.Errorf("failed to resolve privilege: %w", err)
	}

	if level < minimumLevel(action) {
		return ErrInsufficientPrivilege
	}

	return nil
}

// IsDenial reports whether an Authorize error is a permission denial as
// opposed to a storage failure.
func IsDenial(err error) bool {
	return errors.Is(err, ErrNotGlobalAdmin) ||
		errors.Is(err, ErrNoPrivilege) ||
		errors.Is(err, ErrInsufficientPrivilege)
}
