package models

// PrivilegeLevel is the two-tier privilege catalog shared by clubs and
// projects. Levels compare numerically: Admin covers everything View does.
type PrivilegeLevel int

const (
	PrivilegeView  PrivilegeLevel = 1
	PrivilegeAdmin PrivilegeLevel = 2
)

func (l PrivilegeLevel) String() string {
	switch l {
	case PrivilegeView:
		return "View"
	case PrivilegeAdmin:
		return "Admin"
	default:
		return "Unknown"
	}
}

// ResourceKind tags which membership table a privilege applies to. A club
// entry and a project entry for the same user are independent.
type ResourceKind string

const (
	ResourceClub    ResourceKind = "club"
	ResourceProject ResourceKind = "project"
)

// ClubPrivilege and ProjectPrivilege are the seeded catalog rows. The code
// constants above are authoritative; the rows exist so the catalogs stay
// queryable per resource kind.
type ClubPrivilege struct {
	ID   uint64         `gorm:"primarykey" json:"id"`
	Code PrivilegeLevel `gorm:"uniqueIndex;not null" json:"code"`
	Name string         `gorm:"type:varchar(25);not null" json:"name"`
}

type ProjectPrivilege struct {
	ID   uint64         `gorm:"primarykey" json:"id"`
	Code PrivilegeLevel `gorm:"uniqueIndex;not null" json:"code"`
	Name string         `gorm:"type:varchar(25);not null" json:"name"`
}
