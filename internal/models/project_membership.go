package models

import "time"

// ProjectMembership is the project-scoped counterpart of ClubMembership.
type ProjectMembership struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	ProjectID uint64         `gorm:"not null;uniqueIndex:idx_project_user" json:"project_id"`
	UserID    uint64         `gorm:"not null;uniqueIndex:idx_project_user" json:"user_id"`
	Level     PrivilegeLevel `gorm:"not null" json:"level"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
