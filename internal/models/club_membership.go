package models

import "time"

// ClubMembership ties one user to one club with exactly one privilege
// level. The composite unique index keeps concurrent grants from creating
// a second row for the same pair.
type ClubMembership struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	ClubID    uint64         `gorm:"not null;uniqueIndex:idx_club_user" json:"club_id"`
	UserID    uint64         `gorm:"not null;uniqueIndex:idx_club_user" json:"user_id"`
	Level     PrivilegeLevel `gorm:"not null" json:"level"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`

	// Relations
	Club Club `gorm:"foreignKey:ClubID" json:"club,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
