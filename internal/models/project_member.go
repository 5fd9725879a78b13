package models

import "time"

// ProjectMember is a roster entry displayed on a project page. It carries
// no linked User and no privilege; the whole list is replaced on edit.
type ProjectMember struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	ProjectID  uint64    `gorm:"not null;index" json:"project_id"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	ProfilePic string    `gorm:"type:varchar(512)" json:"profile_pic"`
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"-"`
}
