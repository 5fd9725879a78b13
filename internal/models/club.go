package models

import (
	"time"

	"gorm.io/gorm"
)

type Club struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Abstract  string         `gorm:"type:text" json:"abstract"`
	Link      string         `gorm:"type:varchar(255)" json:"link"`
	Image     string         `gorm:"type:varchar(512)" json:"image"`
	HeadID    *uint64        `json:"head_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Head     *User            `gorm:"foreignKey:HeadID" json:"head,omitempty"`
	Projects []Project        `gorm:"foreignKey:ClubID" json:"projects,omitempty"`
	Members  []ClubMembership `gorm:"foreignKey:ClubID" json:"members,omitempty"`
}
