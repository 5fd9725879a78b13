package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// StringList stores a list of URLs as a JSON column so the same model
// works on postgres and the sqlite test databases.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}
}

type Project struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Abstract  string         `gorm:"type:text" json:"abstract"`
	Link      string         `gorm:"type:varchar(255)" json:"link"`
	Image     string         `gorm:"type:varchar(512)" json:"image"`
	Techstack StringList     `gorm:"type:text" json:"techstack"`
	HeadID    uint64         `gorm:"not null" json:"head_id"`
	ClubID    uint64         `gorm:"not null" json:"club_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Head        User                `gorm:"foreignKey:HeadID" json:"head,omitempty"`
	Club        Club                `gorm:"foreignKey:ClubID" json:"club,omitempty"`
	Roster      []ProjectMember     `gorm:"foreignKey:ProjectID" json:"roster,omitempty"`
	Memberships []ProjectMembership `gorm:"foreignKey:ProjectID" json:"-"`
}
