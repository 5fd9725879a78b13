package dto

import "github.com/deltanitt/clubs-api/internal/models"

// RosterMemberDTO is one displayed roster entry on a project
type RosterMemberDTO struct {
	Name       string `json:"name"`
	ProfilePic string `json:"profile_pic,omitempty"`
}

// ProjectListDTO represents a project in list responses
type ProjectListDTO struct {
	ID        uint64   `json:"id"`
	Name      string   `json:"name"`
	Abstract  string   `json:"abstract"`
	Link      string   `json:"link"`
	Image     string   `json:"image,omitempty"`
	Techstack []string `json:"techstack"`
	Head      string   `json:"head,omitempty"`
	ClubName  string   `json:"club_name,omitempty"`
}

// ProjectDetailDTO represents a project with its roster
type ProjectDetailDTO struct {
	ProjectListDTO
	Members []RosterMemberDTO `json:"members"`
}

// ToProjectListDTO converts a project model to list DTO
func ToProjectListDTO(p models.Project) ProjectListDTO {
	d := ProjectListDTO{
		ID:        p.ID,
		Name:      p.Name,
		Abstract:  p.Abstract,
		Link:      p.Link,
		Image:     p.Image,
		Techstack: p.Techstack,
	}
	if d.Techstack == nil {
		d.Techstack = []string{}
	}
	if p.Head.ID != 0 {
		d.Head = p.Head.Email
	}
	if p.Club.ID != 0 {
		d.ClubName = p.Club.Name
	}
	return d
}

// ToProjectListDTOs converts a list of projects
func ToProjectListDTOs(projects []models.Project) []ProjectListDTO {
	out := make([]ProjectListDTO, len(projects))
	for i, p := range projects {
		out[i] = ToProjectListDTO(p)
	}
	return out
}

// ToProjectDetailDTO converts a project with roster to detailed DTO
func ToProjectDetailDTO(p models.Project) ProjectDetailDTO {
	members := make([]RosterMemberDTO, len(p.Roster))
	for i, m := range p.Roster {
		members[i] = RosterMemberDTO{
			Name:       m.Name,
			ProfilePic: m.ProfilePic,
		}
	}

	return ProjectDetailDTO{
		ProjectListDTO: ToProjectListDTO(p),
		Members:        members,
	}
}
