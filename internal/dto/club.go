package dto

import "github.com/deltanitt/clubs-api/internal/models"

// ClubDTO represents a club in list responses
type ClubDTO struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Abstract string `json:"abstract"`
	Link     string `json:"link"`
	Image    string `json:"image,omitempty"`
	Head     string `json:"head,omitempty"`
}

// ClubDetailDTO represents a club with its Admin roster and projects
type ClubDetailDTO struct {
	ClubDTO
	Admins   []UserDTO        `json:"admin_users"`
	Projects []ProjectListDTO `json:"projects"`
}

// DashboardEntryDTO is one club on the club-head dashboard
type DashboardEntryDTO struct {
	Club      ClubDTO          `json:"club"`
	ClubHeads []UserDTO        `json:"club_heads"`
	Projects  []ProjectListDTO `json:"projects"`
}

// ToClubDTO converts a club model to DTO
func ToClubDTO(club models.Club) ClubDTO {
	d := ClubDTO{
		ID:       club.ID,
		Name:     club.Name,
		Abstract: club.Abstract,
		Link:     club.Link,
		Image:    club.Image,
	}
	if club.Head != nil {
		d.Head = club.Head.Email
	}
	return d
}

// ToClubDTOs converts a list of clubs
func ToClubDTOs(clubs []models.Club) []ClubDTO {
	out := make([]ClubDTO, len(clubs))
	for i, club := range clubs {
		out[i] = ToClubDTO(club)
	}
	return out
}

// ToClubDetailDTO converts a club with roster and projects to detailed DTO
func ToClubDetailDTO(club models.Club, admins []models.ClubMembership, projects []models.Project) ClubDetailDTO {
	adminDTOs := make([]UserDTO, len(admins))
	for i, m := range admins {
		adminDTOs[i] = ToUserDTO(m.User)
	}

	return ClubDetailDTO{
		ClubDTO:  ToClubDTO(club),
		Admins:   adminDTOs,
		Projects: ToProjectListDTOs(projects),
	}
}
