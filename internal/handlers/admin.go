package handlers

import (
	"net/http"

	"github.com/deltanitt/clubs-api/internal/dto"
	apierrors "github.com/deltanitt/clubs-api/internal/errors"
	"github.com/deltanitt/clubs-api/internal/middleware"
	"github.com/deltanitt/clubs-api/internal/services"
	"github.com/gin-gonic/gin"
)

// AdminHandler serves the overall-admin and club-head management
// endpoints. Both route groups share the same service calls; the
// authorization gate is what distinguishes an overall admin from a club
// Admin, so there is no duplicated privilege logic here.
type AdminHandler struct {
	clubService *services.ClubService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(clubService *services.ClubService) *AdminHandler {
	return &AdminHandler{clubService: clubService}
}

// AssignClubHead sets a club's head and grants them Admin membership.
func (h *AdminHandler) AssignClubHead(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type AssignHeadRequest struct {
		Name      string `json:"name" form:"name" binding:"required"`
		UserEmail string `json:"user_email" form:"user_email" binding:"required"`
	}

	var req AssignHeadRequest
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.clubService.AssignHead(caller, req.Name, req.UserEmail); err != nil {
		respondClubError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Club head assigned successfully"})
}

// RemoveClubHead revokes a user's club membership; if they were the
// designated head the club's head field is cleared.
func (h *AdminHandler) RemoveClubHead(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type RemoveHeadRequest struct {
		Name      string `json:"name" form:"name" binding:"required"`
		UserEmail string `json:"user_email" form:"user_email" binding:"required"`
	}

	var req RemoveHeadRequest
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.clubService.RemoveHead(caller, req.Name, req.UserEmail); err != nil {
		respondClubError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Club head removed successfully"})
}

// ListClubs lists all clubs for the overall-admin console.
func (h *AdminHandler) ListClubs(c *gin.Context) {
	clubs, err := h.clubService.ListAll()
	if err != nil {
		respondClubError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToClubDTOs(clubs)})
}

// ClubDetail returns one club with its Admin roster and projects for the
// overall-admin console.
func (h *AdminHandler) ClubDetail(c *gin.Context) {
	club, admins, projects, err := h.clubService.Detail(c.Param("name"))
	if err != nil {
		respondClubError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToClubDetailDTO(*club, admins, projects)})
}

// Dashboard returns every club where the caller holds Admin membership,
// each with its Admin roster and projects.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	entries, err := h.clubService.DashboardFor(caller)
	if err != nil {
		respondClubError(c, err)
		return
	}

	payload := make([]dto.DashboardEntryDTO, len(entries))
	for i, e := range entries {
		heads := make([]dto.UserDTO, len(e.Admins))
		for j, m := range e.Admins {
			heads[j] = dto.ToUserDTO(m.User)
		}
		payload[i] = dto.DashboardEntryDTO{
			Club:      dto.ToClubDTO(e.Club),
			ClubHeads: heads,
			Projects:  dto.ToProjectListDTOs(e.Projects),
		}
	}

	c.JSON(http.StatusOK, gin.H{"data": payload})
}
