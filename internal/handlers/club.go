package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/deltanitt/clubs-api/internal/authz"
	"github.com/deltanitt/clubs-api/internal/dto"
	apierrors "github.com/deltanitt/clubs-api/internal/errors"
	"github.com/deltanitt/clubs-api/internal/middleware"
	"github.com/deltanitt/clubs-api/internal/services"
	"github.com/deltanitt/clubs-api/internal/storage"
	"github.com/gin-gonic/gin"
)

// ClubHandler coordinates club-related HTTP handlers.
type ClubHandler struct {
	clubService *services.ClubService
	blobs       storage.BlobStore
}

// NewClubHandler creates a new ClubHandler.
func NewClubHandler(clubService *services.ClubService, blobs storage.BlobStore) *ClubHandler {
	return &ClubHandler{
		clubService: clubService,
		blobs:       blobs,
	}
}

// List returns all clubs. Public.
func (h *ClubHandler) List(c *gin.Context) {
	clubs, err := h.clubService.ListAll()
	if err != nil {
		respondClubError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToClubDTOs(clubs)})
}

// Search returns clubs matching the query by name. Public.
func (h *ClubHandler) Search(c *gin.Context) {
	clubs, err := h.clubService.Search(c.Query("query"))
	if err != nil {
		respondClubError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToClubDTOs(clubs)})
}

// Detail returns one club with its Admin roster and projects. Public.
func (h *ClubHandler) Detail(c *gin.Context) {
	club, admins, projects, err := h.clubService.Detail(c.Param("name"))
	if err != nil {
		respondClubError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToClubDetailDTO(*club, admins, projects)})
}

// Create creates a club. Overall admin only.
func (h *ClubHandler) Create(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateClubRequest struct {
		Name      string `form:"name" binding:"required"`
		Abstract  string `form:"abstract"`
		Link      string `form:"link"`
		HeadEmail string `form:"email" binding:"required"`
	}

	var req CreateClubRequest
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	imageURL := ""
	if file, err := c.FormFile("image"); err == nil {
		url, err := h.blobs.Put(file)
		if err != nil {
			log.Printf("club image upload failed: %v", err)
			apierrors.InternalError(c, "Failed to store club image")
			return
		}
		imageURL = url
	}

	club, err := h.clubService.Create(caller, services.CreateClubInput{
		Name:      req.Name,
		Abstract:  req.Abstract,
		Link:      req.Link,
		ImageURL:  imageURL,
		HeadEmail: req.HeadEmail,
	})
	if err != nil {
		respondClubError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToClubDTO(*club))
}

// Edit updates a club's mutable fields. Club Admin or overall admin.
func (h *ClubHandler) Edit(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type EditClubRequest struct {
		Abstract string `form:"abstract"`
		Link     string `form:"link"`
	}

	var req EditClubRequest
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	imageURL := ""
	if file, err := c.FormFile("image"); err == nil {
		url, err := h.blobs.Put(file)
		if err != nil {
			log.Printf("club image upload failed: %v", err)
			apierrors.InternalError(c, "Failed to store club image")
			return
		}
		imageURL = url
	}

	club, err := h.clubService.Edit(caller, c.Param("name"), services.EditClubInput{
		Abstract: req.Abstract,
		Link:     req.Link,
		ImageURL: imageURL,
	})
	if err != nil {
		respondClubError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToClubDTO(*club))
}

// Delete removes a club. Overall admin only; blocked while projects
// still reference the club.
func (h *ClubHandler) Delete(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.clubService.Delete(caller, c.Param("name")); err != nil {
		respondClubError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Club deleted successfully"})
}

func respondClubError(c *gin.Context, err error) {
	switch {
	case authz.IsDenial(err):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrClubNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrDuplicateClubName),
		errors.Is(err, services.ErrClubHasProjects):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidClubName):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNotAClubHead):
		apierrors.NotFound(c, err.Error())
	default:
		log.Printf("club handler: %v", err)
		apierrors.InternalError(c, "")
	}
}
