package handlers

import (
	"encoding/json"
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

// ErrInvalidMembersPayload is returned when the members form field is not
// a valid JSON roster.
var ErrInvalidMembersPayload = errors.New("invalid members data format")

// ProjectHandler coordinates project-related HTTP handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
	blobs          storage.BlobStore
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService, blobs storage.BlobStore) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		blobs:          blobs,
	}
}

// List returns all projects. Public.
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projectService.ListAll()
	if err != nil {
		respondProjectError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToProjectListDTOs(projects)})
}

// Search matches the query against project, head, and club names. Public.
func (h *ProjectHandler) Search(c *gin.Context) {
	projects, err := h.projectService.Search(c.Query("query"))
	if err != nil {
		respondProjectError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToProjectListDTOs(projects)})
}

// Detail returns one project with its roster. Public.
func (h *ProjectHandler) Detail(c *gin.Context) {
	project, err := h.projectService.Detail(c.Param("name"))
	if err != nil {
		respondProjectError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.ToProjectDetailDTO(*project)})
}

// Create creates a project under a club. The caller must be an overall
// admin or a club Admin on the parent club.
func (h *ProjectHandler) Create(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateProjectRequest struct {
		Name      string `form:"name" binding:"required"`
		Abstract  string `form:"abstract"`
		Link      string `form:"link"`
		HeadEmail string `form:"email" binding:"required"`
		ClubName  string `form:"club" binding:"required"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	imageURL := ""
	if file, err := c.FormFile("image"); err == nil {
		url, err := h.blobs.Put(file)
		if err != nil {
			log.Printf("project image upload failed: %v", err)
			apierrors.InternalError(c, "Failed to store project image")
			return
		}
		imageURL = url
	}

	roster, err := h.parseRoster(c)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	techstack, err := h.storeTechstack(c)
	if err != nil {
		apierrors.InternalError(c, "Failed to store techstack images")
		return
	}

	project, err := h.projectService.Create(caller, services.CreateProjectInput{
		Name:      req.Name,
		Abstract:  req.Abstract,
		Link:      req.Link,
		ImageURL:  imageURL,
		HeadEmail: req.HeadEmail,
		ClubName:  req.ClubName,
		Techstack: techstack,
		Roster:    roster,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectListDTO(*project))
}

// Edit updates a project's mutable fields. When a members list is sent,
// the stored roster is deleted and replaced by it; an empty list clears
// the roster. Requires Admin on the project.
func (h *ProjectHandler) Edit(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type EditProjectRequest struct {
		Abstract string `form:"abstract"`
		Link     string `form:"link"`
	}

	var req EditProjectRequest
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.EditProjectInput{
		Abstract: req.Abstract,
		Link:     req.Link,
	}

	if _, sent := c.GetPostForm("members"); sent {
		roster, err := h.parseRoster(c)
		if err != nil {
			apierrors.BadRequest(c, err.Error())
			return
		}
		input.Roster = roster
		input.HasRoster = true
	}

	if form, err := c.MultipartForm(); err == nil && len(form.File["techstack"]) > 0 {
		techstack, err := h.storeTechstack(c)
		if err != nil {
			apierrors.InternalError(c, "Failed to store techstack images")
			return
		}
		input.Techstack = techstack
	}

	project, err := h.projectService.Edit(caller, c.Param("name"), input)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectListDTO(*project))
}

// Delete removes a project and its roster. Requires Admin on the project.
func (h *ProjectHandler) Delete(c *gin.Context) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.projectService.Delete(caller, c.Param("name")); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

// parseRoster decodes the members form field. Each entry carries a name
// and optionally the multipart key of an uploaded profile picture.
func (h *ProjectHandler) parseRoster(c *gin.Context) ([]services.RosterEntry, error) {
	raw, ok := c.GetPostForm("members")
	if !ok || raw == "" {
		return nil, nil
	}

	type memberPayload struct {
		Name       string `json:"name"`
		ProfilePic string `json:"profile_pic"`
	}

	var payload []memberPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, ErrInvalidMembersPayload
	}

	roster := make([]services.RosterEntry, 0, len(payload))
	for _, m := range payload {
		if m.Name == "" {
			return nil, ErrInvalidMembersPayload
		}

		entry := services.RosterEntry{Name: m.Name}
		if m.ProfilePic != "" {
			if file, err := c.FormFile(m.ProfilePic); err == nil {
				url, err := h.blobs.Put(file)
				if err != nil {
					return nil, err
				}
				entry.ProfilePic = url
			}
		}
		roster = append(roster, entry)
	}
	return roster, nil
}

// storeTechstack uploads every file sent under the techstack field and
// returns their URLs in order.
func (h *ProjectHandler) storeTechstack(c *gin.Context) ([]string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil
	}

	files := form.File["techstack"]
	if len(files) == 0 {
		return nil, nil
	}

	urls := make([]string, 0, len(files))
	for _, file := range files {
		url, err := h.blobs.Put(file)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case authz.IsDenial(err):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrClubNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrDuplicateProjectName):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidProjectName),
		errors.Is(err, ErrInvalidMembersPayload):
		apierrors.BadRequest(c, err.Error())
	default:
		log.Printf("project handler: %v", err)
		apierrors.InternalError(c, "")
	}
}
