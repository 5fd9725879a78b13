package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/deltanitt/clubs-api/internal/constants"
	"github.com/deltanitt/clubs-api/internal/dto"
	apierrors "github.com/deltanitt/clubs-api/internal/errors"
	"github.com/deltanitt/clubs-api/internal/services"
	"github.com/deltanitt/clubs-api/internal/storage"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService    *services.AuthService
	sessionService *services.SessionService
	blobs          storage.BlobStore
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, sessionService *services.SessionService, blobs storage.BlobStore) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		sessionService: sessionService,
		blobs:          blobs,
	}
}

// Register creates a new user from a multipart form with an optional
// profile picture upload.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Email    string `form:"email" binding:"required"`
		Name     string `form:"name" binding:"required"`
		Password string `form:"password" binding:"required"`
	}

	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	imageURL := ""
	if file, err := c.FormFile("profile_pic"); err == nil {
		url, err := h.blobs.Put(file)
		if err != nil {
			log.Printf("profile picture upload failed: %v", err)
			apierrors.InternalError(c, "Failed to store profile picture")
			return
		}
		imageURL = url
	}

	user, err := h.authService.Register(services.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		ImageURL: imageURL,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// Login authenticates a user and initializes the session. A successful
// login replaces any previous session for the same user.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" form:"email" binding:"required"`
		Password string `json:"password" form:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, token, err := h.authService.Login(services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(constants.SessionKeyToken, token)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Logout revokes the session token and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)

	if token, ok := session.Get(constants.SessionKeyToken).(string); ok && token != "" {
		if err := h.sessionService.Revoke(token); err != nil {
			log.Printf("session revoke failed: %v", err)
		}
	}

	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// Me reports whether the request carries a live session, and for whom.
// Public: an unauthenticated request gets loggedIn=false, not a 401.
func (h *AuthHandler) Me(c *gin.Context) {
	session := sessions.Default(c)
	token, ok := session.Get(constants.SessionKeyToken).(string)
	if !ok || token == "" {
		c.JSON(http.StatusOK, dto.SessionUserDTO{LoggedIn: false})
		return
	}

	userID, err := h.sessionService.Resolve(token)
	if err != nil {
		c.JSON(http.StatusOK, dto.SessionUserDTO{LoggedIn: false})
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		session.Clear()
		_ = session.Save()
		c.JSON(http.StatusOK, dto.SessionUserDTO{LoggedIn: false})
		return
	}

	c.JSON(http.StatusOK, dto.SessionUserDTO{
		LoggedIn: true,
		IsAdmin:  user.IsAdmin,
		Email:    user.Email,
		Name:     user.Name,
	})
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrInvalidEmailDomain),
		errors.Is(err, services.ErrInvalidUserDetails):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAccountExists):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		log.Printf("auth handler: %v", err)
		apierrors.InternalError(c, "")
	}
}
