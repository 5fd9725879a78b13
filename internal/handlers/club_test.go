package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/deltanitt/clubs-api/internal/dto"
	"github.com/deltanitt/clubs-api/internal/models"
	"github.com/deltanitt/clubs-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func formContext(w *httptest.ResponseRecorder, user *models.User, form url.Values) *gin.Context {
	c := callerContext(w, user)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c
}

func (env handlerTestEnv) seedClub(t *testing.T, name, headEmail string) *models.Club {
	t.Helper()
	admin := &models.User{Email: "seed-" + name + "@nitt.edu", Name: "Seeder", IsAdmin: true}
	require.NoError(t, env.db.Create(admin).Error)
	head := env.createUser(t, headEmail, "Head of "+name, false)
	club, err := env.clubService.Create(env.callerFor(admin), services.CreateClubInput{
		Name:      name,
		Abstract:  "about " + name,
		HeadEmail: head.Email,
	})
	require.NoError(t, err)
	return club
}

func TestClubHandler_Create(t *testing.T) {
	env := setupHandlerTestEnv(t)

	admin := env.createUser(t, "admin@nitt.edu", "Overall Admin", true)
	env.createUser(t, "head@nitt.edu", "Club Head", false)

	w := httptest.NewRecorder()
	c := formContext(w, admin, url.Values{
		"name":     {"Robotics"},
		"abstract": {"We build robots"},
		"email":    {"head@nitt.edu"},
	})

	env.clubHandler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.ClubDTO
	requireJSON(t, w, &response)
	require.Equal(t, "Robotics", response.Name)
}

func TestClubHandler_CreateRequiresGlobalAdmin(t *testing.T) {
	env := setupHandlerTestEnv(t)

	user := env.createUser(t, "user@nitt.edu", "Regular User", false)
	env.createUser(t, "head@nitt.edu", "Club Head", false)

	w := httptest.NewRecorder()
	c := formContext(w, user, url.Values{
		"name":  {"Robotics"},
		"email": {"head@nitt.edu"},
	})

	env.clubHandler.Create(c)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestClubHandler_CreateDuplicateName(t *testing.T) {
	env := setupHandlerTestEnv(t)

	env.seedClub(t, "Robotics", "head@nitt.edu")
	admin := env.createUser(t, "admin@nitt.edu", "Overall Admin", true)

	w := httptest.NewRecorder()
	c := formContext(w, admin, url.Values{
		"name":  {"Robotics"},
		"email": {"head@nitt.edu"},
	})

	env.clubHandler.Create(c)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestClubHandler_CreateUnknownHead(t *testing.T) {
	env := setupHandlerTestEnv(t)

	admin := env.createUser(t, "admin@nitt.edu", "Overall Admin", true)

	w := httptest.NewRecorder()
	c := formContext(w, admin, url.Values{
		"name":  {"Robotics"},
		"email": {"ghost@nitt.edu"},
	})

	env.clubHandler.Create(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestClubHandler_ListAndDetailArePublic(t *testing.T) {
	env := setupHandlerTestEnv(t)

	env.seedClub(t, "Robotics", "head@nitt.edu")

	r := gin.New()
	r.GET("/api/clubs", env.clubHandler.List)
	r.GET("/api/clubs/:name", env.clubHandler.Detail)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/clubs", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Data []dto.ClubDTO `json:"data"`
	}
	requireJSON(t, w, &list)
	require.Len(t, list.Data, 1)
	require.Equal(t, "head@nitt.edu", list.Data[0].Head)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/clubs/Robotics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var detail struct {
		Data dto.ClubDetailDTO `json:"data"`
	}
	requireJSON(t, w, &detail)
	require.Len(t, detail.Data.Admins, 1)
	require.Equal(t, "head@nitt.edu", detail.Data.Admins[0].Email)
}

func TestClubHandler_DetailNotFound(t *testing.T) {
	env := setupHandlerTestEnv(t)

	r := gin.New()
	r.GET("/api/clubs/:name", env.clubHandler.Detail)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/clubs/Nope", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestClubHandler_SearchIgnoresAccents(t *testing.T) {
	env := setupHandlerTestEnv(t)

	env.seedClub(t, "Cinéma Club", "head@nitt.edu")

	r := gin.New()
	r.GET("/api/clubs/search", env.clubHandler.Search)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/clubs/search?query=cinema", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Data []dto.ClubDTO `json:"data"`
	}
	requireJSON(t, w, &list)
	require.Len(t, list.Data, 1)
}

func TestClubHandler_EditByClubAdmin(t *testing.T) {
	env := setupHandlerTestEnv(t)

	env.seedClub(t, "Robotics", "head@nitt.edu")

	var head models.User
	require.NoError(t, env.db.Where("email = ?", "head@nitt.edu").First(&head).Error)

	w := httptest.NewRecorder()
	c := formContext(w, &head, url.Values{
		"abstract": {"updated abstract"},
	})
	c.Params = gin.Params{{Key: "name", Value: "Robotics"}}

	env.clubHandler.Edit(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.ClubDTO
	requireJSON(t, w, &response)
	require.Equal(t, "updated abstract", response.Abstract)
}

func TestClubHandler_EditDeniedWithoutMembership(t *testing.T) {
	env := setupHandlerTestEnv(t)

	env.seedClub(t, "Robotics", "head@nitt.edu")
	outsider := env.createUser(t, "outsider@nitt.edu", "Outsider", false)

	w := httptest.NewRecorder()
	c := formContext(w, outsider, url.Values{
		"abstract": {"updated abstract"},
	})
	c.Params = gin.Params{{Key: "name", Value: "Robotics"}}

	env.clubHandler.Edit(c)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestClubHandler_DeleteBlockedByProjects(t *testing.T) {
	env := setupHandlerTestEnv(t)

	env.seedClub(t, "Robotics", "head@nitt.edu")
	admin := env.createUser(t, "admin@nitt.edu", "Overall Admin", true)

	var head models.User
	require.NoError(t, env.db.Where("email = ?", "head@nitt.edu").First(&head).Error)
	_, err := env.projectService.Create(env.callerFor(&head), services.CreateProjectInput{
		Name:      "Line Follower",
		HeadEmail: head.Email,
		ClubName:  "Robotics",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c := callerContext(w, admin)
	c.Request = httptest.NewRequest(http.MethodDelete, "/", nil)
	c.Params = gin.Params{{Key: "name", Value: "Robotics"}}

	env.clubHandler.Delete(c)

	require.Equal(t, http.StatusConflict, w.Code)
}
