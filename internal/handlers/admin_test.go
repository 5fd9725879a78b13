package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/deltanitt/clubs-api/internal/models"
	"github.com/stretchr/testify/require"
)

func TestAdminHandler_AssignClubHead(t *testing.T) {
	env := setupHandlerTestEnv(t)

	env.seedClub(t, "Robotics", "head@nitt.edu")
	newHead := env.createUser(t, "newhead@nitt.edu", "New Head", false)

	var head models.User
	require.NoError(t, env.db.Where("email = ?", "head@nitt.edu").First(&head).Error)

	w := httptest.NewRecorder()
	c := formContext(w, &head, url.Values{
		"name":       {"Robotics"},
		"user_email": {"newhead@nitt.edu"},
	})

	env.adminHandler.AssignClubHead(c)

	require.Equal(t, http.StatusOK, w.Code)

	var club models.Club
	require.NoError(t, env.db.Where("name = ?", "Robotics").First(&club).Error)
	require.NotNil(t, club.HeadID)
	require.Equal(t, newHead.ID, *club.HeadID)
}

func TestAdminHandler_AssignClubHeadDeniedForOutsider(t *testing.T) {
	env := setupHandlerTestEnv(t)

	env.seedClub(t, "Robotics", "head@nitt.edu")
	outsider := env.createUser(t, "outsider@nitt.edu", "Outsider", false)

	w := httptest.NewRecorder()
	c := formContext(w, outsider, url.Values{
		"name":       {"Robotics"},
		"user_email": {"outsider@nitt.edu"},
	})

	env.adminHandler.AssignClubHead(c)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminHandler_RemoveClubHeadClearsHead(t *testing.T) {
	env := setupHandlerTestEnv(t)

	env.seedClub(t, "Robotics", "head@nitt.edu")
	admin := env.createUser(t, "admin@nitt.edu", "Overall Admin", true)

	w := httptest.NewRecorder()
	c := formContext(w, admin, url.Values{
		"name":       {"Robotics"},
		"user_email": {"head@nitt.edu"},
	})

	env.adminHandler.RemoveClubHead(c)

	require.Equal(t, http.StatusOK, w.Code)

	var club models.Club
	require.NoError(t, env.db.Where("name = ?", "Robotics").First(&club).Error)
	require.Nil(t, club.HeadID)
}

func TestAdminHandler_RemoveClubHeadNotAMember(t *testing.T) {
	env := setupHandlerTestEnv(t)

	env.seedClub(t, "Robotics", "head@nitt.edu")
	admin := env.createUser(t, "admin@nitt.edu", "Overall Admin", true)
	env.createUser(t, "stranger@nitt.edu", "Stranger", false)

	w := httptest.NewRecorder()
	c := formContext(w, admin, url.Values{
		"name":       {"Robotics"},
		"user_email": {"stranger@nitt.edu"},
	})

	env.adminHandler.RemoveClubHead(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminHandler_DashboardListsOnlyAdminClubs(t *testing.T) {
	env := setupHandlerTestEnv(t)

	env.seedClub(t, "Robotics", "head@nitt.edu")
	env.seedClub(t, "Aero", "aerohead@nitt.edu")

	var head models.User
	require.NoError(t, env.db.Where("email = ?", "head@nitt.edu").First(&head).Error)

	w := httptest.NewRecorder()
	c := callerContext(w, &head)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	env.adminHandler.Dashboard(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data []struct {
			Club struct {
				Name string `json:"name"`
			} `json:"club"`
		} `json:"data"`
	}
	requireJSON(t, w, &response)
	require.Len(t, response.Data, 1)
	require.Equal(t, "Robotics", response.Data[0].Club.Name)
}
