package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/deltanitt/clubs-api/internal/authz"
	"github.com/deltanitt/clubs-api/internal/constants"
	"github.com/deltanitt/clubs-api/internal/database"
	"github.com/deltanitt/clubs-api/internal/models"
	"github.com/deltanitt/clubs-api/internal/repository"
	"github.com/deltanitt/clubs-api/internal/services"
	"github.com/deltanitt/clubs-api/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ProjectHandlerTestSuite defines the test suite for ProjectHandler
type ProjectHandlerTestSuite struct {
	suite.Suite
	db             *gorm.DB
	handler        *ProjectHandler
	clubService    *services.ClubService
	projectService *services.ProjectService
}

// SetupTest runs before each test
func (suite *ProjectHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Club{},
		&models.Project{},
		&models.ProjectMember{},
		&models.ClubPrivilege{},
		&models.ProjectPrivilege{},
		&models.ClubMembership{},
		&models.ProjectMembership{},
		&models.UserSession{},
	)
	suite.Require().NoError(err)
	suite.Require().NoError(database.SeedPrivileges(suite.db))

	database.SetDB(suite.db)

	blobs, err := storage.NewLocalStore(suite.T().TempDir(), "/media")
	suite.Require().NoError(err)

	userRepo := repository.NewUserRepository(suite.db)
	clubRepo := repository.NewClubRepository(suite.db)
	projectRepo := repository.NewProjectRepository(suite.db)
	membershipRepo := repository.NewMembershipRepository(suite.db)
	gate := authz.NewGate(membershipRepo)

	suite.clubService = services.NewClubService(clubRepo, projectRepo, userRepo, membershipRepo, gate)
	suite.projectService = services.NewProjectService(projectRepo, clubRepo, userRepo, membershipRepo, gate)
	suite.handler = NewProjectHandler(suite.projectService, blobs)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *ProjectHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper function to create test data
func (suite *ProjectHandlerTestSuite) createTestUser(email string, isAdmin bool) *models.User {
	user := &models.User{
		Email:        email,
		Name:         "User " + email,
		PasswordHash: "hashedpassword",
		IsAdmin:      isAdmin,
	}
	suite.db.Create(user)
	return user
}

func (suite *ProjectHandlerTestSuite) createTestClub(name string, head *models.User) *models.Club {
	admin := suite.createTestUser("seed-"+name+"@nitt.edu", true)
	club, err := suite.clubService.Create(
		authz.Caller{UserID: admin.ID, IsAdmin: true},
		services.CreateClubInput{Name: name, HeadEmail: head.Email},
	)
	suite.Require().NoError(err)
	return club
}

func (suite *ProjectHandlerTestSuite) createTestProject(name, clubName string, head *models.User) *models.Project {
	project, err := suite.projectService.Create(
		authz.Caller{UserID: head.ID},
		services.CreateProjectInput{Name: name, HeadEmail: head.Email, ClubName: clubName},
	)
	suite.Require().NoError(err)
	return project
}

// Helper function to create an authenticated form context, as the auth
// middleware would leave it
func (suite *ProjectHandlerTestSuite) createFormContext(form url.Values, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if user != nil {
		c.Set(constants.ContextKeyCaller, authz.Caller{UserID: user.ID, IsAdmin: user.IsAdmin})
	}
	return c, w
}

// TestCreateProject_Success tests project creation by a club Admin with a
// roster sent as a JSON members field
func (suite *ProjectHandlerTestSuite) TestCreateProject_Success() {
	head := suite.createTestUser("head@nitt.edu", false)
	suite.createTestClub("Robotics", head)

	members, err := json.Marshal([]map[string]string{
		{"name": "Alice"},
		{"name": "Bob"},
	})
	suite.Require().NoError(err)

	c, w := suite.createFormContext(url.Values{
		"name":    {"Line Follower"},
		"email":   {"head@nitt.edu"},
		"club":    {"Robotics"},
		"members": {string(members)},
	}, head)

	suite.handler.Create(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	project, err := suite.projectService.Detail("Line Follower")
	suite.Require().NoError(err)
	assert.Len(suite.T(), project.Roster, 2)
}

// TestCreateProject_NotClubAdmin tests that a user without club Admin
// cannot create a project under it
func (suite *ProjectHandlerTestSuite) TestCreateProject_NotClubAdmin() {
	head := suite.createTestUser("head@nitt.edu", false)
	suite.createTestClub("Robotics", head)
	outsider := suite.createTestUser("outsider@nitt.edu", false)

	c, w := suite.createFormContext(url.Values{
		"name":  {"Line Follower"},
		"email": {"outsider@nitt.edu"},
		"club":  {"Robotics"},
	}, outsider)

	suite.handler.Create(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestCreateProject_Unauthorized tests creation without authentication
func (suite *ProjectHandlerTestSuite) TestCreateProject_Unauthorized() {
	c, w := suite.createFormContext(url.Values{
		"name":  {"Line Follower"},
		"email": {"head@nitt.edu"},
		"club":  {"Robotics"},
	}, nil)

	suite.handler.Create(c)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestCreateProject_DuplicateName tests the global project name constraint
// across clubs
func (suite *ProjectHandlerTestSuite) TestCreateProject_DuplicateName() {
	head := suite.createTestUser("head@nitt.edu", false)
	suite.createTestClub("Robotics", head)
	other := suite.createTestUser("other@nitt.edu", false)
	suite.createTestClub("Aero", other)
	suite.createTestProject("Line Follower", "Robotics", head)

	c, w := suite.createFormContext(url.Values{
		"name":  {"Line Follower"},
		"email": {"other@nitt.edu"},
		"club":  {"Aero"},
	}, other)

	suite.handler.Create(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

// TestCreateProject_InvalidMembers tests rejection of a malformed members
// field
func (suite *ProjectHandlerTestSuite) TestCreateProject_InvalidMembers() {
	head := suite.createTestUser("head@nitt.edu", false)
	suite.createTestClub("Robotics", head)

	c, w := suite.createFormContext(url.Values{
		"name":    {"Line Follower"},
		"email":   {"head@nitt.edu"},
		"club":    {"Robotics"},
		"members": {"not-json"},
	}, head)

	suite.handler.Create(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestEditProject_ReplacesRoster tests that sending a members field
// replaces the stored roster wholesale
func (suite *ProjectHandlerTestSuite) TestEditProject_ReplacesRoster() {
	head := suite.createTestUser("head@nitt.edu", false)
	suite.createTestClub("Robotics", head)
	suite.createTestProject("Line Follower", "Robotics", head)

	members, err := json.Marshal([]map[string]string{{"name": "Carol"}})
	suite.Require().NoError(err)

	c, w := suite.createFormContext(url.Values{
		"abstract": {"now with PID control"},
		"members":  {string(members)},
	}, head)
	c.Params = gin.Params{{Key: "name", Value: "Line Follower"}}

	suite.handler.Edit(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	project, err := suite.projectService.Detail("Line Follower")
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "now with PID control", project.Abstract)
	suite.Require().Len(project.Roster, 1)
	assert.Equal(suite.T(), "Carol", project.Roster[0].Name)
}

// TestEditProject_KeepsRosterWhenOmitted tests that edits without a
// members field leave the roster untouched
func (suite *ProjectHandlerTestSuite) TestEditProject_KeepsRosterWhenOmitted() {
	head := suite.createTestUser("head@nitt.edu", false)
	suite.createTestClub("Robotics", head)
	project, err := suite.projectService.Create(
		authz.Caller{UserID: head.ID},
		services.CreateProjectInput{
			Name:      "Line Follower",
			HeadEmail: head.Email,
			ClubName:  "Robotics",
			Roster:    []services.RosterEntry{{Name: "Alice"}},
		},
	)
	suite.Require().NoError(err)

	c, w := suite.createFormContext(url.Values{
		"abstract": {"updated"},
	}, head)
	c.Params = gin.Params{{Key: "name", Value: project.Name}}

	suite.handler.Edit(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	got, err := suite.projectService.Detail("Line Follower")
	suite.Require().NoError(err)
	assert.Len(suite.T(), got.Roster, 1)
}

// TestEditProject_DeniedForViewMember tests that a View membership is not
// enough to edit
func (suite *ProjectHandlerTestSuite) TestEditProject_DeniedForViewMember() {
	head := suite.createTestUser("head@nitt.edu", false)
	suite.createTestClub("Robotics", head)
	project := suite.createTestProject("Line Follower", "Robotics", head)

	viewer := suite.createTestUser("viewer@nitt.edu", false)
	membershipRepo := repository.NewMembershipRepository(suite.db)
	err := membershipRepo.GrantOrUpdate(models.ResourceProject, project.ID, viewer.ID, models.PrivilegeView)
	suite.Require().NoError(err)

	c, w := suite.createFormContext(url.Values{
		"abstract": {"updated"},
	}, viewer)
	c.Params = gin.Params{{Key: "name", Value: "Line Follower"}}

	suite.handler.Edit(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestEditProject_TechstackUpload tests a multipart edit that uploads
// techstack images
func (suite *ProjectHandlerTestSuite) TestEditProject_TechstackUpload() {
	head := suite.createTestUser("head@nitt.edu", false)
	suite.createTestClub("Robotics", head)
	suite.createTestProject("Line Follower", "Robotics", head)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("techstack", "arduino.png")
	suite.Require().NoError(err)
	_, err = part.Write([]byte("not really a png"))
	suite.Require().NoError(err)
	suite.Require().NoError(writer.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/", body)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())
	c.Set(constants.ContextKeyCaller, authz.Caller{UserID: head.ID})
	c.Params = gin.Params{{Key: "name", Value: "Line Follower"}}

	suite.handler.Edit(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	project, err := suite.projectService.Detail("Line Follower")
	suite.Require().NoError(err)
	suite.Require().Len(project.Techstack, 1)
	assert.True(suite.T(), strings.HasPrefix(project.Techstack[0], "/media/"))
}

// TestDeleteProject_Success tests deletion by the project Admin
func (suite *ProjectHandlerTestSuite) TestDeleteProject_Success() {
	head := suite.createTestUser("head@nitt.edu", false)
	suite.createTestClub("Robotics", head)
	suite.createTestProject("Line Follower", "Robotics", head)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/", nil)
	c.Set(constants.ContextKeyCaller, authz.Caller{UserID: head.ID})
	c.Params = gin.Params{{Key: "name", Value: "Line Follower"}}

	suite.handler.Delete(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	_, err := suite.projectService.Detail("Line Follower")
	assert.ErrorIs(suite.T(), err, services.ErrProjectNotFound)
}

// TestSearchProjects_MatchesClubName tests the public search across
// project, head, and club names
func (suite *ProjectHandlerTestSuite) TestSearchProjects_MatchesClubName() {
	head := suite.createTestUser("head@nitt.edu", false)
	suite.createTestClub("Robotics", head)
	suite.createTestProject("Line Follower", "Robotics", head)

	r := gin.New()
	r.GET("/api/projects/search", suite.handler.Search)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/projects/search?query=robot", nil))

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	projects := response["data"].([]interface{})
	suite.Require().Len(projects, 1)
	first := projects[0].(map[string]interface{})
	assert.Equal(suite.T(), "Line Follower", first["name"])
}

func TestProjectHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectHandlerTestSuite))
}
