package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/deltanitt/clubs-api/internal/authz"
	"github.com/deltanitt/clubs-api/internal/constants"
	"github.com/deltanitt/clubs-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func requireJSON(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func (env handlerTestEnv) createUser(t *testing.T, email, name string, isAdmin bool) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("pass1234"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		IsAdmin:      isAdmin,
	}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func (env handlerTestEnv) callerFor(user *models.User) authz.Caller {
	return authz.Caller{UserID: user.ID, IsAdmin: user.IsAdmin}
}

// callerContext builds a test context with an authenticated caller
// already resolved, as RequireAuth would leave it.
func callerContext(w *httptest.ResponseRecorder, user *models.User) *gin.Context {
	c, _ := gin.CreateTestContext(w)
	c.Set(constants.ContextKeyCaller, authz.Caller{
		UserID:  user.ID,
		IsAdmin: user.IsAdmin,
	})
	return c
}
