package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShubhenduKH/TestMyBlood/internal/model"
	"github.com/ShubhenduKH/TestMyBlood/internal/repository/repotest"
	"github.com/ShubhenduKH/TestMyBlood/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setup(t *testing.T) (*gin.Engine, auth.JWTService, *repotest.UserStore) {
	t.Helper()
	users := repotest.NewUserStore()
	jwt := auth.NewJWTService("test-secret", time.Hour)

	r := gin.New()
	r.GET("/me", Auth(jwt, users), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": CurrentUser(c).ID})
	})
	r.GET("/admin", Auth(jwt, users), RequireRole(model.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, jwt, users
}

func request(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthAcceptsValidToken(t *testing.T) {
	r, jwt, users := setup(t)
	user := users.Add(&model.User{Name: "Asha", Email: "a@b.com", Role: model.RolePatient, IsActive: true})
	token, err := jwt.GenerateToken(user)
	require.NoError(t, err)

	w := request(r, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRejectsMissingOrMalformedHeader(t *testing.T) {
	r, _, _ := setup(t)

	assert.Equal(t, http.StatusUnauthorized, request(r, "/me", "").Code)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsTamperedToken(t *testing.T) {
	r, _, users := setup(t)
	user := users.Add(&model.User{Name: "Asha", Email: "a@b.com", Role: model.RolePatient, IsActive: true})

	forged, err := auth.NewJWTService("other-secret", time.Hour).GenerateToken(user)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, request(r, "/me", forged).Code)
}

func TestAuthLocksOutDeactivatedUser(t *testing.T) {
	r, jwt, users := setup(t)
	user := users.Add(&model.User{Name: "Asha", Email: "a@b.com", Role: model.RolePatient, IsActive: true})
	token, err := jwt.GenerateToken(user)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, request(r, "/me", token).Code)

	// Deactivation takes effect immediately, before token expiry.
	require.NoError(t, users.SetActive(context.Background(), user.ID, false))
	assert.Equal(t, http.StatusForbidden, request(r, "/me", token).Code)
}

func TestAuthRejectsDeletedUser(t *testing.T) {
	r, jwt, _ := setup(t)
	ghost := &model.User{ID: 999, Email: "ghost@b.com", Role: model.RolePatient}
	token, err := jwt.GenerateToken(ghost)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, request(r, "/me", token).Code)
}

func TestRequireRole(t *testing.T) {
	r, jwt, users := setup(t)
	patient := users.Add(&model.User{Name: "P", Email: "p@b.com", Role: model.RolePatient, IsActive: true})
	admin := users.Add(&model.User{Name: "A", Email: "a@b.com", Role: model.RoleAdmin, IsActive: true})

	patientToken, err := jwt.GenerateToken(patient)
	require.NoError(t, err)
	adminToken, err := jwt.GenerateToken(admin)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, request(r, "/admin", patientToken).Code)
	assert.Equal(t, http.StatusOK, request(r, "/admin", adminToken).Code)
}
