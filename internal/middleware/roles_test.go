package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"velora_back_end/internal/models"
)

func TestIsStaff(t *testing.T) {
	assert.True(t, IsStaff(models.RoleAdmin))
	assert.True(t, IsStaff(models.RoleSuperAdmin))
	assert.False(t, IsStaff(models.RoleCustomer))
	assert.False(t, IsStaff(""))
	assert.False(t, IsStaff("Admin")) // sensible à la casse
}

// roleRouter simule un token déjà vérifié portant le rôle donné
func roleRouter(guard gin.HandlerFunc, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/guarded", func(c *gin.Context) { c.Set("role", role) }, guard, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func requestGuarded(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))
	return w
}

func TestRequireAdmin(t *testing.T) {
	assert.Equal(t, http.StatusOK, requestGuarded(roleRouter(RequireAdmin, models.RoleAdmin)).Code)
	assert.Equal(t, http.StatusOK, requestGuarded(roleRouter(RequireAdmin, models.RoleSuperAdmin)).Code)

	// Un rôle insuffisant répond 401, comme une requête sans token
	assert.Equal(t, http.StatusUnauthorized, requestGuarded(roleRouter(RequireAdmin, models.RoleCustomer)).Code)
	assert.Equal(t, http.StatusUnauthorized, requestGuarded(roleRouter(RequireAdmin, "")).Code)
}

func TestRequireSuperAdmin(t *testing.T) {
	assert.Equal(t, http.StatusOK, requestGuarded(roleRouter(RequireSuperAdmin, models.RoleSuperAdmin)).Code)

	assert.Equal(t, http.StatusUnauthorized, requestGuarded(roleRouter(RequireSuperAdmin, models.RoleAdmin)).Code)
	assert.Equal(t, http.StatusUnauthorized, requestGuarded(roleRouter(RequireSuperAdmin, models.RoleCustomer)).Code)
}
