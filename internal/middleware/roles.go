package middleware

import (
	"net/http"

	"velora_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

// Le contrôle d'accès est volontairement centralisé ici : les handlers ne
// comparent jamais un rôle eux-mêmes. Un rôle insuffisant répond 401 comme
// un token absent : on ne distingue pas les deux côté client.

// IsStaff : admin et super admin accèdent au back office
func IsStaff(role string) bool {
	return role == models.RoleAdmin || role == models.RoleSuperAdmin
}

// RequireAdmin protège les routes du back office
func RequireAdmin(c *gin.Context) {
	role := c.GetString("role")
	if !IsStaff(role) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Accès réservé aux administrateurs"})
		c.Abort()
		return
	}
	c.Next()
}

// RequireSuperAdmin protège la gestion des utilisateurs et des rôles
func RequireSuperAdmin(c *gin.Context) {
	if c.GetString("role") != models.RoleSuperAdmin {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Accès réservé au super administrateur"})
		c.Abort()
		return
	}
	c.Next()
}
