package admin

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"velora_back_end/internal/cache"
	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
)

// ListUsers liste les comptes clients et staff (invités exclus par défaut)
// GET /api/admin/users?include_guests=true
func ListUsers(c *gin.Context) {
	includeGuests := c.Query("include_guests") == "true"

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT user_id, email, name, first_name, last_name, phone, role, provider, is_guest, created_at FROM users`).Iter()

	users := []models.User{}
	var u models.User
	var uid gocql.UUID
	for iter.Scan(&uid, &u.Email, &u.Name, &u.FirstName, &u.LastName, &u.Phone, &u.Role, &u.Provider, &u.IsGuest, &u.CreatedAt) {
		if u.IsGuest && !includeGuests {
			u = models.User{}
			continue
		}
		u.ID = uid.String()
		users = append(users, u)
		u = models.User{}
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture utilisateurs: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, users)
}

// UpdateUserRole change le rôle d'un compte. Réservé au super admin :
// c'est la seule opération qui fait entrer ou sortir du staff.
// PUT /api/admin/users/:id/role
func UpdateUserRole(c *gin.Context) {
	userID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID utilisateur invalide"})
		return
	}

	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le champ 'role' est obligatoire"})
		return
	}

	switch req.Role {
	case models.RoleCustomer, models.RoleAdmin, models.RoleSuperAdmin:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rôle inconnu: " + req.Role})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var isGuest bool
	if err := session.Query(`SELECT is_guest FROM users WHERE user_id = ?`, userID).Scan(&isGuest); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}
	if isGuest {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Un compte invité ne peut pas recevoir de rôle"})
		return
	}

	if err := session.Query(`UPDATE users SET role = ? WHERE user_id = ?`, req.Role, userID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour rôle"})
		return
	}

	// Le JWT en circulation garde l'ancien rôle jusqu'à expiration ;
	// le cache, lui, est invalidé tout de suite
	cache.InvalidateUserCache(context.Background(), userID.String())

	c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": req.Role})
}
