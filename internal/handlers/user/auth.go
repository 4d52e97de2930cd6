// Package user regroupe les endpoints côté client : comptes, panier et
// historique de commandes.
package user

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"velora_back_end/internal/cache"
	"velora_back_end/internal/checkout"
	"velora_back_end/internal/middleware"
	"velora_back_end/internal/models"
	"velora_back_end/internal/store"
	"velora_back_end/internal/utils"
)

// Register crée un compte client local
// POST /api/auth/register
func Register(c *gin.Context) {
	var req struct {
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required,min=8"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Phone     string `json:"phone"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email et mot de passe (8 caractères min.) requis"})
		return
	}

	ctx := context.Background()
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := store.GetUserIDByEmail(ctx, email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur vérification email"})
		return
	}
	if existing != "" {
		c.JSON(http.StatusConflict, gin.H{"error": "Un compte existe déjà avec cet email"})
		return
	}

	if req.Phone != "" {
		req.Phone = checkout.NormalizePhone(req.Phone)
		if !checkout.IsValidPhone(req.Phone) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Numéro de téléphone invalide"})
			return
		}
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création compte"})
		return
	}

	u := models.User{
		ID:        gocql.TimeUUID().String(),
		Email:     email,
		Password:  hash,
		Name:      strings.TrimSpace(req.FirstName + " " + req.LastName),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      models.RoleCustomer,
		CreatedAt: time.Now(),
	}

	if err := store.CreateUser(ctx, &u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création compte: " + err.Error()})
		return
	}

	token, err := utils.GenerateJWT(u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "user": u})
}

// Login authentifie un compte local
// POST /api/auth/login
func Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email et mot de passe requis"})
		return
	}

	ctx := context.Background()
	email := strings.ToLower(strings.TrimSpace(req.Email))

	userID, err := store.GetUserIDByEmail(ctx, email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion"})
		return
	}
	if userID == "" {
		middleware.RecordFailedLogin(ctx, email)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Identifiants invalides"})
		return
	}

	u, err := store.GetUserByID(ctx, userID)
	if err != nil || u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Identifiants invalides"})
		return
	}

	ok, err := utils.VerifyPassword(req.Password, u.Password)
	if err != nil || !ok {
		middleware.RecordFailedLogin(ctx, email)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Identifiants invalides"})
		return
	}

	middleware.ResetLoginAttempts(ctx, email)

	token, err := utils.GenerateJWT(*u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": u})
}

// Me retourne le profil du client connecté (via le cache Redis)
// GET /api/me
func Me(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	u, err := cache.GetUserFromCache(context.Background(), userID)
	if err != nil || u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	c.JSON(http.StatusOK, u)
}
