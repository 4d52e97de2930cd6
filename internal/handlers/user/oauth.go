package user

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/markbates/goth/gothic"

	"velora_back_end/internal/models"
	"velora_back_end/internal/store"
	"velora_back_end/internal/utils"
)

// BeginAuth démarre le flow OAuth du provider demandé (google, facebook)
// GET /api/auth/:provider
func BeginAuth(c *gin.Context) {
	provider := c.Param("provider")

	q := c.Request.URL.Query()
	q.Set("provider", provider)
	c.Request.URL.RawQuery = q.Encode()

	gothic.BeginAuthHandler(c.Writer, c.Request)
}

// CallbackAuth termine le flow OAuth : trouve ou crée le compte, puis
// redirige vers le frontend avec le JWT
// GET /api/auth/:provider/callback
func CallbackAuth(c *gin.Context) {
	provider := c.Param("provider")

	q := c.Request.URL.Query()
	q.Set("provider", provider)
	c.Request.URL.RawQuery = q.Encode()

	gothUser, err := gothic.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		log.Printf("❌ Erreur OAuth %s: %v", provider, err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentification " + provider + " échouée"})
		return
	}

	ctx := context.Background()
	email := strings.ToLower(strings.TrimSpace(gothUser.Email))
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le provider n'a pas fourni d'email"})
		return
	}

	userID, err := store.GetUserIDByEmail(ctx, email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion"})
		return
	}

	var u *models.User
	if userID != "" {
		u, err = store.GetUserByID(ctx, userID)
		if err != nil || u == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture compte"})
			return
		}
	} else {
		// Premier login OAuth : création du compte, sans mot de passe
		u = &models.User{
			ID:        gocql.TimeUUID().String(),
			Email:     email,
			Name:      gothUser.Name,
			FirstName: gothUser.FirstName,
			LastName:  gothUser.LastName,
			Role:      models.RoleCustomer,
			Provider:  provider,
			CreatedAt: time.Now(),
		}
		if err := store.CreateUser(ctx, u); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création compte"})
			return
		}
		log.Printf("✅ Compte créé via %s pour %s", provider, email)
	}

	token, err := utils.GenerateJWT(*u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	frontend := os.Getenv("FRONTEND_URL")
	if frontend == "" {
		frontend = "http://localhost:3000"
	}
	c.Redirect(http.StatusTemporaryRedirect, frontend+"/auth/callback?token="+token)
}

// Logout invalide la session gothic côté serveur
// GET /api/auth/logout
func Logout(c *gin.Context) {
	gothic.Logout(c.Writer, c.Request)
	c.JSON(http.StatusOK, gin.H{"message": "Déconnecté"})
}
