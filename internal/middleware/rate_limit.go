package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"velora_back_end/internal/database"

	"github.com/gin-gonic/gin"
)

const (
	LoginMaxAttempts    = 5
	CheckoutMaxAttempts = 10

	LoginCooldown    = 15 * time.Minute
	CheckoutCooldown = 1 * time.Minute
)

// LoginRateLimit limite les tentatives de connexion par email
func LoginRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Lire le body sans le consommer
		bodyBytes, _ := io.ReadAll(c.Request.Body)

		var input struct {
			Email string `json:"email"`
		}

		if err := json.Unmarshal(bodyBytes, &input); err != nil || input.Email == "" {
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			c.Next()
			return
		}

		// Remettre le body pour les handlers suivants
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		ctx := context.Background()
		cooldownKey := "login_cooldown:" + input.Email

		if database.Redis.Exists(ctx, cooldownKey).Val() > 0 {
			ttl := database.Redis.TTL(ctx, cooldownKey).Val()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       fmt.Sprintf("Trop de tentatives échouées. Réessayez dans %d minutes", int(ttl.Minutes())+1),
				"retry_after": int(ttl.Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RecordFailedLogin incrémente le compteur d'échecs et arme le cooldown
func RecordFailedLogin(ctx context.Context, email string) {
	key := "login_attempts:" + email
	attempts := database.Redis.Incr(ctx, key).Val()
	database.Redis.Expire(ctx, key, LoginCooldown)

	if attempts >= LoginMaxAttempts {
		database.Redis.Set(ctx, "login_cooldown:"+email, 1, LoginCooldown)
		database.Redis.Del(ctx, key)
	}
}

// ResetLoginAttempts efface le compteur après une connexion réussie
func ResetLoginAttempts(ctx context.Context, email string) {
	database.Redis.Del(ctx, "login_attempts:"+email)
}

// CheckoutRateLimit limite les placements de commande par IP : un client
// légitime ne poste pas dix commandes par minute
func CheckoutRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		key := "checkout_attempts:" + c.ClientIP()

		attempts := database.Redis.Incr(ctx, key).Val()
		if attempts == 1 {
			database.Redis.Expire(ctx, key, CheckoutCooldown)
		}

		if attempts > CheckoutMaxAttempts {
			ttl := database.Redis.TTL(ctx, key).Val()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Trop de commandes, réessayez dans un instant",
				"retry_after": int(ttl.Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
