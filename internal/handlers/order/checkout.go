// Package order expose les endpoints de placement de commande, pour les
// clients authentifiés comme pour les invités.
package order

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"velora_back_end/internal/checkout"
	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
	"velora_back_end/internal/store"
	"velora_back_end/internal/utils"
)

// Les stores Scylla sont sans état : un service partagé suffit
var svc = checkout.NewService(store.NewProductStore(), store.NewOrderStore(), store.NewCustomerStore())

// Checkout place une commande pour le client authentifié
// POST /api/orders
func Checkout(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	var req checkout.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	placed, err := svc.PlaceOrder(c.Request.Context(), userID, req)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}

	// Le panier Redis est vidé après coup ; les abonnés websocket sont notifiés
	ctx := context.Background()
	database.RedisClient.Del(ctx, "cart:"+userID)
	database.RedisClient.Publish(ctx, "cart_updates:"+userID, `{"event":"cleared"}`)

	go sendConfirmation(*placed)

	c.JSON(http.StatusCreated, placed)
}

// GuestCheckout place une commande invité, sans compte préalable
// POST /api/orders/guest
func GuestCheckout(c *gin.Context) {
	var req checkout.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	placed, err := svc.PlaceGuestOrder(c.Request.Context(), req)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}

	go sendConfirmation(*placed)

	c.JSON(http.StatusCreated, placed)
}

func respondCheckoutError(c *gin.Context, err error) {
	if checkout.IsClientError(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.Printf("❌ Erreur checkout: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors du placement de la commande"})
}

// sendConfirmation envoie l'email de confirmation avec le QR de suivi.
// Best effort : un échec d'envoi n'affecte pas la commande.
func sendConfirmation(o models.Order) {
	email := o.Shipping.Email
	if email == "" {
		return
	}

	qrPNG, err := utils.GenerateOrderTrackingQR(o.ID.String())
	if err != nil {
		log.Printf("⚠️ QR de suivi non généré pour %s: %v", o.ID, err)
		qrPNG = nil
	}

	html := utils.GenerateOrderConfirmationHTML(o)
	if err := utils.SendConfirmationEmail(email, "Confirmation de votre commande Velora", html, qrPNG); err != nil {
		log.Printf("⚠️ Email de confirmation non envoyé pour %s: %v", o.ID, err)
	}
}
