// Package admin regroupe les endpoints du back office : commandes,
// utilisateurs et tableau de bord. Tous sont derrière RequireAdmin.
package admin

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"velora_back_end/internal/models"
	"velora_back_end/internal/store"
)

var orderStore = store.NewOrderStore()

// ListOrders pagine toutes les commandes, avec filtre de statut optionnel
// GET /api/admin/orders?status=pending&limit=50&page_state=...
func ListOrders(c *gin.Context) {
	status := models.OrderStatus(c.Query("status"))
	if status != "" && !models.IsValidStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statut inconnu: " + string(status)})
		return
	}

	limit := 50
	if l, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		limit = l
	}

	var pageState []byte
	if ps := c.Query("page_state"); ps != "" {
		decoded, err := base64.URLEncoding.DecodeString(ps)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "page_state invalide"})
			return
		}
		pageState = decoded
	}

	orders, nextPage, err := orderStore.ListAll(context.Background(), status, limit, pageState)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commandes"})
		return
	}

	resp := gin.H{"orders": orders, "count": len(orders)}
	if len(nextPage) > 0 {
		resp["next_page_state"] = base64.URLEncoding.EncodeToString(nextPage)
	}

	c.JSON(http.StatusOK, resp)
}

// GetOrder retourne le détail complet d'une commande
// GET /api/admin/orders/:id
func GetOrder(c *gin.Context) {
	orderID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	o, err := orderStore.FindByID(context.Background(), orderID)
	if errors.Is(err, store.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commande"})
		return
	}

	c.JSON(http.StatusOK, o)
}

// UpdateOrderStatus fait avancer une commande dans la machine à états
// PUT /api/admin/orders/:id
func UpdateOrderStatus(c *gin.Context) {
	orderID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le champ 'status' est obligatoire"})
		return
	}

	o, err := orderStore.UpdateStatus(context.Background(), orderID, models.OrderStatus(req.Status))
	if err != nil {
		var ite *store.InvalidTransitionError
		switch {
		case errors.Is(err, store.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		case errors.As(err, &ite):
			c.JSON(http.StatusBadRequest, gin.H{"error": ite.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour statut"})
		}
		return
	}

	c.JSON(http.StatusOK, o)
}
