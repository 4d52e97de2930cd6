package user

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"velora_back_end/internal/models"
	"velora_back_end/internal/store"
)

// orderReader découple le handler du store Scylla pour les tests
type orderReader interface {
	FindByID(ctx context.Context, orderID gocql.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]store.OrderSummary, error)
}

var orders orderReader = store.NewOrderStore()

// GetMyOrders liste les commandes du client connecté, les plus récentes
// d'abord
// GET /api/orders
func GetMyOrders(c *gin.Context) {
	userID := c.GetString("user_id")

	limit := 50
	if l, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		limit = l
	}

	summaries, err := orders.ListByUser(context.Background(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commandes"})
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// GetOrderByID retourne le détail d'une commande du client connecté.
// Une commande d'un autre client renvoie 404, pas 403 : on ne confirme
// pas l'existence d'une commande qui ne vous appartient pas.
// GET /api/orders/:id
func GetOrderByID(c *gin.Context) {
	userID := c.GetString("user_id")

	orderID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	o, err := orders.FindByID(context.Background(), orderID)
	if errors.Is(err, store.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commande"})
		return
	}

	if o.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	c.JSON(http.StatusOK, o)
}
