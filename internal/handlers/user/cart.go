package user

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/redis/go-redis/v9"

	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
	"velora_back_end/internal/store"
)

// Le panier vit dans Redis, une clé par client. Les mutations sont publiées
// sur un canal pub/sub consommé par le websocket (multi-onglets).

func cartKey(userID string) string { return "cart:" + userID }

func cartChannel(userID string) string { return "cart_updates:" + userID }

func loadCart(ctx context.Context, userID string) (models.Cart, error) {
	cart := models.Cart{UserID: userID, Items: []models.CartItem{}}

	data, err := database.RedisClient.Get(ctx, cartKey(userID)).Result()
	if err == redis.Nil {
		return cart, nil
	}
	if err != nil {
		return cart, err
	}

	if err := json.Unmarshal([]byte(data), &cart.Items); err != nil {
		return cart, err
	}
	return cart, nil
}

func saveCart(ctx context.Context, cart models.Cart) error {
	data, err := json.Marshal(cart.Items)
	if err != nil {
		return err
	}
	return database.RedisClient.Set(ctx, cartKey(cart.UserID), data, 0).Err()
}

func publishCartEvent(ctx context.Context, userID, event string, cart models.Cart) {
	payload, _ := json.Marshal(gin.H{"event": event, "items": cart.Items})
	database.RedisClient.Publish(ctx, cartChannel(userID), payload)
}

// GetCart retourne le panier du client connecté
// GET /api/cart
func GetCart(c *gin.Context) {
	userID := c.GetString("user_id")
	ctx := context.Background()

	cart, err := loadCart(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}

	c.JSON(http.StatusOK, cart)
}

// AddToCart ajoute (ou cumule) une ligne dans le panier
// POST /api/cart
func AddToCart(c *gin.Context) {
	userID := c.GetString("user_id")

	var req struct {
		ProductID string `json:"product_id" binding:"required"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	pid, err := gocql.ParseUUID(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	ctx := context.Background()

	// Le produit doit exister et être actif ; son prix affiché dans le panier
	// reste indicatif, le checkout relit toujours le prix serveur
	product, err := store.NewProductStore().GetProduct(ctx, pid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produit"})
		return
	}
	if product == nil || !product.IsActive {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	cart, err := loadCart(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == req.ProductID {
			cart.Items[i].Quantity += req.Quantity
			found = true
			break
		}
	}
	if !found {
		item := models.CartItem{
			ProductID: req.ProductID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  req.Quantity,
		}
		if len(product.ImageURLs) > 0 {
			item.ImageURL = product.ImageURLs[0]
		}
		cart.Items = append(cart.Items, item)
	}

	if err := saveCart(ctx, cart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur sauvegarde panier"})
		return
	}
	publishCartEvent(ctx, userID, "updated", cart)

	c.JSON(http.StatusOK, cart)
}

// UpdateCartItem change la quantité d'une ligne (0 = suppression)
// PUT /api/cart/:productId
func UpdateCartItem(c *gin.Context) {
	userID := c.GetString("user_id")
	productID := c.Param("productId")

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La quantité ne peut pas être négative"})
		return
	}

	ctx := context.Background()
	cart, err := loadCart(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}

	updated := cart.Items[:0]
	found := false
	for _, item := range cart.Items {
		if item.ProductID == productID {
			found = true
			if req.Quantity == 0 {
				continue
			}
			item.Quantity = req.Quantity
		}
		updated = append(updated, item)
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article absent du panier"})
		return
	}
	cart.Items = updated

	if err := saveCart(ctx, cart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur sauvegarde panier"})
		return
	}
	publishCartEvent(ctx, userID, "updated", cart)

	c.JSON(http.StatusOK, cart)
}

// RemoveFromCart supprime une ligne du panier
// DELETE /api/cart/:productId
func RemoveFromCart(c *gin.Context) {
	userID := c.GetString("user_id")
	productID := c.Param("productId")

	ctx := context.Background()
	cart, err := loadCart(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}

	updated := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != productID {
			updated = append(updated, item)
		}
	}
	cart.Items = updated

	if err := saveCart(ctx, cart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur sauvegarde panier"})
		return
	}
	publishCartEvent(ctx, userID, "updated", cart)

	c.JSON(http.StatusOK, cart)
}

// ClearCart vide le panier
// DELETE /api/cart
func ClearCart(c *gin.Context) {
	userID := c.GetString("user_id")
	ctx := context.Background()

	if err := database.RedisClient.Del(ctx, cartKey(userID)).Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression panier"})
		return
	}
	publishCartEvent(ctx, userID, "cleared", models.Cart{UserID: userID, Items: []models.CartItem{}})

	c.JSON(http.StatusOK, gin.H{"message": "Panier vidé"})
}
