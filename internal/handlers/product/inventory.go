package product

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"velora_back_end/internal/cache"
	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
	"velora_back_end/internal/store"
)

// UpdateStock ajuste le stock d'un produit (back office).
// type = "restock" : quantity s'ajoute au stock courant.
// type = "adjustment" : quantity devient le stock absolu (inventaire).
func UpdateStock(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	var req struct {
		Type     string `json:"type" binding:"required"`
		Quantity int    `json:"quantity"`
		Reason   string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Type != "restock" && req.Type != "adjustment" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Type de mouvement invalide (restock ou adjustment)"})
		return
	}
	if req.Type == "restock" && req.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La quantité de réassort doit être positive"})
		return
	}
	if req.Type == "adjustment" && req.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le stock ne peut pas être négatif"})
		return
	}

	ctx := context.Background()
	products := store.NewProductStore()

	p, err := products.GetProduct(ctx, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produit"})
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	prevStock := p.Stock
	var newStock int

	switch req.Type {
	case "restock":
		// CAS add-back : un décrément concurrent (commande en cours) n'est
		// jamais écrasé
		if err := products.RestoreStock(ctx, productID, req.Quantity); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Stock sous contention, réessayez"})
			return
		}
		newStock = prevStock + req.Quantity
	case "adjustment":
		newStock = req.Quantity
		if err := setStockCAS(ctx, productID, newStock); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Stock sous contention, réessayez"})
			return
		}
	}

	userID := c.GetString("user_id")
	movement := models.StockMovement{
		ID:        gocql.TimeUUID(),
		ProductID: productID,
		Type:      req.Type,
		Quantity:  req.Quantity,
		PrevStock: prevStock,
		NewStock:  newStock,
		Reason:    req.Reason,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	if err := products.RecordMovement(ctx, movement); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement mouvement"})
		return
	}

	cache.InvalidateCatalogCache(ctx)
	cache.InvalidateProductCache(ctx, productID.String())

	c.JSON(http.StatusOK, gin.H{
		"product_id": productID,
		"prev_stock": prevStock,
		"new_stock":  newStock,
		"movement":   movement,
	})
}

// setStockCAS force une valeur absolue de stock sous CAS
func setStockCAS(ctx context.Context, productID gocql.UUID, newStock int) error {
	session, err := database.GetProductsSession()
	if err != nil {
		return err
	}

	var stock int
	if err := session.Query(`SELECT stock FROM products WHERE product_id = ?`, productID).
		WithContext(ctx).Scan(&stock); err != nil {
		return err
	}

	for attempt := 0; attempt < 8; attempt++ {
		applied, err := session.Query(`UPDATE products SET stock = ?, updated_at = ? WHERE product_id = ? IF stock = ?`,
			newStock, time.Now(), productID, stock).WithContext(ctx).ScanCAS(&stock)
		if err != nil {
			return err
		}
		if applied {
			return nil
		}
	}
	return gocql.ErrTimeoutNoResponse
}

// GetStockMovements liste l'historique des mouvements d'un produit
func GetStockMovements(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	limit := 50
	if l, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil && l > 0 && l <= 500 {
		limit = l
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT id, type, quantity, prev_stock, new_stock, reason, order_id, user_id, created_at
		FROM stock_movements WHERE product_id = ? LIMIT ?`, productID, limit).Iter()

	movements := []models.StockMovement{}
	var m models.StockMovement
	var orderID gocql.UUID
	for iter.Scan(&m.ID, &m.Type, &m.Quantity, &m.PrevStock, &m.NewStock, &m.Reason, &orderID, &m.UserID, &m.CreatedAt) {
		m.ProductID = productID
		if orderID != (gocql.UUID{}) {
			id := orderID
			m.OrderID = &id
		}
		movements = append(movements, m)
		m = models.StockMovement{}
		orderID = gocql.UUID{}
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture mouvements: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, movements)
}

// GetStockAlerts liste les alertes stock non résolues
func GetStockAlerts(c *gin.Context) {
	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// resolved_at est forcément null ici : seules les alertes non résolues
	// sont retournées
	iter := session.Query(`SELECT id, product_id, product_name, current_stock, threshold_stock, alert_type, is_resolved, created_at
		FROM stock_alerts WHERE is_resolved = false`).Iter()

	alerts := []models.StockAlert{}
	var a models.StockAlert
	for iter.Scan(&a.ID, &a.ProductID, &a.ProductName, &a.CurrentStock, &a.ThresholdStock, &a.AlertType, &a.IsResolved, &a.CreatedAt) {
		alerts = append(alerts, a)
		a = models.StockAlert{}
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture alertes: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, alerts)
}

// ResolveStockAlert marque une alerte comme traitée
func ResolveStockAlert(c *gin.Context) {
	alertID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID alerte invalide"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query(`UPDATE stock_alerts SET is_resolved = true, resolved_at = ? WHERE id = ?`,
		time.Now(), alertID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur résolution alerte"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Alerte résolue"})
}

// GetInventoryStats agrège l'état de l'inventaire pour le back office
func GetInventoryStats(c *gin.Context) {
	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT price, stock, low_stock_threshold, is_active FROM products`).Iter()

	var stats models.InventoryStats
	var price float64
	var stock, threshold int
	var isActive bool

	for iter.Scan(&price, &stock, &threshold, &isActive) {
		if !isActive {
			continue
		}
		if threshold == 0 {
			threshold = 10
		}
		stats.TotalProducts++
		stats.TotalValue += price * float64(stock)
		switch {
		case stock == 0:
			stats.OutOfStockProducts++
		case stock <= threshold:
			stats.LowStockProducts++
		}
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur calcul statistiques: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}
