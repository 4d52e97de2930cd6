package product

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"velora_back_end/internal/cache"
	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
	"velora_back_end/internal/services"
)

// CreateProduct crée un produit (back office)
func CreateProduct(c *gin.Context) {
	var p models.Product

	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if p.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le champ 'name' est obligatoire"})
		return
	}
	if p.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le prix ne peut pas être négatif"})
		return
	}
	if p.Stock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le stock ne peut pas être négatif"})
		return
	}
	if p.CategoryID == (gocql.UUID{}) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le champ 'category_id' est obligatoire"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// ✅ Vérifie la catégorie
	var categoryName string
	if err := session.Query(`SELECT name FROM categories WHERE category_id = ?`, p.CategoryID).Scan(&categoryName); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Catégorie introuvable"})
		return
	}

	p.ID = gocql.TimeUUID()
	p.IsActive = true
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	query := `INSERT INTO products (product_id, name, description, price, stock, low_stock_threshold, sku, category_id, image_urls, tags, is_active, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if err := session.Query(query, p.ID, p.Name, p.Description, p.Price, p.Stock, p.LowStockThreshold,
		p.SKU, p.CategoryID, p.ImageURLs, p.Tags, p.IsActive, p.CreatedAt, p.UpdatedAt).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création produit: " + err.Error()})
		return
	}

	// ✅ Dénormalisation pour les requêtes par catégorie
	if err := session.Query(`INSERT INTO products_by_category (category_id, product_id, name, price, stock, is_active) VALUES (?, ?, ?, ?, ?, ?)`,
		p.CategoryID, p.ID, p.Name, p.Price, p.Stock, p.IsActive).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur indexation catégorie: " + err.Error()})
		return
	}

	// 🔄 Indexation Elasticsearch + invalidation cache
	go services.IndexProduct(p)
	cache.InvalidateCatalogCache(context.Background())

	c.JSON(http.StatusCreated, p)
}

// GetAllProducts liste le catalogue actif (avec cache Redis)
func GetAllProducts(c *gin.Context) {
	ctx := context.Background()

	// ✅ Vérifie le cache Redis
	if val, err := database.RedisClient.Get(ctx, cache.CatalogCacheKey).Result(); err == nil && val != "" {
		var cached []models.Product
		if err := json.Unmarshal([]byte(val), &cached); err == nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT product_id, name, description, price, stock, low_stock_threshold, sku, category_id, image_urls, tags, is_active, created_at, updated_at FROM products`).Iter()

	products := []models.Product{}
	var p models.Product

	for iter.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.LowStockThreshold,
		&p.SKU, &p.CategoryID, &p.ImageURLs, &p.Tags, &p.IsActive, &p.CreatedAt, &p.UpdatedAt) {
		if p.IsActive {
			products = append(products, p)
		}
		p = models.Product{} // Reset pour la prochaine itération
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produits: " + err.Error()})
		return
	}

	// ✅ Met en cache
	data, _ := json.Marshal(products)
	database.RedisClient.Set(ctx, cache.CatalogCacheKey, data, cache.CatalogCacheTTL)

	c.JSON(http.StatusOK, products)
}

// GetProduct retourne la fiche d'un produit actif
func GetProduct(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	ctx := context.Background()
	cacheKey := cache.ProductKey(productID.String())

	// ✅ Vérifie le cache Redis
	if val, err := database.RedisClient.Get(ctx, cacheKey).Result(); err == nil && val != "" {
		var cached models.Product
		if err := json.Unmarshal([]byte(val), &cached); err == nil && cached.IsActive {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var p models.Product
	err = database.QueryGetProductByID(session).Bind(productID).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.LowStockThreshold,
		&p.SKU, &p.CategoryID, &p.ImageURLs, &p.Tags, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil || !p.IsActive {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	// ✅ Met en cache la fiche
	data, _ := json.Marshal(p)
	database.RedisClient.Set(ctx, cacheKey, data, cache.ProductCacheTTL)

	c.JSON(http.StatusOK, p)
}

// GetProductsByCategory liste les produits actifs d'une catégorie
func GetProductsByCategory(c *gin.Context) {
	categoryID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID catégorie invalide"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT product_id, name, price, stock, is_active FROM products_by_category WHERE category_id = ?`, categoryID).Iter()

	type categoryProduct struct {
		ID       gocql.UUID `json:"id"`
		Name     string     `json:"name"`
		Price    float64    `json:"price"`
		Stock    int        `json:"stock"`
		IsActive bool       `json:"-"`
	}

	products := []categoryProduct{}
	var p categoryProduct
	for iter.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.IsActive) {
		if p.IsActive {
			products = append(products, p)
		}
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produits: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, products)
}

// UpdateProduct modifie la fiche d'un produit (back office).
// Le stock ne se modifie pas ici : voir les endpoints inventaire.
func UpdateProduct(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	var req struct {
		Name        *string   `json:"name"`
		Description *string   `json:"description"`
		Price       *float64  `json:"price"`
		SKU         *string   `json:"sku"`
		Tags        *[]string `json:"tags"`
		IsActive    *bool     `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var p models.Product
	err = session.Query(`SELECT product_id, name, description, price, stock, low_stock_threshold, sku, category_id, image_urls, tags, is_active, created_at, updated_at
		FROM products WHERE product_id = ?`, productID).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.LowStockThreshold,
		&p.SKU, &p.CategoryID, &p.ImageURLs, &p.Tags, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Le prix ne peut pas être négatif"})
			return
		}
		p.Price = *req.Price
	}
	if req.SKU != nil {
		p.SKU = *req.SKU
	}
	if req.Tags != nil {
		p.Tags = *req.Tags
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	p.UpdatedAt = time.Now()

	if err := session.Query(`UPDATE products SET name = ?, description = ?, price = ?, sku = ?, tags = ?, is_active = ?, updated_at = ? WHERE product_id = ?`,
		p.Name, p.Description, p.Price, p.SKU, p.Tags, p.IsActive, p.UpdatedAt, productID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour produit"})
		return
	}

	if err := session.Query(`UPDATE products_by_category SET name = ?, price = ?, is_active = ? WHERE category_id = ? AND product_id = ?`,
		p.Name, p.Price, p.IsActive, p.CategoryID, productID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour dénormalisation"})
		return
	}

	if p.IsActive {
		go services.IndexProduct(p)
	} else {
		go services.RemoveProductFromIndex(productID.String())
	}
	cache.InvalidateCatalogCache(context.Background())
	cache.InvalidateProductCache(context.Background(), productID.String())

	c.JSON(http.StatusOK, p)
}

// DeleteProduct désactive un produit. Jamais de suppression physique :
// des lignes de commande peuvent le référencer.
func DeleteProduct(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var categoryID gocql.UUID
	if err := session.Query(`SELECT category_id FROM products WHERE product_id = ?`, productID).Scan(&categoryID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	if err := session.Query(`UPDATE products SET is_active = false, updated_at = ? WHERE product_id = ?`,
		time.Now(), productID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur désactivation produit"})
		return
	}
	if err := session.Query(`UPDATE products_by_category SET is_active = false WHERE category_id = ? AND product_id = ?`,
		categoryID, productID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour dénormalisation"})
		return
	}

	go services.RemoveProductFromIndex(productID.String())
	cache.InvalidateCatalogCache(context.Background())
	cache.InvalidateProductCache(context.Background(), productID.String())

	c.JSON(http.StatusOK, gin.H{"message": "Produit désactivé"})
}
