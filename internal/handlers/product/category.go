package product

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"velora_back_end/internal/cache"
	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
)

// CreateCategory crée une catégorie (back office)
func CreateCategory(c *gin.Context) {
	var cat models.Category

	if err := c.ShouldBindJSON(&cat); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if cat.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le champ 'name' est obligatoire"})
		return
	}
	if cat.Slug == "" {
		cat.Slug = strings.ToLower(strings.ReplaceAll(cat.Name, " ", "-"))
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	cat.ID = gocql.TimeUUID()
	now := time.Now()
	cat.CreatedAt = &now

	if err := session.Query(`INSERT INTO categories (category_id, name, slug, description, image_url, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		cat.ID, cat.Name, cat.Slug, cat.Description, cat.ImageURL, cat.CreatedAt).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création catégorie: " + err.Error()})
		return
	}

	cache.InvalidateCatalogCache(context.Background())

	c.JSON(http.StatusCreated, cat)
}

// GetAllCategories liste les catégories (avec cache Redis)
func GetAllCategories(c *gin.Context) {
	ctx := context.Background()

	if val, err := database.RedisClient.Get(ctx, cache.CategoryCacheKey).Result(); err == nil && val != "" {
		var cached []models.Category
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

	iter := session.Query(`SELECT category_id, name, slug, description, image_url, created_at FROM categories`).Iter()

	categories := []models.Category{}
	var cat models.Category
	var createdAt time.Time
	for iter.Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.Description, &cat.ImageURL, &createdAt) {
		t := createdAt
		cat.CreatedAt = &t
		categories = append(categories, cat)
		cat = models.Category{}
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture catégories: " + err.Error()})
		return
	}

	data, _ := json.Marshal(categories)
	database.RedisClient.Set(ctx, cache.CategoryCacheKey, data, cache.CatalogCacheTTL)

	c.JSON(http.StatusOK, categories)
}

// UpdateCategory modifie une catégorie (back office)
func UpdateCategory(c *gin.Context) {
	categoryID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID catégorie invalide"})
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Slug        *string `json:"slug"`
		Description *string `json:"description"`
		ImageURL    *string `json:"image_url"`
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

	var cat models.Category
	var createdAt time.Time
	err = session.Query(`SELECT category_id, name, slug, description, image_url, created_at FROM categories WHERE category_id = ?`, categoryID).
		Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.Description, &cat.ImageURL, &createdAt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Catégorie introuvable"})
		return
	}
	cat.CreatedAt = &createdAt

	if req.Name != nil {
		cat.Name = *req.Name
	}
	if req.Slug != nil {
		cat.Slug = *req.Slug
	}
	if req.Description != nil {
		cat.Description = *req.Description
	}
	if req.ImageURL != nil {
		cat.ImageURL = *req.ImageURL
	}

	if err := session.Query(`UPDATE categories SET name = ?, slug = ?, description = ?, image_url = ? WHERE category_id = ?`,
		cat.Name, cat.Slug, cat.Description, cat.ImageURL, categoryID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour catégorie"})
		return
	}

	cache.InvalidateCatalogCache(context.Background())

	c.JSON(http.StatusOK, cat)
}

// DeleteCategory supprime une catégorie. Refusé tant que des produits y sont
// rattachés, actifs ou non.
func DeleteCategory(c *gin.Context) {
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

	var productID gocql.UUID
	if err := session.Query(`SELECT product_id FROM products_by_category WHERE category_id = ? LIMIT 1`, categoryID).Scan(&productID); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Des produits sont encore rattachés à cette catégorie"})
		return
	} else if err != gocql.ErrNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur vérification catégorie"})
		return
	}

	if err := session.Query(`DELETE FROM categories WHERE category_id = ?`, categoryID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression catégorie"})
		return
	}

	cache.InvalidateCatalogCache(context.Background())

	c.JSON(http.StatusOK, gin.H{"message": "Catégorie supprimée"})
}
