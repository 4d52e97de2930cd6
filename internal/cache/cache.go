package cache

import (
	"context"
	"encoding/json"
	"time"

	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
	"velora_back_end/internal/store"
)

const (
	UserCacheTTL     = 5 * time.Minute
	ProductCacheTTL  = 10 * time.Minute
	CatalogCacheTTL  = time.Hour
	CatalogCacheKey  = "products:all"
	CategoryCacheKey = "categories:all"
)

// UserKey et ProductKey sont les clés Redis par entité : écritures et
// invalidations doivent passer par elles pour rester alignées
func UserKey(userID string) string { return "user:" + userID }

func ProductKey(productID string) string { return "product:" + productID }

// GetUserFromCache récupère un utilisateur depuis Redis ou ScyllaDB
func GetUserFromCache(ctx context.Context, userID string) (*models.User, error) {
	key := UserKey(userID)

	// 1. Essayer le cache Redis
	data, err := database.Redis.Get(ctx, key).Result()
	if err == nil {
		var user models.User
		if json.Unmarshal([]byte(data), &user) == nil {
			return &user, nil
		}
	}

	// 2. Récupérer de ScyllaDB
	user, err := store.GetUserByID(ctx, userID)
	if err != nil || user == nil {
		return user, err
	}

	// 3. Mettre en cache
	jsonData, _ := json.Marshal(user)
	database.Redis.Set(ctx, key, jsonData, UserCacheTTL)

	return user, nil
}

// InvalidateUserCache invalide le cache d'un utilisateur
func InvalidateUserCache(ctx context.Context, userID string) {
	database.Redis.Del(ctx, UserKey(userID))
}

// InvalidateCatalogCache invalide les listes produits/catégories après une
// écriture back office
func InvalidateCatalogCache(ctx context.Context) {
	database.Redis.Del(ctx, CatalogCacheKey, CategoryCacheKey)
}

// InvalidateProductCache invalide la fiche produit mise en cache
func InvalidateProductCache(ctx context.Context, productID string) {
	database.Redis.Del(ctx, ProductKey(productID))
}
