// Package store contient les implémentations ScyllaDB des interfaces
// consommées par le checkout, plus les requêtes commandes/clients
// partagées avec le back office.
package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"velora_back_end/internal/database"
	"velora_back_end/internal/models"

	"github.com/gocql/gocql"
)

// Nombre d'essais CAS avant d'abandonner un décrément sous contention
const casMaxRetries = 8

type ScyllaProductStore struct{}

func NewProductStore() *ScyllaProductStore { return &ScyllaProductStore{} }

// GetProduct retourne (nil, nil) si le produit n'existe pas
func (s *ScyllaProductStore) GetProduct(ctx context.Context, id gocql.UUID) (*models.Product, error) {
	session, err := database.GetProductsSession()
	if err != nil {
		return nil, err
	}

	var p models.Product
	err = session.Query(`SELECT product_id, name, description, price, stock, low_stock_threshold, sku, category_id, image_urls, tags, is_active, created_at, updated_at
		FROM products WHERE product_id = ?`, id).WithContext(ctx).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.LowStockThreshold,
		&p.SKU, &p.CategoryID, &p.ImageURLs, &p.Tags, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// TryDecrementStock applique "décrémenter si le stock suffit" via une LWT.
// Le UPDATE ... IF stock = ? rejoue la lecture-comparaison côté serveur :
// deux commandes concurrentes pour la dernière unité ne peuvent pas passer
// toutes les deux.
func (s *ScyllaProductStore) TryDecrementStock(ctx context.Context, id gocql.UUID, qty int) (bool, int, error) {
	session, err := database.GetProductsSession()
	if err != nil {
		return false, 0, err
	}

	var stock int
	if err := session.Query(`SELECT stock FROM products WHERE product_id = ?`, id).
		WithContext(ctx).Scan(&stock); err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return false, 0, nil
		}
		return false, 0, err
	}

	for attempt := 0; attempt < casMaxRetries; attempt++ {
		if stock < qty {
			return false, stock, nil
		}

		// En cas d'échec du CAS, ScanCAS remplit stock avec la valeur courante
		applied, err := session.Query(`UPDATE products SET stock = ?, updated_at = ? WHERE product_id = ? IF stock = ?`,
			stock-qty, time.Now(), id, stock).WithContext(ctx).ScanCAS(&stock)
		if err != nil {
			return false, stock, err
		}
		if applied {
			return true, stock - qty, nil
		}
	}

	return false, stock, fmt.Errorf("contention trop forte sur le produit %s", id)
}

// RestoreStock ré-ajoute qty unités, également sous CAS pour ne pas écraser
// un décrément concurrent
func (s *ScyllaProductStore) RestoreStock(ctx context.Context, id gocql.UUID, qty int) error {
	session, err := database.GetProductsSession()
	if err != nil {
		return err
	}

	var stock int
	if err := session.Query(`SELECT stock FROM products WHERE product_id = ?`, id).
		WithContext(ctx).Scan(&stock); err != nil {
		return err
	}

	for attempt := 0; attempt < casMaxRetries; attempt++ {
		applied, err := session.Query(`UPDATE products SET stock = ?, updated_at = ? WHERE product_id = ? IF stock = ?`,
			stock+qty, time.Now(), id, stock).WithContext(ctx).ScanCAS(&stock)
		if err != nil {
			return err
		}
		if applied {
			return nil
		}
	}

	return fmt.Errorf("contention trop forte sur le produit %s", id)
}

// RecordMovement trace un mouvement de stock et lève une alerte si le
// nouveau stock passe sous le seuil
func (s *ScyllaProductStore) RecordMovement(ctx context.Context, m models.StockMovement) error {
	session, err := database.GetProductsSession()
	if err != nil {
		return err
	}

	var orderID interface{}
	if m.OrderID != nil {
		orderID = *m.OrderID
	}

	if err := session.Query(`INSERT INTO stock_movements (product_id, id, type, quantity, prev_stock, new_stock, reason, order_id, user_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ProductID, m.ID, m.Type, m.Quantity, m.PrevStock, m.NewStock,
		m.Reason, orderID, m.UserID, m.CreatedAt).WithContext(ctx).Exec(); err != nil {
		return err
	}

	if m.Type == "sale" || m.Type == "adjustment" {
		CheckLowStockAlert(ctx, m.ProductID, m.NewStock)
	}

	return nil
}

// CheckLowStockAlert crée une alerte stock faible / rupture si nécessaire
func CheckLowStockAlert(ctx context.Context, productID gocql.UUID, currentStock int) {
	session, err := database.GetProductsSession()
	if err != nil {
		return
	}

	var threshold int
	var productName string
	if err := session.Query(`SELECT low_stock_threshold, name FROM products WHERE product_id = ?`, productID).
		WithContext(ctx).Scan(&threshold, &productName); err != nil {
		return
	}

	if threshold == 0 {
		threshold = 10 // Seuil par défaut
	}

	var alertType string
	switch {
	case currentStock == 0:
		alertType = "out_of_stock"
	case currentStock <= threshold:
		alertType = "low_stock"
	default:
		return
	}

	// Une alerte non résolue existe déjà ? On ne double pas
	var existingAlertID gocql.UUID
	checkQuery := `SELECT id FROM stock_alerts WHERE product_id = ? AND is_resolved = false LIMIT 1 ALLOW FILTERING`
	if err := session.Query(checkQuery, productID).WithContext(ctx).Scan(&existingAlertID); err == nil {
		return
	}

	alert := models.StockAlert{
		ID:             gocql.TimeUUID(),
		ProductID:      productID,
		ProductName:    productName,
		CurrentStock:   currentStock,
		ThresholdStock: threshold,
		AlertType:      alertType,
		IsResolved:     false,
		CreatedAt:      time.Now(),
	}

	if err := session.Query(`INSERT INTO stock_alerts (id, product_id, product_name, current_stock, threshold_stock, alert_type, is_resolved, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		alert.ID, alert.ProductID, alert.ProductName, alert.CurrentStock,
		alert.ThresholdStock, alert.AlertType, alert.IsResolved, alert.CreatedAt).
		WithContext(ctx).Exec(); err != nil {
		log.Printf("⚠️ Erreur création alerte stock: %v", err)
	} else {
		log.Printf("🚨 Alerte stock créée pour %s: %s", productName, alertType)
	}
}
