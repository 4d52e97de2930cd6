package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"velora_back_end/internal/database"
	"velora_back_end/internal/models"

	"github.com/gocql/gocql"
)

var ErrOrderNotFound = errors.New("commande introuvable")

// InvalidTransitionError signale un changement de statut interdit par la
// machine à états (dont toute sortie d'un état terminal)
type InvalidTransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("transition de statut interdite: %s → %s", e.From, e.To)
}

// OrderSummary est la ligne dénormalisée de orders_by_user
type OrderSummary struct {
	OrderID    gocql.UUID         `json:"order_id"`
	Status     models.OrderStatus `json:"status"`
	TotalPrice float64            `json:"total_price"`
	CreatedAt  time.Time          `json:"created_at"`
}

type ScyllaOrderStore struct{}

func NewOrderStore() *ScyllaOrderStore { return &ScyllaOrderStore{} }

// CreateOrder écrit la commande, sa ligne orders_by_user et ses lignes
// d'articles dans un seul logged batch : tout est visible ou rien ne l'est.
func (s *ScyllaOrderStore) CreateOrder(ctx context.Context, o *models.Order) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	batch := session.NewBatch(gocql.LoggedBatch).WithContext(ctx)

	batch.Query(`INSERT INTO orders (order_id, user_id, status, payment_method, shipping, subtotal, shipping_fee, tax, total_price, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.UserID, string(o.Status), o.PaymentMethod, o.Shipping,
		o.Subtotal, o.ShippingFee, o.Tax, o.TotalPrice, o.CreatedAt, o.UpdatedAt)

	batch.Query(`INSERT INTO orders_by_user (user_id, created_at, order_id, status, total_price)
		VALUES (?, ?, ?, ?, ?)`,
		o.UserID, o.CreatedAt, o.ID, string(o.Status), o.TotalPrice)

	for _, item := range o.Items {
		batch.Query(`INSERT INTO order_items (order_id, product_id, name, unit_price, quantity)
			VALUES (?, ?, ?, ?, ?)`,
			o.ID, item.ProductID, item.Name, item.UnitPrice, item.Quantity)
	}

	return session.ExecuteBatch(batch)
}

// FindByID retourne la commande avec ses lignes, ou ErrOrderNotFound
func (s *ScyllaOrderStore) FindByID(ctx context.Context, orderID gocql.UUID) (*models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	var o models.Order
	var status string
	err = session.Query(`SELECT order_id, user_id, status, payment_method, shipping, subtotal, shipping_fee, tax, total_price, created_at, updated_at
		FROM orders WHERE order_id = ?`, orderID).WithContext(ctx).Scan(
		&o.ID, &o.UserID, &status, &o.PaymentMethod, &o.Shipping,
		&o.Subtotal, &o.ShippingFee, &o.Tax, &o.TotalPrice, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	o.Status = models.OrderStatus(status)

	iter := session.Query(`SELECT product_id, name, unit_price, quantity FROM order_items WHERE order_id = ?`, orderID).
		WithContext(ctx).Iter()
	var item models.OrderItem
	for iter.Scan(&item.ProductID, &item.Name, &item.UnitPrice, &item.Quantity) {
		o.Items = append(o.Items, item)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	return &o, nil
}

// ListByUser retourne les commandes d'un client, les plus récentes d'abord
func (s *ScyllaOrderStore) ListByUser(ctx context.Context, userID string, limit int) ([]OrderSummary, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	iter := session.Query(`SELECT order_id, status, total_price, created_at FROM orders_by_user WHERE user_id = ? LIMIT ?`,
		userID, limit).WithContext(ctx).Iter()

	var summaries []OrderSummary
	var s1 OrderSummary
	var status string
	for iter.Scan(&s1.OrderID, &status, &s1.TotalPrice, &s1.CreatedAt) {
		s1.Status = models.OrderStatus(status)
		summaries = append(summaries, s1)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	return summaries, nil
}

// ListAll pagine toutes les commandes pour le back office, avec filtre
// de statut optionnel. pageState vient de la page précédente (gocql).
func (s *ScyllaOrderStore) ListAll(ctx context.Context, status models.OrderStatus, limit int, pageState []byte) ([]models.Order, []byte, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, nil, err
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := `SELECT order_id, user_id, status, payment_method, subtotal, shipping_fee, tax, total_price, created_at, updated_at FROM orders`
	args := []interface{}{}
	if status != "" {
		// Filtre secondaire : volume back office faible, ALLOW FILTERING assumé
		query += ` WHERE status = ? ALLOW FILTERING`
		args = append(args, string(status))
	}

	iter := session.Query(query, args...).WithContext(ctx).
		PageSize(limit).PageState(pageState).Iter()

	var orders []models.Order
	var o models.Order
	var st string
	for iter.Scan(&o.ID, &o.UserID, &st, &o.PaymentMethod,
		&o.Subtotal, &o.ShippingFee, &o.Tax, &o.TotalPrice, &o.CreatedAt, &o.UpdatedAt) {
		o.Status = models.OrderStatus(st)
		orders = append(orders, o)
		o = models.Order{}
		if len(orders) >= limit {
			break
		}
	}
	nextPage := iter.PageState()
	if err := iter.Close(); err != nil {
		return nil, nil, err
	}

	return orders, nextPage, nil
}

// UpdateStatus applique la machine à états sous LWT : le IF status = ?
// garantit qu'une transition concurrente ne contourne pas la validation.
func (s *ScyllaOrderStore) UpdateStatus(ctx context.Context, orderID gocql.UUID, newStatus models.OrderStatus) (*models.Order, error) {
	if !models.IsValidStatus(newStatus) {
		return nil, &InvalidTransitionError{From: "", To: newStatus}
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	var userID, current string
	var createdAt time.Time
	err = session.Query(`SELECT user_id, status, created_at FROM orders WHERE order_id = ?`, orderID).
		WithContext(ctx).Scan(&userID, &current, &createdAt)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	currentStatus := models.OrderStatus(current)
	if !models.CanTransition(currentStatus, newStatus) {
		return nil, &InvalidTransitionError{From: currentStatus, To: newStatus}
	}

	now := time.Now()
	applied, err := session.Query(`UPDATE orders SET status = ?, updated_at = ? WHERE order_id = ? IF status = ?`,
		string(newStatus), now, orderID, current).WithContext(ctx).ScanCAS(&current)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Un autre admin est passé entre la lecture et l'écriture
		return nil, &InvalidTransitionError{From: models.OrderStatus(current), To: newStatus}
	}

	// Dénormalisation orders_by_user (clé: user_id + created_at + order_id)
	if err := session.Query(`UPDATE orders_by_user SET status = ? WHERE user_id = ? AND created_at = ? AND order_id = ?`,
		string(newStatus), userID, createdAt, orderID).WithContext(ctx).Exec(); err != nil {
		return nil, err
	}

	return s.FindByID(ctx, orderID)
}
