package models

import (
	"time"

	"github.com/gocql/gocql"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"    // Commande créée, en attente de confirmation
	OrderStatusConfirmed  OrderStatus = "confirmed"  // Confirmée par l'équipe
	OrderStatusProcessing OrderStatus = "processing" // En préparation
	OrderStatusShipped    OrderStatus = "shipped"    // Expédiée
	OrderStatusDelivered  OrderStatus = "delivered"  // Livrée — état terminal
	OrderStatusCancelled  OrderStatus = "cancelled"  // Annulée — état terminal
)

// Seul mode de paiement pris en charge pour l'instant
const PaymentMethodCOD = "cash_on_delivery"

// nextStatuses décrit la machine à états des commandes.
// delivered et cancelled n'ont aucune transition sortante.
var nextStatuses = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// IsValidStatus indique si la valeur correspond à un statut connu
func IsValidStatus(s OrderStatus) bool {
	_, ok := nextStatuses[s]
	return ok
}

// IsTerminalStatus indique si aucun changement de statut n'est permis
func IsTerminalStatus(s OrderStatus) bool {
	next, ok := nextStatuses[s]
	return ok && len(next) == 0
}

// CanTransition vérifie qu'un passage from → to est autorisé
func CanTransition(from, to OrderStatus) bool {
	for _, allowed := range nextStatuses[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ShippingInfo est stockée en UDT frozen dans ks_orders.orders
type ShippingInfo struct {
	FirstName  string `json:"first_name" cql:"first_name"`
	LastName   string `json:"last_name" cql:"last_name"`
	Email      string `json:"email" cql:"email"`
	Phone      string `json:"phone" cql:"phone"`
	Street     string `json:"street" cql:"street"`
	City       string `json:"city" cql:"city"`
	State      string `json:"state,omitempty" cql:"state"`
	PostalCode string `json:"postal_code" cql:"postal_code"`
	Country    string `json:"country" cql:"country"`
}

type Order struct {
	ID            gocql.UUID   `json:"id"`
	UserID        string       `json:"user_id"`
	Status        OrderStatus  `json:"status"`
	PaymentMethod string       `json:"payment_method"`
	Shipping      ShippingInfo `json:"shipping"`
	Items         []OrderItem  `json:"items"`
	Subtotal      float64      `json:"subtotal"`
	ShippingFee   float64      `json:"shipping_fee"`
	Tax           float64      `json:"tax"`
	TotalPrice    float64      `json:"total_price"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// OrderItem capture le prix unitaire au moment de la commande :
// les changements de prix catalogue ultérieurs ne touchent jamais
// les commandes passées.
type OrderItem struct {
	ProductID gocql.UUID `json:"product_id"`
	Name      string     `json:"name"`
	UnitPrice float64    `json:"unit_price"`
	Quantity  int        `json:"quantity"`
}
