// Package checkout implémente le placement de commande : validation du
// panier, réservation du stock, calcul des totaux et écriture de la
// commande. La réservation est tout-ou-rien pour une commande donnée.
package checkout

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"velora_back_end/internal/models"
	"velora_back_end/internal/pricing"

	"github.com/gocql/gocql"
)

type Service struct {
	Products  ProductStore
	Orders    OrderStore
	Customers CustomerStore
}

func NewService(products ProductStore, orders OrderStore, customers CustomerStore) *Service {
	return &Service{Products: products, Orders: orders, Customers: customers}
}

// CheckoutItem est la ligne telle que soumise par le client. Le prix n'y
// figure pas : il est toujours relu côté serveur au moment de la réservation.
type CheckoutItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type Request struct {
	Items         []CheckoutItem      `json:"items"`
	Shipping      models.ShippingInfo `json:"shipping_info"`
	PaymentMethod string              `json:"payment_method"`
}

// reservedLine garde le prix unitaire capturé au moment de la réservation
type reservedLine struct {
	ProductID gocql.UUID
	Name      string
	UnitPrice float64
	Quantity  int
	PrevStock int
	NewStock  int
}

// PlaceOrder exécute le checkout d'un client authentifié
func (s *Service) PlaceOrder(ctx context.Context, userID string, req Request) (*models.Order, error) {
	if userID == "" {
		return nil, &ValidationError{Field: "user_id", Msg: "client requis"}
	}
	return s.placeOrder(ctx, userID, req)
}

// PlaceGuestOrder résout d'abord une identité invité, puis suit le même
// chemin que le checkout authentifié
func (s *Service) PlaceGuestOrder(ctx context.Context, req Request) (*models.Order, error) {
	// On valide le panier avant de créer la ligne invité : un panier vide
	// ne doit laisser aucune trace en base
	if err := validateItems(req.Items); err != nil {
		return nil, err
	}
	if err := validateAddress(req.Shipping); err != nil {
		return nil, err
	}

	guestID, err := s.resolveGuest(ctx, req.Shipping)
	if err != nil {
		return nil, err
	}

	return s.placeOrder(ctx, guestID, req)
}

func (s *Service) placeOrder(ctx context.Context, userID string, req Request) (*models.Order, error) {
	if err := validateItems(req.Items); err != nil {
		return nil, err
	}
	if err := validateAddress(req.Shipping); err != nil {
		return nil, err
	}

	paymentMethod := strings.TrimSpace(req.PaymentMethod)
	if paymentMethod == "" {
		// Seul le paiement à la livraison existe : les autres valeurs sont
		// acceptées mais traitées à l'identique (aucune passerelle de paiement)
		paymentMethod = models.PaymentMethodCOD
	}

	orderID := gocql.TimeUUID()

	// 1. Réservation tout-ou-rien du stock
	reserved, err := s.reserve(ctx, orderID, req.Items)
	if err != nil {
		return nil, err
	}

	// 2. Totaux calculés depuis les prix capturés, jamais depuis le catalogue
	lineItems := make([]pricing.LineItem, len(reserved))
	for i, r := range reserved {
		lineItems[i] = pricing.LineItem{UnitPrice: r.UnitPrice, Quantity: r.Quantity}
	}
	totals, err := pricing.ComputeTotals(lineItems)
	if err != nil {
		// Les quantités sont déjà validées : une erreur ici est un bug
		s.releaseAll(ctx, orderID, reserved)
		return nil, fmt.Errorf("calcul des totaux: %w", err)
	}

	// 3. Assemblage de la commande
	now := time.Now()
	order := &models.Order{
		ID:            orderID,
		UserID:        userID,
		Status:        models.OrderStatusPending,
		PaymentMethod: paymentMethod,
		Shipping:      req.Shipping,
		Subtotal:      totals.Subtotal,
		ShippingFee:   totals.Shipping,
		Tax:           totals.Tax,
		TotalPrice:    totals.Total,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, r := range reserved {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: r.ProductID,
			Name:      r.Name,
			UnitPrice: r.UnitPrice,
			Quantity:  r.Quantity,
		})
	}

	// 4. Persistance — en cas d'échec, le stock réservé est rendu
	if err := s.Orders.CreateOrder(ctx, order); err != nil {
		s.releaseAll(ctx, orderID, reserved)
		return nil, fmt.Errorf("écriture commande: %w", err)
	}

	// 5. Trace des mouvements de stock (best effort)
	for _, r := range reserved {
		oid := orderID
		if err := s.Products.RecordMovement(ctx, models.StockMovement{
			ID:        gocql.TimeUUID(),
			ProductID: r.ProductID,
			Type:      "sale",
			Quantity:  r.Quantity,
			PrevStock: r.PrevStock,
			NewStock:  r.NewStock,
			Reason:    "commande " + orderID.String(),
			OrderID:   &oid,
			UserID:    userID,
			CreatedAt: now,
		}); err != nil {
			log.Printf("⚠️ Mouvement de stock non enregistré pour %s: %v", r.ProductID, err)
		}
	}

	return order, nil
}

// reserve valide et décrémente le stock de chaque ligne. Si une ligne
// échoue, les décréments déjà appliqués sont compensés avant de retourner
// l'erreur : aucune réservation partielle ne survit à un échec.
func (s *Service) reserve(ctx context.Context, orderID gocql.UUID, items []CheckoutItem) ([]reservedLine, error) {
	var reserved []reservedLine

	for _, item := range items {
		pid, err := gocql.ParseUUID(item.ProductID)
		if err != nil {
			s.releaseAll(ctx, orderID, reserved)
			return nil, &ValidationError{Field: "product_id", Msg: "identifiant invalide: " + item.ProductID}
		}

		product, err := s.Products.GetProduct(ctx, pid)
		if err != nil {
			s.releaseAll(ctx, orderID, reserved)
			return nil, fmt.Errorf("lecture produit %s: %w", pid, err)
		}
		if product == nil || !product.IsActive {
			s.releaseAll(ctx, orderID, reserved)
			return nil, &ProductNotFoundError{ProductID: item.ProductID}
		}

		applied, available, err := s.Products.TryDecrementStock(ctx, pid, item.Quantity)
		if err != nil {
			s.releaseAll(ctx, orderID, reserved)
			return nil, fmt.Errorf("réservation stock %s: %w", pid, err)
		}
		if !applied {
			s.releaseAll(ctx, orderID, reserved)
			return nil, &InsufficientStockError{
				ProductID: pid,
				Name:      product.Name,
				Available: available,
				Requested: item.Quantity,
			}
		}

		reserved = append(reserved, reservedLine{
			ProductID: pid,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  item.Quantity,
			PrevStock: available + item.Quantity,
			NewStock:  available,
		})
	}

	return reserved, nil
}

// releaseAll compense les réservations déjà appliquées d'une commande avortée
func (s *Service) releaseAll(ctx context.Context, orderID gocql.UUID, reserved []reservedLine) {
	now := time.Now()
	for _, r := range reserved {
		if err := s.Products.RestoreStock(ctx, r.ProductID, r.Quantity); err != nil {
			// Ne doit jamais arriver en pratique ; on loggue pour reprise manuelle
			log.Printf("❌ Compensation stock échouée pour %s (qty %d, commande %s): %v",
				r.ProductID, r.Quantity, orderID, err)
			continue
		}
		oid := orderID
		if err := s.Products.RecordMovement(ctx, models.StockMovement{
			ID:        gocql.TimeUUID(),
			ProductID: r.ProductID,
			Type:      "release",
			Quantity:  r.Quantity,
			PrevStock: r.NewStock,
			NewStock:  r.NewStock + r.Quantity,
			Reason:    "annulation réservation " + orderID.String(),
			OrderID:   &oid,
			CreatedAt: now,
		}); err != nil {
			log.Printf("⚠️ Mouvement de compensation non enregistré pour %s: %v", r.ProductID, err)
		}
	}
}

func validateItems(items []CheckoutItem) error {
	if len(items) == 0 {
		return ErrEmptyCart
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return &ValidationError{Field: "quantity", Msg: "la quantité doit être positive"}
		}
	}
	return nil
}

func validateAddress(shipping models.ShippingInfo) error {
	switch {
	case strings.TrimSpace(shipping.Street) == "":
		return &ValidationError{Field: "street", Msg: "rue requise"}
	case strings.TrimSpace(shipping.City) == "":
		return &ValidationError{Field: "city", Msg: "ville requise"}
	case strings.TrimSpace(shipping.PostalCode) == "":
		return &ValidationError{Field: "postal_code", Msg: "code postal requis"}
	case strings.TrimSpace(shipping.Country) == "":
		return &ValidationError{Field: "country", Msg: "pays requis"}
	}
	return nil
}
