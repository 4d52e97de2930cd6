package checkout

import (
	"context"

	"velora_back_end/internal/models"

	"github.com/gocql/gocql"
)

// Le service ne parle jamais directement à ScyllaDB : il passe par ces
// interfaces, implémentées dans internal/store. Les tests utilisent des
// fakes en mémoire.

type ProductStore interface {
	// GetProduct retourne (nil, nil) si le produit n'existe pas
	GetProduct(ctx context.Context, id gocql.UUID) (*models.Product, error)

	// TryDecrementStock décrémente le stock de qty de façon conditionnelle :
	// applied = false si le stock disponible (retourné) est insuffisant.
	// Deux checkouts concurrents pour la dernière unité → un seul applied.
	TryDecrementStock(ctx context.Context, id gocql.UUID, qty int) (applied bool, available int, err error)

	// RestoreStock ré-ajoute qty unités (compensation d'une réservation)
	RestoreStock(ctx context.Context, id gocql.UUID, qty int) error

	// RecordMovement trace un mouvement de stock (best effort)
	RecordMovement(ctx context.Context, m models.StockMovement) error
}

type OrderStore interface {
	// CreateOrder persiste la commande et ses lignes en une seule écriture
	CreateOrder(ctx context.Context, o *models.Order) error
}

type CustomerStore interface {
	// CreateGuest matérialise une identité client pour un checkout invité
	CreateGuest(ctx context.Context, u *models.User) error
}
