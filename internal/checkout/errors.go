package checkout

import (
	"errors"
	"fmt"

	"github.com/gocql/gocql"
)

// Les erreurs du checkout sont toutes détectées avant qu'une écriture ne
// soit validée : le handler HTTP les traduit en 400, tout le reste est un 500.

var ErrEmptyCart = errors.New("panier vide")

type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("champ '%s' invalide: %s", e.Field, e.Msg)
}

type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return "produit introuvable ou inactif: " + e.ProductID
}

type InsufficientStockError struct {
	ProductID gocql.UUID
	Name      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuffisant pour %s: %d disponible(s), %d demandé(s)",
		e.Name, e.Available, e.Requested)
}

// IsClientError indique si l'erreur doit être renvoyée en 400 au client
func IsClientError(err error) bool {
	var ve *ValidationError
	var pnf *ProductNotFoundError
	var ins *InsufficientStockError
	return errors.Is(err, ErrEmptyCart) ||
		errors.As(err, &ve) ||
		errors.As(err, &pnf) ||
		errors.As(err, &ins)
}
