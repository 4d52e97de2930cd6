package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"velora_back_end/internal/models"

	"github.com/gocql/gocql"
)

// Un checkout invité crée toujours une nouvelle ligne client : pas de
// déduplication entre deux passages du même invité (comportement assumé).

// resolveGuest valide les coordonnées et matérialise un client invité
func (s *Service) resolveGuest(ctx context.Context, shipping models.ShippingInfo) (string, error) {
	if err := validateGuestContact(shipping); err != nil {
		return "", err
	}

	guestID := gocql.TimeUUID()
	now := time.Now()

	guest := &models.User{
		ID:        guestID.String(),
		Name:      strings.TrimSpace(shipping.FirstName + " " + shipping.LastName),
		FirstName: shipping.FirstName,
		LastName:  shipping.LastName,
		// Email placeholder unique : l'email réel de l'invité reste dans
		// l'adresse de livraison de la commande
		Email:     fmt.Sprintf("invite+%d@guest.velora.shop", now.UnixNano()),
		Phone:     NormalizePhone(shipping.Phone),
		Role:      models.RoleCustomer,
		Provider:  "guest",
		IsGuest:   true,
		CreatedAt: now,
	}

	if err := s.Customers.CreateGuest(ctx, guest); err != nil {
		return "", fmt.Errorf("création client invité: %w", err)
	}

	return guest.ID, nil
}

func validateGuestContact(shipping models.ShippingInfo) error {
	if strings.TrimSpace(shipping.FirstName) == "" {
		return &ValidationError{Field: "first_name", Msg: "prénom requis"}
	}
	if strings.TrimSpace(shipping.LastName) == "" {
		return &ValidationError{Field: "last_name", Msg: "nom requis"}
	}
	if strings.TrimSpace(shipping.Email) == "" {
		return &ValidationError{Field: "email", Msg: "email requis"}
	}
	if !IsValidPhone(shipping.Phone) {
		return &ValidationError{Field: "phone", Msg: "le numéro doit contenir entre 10 et 15 chiffres"}
	}
	return nil
}

// NormalizePhone ne garde que les chiffres du numéro
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValidPhone vérifie la règle 10–15 chiffres après normalisation
func IsValidPhone(phone string) bool {
	digits := len(NormalizePhone(phone))
	return digits >= 10 && digits <= 15
}
