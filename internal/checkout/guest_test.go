package checkout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"velora_back_end/internal/models"
)

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "33612345678", NormalizePhone("+33 6 12 34 56 78"))
	assert.Equal(t, "0612345678", NormalizePhone("06.12.34.56.78"))
	assert.Equal(t, "0612345678", NormalizePhone("06-12-34-56-78"))
	assert.Equal(t, "", NormalizePhone("abc"))
}

func TestIsValidPhone(t *testing.T) {
	// Entre 10 et 15 chiffres après normalisation
	assert.True(t, IsValidPhone("0612345678"))
	assert.True(t, IsValidPhone("+33 6 12 34 56 78"))
	assert.True(t, IsValidPhone("123456789012345"))
	assert.False(t, IsValidPhone("061234567"))
	assert.False(t, IsValidPhone("1234567890123456"))
	assert.False(t, IsValidPhone(""))
}

func TestPlaceGuestOrder_CreatesGuestIdentity(t *testing.T) {
	p := activeProduct("Table basse chêne", 210.00, 3)
	products := newFakeProductStore(p)
	orders := &fakeOrderStore{}
	customers := &fakeCustomerStore{}
	svc := NewService(products, orders, customers)

	order, err := svc.PlaceGuestOrder(context.Background(), Request{
		Items:    []CheckoutItem{{ProductID: p.ID.String(), Quantity: 1}},
		Shipping: validShipping(),
	})
	require.NoError(t, err)

	require.Len(t, customers.guests, 1)
	guest := customers.guests[0]

	assert.True(t, guest.IsGuest)
	assert.Equal(t, "guest", guest.Provider)
	assert.Equal(t, models.RoleCustomer, guest.Role)
	assert.Equal(t, "Claire Dubois", guest.Name)
	assert.Equal(t, "33612345678", guest.Phone)
	assert.Empty(t, guest.Password)
	// Email placeholder : l'email réel reste dans l'adresse de livraison
	assert.Contains(t, guest.Email, "@guest.velora.shop")
	assert.NotEqual(t, validShipping().Email, guest.Email)

	// La commande est rattachée à l'identité créée
	assert.Equal(t, guest.ID, order.UserID)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, 2, products.stock(p.ID))
}

func TestPlaceGuestOrder_NewIdentityPerCheckout(t *testing.T) {
	p := activeProduct("Table basse chêne", 210.00, 5)
	customers := &fakeCustomerStore{}
	svc := NewService(newFakeProductStore(p), &fakeOrderStore{}, customers)

	req := Request{
		Items:    []CheckoutItem{{ProductID: p.ID.String(), Quantity: 1}},
		Shipping: validShipping(),
	}

	first, err := svc.PlaceGuestOrder(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.PlaceGuestOrder(context.Background(), req)
	require.NoError(t, err)

	// Mêmes coordonnées, mais pas de déduplication : deux lignes client
	require.Len(t, customers.guests, 2)
	assert.NotEqual(t, first.UserID, second.UserID)
	assert.NotEqual(t, customers.guests[0].Email, customers.guests[1].Email)
}

func TestPlaceGuestOrder_RejectsMissingContact(t *testing.T) {
	p := activeProduct("Table basse chêne", 210.00, 3)
	customers := &fakeCustomerStore{}
	svc := NewService(newFakeProductStore(p), &fakeOrderStore{}, customers)

	cases := []struct {
		field  string
		mutate func(*models.ShippingInfo)
	}{
		{"first_name", func(s *models.ShippingInfo) { s.FirstName = "" }},
		{"last_name", func(s *models.ShippingInfo) { s.LastName = " " }},
		{"email", func(s *models.ShippingInfo) { s.Email = "" }},
		{"phone", func(s *models.ShippingInfo) { s.Phone = "12345" }},
	}

	for _, tc := range cases {
		shipping := validShipping()
		tc.mutate(&shipping)

		_, err := svc.PlaceGuestOrder(context.Background(), Request{
			Items:    []CheckoutItem{{ProductID: p.ID.String(), Quantity: 1}},
			Shipping: shipping,
		})
		var ve *ValidationError
		require.ErrorAs(t, err, &ve, "champ %s", tc.field)
		assert.Equal(t, tc.field, ve.Field)
	}

	assert.Empty(t, customers.guests)
}

func TestPlaceGuestOrder_EmptyCartLeavesNoTrace(t *testing.T) {
	customers := &fakeCustomerStore{}
	svc := NewService(newFakeProductStore(), &fakeOrderStore{}, customers)

	_, err := svc.PlaceGuestOrder(context.Background(), Request{Shipping: validShipping()})
	assert.ErrorIs(t, err, ErrEmptyCart)

	// Le panier est validé avant la création de l'identité invité
	assert.Empty(t, customers.guests)
}
