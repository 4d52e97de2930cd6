package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"velora_back_end/internal/models"
)

// Fakes en mémoire reproduisant la sémantique conditionnelle des stores
// ScyllaDB, mutex compris pour les tests de concurrence.

type fakeProductStore struct {
	mu        sync.Mutex
	products  map[gocql.UUID]*models.Product
	movements []models.StockMovement

	failDecrementFor map[gocql.UUID]bool
}

func newFakeProductStore(products ...*models.Product) *fakeProductStore {
	f := &fakeProductStore{
		products:         map[gocql.UUID]*models.Product{},
		failDecrementFor: map[gocql.UUID]bool{},
	}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProductStore) GetProduct(_ context.Context, id gocql.UUID) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductStore) TryDecrementStock(_ context.Context, id gocql.UUID, qty int) (bool, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failDecrementFor[id] {
		return false, 0, errors.New("panne simulée")
	}

	p, ok := f.products[id]
	if !ok {
		return false, 0, nil
	}
	if p.Stock < qty {
		return false, p.Stock, nil
	}
	p.Stock -= qty
	return true, p.Stock, nil
}

func (f *fakeProductStore) RestoreStock(_ context.Context, id gocql.UUID, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.products[id]
	if !ok {
		return errors.New("produit inconnu")
	}
	p.Stock += qty
	return nil
}

func (f *fakeProductStore) RecordMovement(_ context.Context, m models.StockMovement) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.movements = append(f.movements, m)
	return nil
}

func (f *fakeProductStore) stock(id gocql.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[id].Stock
}

type fakeOrderStore struct {
	mu     sync.Mutex
	orders []*models.Order

	failCreate bool
}

func (f *fakeOrderStore) CreateOrder(_ context.Context, o *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failCreate {
		return errors.New("écriture refusée")
	}
	f.orders = append(f.orders, o)
	return nil
}

type fakeCustomerStore struct {
	mu     sync.Mutex
	guests []*models.User
}

func (f *fakeCustomerStore) CreateGuest(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	cp := *u
	f.guests = append(f.guests, &cp)
	return nil
}

func activeProduct(name string, price float64, stock int) *models.Product {
	return &models.Product{
		ID:       gocql.TimeUUID(),
		Name:     name,
		Price:    price,
		Stock:    stock,
		IsActive: true,
	}
}

func validShipping() models.ShippingInfo {
	return models.ShippingInfo{
		FirstName:  "Claire",
		LastName:   "Dubois",
		Email:      "claire.dubois@example.com",
		Phone:      "+33 6 12 34 56 78",
		Street:     "12 rue des Lilas",
		City:       "Lyon",
		PostalCode: "69003",
		Country:    "France",
	}
}

func TestPlaceOrder_Success(t *testing.T) {
	p := activeProduct("Lampe en laiton", 100.00, 5)
	products := newFakeProductStore(p)
	orders := &fakeOrderStore{}
	svc := NewService(products, orders, &fakeCustomerStore{})

	order, err := svc.PlaceOrder(context.Background(), "user-1", Request{
		Items:    []CheckoutItem{{ProductID: p.ID.String(), Quantity: 3}},
		Shipping: validShipping(),
	})
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, 2, products.stock(p.ID))
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentMethodCOD, order.PaymentMethod)
	assert.Equal(t, "user-1", order.UserID)

	assert.Equal(t, 300.00, order.Subtotal)
	assert.Equal(t, 49.99, order.ShippingFee)
	assert.Equal(t, 28.00, order.Tax)
	assert.Equal(t, 377.99, order.TotalPrice)

	require.Len(t, order.Items, 1)
	assert.Equal(t, 100.00, order.Items[0].UnitPrice)
	assert.Equal(t, 3, order.Items[0].Quantity)

	require.Len(t, orders.orders, 1)
}

func TestPlaceOrder_InsufficientStock(t *testing.T) {
	p := activeProduct("Vase en grès", 45.00, 2)
	products := newFakeProductStore(p)
	orders := &fakeOrderStore{}
	svc := NewService(products, orders, &fakeCustomerStore{})

	_, err := svc.PlaceOrder(context.Background(), "user-1", Request{
		Items:    []CheckoutItem{{ProductID: p.ID.String(), Quantity: 3}},
		Shipping: validShipping(),
	})
	require.Error(t, err)

	var ins *InsufficientStockError
	require.ErrorAs(t, err, &ins)
	assert.Equal(t, 2, ins.Available)
	assert.Equal(t, 3, ins.Requested)
	assert.True(t, IsClientError(err))

	// Rien ne doit avoir bougé
	assert.Equal(t, 2, products.stock(p.ID))
	assert.Empty(t, orders.orders)
}

func TestPlaceOrder_AllOrNothingReservation(t *testing.T) {
	p1 := activeProduct("Miroir doré", 80.00, 10)
	p2 := activeProduct("Tapis berbère", 250.00, 10)
	p3 := activeProduct("Bougie parfumée", 15.00, 1) // Trop peu de stock
	products := newFakeProductStore(p1, p2, p3)
	orders := &fakeOrderStore{}
	svc := NewService(products, orders, &fakeCustomerStore{})

	_, err := svc.PlaceOrder(context.Background(), "user-1", Request{
		Items: []CheckoutItem{
			{ProductID: p1.ID.String(), Quantity: 2},
			{ProductID: p2.ID.String(), Quantity: 1},
			{ProductID: p3.ID.String(), Quantity: 4},
		},
		Shipping: validShipping(),
	})
	require.Error(t, err)

	// Les deux premières lignes avaient réussi : elles doivent être compensées
	assert.Equal(t, 10, products.stock(p1.ID))
	assert.Equal(t, 10, products.stock(p2.ID))
	assert.Equal(t, 1, products.stock(p3.ID))
	assert.Empty(t, orders.orders)
}

func TestPlaceOrder_UnknownOrInactiveProduct(t *testing.T) {
	inactive := activeProduct("Ancienne collection", 30.00, 5)
	inactive.IsActive = false
	products := newFakeProductStore(inactive)
	svc := NewService(products, &fakeOrderStore{}, &fakeCustomerStore{})

	_, err := svc.PlaceOrder(context.Background(), "user-1", Request{
		Items:    []CheckoutItem{{ProductID: inactive.ID.String(), Quantity: 1}},
		Shipping: validShipping(),
	})
	var pnf *ProductNotFoundError
	require.ErrorAs(t, err, &pnf)

	_, err = svc.PlaceOrder(context.Background(), "user-1", Request{
		Items:    []CheckoutItem{{ProductID: gocql.TimeUUID().String(), Quantity: 1}},
		Shipping: validShipping(),
	})
	require.ErrorAs(t, err, &pnf)
	assert.True(t, IsClientError(err))
}

func TestPlaceOrder_EmptyCartAndBadQuantities(t *testing.T) {
	p := activeProduct("Plaid en lin", 60.00, 5)
	products := newFakeProductStore(p)
	svc := NewService(products, &fakeOrderStore{}, &fakeCustomerStore{})

	_, err := svc.PlaceOrder(context.Background(), "user-1", Request{Shipping: validShipping()})
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = svc.PlaceOrder(context.Background(), "user-1", Request{
		Items:    []CheckoutItem{{ProductID: p.ID.String(), Quantity: 0}},
		Shipping: validShipping(),
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, 5, products.stock(p.ID))
}

func TestPlaceOrder_IncompleteAddress(t *testing.T) {
	p := activeProduct("Plaid en lin", 60.00, 5)
	svc := NewService(newFakeProductStore(p), &fakeOrderStore{}, &fakeCustomerStore{})

	shipping := validShipping()
	shipping.City = "  "

	_, err := svc.PlaceOrder(context.Background(), "user-1", Request{
		Items:    []CheckoutItem{{ProductID: p.ID.String(), Quantity: 1}},
		Shipping: shipping,
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "city", ve.Field)
}

func TestPlaceOrder_PersistenceFailureReleasesStock(t *testing.T) {
	p := activeProduct("Fauteuil cannage", 320.00, 4)
	products := newFakeProductStore(p)
	orders := &fakeOrderStore{failCreate: true}
	svc := NewService(products, orders, &fakeCustomerStore{})

	_, err := svc.PlaceOrder(context.Background(), "user-1", Request{
		Items:    []CheckoutItem{{ProductID: p.ID.String(), Quantity: 2}},
		Shipping: validShipping(),
	})
	require.Error(t, err)
	assert.False(t, IsClientError(err))

	// Le stock réservé est rendu quand l'écriture échoue
	assert.Equal(t, 4, products.stock(p.ID))
	assert.Empty(t, orders.orders)
}

func TestPlaceOrder_PriceCapturedAtReservation(t *testing.T) {
	p := activeProduct("Commode vintage", 499.00, 3)
	products := newFakeProductStore(p)
	orders := &fakeOrderStore{}
	svc := NewService(products, orders, &fakeCustomerStore{})

	order, err := svc.PlaceOrder(context.Background(), "user-1", Request{
		Items:    []CheckoutItem{{ProductID: p.ID.String(), Quantity: 1}},
		Shipping: validShipping(),
	})
	require.NoError(t, err)

	// Un changement de prix catalogue après coup ne touche pas la commande
	products.mu.Lock()
	products.products[p.ID].Price = 599.00
	products.mu.Unlock()

	assert.Equal(t, 499.00, order.Items[0].UnitPrice)
	assert.Equal(t, 499.00, order.Subtotal)
}

func TestPlaceOrder_ConcurrentCheckoutsNeverOversell(t *testing.T) {
	const initialStock = 10
	const attempts = 30

	p := activeProduct("Édition limitée", 150.00, initialStock)
	products := newFakeProductStore(p)
	orders := &fakeOrderStore{}
	svc := NewService(products, orders, &fakeCustomerStore{})

	var wg sync.WaitGroup
	var successes int32
	var mu sync.Mutex

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.PlaceOrder(context.Background(), "user-1", Request{
				Items:    []CheckoutItem{{ProductID: p.ID.String(), Quantity: 1}},
				Shipping: validShipping(),
			})
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// Exactement une commande par unité de stock, jamais plus
	assert.EqualValues(t, initialStock, successes)
	assert.Equal(t, 0, products.stock(p.ID))
	assert.Len(t, orders.orders, int(successes))
}

func TestPlaceOrder_RecordsSaleMovements(t *testing.T) {
	p := activeProduct("Suspension rotin", 89.00, 6)
	products := newFakeProductStore(p)
	svc := NewService(products, &fakeOrderStore{}, &fakeCustomerStore{})

	order, err := svc.PlaceOrder(context.Background(), "user-1", Request{
		Items:    []CheckoutItem{{ProductID: p.ID.String(), Quantity: 2}},
		Shipping: validShipping(),
	})
	require.NoError(t, err)

	products.mu.Lock()
	defer products.mu.Unlock()
	require.Len(t, products.movements, 1)
	m := products.movements[0]
	assert.Equal(t, "sale", m.Type)
	assert.Equal(t, 2, m.Quantity)
	assert.Equal(t, 6, m.PrevStock)
	assert.Equal(t, 4, m.NewStock)
	require.NotNil(t, m.OrderID)
	assert.Equal(t, order.ID, *m.OrderID)
}
