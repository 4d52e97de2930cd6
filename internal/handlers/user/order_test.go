package user

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"

	"velora_back_end/internal/models"
	"velora_back_end/internal/store"
)

type fakeOrderReader struct {
	byID      map[gocql.UUID]*models.Order
	summaries map[string][]store.OrderSummary
}

func (f *fakeOrderReader) FindByID(_ context.Context, orderID gocql.UUID) (*models.Order, error) {
	if o, ok := f.byID[orderID]; ok {
		return o, nil
	}
	return nil, store.ErrOrderNotFound
}

func (f *fakeOrderReader) ListByUser(_ context.Context, userID string, _ int) ([]store.OrderSummary, error) {
	return f.summaries[userID], nil
}

func swapOrderReader(t *testing.T, fake orderReader) {
	t.Helper()
	previous := orders
	orders = fake
	t.Cleanup(func() { orders = previous })
}

// ordersRouter simule un client déjà authentifié
func ordersRouter(userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	withUser := func(c *gin.Context) { c.Set("user_id", userID) }
	r.GET("/api/orders", withUser, GetMyOrders)
	r.GET("/api/orders/:id", withUser, GetOrderByID)
	return r
}

func TestGetOrderByID_OwnerReadsOwnOrder(t *testing.T) {
	orderID := gocql.TimeUUID()
	swapOrderReader(t, &fakeOrderReader{byID: map[gocql.UUID]*models.Order{
		orderID: {ID: orderID, UserID: "user-a", Status: models.OrderStatusPending, TotalPrice: 377.99},
	}})

	w := httptest.NewRecorder()
	ordersRouter("user-a").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/orders/"+orderID.String(), nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), orderID.String())
}

func TestGetOrderByID_OtherCustomersOrderLooksAbsent(t *testing.T) {
	ownedByB := gocql.TimeUUID()
	unknown := gocql.TimeUUID()
	swapOrderReader(t, &fakeOrderReader{byID: map[gocql.UUID]*models.Order{
		ownedByB: {ID: ownedByB, UserID: "user-b", Status: models.OrderStatusPending},
	}})

	router := ordersRouter("user-a")

	wOther := httptest.NewRecorder()
	router.ServeHTTP(wOther, httptest.NewRequest(http.MethodGet, "/api/orders/"+ownedByB.String(), nil))

	wUnknown := httptest.NewRecorder()
	router.ServeHTTP(wUnknown, httptest.NewRequest(http.MethodGet, "/api/orders/"+unknown.String(), nil))

	// La commande d'un autre client répond exactement comme une commande
	// inexistante : même statut, même corps
	assert.Equal(t, http.StatusNotFound, wOther.Code)
	assert.Equal(t, wUnknown.Code, wOther.Code)
	assert.Equal(t, wUnknown.Body.String(), wOther.Body.String())
	assert.NotContains(t, wOther.Body.String(), "user-b")
}

func TestGetOrderByID_InvalidID(t *testing.T) {
	swapOrderReader(t, &fakeOrderReader{})

	w := httptest.NewRecorder()
	ordersRouter("user-a").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/orders/pas-un-uuid", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMyOrders_ReturnsOnlyOwnSummaries(t *testing.T) {
	orderID := gocql.TimeUUID()
	swapOrderReader(t, &fakeOrderReader{summaries: map[string][]store.OrderSummary{
		"user-a": {{OrderID: orderID, Status: models.OrderStatusPending, TotalPrice: 377.99}},
		"user-b": {{OrderID: gocql.TimeUUID(), Status: models.OrderStatusShipped, TotalPrice: 99.99}},
	}})

	w := httptest.NewRecorder()
	ordersRouter("user-a").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/orders", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), orderID.String())
	assert.NotContains(t, w.Body.String(), "shipped")
}
