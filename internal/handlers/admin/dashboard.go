package admin

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
)

type topProduct struct {
	ProductID gocql.UUID `json:"product_id"`
	Name      string     `json:"name"`
	Quantity  int        `json:"quantity_sold"`
	Revenue   float64    `json:"revenue"`
}

// GetDashboardStats agrège les chiffres du back office : commandes par
// statut, chiffre d'affaires, meilleures ventes et comptes clients.
// Les volumes restent faibles (D2C mono-boutique) : on agrège en itérant,
// pas de table de compteurs.
// GET /api/admin/dashboard
func GetDashboardStats(c *gin.Context) {
	ordersSession, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// Commandes par statut + chiffre d'affaires (hors annulées)
	ordersByStatus := map[string]int{}
	totalOrders := 0
	var totalRevenue float64

	iter := ordersSession.Query(`SELECT status, total_price FROM orders`).Iter()
	var status string
	var totalPrice float64
	for iter.Scan(&status, &totalPrice) {
		totalOrders++
		ordersByStatus[status]++
		if status != string(models.OrderStatusCancelled) {
			totalRevenue += totalPrice
		}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commandes: " + err.Error()})
		return
	}

	// Meilleures ventes, agrégées depuis les lignes de commande
	type agg struct {
		name     string
		quantity int
		revenue  float64
	}
	byProduct := map[gocql.UUID]*agg{}

	itemsIter := ordersSession.Query(`SELECT product_id, name, unit_price, quantity FROM order_items`).Iter()
	var pid gocql.UUID
	var name string
	var unitPrice float64
	var quantity int
	for itemsIter.Scan(&pid, &name, &unitPrice, &quantity) {
		a, ok := byProduct[pid]
		if !ok {
			a = &agg{name: name}
			byProduct[pid] = a
		}
		a.quantity += quantity
		a.revenue += unitPrice * float64(quantity)
	}
	if err := itemsIter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture articles: " + err.Error()})
		return
	}

	topProducts := make([]topProduct, 0, len(byProduct))
	for id, a := range byProduct {
		topProducts = append(topProducts, topProduct{ProductID: id, Name: a.name, Quantity: a.quantity, Revenue: a.revenue})
	}
	sort.Slice(topProducts, func(i, j int) bool { return topProducts[i].Quantity > topProducts[j].Quantity })
	if len(topProducts) > 10 {
		topProducts = topProducts[:10]
	}

	// Comptes clients (invités comptés à part)
	usersSession, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	totalUsers, totalGuests := 0, 0
	usersIter := usersSession.Query(`SELECT is_guest FROM users`).Iter()
	var isGuest bool
	for usersIter.Scan(&isGuest) {
		if isGuest {
			totalGuests++
		} else {
			totalUsers++
		}
	}
	if err := usersIter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture utilisateurs: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_orders":     totalOrders,
		"orders_by_status": ordersByStatus,
		"total_revenue":    totalRevenue,
		"top_products":     topProducts,
		"total_users":      totalUsers,
		"total_guests":     totalGuests,
	})
}
