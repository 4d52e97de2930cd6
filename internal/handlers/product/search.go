package product

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"velora_back_end/internal/services"
)

// SearchProducts recherche plein texte via Elasticsearch (sous-chaîne
// insensible à la casse sur nom, description et tags)
func SearchProducts(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le paramètre 'q' est obligatoire"})
		return
	}

	results, err := services.SearchProducts(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur recherche: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"count":   len(results),
		"results": results,
	})
}
