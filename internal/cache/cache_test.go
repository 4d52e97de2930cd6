package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// La fiche produit est écrite sous la même clé que celle que l'invalidation
// supprime ; idem pour les utilisateurs
func TestCacheKeysAreStable(t *testing.T) {
	assert.Equal(t, "product:42", ProductKey("42"))
	assert.Equal(t, "user:42", UserKey("42"))
}
