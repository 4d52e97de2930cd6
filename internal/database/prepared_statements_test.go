package database

import (
	"testing"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
)

// Deux goroutines qui se partageraient un même Query lié pourraient exécuter
// la requête de l'une avec les valeurs de l'autre : chaque appel doit produire
// son propre objet.
func TestHotQueriesAreFreshPerCall(t *testing.T) {
	s := &gocql.Session{}

	assert.NotSame(t, QueryGetUserIDByEmail(s), QueryGetUserIDByEmail(s))
	assert.NotSame(t, QueryGetUserByID(s), QueryGetUserByID(s))
	assert.NotSame(t, QueryInsertUser(s), QueryInsertUser(s))
	assert.NotSame(t, QueryInsertUserByEmail(s), QueryInsertUserByEmail(s))
	assert.NotSame(t, QueryGetProductByID(s), QueryGetProductByID(s))
}
