package database

import "github.com/gocql/gocql"

// Requêtes chaudes du checkout, centralisées ici. gocql prépare chaque CQL à
// sa première exécution puis le resservira depuis son cache de prepared
// statements. Un *gocql.Query lié n'est pas sûr en usage concurrent : chaque
// appel construit donc le sien.

const (
	cqlGetUserIDByEmail = `SELECT user_id FROM users_by_email WHERE email = ?`

	cqlGetUserByID = `SELECT email, password, name, first_name, last_name, phone, role, provider, is_guest
		FROM users WHERE user_id = ?`

	cqlInsertUser = `INSERT INTO users (user_id, email, password, name, first_name, last_name, phone, role, provider, is_guest, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	cqlInsertUserByEmail = `INSERT INTO users_by_email (email, user_id) VALUES (?, ?)`

	cqlGetProductByID = `SELECT product_id, name, description, price, stock, low_stock_threshold, sku, category_id, image_urls, tags, is_active, created_at, updated_at
		FROM products WHERE product_id = ?`
)

func QueryGetUserIDByEmail(s *gocql.Session) *gocql.Query { return s.Query(cqlGetUserIDByEmail) }

func QueryGetUserByID(s *gocql.Session) *gocql.Query { return s.Query(cqlGetUserByID) }

func QueryInsertUser(s *gocql.Session) *gocql.Query { return s.Query(cqlInsertUser) }

func QueryInsertUserByEmail(s *gocql.Session) *gocql.Query { return s.Query(cqlInsertUserByEmail) }

func QueryGetProductByID(s *gocql.Session) *gocql.Query { return s.Query(cqlGetProductByID) }
