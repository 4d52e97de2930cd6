package store

import (
	"context"
	"errors"
	"time"

	"velora_back_end/internal/database"
	"velora_back_end/internal/models"

	"github.com/gocql/gocql"
)

type ScyllaCustomerStore struct{}

func NewCustomerStore() *ScyllaCustomerStore { return &ScyllaCustomerStore{} }

// CreateGuest insère la ligne client d'un checkout invité. L'email étant un
// placeholder généré, on n'alimente pas users_by_email : un invité ne se
// connecte jamais.
func (s *ScyllaCustomerStore) CreateGuest(ctx context.Context, u *models.User) error {
	session, err := database.GetUsersSession()
	if err != nil {
		return err
	}

	uid, err := gocql.ParseUUID(u.ID)
	if err != nil {
		return err
	}

	return session.Query(`INSERT INTO users (user_id, email, password, name, first_name, last_name, phone, role, provider, is_guest, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uid, u.Email, "", u.Name, u.FirstName, u.LastName, u.Phone,
		u.Role, u.Provider, true, u.CreatedAt, u.CreatedAt).
		WithContext(ctx).Exec()
}

// GetUserByID relit un utilisateur (chemin chaud du login et du cache)
func GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	uid, err := gocql.ParseUUID(userID)
	if err != nil {
		return nil, err
	}

	session, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}

	u := models.User{ID: userID}
	err = database.QueryGetUserByID(session).Bind(uid).WithContext(ctx).Scan(
		&u.Email, &u.Password, &u.Name, &u.FirstName, &u.LastName,
		&u.Phone, &u.Role, &u.Provider, &u.IsGuest)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserIDByEmail résout l'index users_by_email ("" si inconnu)
func GetUserIDByEmail(ctx context.Context, email string) (string, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return "", err
	}

	var uid gocql.UUID
	err = database.QueryGetUserIDByEmail(session).Bind(email).WithContext(ctx).Scan(&uid)
	if errors.Is(err, gocql.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return uid.String(), nil
}

// CreateUser insère un compte (local ou OAuth) et son entrée users_by_email
func CreateUser(ctx context.Context, u *models.User) error {
	uid, err := gocql.ParseUUID(u.ID)
	if err != nil {
		return err
	}

	session, err := database.GetUsersSession()
	if err != nil {
		return err
	}

	now := time.Now()
	if err := database.QueryInsertUser(session).Bind(uid, u.Email, u.Password, u.Name, u.FirstName, u.LastName,
		u.Phone, u.Role, u.Provider, u.IsGuest, now, now).WithContext(ctx).Exec(); err != nil {
		return err
	}
	return database.QueryInsertUserByEmail(session).Bind(u.Email, uid).WithContext(ctx).Exec()
}
