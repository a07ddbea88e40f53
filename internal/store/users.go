package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/safar/storefront/internal/database"
	"github.com/safar/storefront/internal/models"
)

var ErrDuplicateEmail = errors.New("email already registered")

func CreateUser(ctx context.Context, db *sql.DB, name, email, password, role string) (*models.User, error) {
	if name == "" || email == "" || password == "" || role == "" {
		return nil, fmt.Errorf("%w: name, email, password and role are required", ErrValidation)
	}

	user := &models.User{}

	query := `
		INSERT INTO users (name, email, password, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, email, password, role`

	err := db.QueryRowContext(ctx, query, name, email, password, role).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.Role,
	)
	if err != nil {
		if database.IsDuplicate(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func GetUser(ctx context.Context, db *sql.DB, id int64) (*models.User, error) {
	user := &models.User{}

	query := `
		SELECT id, name, email, password, role
		FROM users
		WHERE id = $1`

	err := db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.Role,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return user, nil
}

func GetUserByEmail(ctx context.Context, db *sql.DB, email string) (*models.User, error) {
	user := &models.User{}

	query := `
		SELECT id, name, email, password, role
		FROM users
		WHERE email = $1`

	err := db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.Role,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return user, nil
}
