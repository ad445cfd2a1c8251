package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fintrack-server/src/db"
	"fintrack-server/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

const userColumns = `id, name, email, password_hash, pref_currency, pref_theme, pref_language,
	avatar, is_verified, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash,
		&u.Preferences.Currency, &u.Preferences.Theme, &u.Preferences.Language,
		&u.Avatar, &u.IsVerified, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func CreateUser(ctx context.Context, q db.Querier, name, email, hashedPassword string) (*models.User, error) {
	query := `
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns
	user, err := scanUser(q.QueryRow(ctx, query, name, email, hashedPassword))
	if err != nil {
		// Handle duplicate key
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func GetUserByID(ctx context.Context, q db.Querier, userID uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(q.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("query error: %w", err)
	}
	return user, nil
}

func GetUserByEmail(ctx context.Context, q db.Querier, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(q.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("query error: %w", err)
	}
	return user, nil
}

func UpdateUserProfile(ctx context.Context, q db.Querier, u *models.User) (*models.User, error) {
	query := `
		UPDATE users
		SET name = $1, avatar = $2, pref_currency = $3, pref_theme = $4, pref_language = $5,
			updated_at = NOW()
		WHERE id = $6
		RETURNING ` + userColumns
	updated, err := scanUser(q.QueryRow(ctx, query,
		u.Name, u.Avatar, u.Preferences.Currency, u.Preferences.Theme, u.Preferences.Language, u.ID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user profile: %w", err)
	}
	return updated, nil
}

func UpdateUserPassword(ctx context.Context, q db.Querier, userID uuid.UUID, hashedPassword string) error {
	cmd, err := q.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
		hashedPassword, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeleteUser removes the account; owned transactions go with it via the
// ON DELETE CASCADE on transactions.user_id.
func DeleteUser(ctx context.Context, q db.Querier, userID uuid.UUID) error {
	cmd, err := q.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	db.ClearAnalyticsCache(userID)
	return nil
}
