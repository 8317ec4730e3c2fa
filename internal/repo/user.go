package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fintrack/fintrack/internal/auth"
	"github.com/fintrack/fintrack/internal/models"
	"github.com/google/uuid"
)

// ==========================
// UserRepo
// ==========================

// UserRepo is the credential store. Passwords enter as plaintext and are
// persisted only as bcrypt hashes at Cost.
type UserRepo struct {
	DB   *sql.DB
	Cost int
}

// ==========================
// Constructor
// ==========================
func NewUserRepo(db *sql.DB, cost int) *UserRepo {
	return &UserRepo{DB: db, Cost: cost}
}

// NormalizeEmail is the lookup key form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ==========================
// Register
// ==========================

// Register stores a new identity. It fails with ErrDuplicateIdentity if email is taken.
func (r *UserRepo) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)

	if _, err := r.FindByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateIdentity
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, r.Cost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(username),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		// Lost a race with a concurrent signup for the same email.
		if isUniqueViolation(err) {
			return nil, ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

// ==========================
// Find By Email
// ==========================

// FindByEmail returns the full identity record, hash included. Callers outside
// this package should only use it to authenticate.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE email = $1
	`

	user := &models.User{}

	err := r.DB.QueryRowContext(ctx, query, NormalizeEmail(email)).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	return user, nil
}

// ==========================
// Find By ID
// ==========================

// FindByID returns the public projection of an identity.
func (r *UserRepo) FindByID(ctx context.Context, id string) (models.PublicUser, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.PublicUser{}, ErrUserNotFound
	}

	query := `
		SELECT id, username, email
		FROM users
		WHERE id = $1
	`

	var u models.PublicUser
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Username, &u.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return models.PublicUser{}, ErrUserNotFound
	}
	if err != nil {
		return models.PublicUser{}, fmt.Errorf("find user by id: %w", err)
	}

	return u, nil
}

// ==========================
// Authenticate
// ==========================

// Authenticate checks email and password. Unknown email and wrong password both
// yield auth.ErrInvalidCredentials.
func (r *UserRepo) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := r.FindByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		_ = auth.CheckPassword("", password)
		return nil, auth.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, err
	}
	return user, nil
}
