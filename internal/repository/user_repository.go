package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/dineinbox/shop-ordering/internal/utils"
)

// User mirrors the 'users' table. ShopID is set for shop admins and null
// for super admins.
type User struct {
	ID           uint64
	Email        string
	PasswordHash string
	Role         string // SHOP_ADMIN | SUPER_ADMIN
	ShopID       *uint64
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

// Create inserts a user and returns its ID. shopID is nil for super admins.
func (r *UserRepo) Create(ctx context.Context, email, password, role string, shopID *uint64, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	var id uint64
	err = r.DB.QueryRowContext(ctx,
		"INSERT INTO users (email, password_hash, role, shop_id) VALUES ($1,$2,$3,$4) RETURNING id",
		email, hash, role, shopID).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	return id, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,role,shop_id,is_active,created_at,updated_at FROM users WHERE email=$1 LIMIT 1",
		email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.ShopID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (User, error) {
	var u User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,role,shop_id,is_active,created_at,updated_at FROM users WHERE id=$1 LIMIT 1",
		id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.ShopID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
