package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Huzaifa-Afraz/swiftride-server/internal/db"

	"github.com/jmoiron/sqlx"
)

const userColumns = `id, name, email, password_hash, role, is_kyc_approved, created_at`

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, name, email, passwordHash, role string) (*User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	var u User
	if err := db.Conn(ctx, r.db).GetContext(ctx, &u, query, name, email, passwordHash, role); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *postgresRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *postgresRepository) FindByID(ctx context.Context, id int) (*User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *postgresRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return db.Exists(ctx, db.Conn(ctx, r.db), `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
}

func (r *postgresRepository) SetKYCApproved(ctx context.Context, id int, approved bool) (*User, error) {
	query := `
		UPDATE users SET is_kyc_approved = $2
		WHERE id = $1
		RETURNING ` + userColumns

	return r.findOne(ctx, query, id, approved)
}

func (r *postgresRepository) findOne(ctx context.Context, query string, args ...interface{}) (*User, error) {
	var u User
	err := db.Conn(ctx, r.db).GetContext(ctx, &u, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
