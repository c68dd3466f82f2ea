package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"sitecms/api/logging"
	"sitecms/api/models"
)

var (
	ErrAdminNotFound = errors.New("admin not found")
	ErrAdminExists   = errors.New("admin already exists")
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

type AdminStore struct {
	db *sql.DB
}

func NewAdminStore(db *sql.DB) *AdminStore {
	return &AdminStore{db: db}
}

// CreateAdmin inserts a new dashboard account.
func (s *AdminStore) CreateAdmin(ctx context.Context, email string, hashedPassword []byte) (*models.Admin, error) {
	admin := &models.Admin{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO admins (email, hashed_password)
		VALUES ($1, $2)
		RETURNING id, email, created_at, updated_at
	`, email, hashedPassword).Scan(&admin.ID, &admin.Email, &admin.CreatedAt, &admin.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: %s", ErrAdminExists, email)
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	logging.Ctx(ctx).Info().Int64("admin_id", admin.ID).Msg("admin created")
	return admin, nil
}

func (s *AdminStore) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	admin := &models.Admin{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, hashed_password, created_at, updated_at
		FROM admins
		WHERE email = $1
	`, email).Scan(&admin.ID, &admin.Email, &admin.HashedPassword, &admin.CreatedAt, &admin.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrAdminNotFound, email)
		}
		return nil, fmt.Errorf("failed to get admin by email: %w", err)
	}
	return admin, nil
}
