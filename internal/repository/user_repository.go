package repository

import (
	"context"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// UserRepository reads identities owned by the identity provider.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*domain.Identity, error)
}

type userRepository struct {
	db DBTX
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(db DBTX) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.Identity, error) {
	const query = `
        SELECT username, full_name, role, station
        FROM users WHERE username=$1`

	var (
		id   domain.Identity
		role *string
	)
	if err := r.db.QueryRow(ctx, query, username).Scan(
		&id.Username,
		&id.FullName,
		&role,
		&id.Station,
	); err != nil {
		return nil, err
	}
	id.Role = domain.RoleUnknown
	if role != nil {
		id.Role = domain.ParseRole(*role)
	}
	return &id, nil
}
