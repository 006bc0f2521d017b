package identity

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Wadangzz/Dessert-Gemini/internal/auth"
)

// PostgresProvider stores identities in the auth_identities table.
type PostgresProvider struct {
	pool           *pgxpool.Pool
	bcryptCost     int
	serviceRoleKey string
}

// NewPostgresProvider constructs the provider.
func NewPostgresProvider(pool *pgxpool.Pool, bcryptCost int, serviceRoleKey string) *PostgresProvider {
	return &PostgresProvider{pool: pool, bcryptCost: bcryptCost, serviceRoleKey: serviceRoleKey}
}

// CreateIdentity provisions a new identity for the login address.
func (p *PostgresProvider) CreateIdentity(ctx context.Context, loginAddress, secret string) (string, error) {
	const existsQuery = `SELECT id FROM auth_identities WHERE login_address=$1`

	var existing string
	err := p.pool.QueryRow(ctx, existsQuery, loginAddress).Scan(&existing)
	if err == nil {
		return "", ErrIdentityExists
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}

	hash, err := auth.HashPassword(secret, p.bcryptCost)
	if err != nil {
		return "", err
	}

	const insertQuery = `
        INSERT INTO auth_identities (id, login_address, secret_hash)
        VALUES ($1, $2, $3)`

	id := uuid.NewString()
	if _, err := p.pool.Exec(ctx, insertQuery, id, loginAddress, hash); err != nil {
		return "", err
	}
	return id, nil
}

// VerifyIdentity checks the secret against the stored hash.
func (p *PostgresProvider) VerifyIdentity(ctx context.Context, loginAddress, secret string) (string, error) {
	const query = `SELECT id, secret_hash FROM auth_identities WHERE login_address=$1`

	var id, hash string
	if err := p.pool.QueryRow(ctx, query, loginAddress).Scan(&id, &hash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if err := auth.ComparePassword(hash, secret); err != nil {
		return "", ErrInvalidCredentials
	}
	return id, nil
}

// DeleteIdentity deprovisions an identity under the service credential.
func (p *PostgresProvider) DeleteIdentity(ctx context.Context, identityID, serviceKey string) error {
	if p.serviceRoleKey == "" ||
		subtle.ConstantTimeCompare([]byte(serviceKey), []byte(p.serviceRoleKey)) != 1 {
		return ErrServiceCredential
	}

	const query = `DELETE FROM auth_identities WHERE id=$1`

	cmd, err := p.pool.Exec(ctx, query, identityID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
