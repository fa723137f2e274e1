package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/zatekoja/hospitalrecords/internal/domain/entities"
	"github.com/zatekoja/hospitalrecords/internal/domain/repositories"
	"github.com/zatekoja/hospitalrecords/internal/infrastructure/clients/sqlite"
	apperrors "github.com/zatekoja/hospitalrecords/pkg/errors"
)

// CredentialAdapter implements the CredentialRepository interface on the
// users table
type CredentialAdapter struct {
	client *sqlite.Client
}

// NewCredentialAdapter creates a new credential adapter
func NewCredentialAdapter(client *sqlite.Client) repositories.CredentialRepository {
	return &CredentialAdapter{client: client}
}

// Create inserts a credential; a taken username is a conflict
func (a *CredentialAdapter) Create(ctx context.Context, credential *entities.Credential) (err error) {
	ctx, done := a.client.Instrument(ctx, "users.insert")
	defer func() { done(err) }()

	db, err := a.client.Conn()
	if err != nil {
		return err
	}

	query, args, err := dialect.Insert("users").Rows(goqu.Record{
		"username": credential.Username,
		"password": credential.Password,
	}).Prepared(true).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("failed to create user %q", credential.Username))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.NewInternalError("failed to read generated user id", err)
	}
	credential.ID = id

	return nil
}

// GetByUsername retrieves a credential by its username
func (a *CredentialAdapter) GetByUsername(ctx context.Context, username string) (_ *entities.Credential, err error) {
	ctx, done := a.client.Instrument(ctx, "users.select")
	defer func() { done(err) }()

	db, err := a.client.Conn()
	if err != nil {
		return nil, err
	}

	query, args, err := dialect.From("users").
		Select("id", "username", "password").
		Where(goqu.Ex{"username": username}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	credential := &entities.Credential{}
	err = db.GetContext(ctx, credential, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user %q not found", username))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user", err)
	}

	return credential, nil
}

// Count returns the number of stored credentials
func (a *CredentialAdapter) Count(ctx context.Context) (_ int64, err error) {
	ctx, done := a.client.Instrument(ctx, "users.count")
	defer func() { done(err) }()

	db, err := a.client.Conn()
	if err != nil {
		return 0, err
	}

	query, args, err := dialect.From("users").
		Select(goqu.COUNT("*")).
		Prepared(true).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build count query", err)
	}

	var count int64
	if err := db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, apperrors.NewInternalError("failed to count users", err)
	}

	return count, nil
}
