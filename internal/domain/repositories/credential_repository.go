package repositories

import (
	"context"

	"github.com/zatekoja/hospitalrecords/internal/domain/entities"
)

// CredentialRepository defines the interface for login credential storage
type CredentialRepository interface {
	Create(ctx context.Context, credential *entities.Credential) error
	GetByUsername(ctx context.Context, username string) (*entities.Credential, error)
	Count(ctx context.Context) (int64, error)
}
