package services

import (
	"context"
	"crypto/subtle"

	"github.com/zatekoja/hospitalrecords/internal/domain/entities"
	"github.com/zatekoja/hospitalrecords/internal/domain/repositories"
	"github.com/zatekoja/hospitalrecords/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/hospitalrecords/pkg/errors"
)

// CredentialService seeds and checks login credentials
type CredentialService struct {
	repo            repositories.CredentialRepository
	defaultUsername string
	defaultPassword string
}

// NewCredentialService creates a new credential service. The default
// credential is only written into an empty users table.
func NewCredentialService(repo repositories.CredentialRepository, defaultUsername, defaultPassword string) *CredentialService {
	return &CredentialService{
		repo:            repo,
		defaultUsername: defaultUsername,
		defaultPassword: defaultPassword,
	}
}

// EnsureDefault inserts the default credential when no user exists and
// reports whether it did.
func (s *CredentialService) EnsureDefault(ctx context.Context) (bool, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	credential := &entities.Credential{
		Username: s.defaultUsername,
		Password: s.defaultPassword,
	}
	if err := s.repo.Create(ctx, credential); err != nil {
		return false, err
	}

	observability.LoggerFromContext(ctx).Info().
		Str("username", credential.Username).
		Msg("seeded default credential")
	return true, nil
}

// Authenticate checks username and password against the users table
func (s *CredentialService) Authenticate(ctx context.Context, username, password string) (*entities.Credential, error) {
	credential, err := s.repo.GetByUsername(ctx, username)
	if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return nil, apperrors.NewUnauthorizedError("invalid username or password")
	}
	if err != nil {
		return nil, err
	}

	if subtle.ConstantTimeCompare([]byte(credential.Password), []byte(password)) != 1 {
		observability.LoggerFromContext(ctx).Warn().
			Str("username", username).
			Msg("login rejected")
		return nil, apperrors.NewUnauthorizedError("invalid username or password")
	}

	return credential, nil
}
