package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/zatekoja/hospitalrecords/internal/domain/providers"
	"github.com/zatekoja/hospitalrecords/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/hospitalrecords/pkg/errors"
)

var sqliteHeader = []byte("SQLite format 3\x00")

// BackupService copies the database file out and back in
type BackupService struct {
	file        providers.DatabaseFile
	credentials *CredentialService
}

// NewBackupService creates a new backup service. credentials may be nil; when
// set, the default credential is re-seeded after a restore.
func NewBackupService(file providers.DatabaseFile, credentials *CredentialService) *BackupService {
	return &BackupService{
		file:        file,
		credentials: credentials,
	}
}

// Backup copies the database file to dest
func (s *BackupService) Backup(ctx context.Context, dest string) error {
	ctx, span := observability.StartSpan(ctx, "BackupService.Backup")
	defer span.End()

	if s.file.InMemory() {
		return apperrors.NewStorageError("an in-memory database cannot be backed up", nil)
	}

	same, err := samePath(s.file.Path(), dest)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to check backup destination %s", dest), err)
	}
	if same {
		return apperrors.NewValidationError("backup destination is the live database file")
	}

	if err := copyFileAtomic(s.file.Path(), dest); err != nil {
		observability.RecordError(span, err)
		return apperrors.NewStorageError(fmt.Sprintf("failed to back up database to %s", dest), err)
	}

	observability.LoggerFromContext(ctx).Info().
		Str("source", s.file.Path()).
		Str("dest", dest).
		Msg("database backed up")
	return nil
}

// Restore replaces the database file with src. Every record not in src is
// lost.
func (s *BackupService) Restore(ctx context.Context, src string) error {
	ctx, span := observability.StartSpan(ctx, "BackupService.Restore")
	defer span.End()

	if s.file.InMemory() {
		return apperrors.NewStorageError("an in-memory database cannot be restored", nil)
	}
	if err := checkSQLiteFile(src); err != nil {
		return err
	}

	err := s.file.ReplaceFile(ctx, func(staged string) error {
		return copyFileAtomic(src, staged)
	})
	if err != nil {
		observability.RecordError(span, err)
		return apperrors.NewStorageError(fmt.Sprintf("failed to restore database from %s", src), err)
	}

	if s.credentials != nil {
		if _, err := s.credentials.EnsureDefault(ctx); err != nil {
			return err
		}
	}

	observability.LoggerFromContext(ctx).Info().
		Str("source", src).
		Str("dest", s.file.Path()).
		Msg("database restored")
	return nil
}

func checkSQLiteFile(path string) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return apperrors.NewStorageError(fmt.Sprintf("backup file %s does not exist", path), nil)
	}
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to open backup file %s", path), err)
	}
	defer f.Close()

	header := make([]byte, len(sqliteHeader))
	if _, err := io.ReadFull(f, header); err != nil || !bytes.Equal(header, sqliteHeader) {
		return apperrors.NewStorageError(fmt.Sprintf("%s is not a SQLite database", path), nil)
	}
	return nil
}
