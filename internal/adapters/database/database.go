package database

import (
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"

	"github.com/zatekoja/hospitalrecords/internal/infrastructure/clients/sqlite"
	apperrors "github.com/zatekoja/hospitalrecords/pkg/errors"
)

// dialect builds statements only; they are executed through the client's
// current handle so adapters survive a restore that reopens the file.
var dialect = goqu.Dialect("sqlite3")

// mapWriteError converts a failed INSERT/UPDATE/DELETE into an AppError.
// Constraint failures only happen when foreign keys are enforced or a unique
// column is duplicated.
func mapWriteError(err error, message string) error {
	switch {
	case sqlite.IsForeignKeyViolation(err):
		return apperrors.NewConflictError(message+": foreign key constraint failed", err)
	case sqlite.IsUniqueViolation(err):
		return apperrors.NewConflictError(message+": duplicate value", err)
	default:
		return apperrors.NewInternalError(message, err)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern returns a LIKE pattern matching term anywhere, with LIKE
// wildcards in term taken literally. Use with ESCAPE '\'.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
