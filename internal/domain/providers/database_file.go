package providers

import (
	"context"
)

// DatabaseFile is the file-level view of the record store used by backup and
// restore.
type DatabaseFile interface {
	// Path returns the location of the database file
	Path() string

	// InMemory reports whether there is no file to copy
	InMemory() bool

	// ReplaceFile lets stage write a replacement to a temp path, checks it,
	// and swaps it in. On failure the current file is kept.
	ReplaceFile(ctx context.Context, stage func(path string) error) error
}
