package services

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// writeFileAtomic writes through a temp file in dest's directory and renames
// it into place, so dest is either untouched or complete.
func writeFileAtomic(dest string, write func(w io.Writer) error) (err error) {
	tmp := filepath.Join(filepath.Dir(dest), fmt.Sprintf(".%s.%s.tmp", filepath.Base(dest), uuid.New().String()))

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if err = write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}

	return os.Rename(tmp, dest)
}

// copyFileAtomic copies src over dest via writeFileAtomic
func copyFileAtomic(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	return writeFileAtomic(dest, func(w io.Writer) error {
		_, err := io.Copy(w, in)
		return err
	})
}

// samePath reports whether a and b name the same file, following links.
// A b that does not exist yet can only match by path.
func samePath(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, err
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, err
	}
	if absA == absB {
		return true, nil
	}

	infoB, err := os.Stat(b)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	infoA, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	return os.SameFile(infoA, infoB), nil
}
