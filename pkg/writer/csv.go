// Package writer serialises output rows to a delimited file.
package writer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/xhad/eightk/internal/models"
)

var ErrNoRecords = errors.New("no records to write")

// Encode writes rows with a header taken from the Row csv tags.
func Encode(w io.Writer, rows []models.Row) error {
	if len(rows) == 0 {
		return ErrNoRecords
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("failed to encode rows: %w", err)
	}
	return nil
}

// WriteCSV writes rows to path. Nothing is created when rows is empty.
// The file is written beside its destination and renamed into place.
func WriteCSV(path string, rows []models.Row) error {
	if len(rows) == 0 {
		return ErrNoRecords
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set output permissions: %w", err)
	}

	if err := Encode(tmp, rows); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
