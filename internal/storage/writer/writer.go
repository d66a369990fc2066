package writer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/leengari/larex/internal/dataset"
)

// WriteCSV writes ds as CSV: one header row of channel names, then one
// row per sample index. Channels shorter than the longest one get empty
// cells.
func WriteCSV(w io.Writer, ds *dataset.Dataset) error {
	if ds == nil {
		return fmt.Errorf("cannot write dataset: nil")
	}

	cw := csv.NewWriter(w)
	names := ds.Names()
	if err := cw.Write(names); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(names))
	for row := 0; row < ds.MaxRows(); row++ {
		for i, name := range names {
			col, _ := ds.Get(name)
			if row < len(col) {
				record[i] = strconv.FormatFloat(col[row], 'g', -1, 64)
			} else {
				record[i] = ""
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveCSV writes ds to path via a temp file and an atomic rename
func SaveCSV(path string, ds *dataset.Dataset) error {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, ds); err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write temp file for %s: %w", path, err)
	}

	// Atomic replace
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp → %s: %w", path, err)
	}
	return nil
}
