package importer

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/leengari/larex/internal/dataset"
	"github.com/leengari/larex/internal/domain/errs"
)

// Report summarises what happened during an import
type Report struct {
	Rows    int            // data rows read (blank lines excluded)
	Skipped map[string]int // non-numeric values dropped, per column
}

// ParseCSV parses comma-separated text into a Dataset.
//
// The first non-blank line holds the headers. Field i of every data row
// belongs to header i. Values that do not parse as finite numbers are
// dropped and logged, so columns may end up with different lengths.
// Header positions with an empty name, such as the one left by a trailing
// comma, are skipped in every row.
func ParseCSV(text string, logger *slog.Logger) (*dataset.Dataset, error) {
	ds, _, err := ParseCSVWithReport(text, logger)
	return ds, err
}

// ParseCSVWithReport is ParseCSV that also returns import statistics.
func ParseCSVWithReport(text string, logger *slog.Logger) (*dataset.Dataset, *Report, error) {
	if logger == nil {
		logger = slog.Default()
	}

	lines := nonBlankLines(text)
	if len(lines) < 2 {
		return nil, nil, errs.NewCSVFormatError("CSV must contain a header row and at least one data row")
	}

	headers := strings.Split(lines[0], ",")
	ds := dataset.New()
	seen := make(map[string]bool, len(headers))
	for i, h := range headers {
		name := dataset.SanitizeName(h)
		headers[i] = name
		if name == "" {
			// Unnamed columns cannot be referenced, their cells are ignored
			logger.Warn("skipping unnamed column", slog.Int("position", i+1))
			continue
		}
		if seen[name] {
			logger.Warn("duplicate column name, values are merged", slog.String("column", name))
		}
		seen[name] = true
		ds.Set(name, nil)
	}

	report := &Report{Skipped: make(map[string]int)}
	for _, line := range lines[1:] {
		report.Rows++
		values := strings.Split(line, ",")
		for i, name := range headers {
			if name == "" {
				continue
			}
			var raw string
			if i < len(values) {
				raw = strings.TrimSpace(values[i])
			}
			num, err := strconv.ParseFloat(raw, 64)
			if err != nil || !dataset.IsFinite(num) {
				report.Skipped[name]++
				logger.Warn("skipping non-numeric value",
					slog.String("value", raw),
					slog.String("column", name),
					slog.Int("row", report.Rows),
				)
				continue
			}
			ds.Append(name, num)
		}
	}

	logger.Info("csv imported",
		slog.Int("columns", ds.Len()),
		slog.Int("rows", report.Rows),
	)

	return ds, report, nil
}

// ImportFile reads a CSV file from disk and parses it
func ImportFile(path string, logger *slog.Logger) (*dataset.Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	ds, err := ParseCSV(string(raw), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to import %s: %w", path, err)
	}
	return ds, nil
}

func nonBlankLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
