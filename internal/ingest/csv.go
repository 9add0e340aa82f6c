package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/models"
)

var (
	ErrEmptyInput        = errors.New("input has no data rows")
	ErrMissingNameColumn = errors.New("input has no player name column")
)

// ReadCSV parses a projections CSV into normalized records. Rows without a
// name are skipped; their index is still consumed so ids match row order.
func ReadCSV(r io.Reader) ([]models.PlayerRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if !HasNameColumn(header) {
		return nil, ErrMissingNameColumn
	}

	var records []models.PlayerRecord
	index := 0
	line := 1
	for {
		rec, err := reader.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(rec) == 0 || (len(rec) == 1 && strings.TrimSpace(rec[0]) == "") {
			continue
		}

		raw := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(rec) {
				raw[h] = rec[i]
			}
		}

		p := NormalizeRow(raw, index)
		index++
		if p.Name == "" {
			slog.Debug("Skipping row without player name", "line", line)
			continue
		}
		records = append(records, p)
	}

	if len(records) == 0 {
		return nil, ErrEmptyInput
	}
	return records, nil
}

// ReadCSVFile opens path and parses it with ReadCSV.
func ReadCSVFile(path string) ([]models.PlayerRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	records, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return records, nil
}
