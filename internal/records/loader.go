package records

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/logger"
)

// ErrUnsupportedFormat is returned for file extensions without a reader.
var ErrUnsupportedFormat = errors.New("unsupported records format")

type reader func(io.Reader) ([]map[string]any, error)

var readers = map[string]reader{
	".csv":  ReadCSV,
	".xlsx": ReadXLSX,
	".json": ReadJSON,
	".html": ParseListing,
	".htm":  ParseListing,
}

// Load reads, validates and decodes all records of a file. Rows that fail the
// schema are logged and skipped; the number of skipped rows is returned.
func Load(path string, log *zap.Logger) ([]Record, int, error) {
	read, ok := readers[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open records file: %w", err)
	}
	defer file.Close()

	rows, err := read(file)
	if err != nil {
		return nil, 0, fmt.Errorf("read records from %s: %w", path, err)
	}

	log = logger.WithFields(log, zap.String(logger.FieldDocument, filepath.Base(path)))
	return FromRows(rows, log)
}

// FromRows normalizes, validates and decodes raw rows.
func FromRows(rows []map[string]any, log *zap.Logger) ([]Record, int, error) {
	log = logger.WithFields(log)

	out := make([]Record, 0, len(rows))
	skipped := 0
	for i, raw := range rows {
		row := Normalize(raw)

		if err := Validate(row); err != nil {
			var schemaErr *SchemaLoadError
			if errors.As(err, &schemaErr) {
				return nil, 0, err
			}
			log.Warn("record skipped", zap.Int("row", i+1), zap.Error(err))
			skipped++
			continue
		}

		rec, err := Decode(row)
		if err != nil {
			log.Warn("record skipped", zap.Int("row", i+1), zap.Error(err))
			skipped++
			continue
		}
		out = append(out, rec)
	}

	log.Debug("records loaded", zap.Int("loaded", len(out)), zap.Int("skipped", skipped))
	return out, skipped, nil
}
