// Package batch maps many identifiers to primary keys concurrently.
package batch

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/engage/engage"
)

// DefaultConcurrency is used when a non-positive limit is given
const DefaultConcurrency = 5

// ErrInvalidRow is returned for rows without both columns filled in
var ErrInvalidRow = errors.New("invalid row")

// Mapper is the part of the Engage API used by Map
type Mapper interface {
	SetMap(ctx context.Context, identifier, primaryKey string, overwrite *bool) (*engage.Response, error)
}

// Row is one identifier,primaryKey pair read from CSV
type Row struct {
	Line       int    `json:"line"`
	Identifier string `json:"identifier"`
	PrimaryKey string `json:"primaryKey"`
}

// ReadRows reads identifier,primaryKey rows. A leading header row naming
// those two columns is skipped.
func ReadRows(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		line, _ := reader.FieldPos(0)
		identifier := strings.TrimSpace(record[0])
		primaryKey := strings.TrimSpace(record[1])

		if len(rows) == 0 && isHeader(identifier, primaryKey) {
			continue
		}
		if identifier == "" || primaryKey == "" {
			return nil, fmt.Errorf("%w on line %d: identifier and primary key are required", ErrInvalidRow, line)
		}

		rows = append(rows, Row{Line: line, Identifier: identifier, PrimaryKey: primaryKey})
	}

	return rows, nil
}

func isHeader(identifier, primaryKey string) bool {
	return strings.EqualFold(identifier, "identifier") && strings.EqualFold(primaryKey, "primaryKey")
}

// Result contains the outcome of a batch map
type Result struct {
	Requested int        `json:"requested"`
	Mapped    []Row      `json:"mapped"`
	Failed    []MapError `json:"failed,omitempty"`
}

// MapError contains information about a failed row
type MapError struct {
	Row Row
	Err error
}

// Error implements the error interface
func (e MapError) Error() string {
	return fmt.Sprintf("failed to map %s to %s (line %d): %v", e.Row.Identifier, e.Row.PrimaryKey, e.Row.Line, e.Err)
}

// MarshalJSON renders the row and the error message
func (e MapError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Row
		Error string `json:"error"`
	}{e.Row, e.Err.Error()})
}

// Map issues one map call per row with at most concurrency calls in flight.
// Failed rows are collected in the result and do not stop the batch.
func Map(ctx context.Context, m Mapper, rows []Row, overwrite *bool, concurrency int, logger zerolog.Logger) Result {
	result := Result{
		Requested: len(rows),
	}

	if len(rows) == 0 {
		return result
	}
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var mu sync.Mutex

	for _, row := range rows {
		g.Go(func() error {
			_, err := m.SetMap(ctx, row.Identifier, row.PrimaryKey, overwrite)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				logger.Warn().
					Err(err).
					Int("line", row.Line).
					Str("identifier", row.Identifier).
					Str("primary_key", row.PrimaryKey).
					Msg("Failed to map identifier")
				result.Failed = append(result.Failed, MapError{Row: row, Err: err})
				return nil
			}

			logger.Debug().
				Str("identifier", row.Identifier).
				Str("primary_key", row.PrimaryKey).
				Msg("Mapped identifier")
			result.Mapped = append(result.Mapped, row)
			return nil
		})
	}

	// Workers never return an error
	_ = g.Wait()

	slices.SortFunc(result.Mapped, func(a, b Row) int { return a.Line - b.Line })
	slices.SortFunc(result.Failed, func(a, b MapError) int { return a.Row.Line - b.Row.Line })

	return result
}
