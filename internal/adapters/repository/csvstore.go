package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/pacpong/internal/domain/model"
	"github.com/okian/pacpong/pkg/logger"
)

// CSVStore keeps the match log and the published grid in local CSV files.
type CSVStore struct {
	common
	matchesPath string
	resultsPath string
}

// NewCSVStore creates a store reading matchesPath and writing resultsPath.
func NewCSVStore(matchesPath, resultsPath string, opts ...Option) *CSVStore {
	return &CSVStore{
		common:      newCommon("csv", opts),
		matchesPath: matchesPath,
		resultsPath: resultsPath,
	}
}

// ReadMatches parses the match log. The first line is the header.
func (s *CSVStore) ReadMatches(ctx context.Context) ([]model.MatchRecord, error) {
	f, err := os.Open(s.matchesPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	records, err := ParseRecords(header, rows)
	if err != nil {
		return nil, err
	}
	s.logger.Debug(ctx, "read match log", logger.String("path", s.matchesPath), logger.Int("records", len(records)))
	return records, nil
}

// WriteRanking replaces the results file with the rendered grid.
func (s *CSVStore) WriteRanking(ctx context.Context, table *model.RankingTable, now time.Time) error {
	if err := writeCSV(s.resultsPath, gridStrings(RenderGrid(table, now))); err != nil {
		return fmt.Errorf("%w: %w", ErrSinkUnavailable, err)
	}
	s.logger.Debug(ctx, "wrote ranking", logger.String("path", s.resultsPath), logger.Int("players", table.Len()))
	return nil
}

// WriteMatches replaces the match log with records.
func (s *CSVStore) WriteMatches(_ context.Context, records []model.MatchRecord) error {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, MatchColumns)
	for _, r := range records {
		rows = append(rows, recordRow(r))
	}
	if err := writeCSV(s.matchesPath, rows); err != nil {
		return fmt.Errorf("%w: %w", ErrSinkUnavailable, err)
	}
	return nil
}

// writeCSV writes rows next to path and renames it into place so readers
// never see half a file.
func writeCSV(path string, rows [][]string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(rows); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
