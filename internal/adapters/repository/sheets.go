package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/pacpong/internal/domain/model"
	"github.com/okian/pacpong/pkg/logger"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Sheets API request options.
const (
	valueRenderFormatted = "FORMATTED_VALUE"
	valueInputRaw        = "RAW"
	gridOrigin           = "A1"
)

// SheetsConfig locates the worksheets of a competition spreadsheet.
type SheetsConfig struct {
	SpreadsheetID string
	MatchesSheet  string
	ResultsSheet  string
	// ClientOptions configure the API client, e.g. credentials or endpoint.
	ClientOptions []option.ClientOption
}

// SheetsStore reads matches from and publishes rankings to Google Sheets.
type SheetsStore struct {
	common
	svc *sheets.Service
	cfg SheetsConfig
}

// NewSheetsStore creates a Sheets API client for cfg.
func NewSheetsStore(ctx context.Context, cfg SheetsConfig, opts ...Option) (*SheetsStore, error) {
	svc, err := sheets.NewService(ctx, cfg.ClientOptions...)
	if err != nil {
		return nil, fmt.Errorf("%w: sheets client: %w", ErrSourceUnavailable, err)
	}
	return &SheetsStore{
		common: newCommon("sheets", opts),
		svc:    svc,
		cfg:    cfg,
	}, nil
}

// CredentialsOptions returns client options authenticating with a service
// account key file, scoped to spreadsheets.
func CredentialsOptions(credentialsFile string) []option.ClientOption {
	return []option.ClientOption{
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	}
}

// ReadMatches reads the whole matches worksheet. Row 1 is the header.
func (s *SheetsStore) ReadMatches(ctx context.Context) ([]model.MatchRecord, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.cfg.SpreadsheetID, s.cfg.MatchesSheet).
		ValueRenderOption(valueRenderFormatted).
		Context(ctx).
		Do()
	if err != nil {
		s.logAPIError(ctx, "read matches failed", err)
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}

	cells := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells[i] = make([]string, len(row))
		for j, v := range row {
			cells[i][j] = fmt.Sprint(v)
		}
	}

	records, err := ParseRecords(cells[0], cells[1:])
	if err != nil {
		return nil, err
	}
	s.logger.Debug(ctx, "read match log",
		logger.String("sheet", s.cfg.MatchesSheet),
		logger.Int("records", len(records)),
	)
	return records, nil
}

// WriteRanking writes the grid to the results worksheet starting at A1.
func (s *SheetsStore) WriteRanking(ctx context.Context, table *model.RankingTable, now time.Time) error {
	rng := s.cfg.ResultsSheet + "!" + gridOrigin
	_, err := s.svc.Spreadsheets.Values.Update(s.cfg.SpreadsheetID, rng, &sheets.ValueRange{Values: RenderGrid(table, now)}).
		ValueInputOption(valueInputRaw).
		Context(ctx).
		Do()
	if err != nil {
		s.logAPIError(ctx, "write ranking failed", err)
		return fmt.Errorf("%w: %w", ErrSinkUnavailable, err)
	}
	s.logger.Debug(ctx, "wrote ranking", logger.String("range", rng), logger.Int("players", table.Len()))
	return nil
}

func (s *SheetsStore) logAPIError(ctx context.Context, msg string, err error) {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		s.logger.Warn(ctx, msg, logger.Int("status", apiErr.Code), logger.String("reason", apiErr.Message))
		return
	}
	s.logger.Warn(ctx, msg, logger.Error(err))
}
