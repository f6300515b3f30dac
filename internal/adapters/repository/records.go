package repository

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/pacpong/internal/domain/model"
)

// Match log column names.
const (
	ColHomePlayer = "home_player"
	ColAwayPlayer = "away_player"
	ColHomeScore  = "home_score"
	ColAwayScore  = "away_score"
	ColDate       = "date"
)

// MatchColumns is the header written for new match logs.
var MatchColumns = []string{ColHomePlayer, ColAwayPlayer, ColHomeScore, ColAwayScore, ColDate} //nolint:gochecknoglobals // fixed header

// ParseRecords converts a header-addressed table into match records.
// Columns may appear in any order and unknown columns are ignored. Blank
// rows are skipped. Errors wrap both ErrSourceUnavailable and
// model.ErrMalformedRecord.
func ParseRecords(header []string, rows [][]string) ([]model.MatchRecord, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range MatchColumns {
		if _, ok := idx[col]; !ok {
			err := &model.RecordError{Row: 0, Field: col, Err: fmt.Errorf("%w: missing column", model.ErrMalformedRecord)}
			return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
		}
	}

	records := make([]model.MatchRecord, 0, len(rows))
	for i, row := range rows {
		if blank(row) {
			continue
		}
		rec, err := parseRow(i+1, idx, row)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(n int, idx map[string]int, row []string) (model.MatchRecord, error) {
	cell := func(col string) string {
		if i := idx[col]; i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	score := func(col string) (float64, error) {
		v, err := strconv.ParseFloat(cell(col), 64)
		if err != nil {
			return 0, &model.RecordError{Row: n, Field: col, Err: fmt.Errorf("%w: %w", model.ErrMalformedRecord, err)}
		}
		return v, nil
	}

	rec := model.MatchRecord{
		HomePlayer: model.NormalizeName(cell(ColHomePlayer)),
		AwayPlayer: model.NormalizeName(cell(ColAwayPlayer)),
	}
	var err error
	if rec.HomeScore, err = score(ColHomeScore); err != nil {
		return rec, err
	}
	if rec.AwayScore, err = score(ColAwayScore); err != nil {
		return rec, err
	}
	if rec.Date, err = model.ParseDate(cell(ColDate)); err != nil {
		return rec, &model.RecordError{Row: n, Field: ColDate, Err: err}
	}
	if err := rec.Validate(n); err != nil {
		return rec, err
	}
	return rec, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// recordRow renders a record in MatchColumns order.
func recordRow(r model.MatchRecord) []string {
	return []string{
		r.HomePlayer,
		r.AwayPlayer,
		strconv.FormatFloat(r.HomeScore, 'f', -1, 64),
		strconv.FormatFloat(r.AwayScore, 'f', -1, 64),
		r.Date.Format(model.DateLayout),
	}
}
