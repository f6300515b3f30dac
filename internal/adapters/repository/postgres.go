package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/okian/pacpong/internal/domain/model"
	"github.com/okian/pacpong/pkg/logger"
)

// Schema creates the tables PostgresStore uses. ranking_cells mirrors the
// published grid cell by cell.
const Schema = `
CREATE TABLE IF NOT EXISTS matches (
	id          BIGSERIAL PRIMARY KEY,
	home_player TEXT             NOT NULL,
	away_player TEXT             NOT NULL,
	home_score  DOUBLE PRECISION NOT NULL,
	away_score  DOUBLE PRECISION NOT NULL,
	played_on   DATE             NOT NULL
);

CREATE TABLE IF NOT EXISTS ranking_cells (
	row_index INTEGER NOT NULL,
	col_index INTEGER NOT NULL,
	value     TEXT    NOT NULL,
	PRIMARY KEY (row_index, col_index)
);
`

const selectMatches = `
SELECT home_player, away_player, home_score, away_score, played_on
FROM matches
ORDER BY id`

// PostgresStore keeps the match log and published grid in PostgreSQL.
type PostgresStore struct {
	common
	db *sql.DB
}

// OpenPostgres connects to dsn and verifies the connection.
func OpenPostgres(ctx context.Context, dsn string, opts ...Option) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	return NewPostgresStore(db, opts...), nil
}

// NewPostgresStore wraps an open database handle.
func NewPostgresStore(db *sql.DB, opts ...Option) *PostgresStore {
	return &PostgresStore{common: newCommon("postgres", opts), db: db}
}

// EnsureSchema creates the tables if they do not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *PostgresStore) Close() error { return s.db.Close() }

// ReadMatches reads matches in insertion order.
func (s *PostgresStore) ReadMatches(ctx context.Context) ([]model.MatchRecord, error) {
	rows, err := s.db.QueryContext(ctx, selectMatches)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.MatchRecord
	for n := 1; rows.Next(); n++ {
		var (
			rec    model.MatchRecord
			played time.Time
		)
		if err := rows.Scan(&rec.HomePlayer, &rec.AwayPlayer, &rec.HomeScore, &rec.AwayScore, &played); err != nil {
			recErr := &model.RecordError{Row: n, Err: fmt.Errorf("%w: %w", model.ErrMalformedRecord, err)}
			return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, recErr)
		}
		rec.HomePlayer = model.NormalizeName(rec.HomePlayer)
		rec.AwayPlayer = model.NormalizeName(rec.AwayPlayer)
		rec.Date = model.CalendarDate(played)
		if err := rec.Validate(n); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	s.logger.Debug(ctx, "read match log", logger.Int("records", len(records)))
	return records, nil
}

// WriteRanking replaces ranking_cells with the rendered grid in one
// transaction.
func (s *PostgresStore) WriteRanking(ctx context.Context, table *model.RankingTable, now time.Time) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSinkUnavailable, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			err = fmt.Errorf("%w: %w", ErrSinkUnavailable, err)
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM ranking_cells`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("ranking_cells", "row_index", "col_index", "value"))
	if err != nil {
		return err
	}
	for r, row := range gridStrings(RenderGrid(table, now)) {
		for c, v := range row {
			if _, err = stmt.ExecContext(ctx, r, c, v); err != nil {
				_ = stmt.Close()
				return err
			}
		}
	}
	if _, err = stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		return err
	}
	if err = stmt.Close(); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return err
	}

	s.logger.Debug(ctx, "wrote ranking", logger.Int("players", table.Len()))
	return nil
}

// WriteMatches appends records to the match log.
func (s *PostgresStore) WriteMatches(ctx context.Context, records []model.MatchRecord) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSinkUnavailable, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			err = fmt.Errorf("%w: %w", ErrSinkUnavailable, err)
		}
	}()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("matches", "home_player", "away_player", "home_score", "away_score", "played_on"))
	if err != nil {
		return err
	}
	for _, r := range records {
		if _, err = stmt.ExecContext(ctx, r.HomePlayer, r.AwayPlayer, r.HomeScore, r.AwayScore, r.Date.Format(model.DateLayout)); err != nil {
			_ = stmt.Close()
			return err
		}
	}
	if _, err = stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		return err
	}
	if err = stmt.Close(); err != nil {
		return err
	}
	return tx.Commit()
}

// DB exposes the underlying handle.
func (s *PostgresStore) DB() *sql.DB { return s.db }
