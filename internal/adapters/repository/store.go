package repository

import (
	"context"
	"time"

	"github.com/okian/pacpong/internal/domain/model"
)

// Store provides read/write access to the competition's tabular store.
type Store interface {
	// ReadMatches returns every match in the log.
	// Returns ErrSourceUnavailable if the backend cannot be reached or a
	// row is malformed (the latter also matches model.ErrMalformedRecord).
	ReadMatches(ctx context.Context) ([]model.MatchRecord, error)

	// WriteRanking publishes the table with now as its timestamp.
	// Returns ErrSinkUnavailable on failure; cells may be partially written.
	WriteRanking(ctx context.Context, table *model.RankingTable, now time.Time) error
}
