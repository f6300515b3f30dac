package repository_test

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/pacpong/internal/adapters/repository"
	"github.com/okian/pacpong/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func readCSV(path string) [][]string {
	f, err := os.Open(path)
	So(err, ShouldBeNil)
	defer func() { _ = f.Close() }()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	So(err, ShouldBeNil)
	return rows
}

func TestCSVStore(t *testing.T) {
	Convey("Given a CSV store in a temp dir", t, func() {
		dir := t.TempDir()
		matches := filepath.Join(dir, "matches.csv")
		results := filepath.Join(dir, "results.csv")
		store := repository.NewCSVStore(matches, results)
		ctx := context.Background()

		Convey("When a match log is written and read back", func() {
			in := []model.MatchRecord{
				{HomePlayer: "Anna", AwayPlayer: "Bas", HomeScore: 11, AwayScore: 7, Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
				{HomePlayer: "Cees", AwayPlayer: "Anna", HomeScore: 8, AwayScore: 11, Date: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)},
			}
			So(store.WriteMatches(ctx, in), ShouldBeNil)
			out, err := store.ReadMatches(ctx)

			Convey("Then the records should survive in order", func() {
				So(err, ShouldBeNil)
				So(out, ShouldResemble, in)
			})

			Convey("Then the file should start with the header", func() {
				So(readCSV(matches)[0], ShouldResemble, repository.MatchColumns)
			})
		})

		Convey("When the match log is empty", func() {
			So(os.WriteFile(matches, nil, 0o600), ShouldBeNil)
			out, err := store.ReadMatches(ctx)

			Convey("Then there should be no records", func() {
				So(err, ShouldBeNil)
				So(out, ShouldBeEmpty)
			})
		})

		Convey("When the match log does not exist", func() {
			_, err := store.ReadMatches(ctx)

			Convey("Then the source should be unavailable", func() {
				So(errors.Is(err, repository.ErrSourceUnavailable), ShouldBeTrue)
			})
		})

		Convey("When a row is malformed", func() {
			content := "home_player,away_player,home_score,away_score,date\nAnna,Bas,11,7,yesterday\n"
			So(os.WriteFile(matches, []byte(content), 0o600), ShouldBeNil)
			_, err := store.ReadMatches(ctx)

			Convey("Then the error should say so", func() {
				So(errors.Is(err, model.ErrMalformedRecord), ShouldBeTrue)
			})
		})

		Convey("When a ranking is written", func() {
			now := time.Date(2024, 5, 20, 9, 5, 0, 0, time.UTC)
			So(store.WriteRanking(ctx, sampleTable(), now), ShouldBeNil)
			rows := readCSV(results)

			Convey("Then the file should hold the grid as text", func() {
				So(rows, ShouldHaveLength, 4)
				So(rows[0], ShouldResemble, []string{"2024-05-20 09:05", "Anna", "Bas", "Cees", "Points"})
				So(rows[1], ShouldResemble, []string{"1. Anna", "diagonal", "72", "50", "67 (1)"})
			})

			Convey("Then no temp files should be left behind", func() {
				entries, err := os.ReadDir(dir)
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 1)
			})
		})

		Convey("When the results dir does not exist", func() {
			bad := repository.NewCSVStore(matches, filepath.Join(dir, "missing", "results.csv"))
			err := bad.WriteRanking(ctx, sampleTable(), time.Now())

			Convey("Then the sink should be unavailable", func() {
				So(errors.Is(err, repository.ErrSinkUnavailable), ShouldBeTrue)
			})
		})
	})
}
