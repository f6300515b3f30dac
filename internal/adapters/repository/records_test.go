package repository_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/pacpong/internal/adapters/repository"
	"github.com/okian/pacpong/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseRecords(t *testing.T) {
	Convey("Given a header-addressed match log", t, func() {
		header := []string{"date", "Home_Player", "away_player", "home_score", "away_score", "table"}

		Convey("When every row is well formed", func() {
			rows := [][]string{
				{"2024-05-01", "Anna ", "Bas", "11", "7", "1"},
				{"", "", "", "", "", ""},
				{"2024-05-02", "Bas", "Cees", "9", "11.5"},
			}
			records, err := repository.ParseRecords(header, rows)

			Convey("Then columns should be found by name and blank rows skipped", func() {
				So(err, ShouldBeNil)
				So(records, ShouldResemble, []model.MatchRecord{
					{HomePlayer: "Anna", AwayPlayer: "Bas", HomeScore: 11, AwayScore: 7, Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
					{HomePlayer: "Bas", AwayPlayer: "Cees", HomeScore: 9, AwayScore: 11.5, Date: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)},
				})
			})
		})

		Convey("When a score is not a number", func() {
			rows := [][]string{{"2024-05-01", "Anna", "Bas", "eleven", "7"}}
			_, err := repository.ParseRecords(header, rows)

			Convey("Then it should be both a source and a record error", func() {
				So(errors.Is(err, repository.ErrSourceUnavailable), ShouldBeTrue)
				So(errors.Is(err, model.ErrMalformedRecord), ShouldBeTrue)
				var recErr *model.RecordError
				So(errors.As(err, &recErr), ShouldBeTrue)
				So(recErr.Row, ShouldEqual, 1)
				So(recErr.Field, ShouldEqual, repository.ColHomeScore)
			})
		})

		Convey("When a date is not YYYY-MM-DD", func() {
			rows := [][]string{{"1-5-2024", "Anna", "Bas", "11", "7"}}
			_, err := repository.ParseRecords(header, rows)

			Convey("Then the date field should be blamed", func() {
				var recErr *model.RecordError
				So(errors.As(err, &recErr), ShouldBeTrue)
				So(recErr.Field, ShouldEqual, repository.ColDate)
				So(errors.Is(err, model.ErrMalformedRecord), ShouldBeTrue)
			})
		})

		Convey("When a row is missing a player", func() {
			rows := [][]string{{"2024-05-01", "Anna", "", "11", "7"}}
			_, err := repository.ParseRecords(header, rows)

			Convey("Then it should be malformed", func() {
				So(errors.Is(err, model.ErrMalformedRecord), ShouldBeTrue)
			})
		})

		Convey("When a row is cut short", func() {
			rows := [][]string{{"2024-05-01", "Anna", "Bas", "11"}}
			_, err := repository.ParseRecords(header, rows)

			Convey("Then the missing cell should be malformed", func() {
				So(errors.Is(err, model.ErrMalformedRecord), ShouldBeTrue)
			})
		})

		Convey("When a column is missing from the header", func() {
			_, err := repository.ParseRecords([]string{"home_player", "away_player", "home_score", "date"}, nil)

			Convey("Then it should name the column", func() {
				So(errors.Is(err, model.ErrMalformedRecord), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, repository.ColAwayPlayer)
			})
		})
	})
}
