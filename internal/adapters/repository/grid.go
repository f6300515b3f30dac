package repository

import (
	"fmt"
	"math"
	"time"

	"github.com/okian/pacpong/internal/domain/model"
)

// Published grid constants.
const (
	TimestampLayout = "2006-01-02 15:04"
	DiagonalLabel   = "diagonal"
	PointsHeader    = "Points"
	percent         = 100
)

// RenderGrid lays the table out as published: a timestamp corner, ranked
// player columns, "<rank>. <player>" row headers, dominance ×100 off the
// diagonal, and a Points column of "<score×100> (<rank>)".
//
// The grid is (N+1)×(N+2). Dominance cells are int; everything else is a
// string. now is formatted in its own location.
func RenderGrid(table *model.RankingTable, now time.Time) [][]any {
	n := table.Len()
	grid := make([][]any, n+1)

	header := make([]any, n+2)
	header[0] = now.Format(TimestampLayout)
	for c, p := range table.Players {
		header[c+1] = p
	}
	header[n+1] = PointsHeader
	grid[0] = header

	for r := range n {
		row := make([]any, n+2)
		row[0] = fmt.Sprintf("%d. %s", r+1, table.Players[r])
		for c := range n {
			if r == c {
				row[c+1] = DiagonalLabel
				continue
			}
			row[c+1] = int(math.RoundToEven(table.Dominance[r][c] * percent))
		}
		row[n+1] = fmt.Sprintf("%d (%d)", int(math.Trunc(table.Scores[r]*percent)), r+1)
		grid[r+1] = row
	}
	return grid
}

// gridStrings renders every cell as text.
func gridStrings(grid [][]any) [][]string {
	out := make([][]string, len(grid))
	for r, row := range grid {
		out[r] = make([]string, len(row))
		for c, v := range row {
			out[r][c] = fmt.Sprint(v)
		}
	}
	return out
}
