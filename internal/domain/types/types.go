// Package types contains common types used across the application
package types

// Standing is one line of the published ranking.
type Standing struct {
	Rank   int     `json:"rank"`
	Player string  `json:"player"`
	Score  float64 `json:"score"`
}
