// Package model defines domain types used by the service.
package model

// VoteResult is the response returned for a successful vote.
type VoteResult struct {
	Status       string `json:"status"`
	CurrentCount int64  `json:"current_count"`
	Version      string `json:"version"`
}

// CountList maps every known product to its current tally.
type CountList struct {
	Data    map[string]int64 `json:"data"`
	Version string           `json:"version"`
}
