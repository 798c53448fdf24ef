package services

import (
	"sort"
	"time"
)

// MatchOutcome is one settled match seen from a single entity's side (a clan
// or a warrior). Points is what the entity earned if it won.
type MatchOutcome struct {
	MatchID  string
	PlayedAt time.Time
	Won      bool
	Points   int
	PowerWin bool
}

// AggregateStats is the result of folding a full match history.
type AggregateStats struct {
	Points            int
	Wins              int
	Losses            int
	PowerWins         int
	CurrentWinStreak  int
	CurrentLossStreak int
	MaxWinStreak      int
}

// ComputeStats folds a match history into aggregate stats. It is pure and
// deterministic: the input is re-sorted by (PlayedAt, MatchID) ascending so
// repeated recomputation over the same history is idempotent even when two
// matches share a timestamp. An empty history yields the zero value.
//
// This is the single source of truth for both the incremental updates applied
// at settlement time and the admin recalculation path — the two must never
// disagree on a full history.
func ComputeStats(history []MatchOutcome) AggregateStats {
	ordered := make([]MatchOutcome, len(history))
	copy(ordered, history)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].PlayedAt.Equal(ordered[j].PlayedAt) {
			return ordered[i].PlayedAt.Before(ordered[j].PlayedAt)
		}
		return ordered[i].MatchID < ordered[j].MatchID
	})

	var out AggregateStats
	run := 0 // current forward win run
	for _, m := range ordered {
		if m.Won {
			out.Wins++
			out.Points += m.Points
			if m.PowerWin {
				out.PowerWins++
			}
			run++
			if run > out.MaxWinStreak {
				out.MaxWinStreak = run
			}
			out.CurrentWinStreak++
			out.CurrentLossStreak = 0
		} else {
			out.Losses++
			run = 0
			out.CurrentLossStreak++
			out.CurrentWinStreak = 0
		}
	}
	return out
}
