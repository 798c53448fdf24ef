package services

import (
	"testing"
	"time"
)

func mustEqualStats(t *testing.T, got, want AggregateStats) {
	t.Helper()
	if got != want {
		t.Errorf("ComputeStats = %+v, want %+v", got, want)
	}
}

func TestComputeStatsEmptyHistory(t *testing.T) {
	mustEqualStats(t, ComputeStats(nil), AggregateStats{})
	mustEqualStats(t, ComputeStats([]MatchOutcome{}), AggregateStats{})
}

func TestComputeStats(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	at := func(i int) time.Time { return base.Add(time.Duration(i) * time.Hour) }

	tests := []struct {
		name    string
		history []MatchOutcome
		want    AggregateStats
	}{
		{
			name: "single power win",
			history: []MatchOutcome{
				{MatchID: "m1", PlayedAt: at(0), Won: true, Points: 4, PowerWin: true},
			},
			want: AggregateStats{Points: 4, Wins: 1, PowerWins: 1, CurrentWinStreak: 1, MaxWinStreak: 1},
		},
		{
			name: "single loss",
			history: []MatchOutcome{
				{MatchID: "m1", PlayedAt: at(0), Won: false},
			},
			want: AggregateStats{Losses: 1, CurrentLossStreak: 1},
		},
		{
			name: "streak broken then rebuilt shorter",
			history: []MatchOutcome{
				{MatchID: "m1", PlayedAt: at(0), Won: true, Points: 3},
				{MatchID: "m2", PlayedAt: at(1), Won: true, Points: 3},
				{MatchID: "m3", PlayedAt: at(2), Won: true, Points: 4, PowerWin: true},
				{MatchID: "m4", PlayedAt: at(3), Won: false},
				{MatchID: "m5", PlayedAt: at(4), Won: true, Points: 3},
			},
			want: AggregateStats{
				Points: 13, Wins: 4, Losses: 1, PowerWins: 1,
				CurrentWinStreak: 1, MaxWinStreak: 3,
			},
		},
		{
			name: "trailing losses",
			history: []MatchOutcome{
				{MatchID: "m1", PlayedAt: at(0), Won: true, Points: 3},
				{MatchID: "m2", PlayedAt: at(1), Won: false},
				{MatchID: "m3", PlayedAt: at(2), Won: false},
			},
			want: AggregateStats{
				Points: 3, Wins: 1, Losses: 2,
				CurrentLossStreak: 2, MaxWinStreak: 1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStats(tt.history)
			mustEqualStats(t, got, tt.want)

			// Wins and losses always partition the history.
			if got.Wins+got.Losses != len(tt.history) {
				t.Errorf("wins+losses = %d, want %d", got.Wins+got.Losses, len(tt.history))
			}
			// At most one live streak.
			if got.CurrentWinStreak > 0 && got.CurrentLossStreak > 0 {
				t.Errorf("both streaks non-zero: %+v", got)
			}
			if got.MaxWinStreak < got.CurrentWinStreak {
				t.Errorf("max streak %d below current %d", got.MaxWinStreak, got.CurrentWinStreak)
			}
		})
	}
}

func TestComputeStatsOrderIndependent(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	history := []MatchOutcome{
		{MatchID: "m1", PlayedAt: base, Won: true, Points: 3},
		{MatchID: "m2", PlayedAt: base.Add(time.Hour), Won: false},
		{MatchID: "m3", PlayedAt: base.Add(2 * time.Hour), Won: true, Points: 4, PowerWin: true},
		{MatchID: "m4", PlayedAt: base.Add(3 * time.Hour), Won: true, Points: 3},
	}
	shuffled := []MatchOutcome{history[2], history[0], history[3], history[1]}

	mustEqualStats(t, ComputeStats(shuffled), ComputeStats(history))
}

// Matches sharing a timestamp settle in MatchID order, so recomputation can
// never flip a streak depending on row order.
func TestComputeStatsTimestampTieBreak(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	history := []MatchOutcome{
		{MatchID: "b", PlayedAt: ts, Won: false},
		{MatchID: "a", PlayedAt: ts, Won: true, Points: 3},
	}

	got := ComputeStats(history)
	// "a" (win) settles before "b" (loss): the loss is current.
	want := AggregateStats{
		Points: 3, Wins: 1, Losses: 1,
		CurrentLossStreak: 1, MaxWinStreak: 1,
	}
	mustEqualStats(t, got, want)
}
