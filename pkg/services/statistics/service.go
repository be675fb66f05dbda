package statistics

import (
	"context"
	"strings"

	"github.com/fadedpez/dealerbot/pkg/repositories/game"
)

// PlayerStats aggregates a player's settled sessions. Split sessions tally
// both halves, so Wins+Losses+Pushes can exceed Games.
type PlayerStats struct {
	Games       int
	Wins        int
	Losses      int
	Pushes      int
	Blackjacks  int
	Busts       int
	Splits      int
	DoubleDowns int
	Insurances  int
}

// WinRate returns wins as a fraction of tallied hands
func (s *PlayerStats) WinRate() float64 {
	hands := s.Wins + s.Losses + s.Pushes
	if hands == 0 {
		return 0
	}
	return float64(s.Wins) / float64(hands)
}

// Service computes player statistics from stored game records
type Service struct {
	repo game.Repository
}

// NewService creates a new statistics service
func NewService(repo game.Repository) *Service {
	return &Service{repo: repo}
}

// PlayerStats aggregates all of a player's recorded sessions
func (s *Service) PlayerStats(ctx context.Context, playerID string) (*PlayerStats, error) {
	records, err := s.repo.GetPlayerRecords(ctx, playerID)
	if err != nil {
		return nil, err
	}

	stats := &PlayerStats{}
	for _, record := range records {
		stats.Games++
		if record.Insurance {
			stats.Insurances++
		}
		for _, hand := range record.Hands {
			if hand.Doubled {
				stats.DoubleDowns++
			}
			if hand.Busted {
				stats.Busts++
			}
		}

		if rest, ok := strings.CutPrefix(record.Outcome, "SPLIT "); ok {
			stats.Splits++
			first, second, _ := strings.Cut(rest, "-")
			tally(stats, first)
			tally(stats, second)
			continue
		}
		tally(stats, record.Outcome)
	}
	return stats, nil
}

// tally counts one hand verdict. DOUBLE and INSURANCE prefixes carry no
// win/loss information of their own; an insurance payout means the dealer
// held a natural, so the main hand lost.
func tally(stats *PlayerStats, verdict string) {
	verdict = strings.TrimPrefix(verdict, "DOUBLE ")
	verdict = strings.TrimPrefix(verdict, "INSURANCE ")

	switch verdict {
	case "WIN":
		stats.Wins++
	case "LOSE":
		stats.Losses++
	case "TIE":
		stats.Pushes++
	case "BLACKJACK":
		stats.Wins++
		stats.Blackjacks++
	case "PAYOUT":
		stats.Losses++
	}
}
