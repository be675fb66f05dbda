package game

import (
	"time"

	"github.com/fadedpez/dealerbot/pkg/blackjack"
	"github.com/fadedpez/dealerbot/pkg/entities"
)

// Record represents one settled blackjack session. Cancelled and timed out
// sessions are never recorded.
type Record struct {
	ID          string       `json:"id"`
	PlayerID    string       `json:"player_id"`
	Outcome     string       `json:"outcome"`
	Bet         int64        `json:"bet"`
	Insurance   bool         `json:"insurance"`
	DealerCards []string     `json:"dealer_cards"`
	DealerScore int          `json:"dealer_score"`
	Hands       []HandRecord `json:"hands"`
	SettledAt   time.Time    `json:"settled_at"`
}

// HandRecord represents one player hand within a settled session
type HandRecord struct {
	Cards   []string `json:"cards"`
	Score   int      `json:"score"`
	Doubled bool     `json:"doubled"`
	Busted  bool     `json:"busted"`
}

// RecordFromSnapshot builds a Record from a settled session snapshot
func RecordFromSnapshot(snap *blackjack.Snapshot, settledAt time.Time) *Record {
	record := &Record{
		ID:          snap.ID,
		PlayerID:    snap.PlayerID,
		Outcome:     snap.Outcome.String(),
		Bet:         snap.Bet,
		Insurance:   snap.InsuranceTaken,
		DealerCards: cardStrings(snap.DealerCards),
		DealerScore: snap.DealerValue.Total,
		Hands:       make([]HandRecord, 0, len(snap.Hands)),
		SettledAt:   settledAt,
	}

	for _, h := range snap.Hands {
		record.Hands = append(record.Hands, HandRecord{
			Cards:   cardStrings(h.Cards),
			Score:   h.Value.Total,
			Doubled: h.Doubled,
			Busted:  h.Value.IsBust,
		})
	}
	return record
}

func cardStrings(cards []*entities.Card) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.String())
	}
	return out
}
