package statistics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadedpez/dealerbot/pkg/repositories/game"
)

func record(id, outcome string, hands ...game.HandRecord) *game.Record {
	return &game.Record{
		ID:        id,
		PlayerID:  "player1",
		Outcome:   outcome,
		Hands:     hands,
		SettledAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestPlayerStats(t *testing.T) {
	repo := game.NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.SaveRecord(ctx, record("g1", "WIN",
		game.HandRecord{Score: 20})))
	require.NoError(t, repo.SaveRecord(ctx, record("g2", "BLACKJACK",
		game.HandRecord{Score: 21})))
	require.NoError(t, repo.SaveRecord(ctx, record("g3", "DOUBLE LOSE",
		game.HandRecord{Score: 22, Doubled: true, Busted: true})))
	require.NoError(t, repo.SaveRecord(ctx, record("g4", "SPLIT WIN-TIE",
		game.HandRecord{Score: 19}, game.HandRecord{Score: 18})))

	insured := record("g5", "INSURANCE PAYOUT", game.HandRecord{Score: 16})
	insured.Insurance = true
	require.NoError(t, repo.SaveRecord(ctx, insured))

	stats, err := NewService(repo).PlayerStats(ctx, "player1")
	require.NoError(t, err)

	assert.Equal(t, 5, stats.Games)
	assert.Equal(t, 3, stats.Wins)
	assert.Equal(t, 2, stats.Losses)
	assert.Equal(t, 1, stats.Pushes)
	assert.Equal(t, 1, stats.Blackjacks)
	assert.Equal(t, 1, stats.Busts)
	assert.Equal(t, 1, stats.Splits)
	assert.Equal(t, 1, stats.DoubleDowns)
	assert.Equal(t, 1, stats.Insurances)
}

func TestPlayerStatsEmpty(t *testing.T) {
	stats, err := NewService(game.NewMemoryRepository()).PlayerStats(context.Background(), "ghost")
	require.NoError(t, err)

	assert.Equal(t, 0, stats.Games)
	assert.Equal(t, 0.0, stats.WinRate())
}

func TestWinRate(t *testing.T) {
	stats := &PlayerStats{Wins: 3, Losses: 1, Pushes: 1}
	assert.InDelta(t, 0.6, stats.WinRate(), 0.0001)
}
