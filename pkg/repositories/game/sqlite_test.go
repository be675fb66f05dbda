package game

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteRepository(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteSaveAndGet(t *testing.T) {
	repo := newTestSQLiteRepository(t)
	ctx := context.Background()

	record := testRecord("g1", "player1", "DOUBLE WIN")
	record.Hands[0].Doubled = true
	require.NoError(t, repo.SaveRecord(ctx, record))

	records, err := repo.GetPlayerRecords(ctx, "player1")
	require.NoError(t, err)
	require.Len(t, records, 1)

	got := records[0]
	assert.Equal(t, "g1", got.ID)
	assert.Equal(t, "DOUBLE WIN", got.Outcome)
	assert.Equal(t, int64(100), got.Bet)
	assert.Equal(t, []string{"King of Spades", "Seven of Hearts"}, got.DealerCards)
	assert.Equal(t, 17, got.DealerScore)
	require.Len(t, got.Hands, 1)
	assert.True(t, got.Hands[0].Doubled)
	assert.Equal(t, 19, got.Hands[0].Score)
}

func TestSQLiteSplitHandsKeepOrder(t *testing.T) {
	repo := newTestSQLiteRepository(t)
	ctx := context.Background()

	record := testRecord("g1", "player1", "SPLIT WIN-LOSE")
	record.Hands = []HandRecord{
		{Cards: []string{"Eight of Spades", "Three of Hearts"}, Score: 11},
		{Cards: []string{"Eight of Hearts", "King of Clubs", "Nine of Spades"}, Score: 27, Busted: true},
	}
	require.NoError(t, repo.SaveRecord(ctx, record))

	records, err := repo.GetPlayerRecords(ctx, "player1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Len(t, records[0].Hands, 2)
	assert.Equal(t, 11, records[0].Hands[0].Score)
	assert.True(t, records[0].Hands[1].Busted)
}

func TestSQLiteOrdersBySettledAt(t *testing.T) {
	repo := newTestSQLiteRepository(t)
	ctx := context.Background()

	older := testRecord("g1", "player1", "WIN")
	older.SettledAt = time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	newer := testRecord("g2", "player1", "LOSE")
	newer.SettledAt = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.SaveRecord(ctx, newer))
	require.NoError(t, repo.SaveRecord(ctx, older))

	records, err := repo.GetPlayerRecords(ctx, "player1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "g1", records[0].ID)
	assert.Equal(t, "g2", records[1].ID)
}

func TestSQLiteUnknownPlayer(t *testing.T) {
	repo := newTestSQLiteRepository(t)

	records, err := repo.GetPlayerRecords(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Empty(t, records)
}
