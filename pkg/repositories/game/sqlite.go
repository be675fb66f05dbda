package game

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite table schemas
const (
	createGameRecordsTableSQL = `
	CREATE TABLE IF NOT EXISTS game_records (
		id TEXT PRIMARY KEY,
		player_id TEXT NOT NULL,
		outcome TEXT NOT NULL,
		bet INTEGER NOT NULL,
		insurance BOOLEAN NOT NULL,
		dealer_cards TEXT NOT NULL,  -- JSON array of card strings
		dealer_score INTEGER NOT NULL,
		settled_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_game_records_player ON game_records(player_id)`

	createHandRecordsTableSQL = `
	CREATE TABLE IF NOT EXISTS hand_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		game_record_id TEXT NOT NULL,
		cards TEXT NOT NULL,  -- JSON array of card strings
		score INTEGER NOT NULL,
		doubled BOOLEAN NOT NULL,
		busted BOOLEAN NOT NULL,
		FOREIGN KEY (game_record_id) REFERENCES game_records(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_hand_records_game ON hand_records(game_record_id)`
)

// SQLiteRepository implements the Repository interface using SQLite
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite repository
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	// Ensure the directory exists
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	for _, schema := range []string{createGameRecordsTableSQL, createHandRecordsTableSQL} {
		if _, err := db.Exec(schema); err != nil {
			db.Close()
			return nil, fmt.Errorf("error creating tables: %w", err)
		}
	}

	return &SQLiteRepository{db: db}, nil
}

// SaveRecord stores a settled session inside one transaction
func (r *SQLiteRepository) SaveRecord(ctx context.Context, record *Record) error {
	dealerCards, err := json.Marshal(record.DealerCards)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO game_records (id, player_id, outcome, bet, insurance, dealer_cards, dealer_score, settled_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.PlayerID, record.Outcome, record.Bet, record.Insurance,
		dealerCards, record.DealerScore, record.SettledAt)
	if err != nil {
		return fmt.Errorf("error inserting game record: %w", err)
	}

	for _, hand := range record.Hands {
		cards, err := json.Marshal(hand.Cards)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO hand_records (game_record_id, cards, score, doubled, busted)
			VALUES (?, ?, ?, ?, ?)`,
			record.ID, cards, hand.Score, hand.Doubled, hand.Busted)
		if err != nil {
			return fmt.Errorf("error inserting hand record: %w", err)
		}
	}

	return tx.Commit()
}

// GetPlayerRecords retrieves a player's settled sessions
func (r *SQLiteRepository) GetPlayerRecords(ctx context.Context, playerID string) ([]*Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, player_id, outcome, bet, insurance, dealer_cards, dealer_score, settled_at
		FROM game_records
		WHERE player_id = ?
		ORDER BY settled_at`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*Record{}
	for rows.Next() {
		record := &Record{}
		var dealerCards []byte
		if err := rows.Scan(&record.ID, &record.PlayerID, &record.Outcome, &record.Bet,
			&record.Insurance, &dealerCards, &record.DealerScore, &record.SettledAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(dealerCards, &record.DealerCards); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, record := range records {
		hands, err := r.getHands(ctx, record.ID)
		if err != nil {
			return nil, err
		}
		record.Hands = hands
	}

	return records, nil
}

func (r *SQLiteRepository) getHands(ctx context.Context, gameRecordID string) ([]HandRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT cards, score, doubled, busted
		FROM hand_records
		WHERE game_record_id = ?
		ORDER BY id`, gameRecordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hands := []HandRecord{}
	for rows.Next() {
		hand := HandRecord{}
		var cards []byte
		if err := rows.Scan(&cards, &hand.Score, &hand.Doubled, &hand.Busted); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(cards, &hand.Cards); err != nil {
			return nil, err
		}
		hands = append(hands, hand)
	}
	return hands, rows.Err()
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
