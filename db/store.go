// Package db persists served predictions in SQLite.
package db

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// PredictionRecord is one served prediction.
type PredictionRecord struct {
	ID          int64     `json:"id"`
	RequestID   string    `json:"request_id"`
	Disease     string    `json:"disease"`
	Prediction  bool      `json:"prediction"`
	Probability float64   `json:"probability"`
	RiskLevel   string    `json:"risk_level"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store wraps the SQLite handle. Safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database and ensures the schema.
func Open(path string) (*Store, error) {
	database, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	query := `
    CREATE TABLE IF NOT EXISTS predictions (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        request_id TEXT NOT NULL,
        disease VARCHAR(30) NOT NULL,
        prediction INTEGER NOT NULL,
        probability REAL NOT NULL,
        risk_level VARCHAR(10) NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );
    CREATE INDEX IF NOT EXISTS idx_predictions_disease ON predictions(disease);
    `
	if _, err := database.Exec(query); err != nil {
		database.Close()
		return nil, err
	}
	return &Store{db: database}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// InsertPrediction records one served prediction.
func (s *Store) InsertPrediction(rec PredictionRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO predictions (request_id, disease, prediction, probability, risk_level, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		rec.RequestID, rec.Disease, rec.Prediction, rec.Probability, rec.RiskLevel, time.Now().UTC(),
	)
	return err
}

// RecentPredictions returns the newest records, most recent first.
func (s *Store) RecentPredictions(limit int) ([]PredictionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, request_id, disease, prediction, probability, risk_level, created_at
         FROM predictions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []PredictionRecord
	for rows.Next() {
		var rec PredictionRecord
		if err := rows.Scan(&rec.ID, &rec.RequestID, &rec.Disease, &rec.Prediction,
			&rec.Probability, &rec.RiskLevel, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
