// Package store persists verification history and topic monitors in
// Postgres. The engine runs fine without it; callers treat a nil *Store as
// "history disabled".
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// Store wraps the Postgres connection.
type Store struct {
	DB *sql.DB
}

// VerificationRecord is one persisted verification outcome. Result holds
// the full VerificationResult (or Assessment) JSON; the scalar columns are
// denormalized for listing without unmarshaling.
type VerificationRecord struct {
	ID            string          `json:"id"`
	Topic         string          `json:"topic"`
	Strategy      string          `json:"strategy"`
	Threshold     float64         `json:"threshold"`
	CombinedScore float64         `json:"combined_score"`
	Assessment    string          `json:"assessment"`
	Result        json.RawMessage `json:"result"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Monitor is a topic re-verified on a schedule.
type Monitor struct {
	ID           string    `json:"id"`
	Topic        string    `json:"topic"`
	ScheduleCron string    `json:"schedule_cron"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewWithDSN constructs the Store using an explicit Postgres DSN.
func NewWithDSN(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	return &Store{DB: db}, nil
}

// SaveVerification inserts a verification record, assigning an ID when the
// caller did not.
func (s *Store) SaveVerification(ctx context.Context, rec VerificationRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	_, err := s.DB.ExecContext(ctx, `
INSERT INTO verifications (id, topic, strategy, threshold, combined_score, assessment, result, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())`,
		rec.ID, rec.Topic, rec.Strategy, rec.Threshold, rec.CombinedScore, rec.Assessment, []byte(rec.Result))
	if err != nil {
		return "", fmt.Errorf("insert verification: %w", err)
	}
	return rec.ID, nil
}

// RecentVerifications lists the newest records first.
func (s *Store) RecentVerifications(ctx context.Context, limit int) ([]VerificationRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.DB.QueryContext(ctx, `
SELECT id, topic, strategy, threshold, combined_score, assessment, result, created_at
FROM verifications ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list verifications: %w", err)
	}
	defer rows.Close()

	var out []VerificationRecord
	for rows.Next() {
		var rec VerificationRecord
		var result []byte
		if err := rows.Scan(&rec.ID, &rec.Topic, &rec.Strategy, &rec.Threshold, &rec.CombinedScore, &rec.Assessment, &result, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Result = json.RawMessage(result)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// LatestVerificationTime returns when topic was last verified, or nil if never.
func (s *Store) LatestVerificationTime(ctx context.Context, topic string) (*time.Time, error) {
	var ts time.Time
	err := s.DB.QueryRowContext(ctx, `
SELECT created_at FROM verifications WHERE topic = $1 ORDER BY created_at DESC LIMIT 1`, topic).Scan(&ts)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

// CreateMonitor registers a topic for scheduled re-verification.
func (s *Store) CreateMonitor(ctx context.Context, topic, scheduleCron string) (string, error) {
	id := uuid.NewString()
	_, err := s.DB.ExecContext(ctx, `
INSERT INTO monitors (id, topic, schedule_cron, created_at) VALUES ($1,$2,$3,NOW())`,
		id, topic, scheduleCron)
	if err != nil {
		return "", fmt.Errorf("insert monitor: %w", err)
	}
	return id, nil
}

// ListMonitors returns all registered monitors.
func (s *Store) ListMonitors(ctx context.Context) ([]Monitor, error) {
	rows, err := s.DB.QueryContext(ctx, `
SELECT id, topic, schedule_cron, created_at FROM monitors ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list monitors: %w", err)
	}
	defer rows.Close()

	var out []Monitor
	for rows.Next() {
		var m Monitor
		if err := rows.Scan(&m.ID, &m.Topic, &m.ScheduleCron, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// DeleteMonitor removes a monitor by ID.
func (s *Store) DeleteMonitor(ctx context.Context, id string) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM monitors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete monitor: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
