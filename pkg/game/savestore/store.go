// Package savestore persists session snapshots in SQLite.
package savestore

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"dreadhall/pkg/engine/world"
	"dreadhall/pkg/game/hazards"
	"dreadhall/pkg/game/state"
	"dreadhall/pkg/game/threat"
)

//go:embed schema.sql
var schema string

// ErrNotFound is returned when no snapshot matches
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is everything needed to resume a session
type Snapshot struct {
	Level   world.LevelSnapshot `yaml:"level"`
	Player  state.Snapshot      `yaml:"player"`
	Hazards hazards.Snapshot    `yaml:"hazards"`
	Threat  threat.Snapshot     `yaml:"threat"`
}

// Slot describes one stored snapshot
type Slot struct {
	ID        string
	SessionID string
	Level     int
	Turn      int
	Score     int
	SavedAt   time.Time
}

// Store persists snapshots in SQLite
type Store struct {
	sqlDB *sql.DB
}

// NewStore opens the database at path and applies the schema
func NewStore(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := "file:" + filepath.Clean(path) +
		"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// NewSession registers a play session and returns its id
func (s *Store) NewSession(ctx context.Context) (string, error) {
	id := uuid.NewString()
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO sessions (id, created_at) VALUES (?, ?)`,
		id, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return id, nil
}

// Save stores snap under the session and returns the new slot id
func (s *Store) Save(ctx context.Context, sessionID string, snap Snapshot) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	body, err := yaml.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	id := uuid.NewString()
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO snapshots (id, session_id, level, turn, score, saved_at, body)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, sessionID, snap.Player.Level, snap.Player.Turn, snap.Player.Score,
		time.Now().UTC().UnixMilli(), string(body),
	)
	if err != nil {
		return "", fmt.Errorf("save snapshot: %w", err)
	}
	return id, nil
}

// Load returns the snapshot stored in slot id
func (s *Store) Load(ctx context.Context, id string) (Snapshot, error) {
	row := s.sqlDB.QueryRowContext(ctx, `SELECT body FROM snapshots WHERE id = ?`, id)
	return scanBody(row)
}

// Latest returns the most recently saved snapshot and its slot
func (s *Store) Latest(ctx context.Context) (Slot, Snapshot, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, session_id, level, turn, score, saved_at, body
		   FROM snapshots
		  ORDER BY saved_at DESC, rowid DESC
		  LIMIT 1`,
	)
	var (
		slot    Slot
		savedAt int64
		body    string
	)
	err := row.Scan(&slot.ID, &slot.SessionID, &slot.Level, &slot.Turn, &slot.Score, &savedAt, &body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Slot{}, Snapshot{}, ErrNotFound
		}
		return Slot{}, Snapshot{}, fmt.Errorf("latest snapshot: %w", err)
	}
	slot.SavedAt = time.UnixMilli(savedAt).UTC()
	snap, err := decode(body)
	if err != nil {
		return Slot{}, Snapshot{}, err
	}
	return slot, snap, nil
}

// List returns every slot, newest first
func (s *Store) List(ctx context.Context) ([]Slot, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, session_id, level, turn, score, saved_at
		   FROM snapshots
		  ORDER BY saved_at DESC, rowid DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var slots []Slot
	for rows.Next() {
		var (
			slot    Slot
			savedAt int64
		)
		if err := rows.Scan(&slot.ID, &slot.SessionID, &slot.Level, &slot.Turn, &slot.Score, &savedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		slot.SavedAt = time.UnixMilli(savedAt).UTC()
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return slots, nil
}

// DeleteSession removes a session and every snapshot saved under it
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanBody(row *sql.Row) (Snapshot, error) {
	var body string
	if err := row.Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	return decode(body)
}

func decode(body string) (Snapshot, error) {
	var snap Snapshot
	if err := yaml.Unmarshal([]byte(body), &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}
