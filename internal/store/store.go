package store

import (
	"database/sql"
	"fmt"

	"github.com/asethi/tutorhub/internal/model"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS turns (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		student_id TEXT NOT NULL,
		role TEXT NOT NULL,
		text TEXT NOT NULL,
		timestamp TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_turns_student_time
		ON turns(student_id, timestamp);

	CREATE TABLE IF NOT EXISTS tests (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL,
		created_at TEXT NOT NULL,
		questions TEXT NOT NULL,
		completed INTEGER NOT NULL DEFAULT 0,
		score TEXT,
		student_answers TEXT,
		subject_scores TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_tests_student_created
		ON tests(student_id, created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// AppendTurn appends one turn to a student's conversation log.
func (s *Store) AppendTurn(studentID string, t model.Turn) error {
	_, err := s.db.Exec(
		`INSERT INTO turns (student_id, role, text, timestamp) VALUES (?, ?, ?, ?)`,
		studentID, t.Role, t.Text, t.Timestamp,
	)
	return err
}

// RecentTurns returns up to limit turns for a student, newest first.
// Insertion order breaks ties between turns stamped in the same microsecond.
func (s *Store) RecentTurns(studentID string, limit int) ([]model.Turn, error) {
	rows, err := s.db.Query(
		`SELECT role, text, timestamp FROM turns
		 WHERE student_id = ? ORDER BY timestamp DESC, id DESC LIMIT ?`,
		studentID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var turns []model.Turn
	for rows.Next() {
		var t model.Turn
		if err := rows.Scan(&t.Role, &t.Text, &t.Timestamp); err != nil {
			return nil, err
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// AllTurns returns a student's full conversation log, oldest first.
func (s *Store) AllTurns(studentID string) ([]model.Turn, error) {
	rows, err := s.db.Query(
		`SELECT role, text, timestamp FROM turns
		 WHERE student_id = ? ORDER BY timestamp ASC, id ASC`,
		studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var turns []model.Turn
	for rows.Next() {
		var t model.Turn
		if err := rows.Scan(&t.Role, &t.Text, &t.Timestamp); err != nil {
			return nil, err
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// CountTurns returns the number of turns in a student's conversation log.
func (s *Store) CountTurns(studentID string) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM turns WHERE student_id = ?`, studentID,
	).Scan(&count)
	return count, err
}
