// Package memory persists the interaction transcript in SQLite so
// "why did you do that" and keyword recall survive restarts.
package memory

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	// SQLite driver (required for database/sql registration).
	_ "github.com/mattn/go-sqlite3"
)

// Interaction is one recorded turn: what the user said, how it was
// routed, and what happened.
type Interaction struct {
	ID        string
	SessionID string
	Timestamp time.Time
	Utterance string
	Mode      string // tool_plan or llm
	Tools     []string
	Reply     string
	Decision  string // executed, asked, denied, cancelled, expired
	Success   bool
}

// Store is the SQLite-backed interaction log.
type Store struct {
	db        *sql.DB
	sessionID string
}

const schema = `
CREATE TABLE IF NOT EXISTS interactions (
	id         TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	ts         INTEGER NOT NULL,
	utterance  TEXT NOT NULL,
	mode       TEXT NOT NULL,
	tools      TEXT NOT NULL,
	reply      TEXT NOT NULL,
	decision   TEXT NOT NULL,
	success    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_interactions_ts ON interactions(ts);
CREATE INDEX IF NOT EXISTS idx_interactions_session ON interactions(session_id, ts);
`

// Open opens (creating if needed) the session database at path and
// starts a fresh session.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = -64000",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, sessionID: uuid.NewString()}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SessionID returns the identifier of the current session.
func (s *Store) SessionID() string {
	return s.sessionID
}

// Record appends one interaction to the log. ID and SessionID are
// filled in when empty.
func (s *Store) Record(in Interaction) error {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if in.SessionID == "" {
		in.SessionID = s.sessionID
	}
	if in.Timestamp.IsZero() {
		in.Timestamp = time.Now()
	}

	tools, err := json.Marshal(in.Tools)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(
		`INSERT INTO interactions (id, session_id, ts, utterance, mode, tools, reply, decision, success)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.SessionID, in.Timestamp.UnixMilli(), in.Utterance,
		in.Mode, string(tools), in.Reply, in.Decision, boolToInt(in.Success),
	)
	return err
}

// Recent returns the newest n interactions, newest first.
func (s *Store) Recent(n int) ([]Interaction, error) {
	rows, err := s.db.Query(
		`SELECT id, session_id, ts, utterance, mode, tools, reply, decision, success
		 FROM interactions ORDER BY ts DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInteractions(rows)
}

func scanInteractions(rows *sql.Rows) ([]Interaction, error) {
	var out []Interaction
	for rows.Next() {
		var (
			in      Interaction
			ts      int64
			tools   string
			success int
		)
		if err := rows.Scan(&in.ID, &in.SessionID, &ts, &in.Utterance,
			&in.Mode, &tools, &in.Reply, &in.Decision, &success); err != nil {
			return nil, err
		}
		in.Timestamp = time.UnixMilli(ts)
		in.Success = success != 0
		if err := json.Unmarshal([]byte(tools), &in.Tools); err != nil {
			in.Tools = nil
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
