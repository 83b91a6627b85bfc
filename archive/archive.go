// Package archive persists finished-for-now games to SQLite so a
// session can be resumed later. The store itself stays in memory; the
// archive is only touched by explicit save and load calls.
package archive

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"chronicle_weaver/game"
)

// ErrNotFound is returned when no archived game matches the id.
var ErrNotFound = errors.New("no archived game with that id")

// Archive wraps the SQLite handle. Construct with Open and inject it
// where saving is needed; there is no package-level database.
type Archive struct {
	db *sql.DB
}

// Open opens (or creates) the archive database and ensures the schema.
func Open(path string) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000;"); err != nil {
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			role TEXT NOT NULL,
			opening TEXT NOT NULL DEFAULT '',
			scene TEXT NOT NULL,
			history TEXT NOT NULL,
			attributes TEXT NOT NULL,
			memories TEXT NOT NULL,
			choices TEXT NOT NULL,
			over INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL,
			saved_at TIMESTAMP NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS advisor_messages (
			id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			question TEXT NOT NULL,
			response TEXT NOT NULL DEFAULT '',
			resolved INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL,
			FOREIGN KEY(game_id) REFERENCES games(id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_advisor_game ON advisor_messages(game_id);`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return &Archive{db: db}, nil
}

// Close releases the database handle.
func (a *Archive) Close() error {
	return a.db.Close()
}

// SaveGame upserts a game and its advisor thread.
func (a *Archive) SaveGame(g *game.Game, advisor []game.AdvisorMessage) error {
	history, err := json.Marshal(g.History)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	attrs, err := json.Marshal(g.Attributes)
	if err != nil {
		return fmt.Errorf("encode attributes: %w", err)
	}
	memories, err := json.Marshal(g.Memories)
	if err != nil {
		return fmt.Errorf("encode memories: %w", err)
	}
	choices, err := json.Marshal(g.Choices)
	if err != nil {
		return fmt.Errorf("encode choices: %w", err)
	}

	tx, err := a.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO games (id, role, opening, scene, history, attributes, memories, choices, over, created_at, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			opening=excluded.opening, scene=excluded.scene, history=excluded.history,
			attributes=excluded.attributes, memories=excluded.memories,
			choices=excluded.choices, over=excluded.over, saved_at=excluded.saved_at`,
		g.ID, g.Role, g.Opening, g.Scene, string(history), string(attrs), string(memories), string(choices),
		boolToInt(g.Over), g.CreatedAt, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save game: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM advisor_messages WHERE game_id = ?`, g.ID); err != nil {
		return fmt.Errorf("clear advisor thread: %w", err)
	}
	for _, m := range advisor {
		_, err := tx.Exec(`INSERT INTO advisor_messages (id, game_id, question, response, resolved, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			m.ID, g.ID, m.Question, m.Response, boolToInt(m.Resolved), m.CreatedAt)
		if err != nil {
			return fmt.Errorf("save advisor message: %w", err)
		}
	}
	return tx.Commit()
}

// LoadGame fetches an archived game and its advisor thread by id.
func (a *Archive) LoadGame(id string) (*game.Game, []game.AdvisorMessage, error) {
	row := a.db.QueryRow(`SELECT id, role, opening, scene, history, attributes, memories, choices, over, created_at
		FROM games WHERE id = ?`, id)

	var g game.Game
	var history, attrs, memories, choices string
	var over int
	err := row.Scan(&g.ID, &g.Role, &g.Opening, &g.Scene, &history, &attrs, &memories, &choices, &over, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load game: %w", err)
	}
	if err := json.Unmarshal([]byte(history), &g.History); err != nil {
		return nil, nil, fmt.Errorf("decode history: %w", err)
	}
	if err := json.Unmarshal([]byte(attrs), &g.Attributes); err != nil {
		return nil, nil, fmt.Errorf("decode attributes: %w", err)
	}
	if err := json.Unmarshal([]byte(memories), &g.Memories); err != nil {
		return nil, nil, fmt.Errorf("decode memories: %w", err)
	}
	if err := json.Unmarshal([]byte(choices), &g.Choices); err != nil {
		return nil, nil, fmt.Errorf("decode choices: %w", err)
	}
	g.Over = over != 0

	rows, err := a.db.Query(`SELECT id, question, response, resolved, created_at
		FROM advisor_messages WHERE game_id = ? ORDER BY created_at, id`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("load advisor thread: %w", err)
	}
	defer rows.Close()

	var advisor []game.AdvisorMessage
	for rows.Next() {
		var m game.AdvisorMessage
		var resolved int
		if err := rows.Scan(&m.ID, &m.Question, &m.Response, &resolved, &m.CreatedAt); err != nil {
			return nil, nil, fmt.Errorf("scan advisor message: %w", err)
		}
		m.Resolved = resolved != 0
		advisor = append(advisor, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("read advisor thread: %w", err)
	}
	return &g, advisor, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
