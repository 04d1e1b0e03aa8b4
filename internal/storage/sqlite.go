// Package storage provides SQLite-based persistence for game scores and
// play sessions. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrSessionNotFound is returned when a session id is unknown.
var ErrSessionNotFound = errors.New("storage: session not found")

// Session end reasons.
const (
	EndGameOver   = "game_over"
	EndQuit       = "quit"
	EndDisconnect = "disconnect"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ScoreEntry represents a single score record.
type ScoreEntry struct {
	ID        int64
	GameID    string
	Score     int
	MovesUsed int
	SessionID string // Empty for scores saved outside a session
	CreatedAt time.Time
}

// Session is one sitting at a game, from launch until quit or disconnect.
// A session may contain several games when the player restarts.
type Session struct {
	ID        string
	GameID    string
	Player    string // "local" or the SSH user name
	Games     int    // Finished games in this session
	BestScore int
	EndReason string // Empty while the session is open
	StartedAt time.Time
	EndedAt   time.Time // Zero while the session is open
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist and upgrades
// score tables written by older releases, which lack the move and session
// columns.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			moves_used INTEGER NOT NULL DEFAULT 0,
			session_id TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_game_id ON scores(game_id);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(game_id, score DESC);

		CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			player TEXT NOT NULL,
			end_reason TEXT NOT NULL DEFAULT '',
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			ended_at DATETIME
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_game_id ON sessions(game_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	columns, err := s.tableColumns("scores")
	if err != nil {
		return err
	}
	upgrades := []struct {
		column string
		stmt   string
	}{
		{"moves_used", "ALTER TABLE scores ADD COLUMN moves_used INTEGER NOT NULL DEFAULT 0"},
		{"session_id", "ALTER TABLE scores ADD COLUMN session_id TEXT NOT NULL DEFAULT ''"},
	}
	for _, u := range upgrades {
		if columns[u.column] {
			continue
		}
		if _, err := s.db.Exec(u.stmt); err != nil {
			return fmt.Errorf("add column %s: %w", u.column, err)
		}
	}

	_, err = s.db.Exec("CREATE INDEX IF NOT EXISTS idx_scores_session ON scores(session_id)")
	return err
}

// tableColumns returns the column names of table.
func (s *Store) tableColumns(table string) (map[string]bool, error) {
	rows, err := s.db.Query("SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		return nil, fmt.Errorf("read columns of %s: %w", table, err)
	}
	defer rows.Close()

	columns := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		columns[name] = true
	}
	return columns, rows.Err()
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveScore records a finished game.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(entry ScoreEntry) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (game_id, score, moves_used, session_id) VALUES (?, ?, ?, ?)",
		entry.GameID, entry.Score, entry.MovesUsed, entry.SessionID,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const scoreColumns = `id, game_id, score, moves_used, session_id, created_at`

// TopScores retrieves the top N scores for the given game.
// Results are ordered by score descending; ties go to fewer moves.
func (s *Store) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+scoreColumns+`
		 FROM scores
		 WHERE game_id = ?
		 ORDER BY score DESC, moves_used ASC, id ASC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	return scanScores(rows)
}

// AllScores retrieves all scores for the given game (no limit).
func (s *Store) AllScores(gameID string) ([]ScoreEntry, error) {
	rows, err := s.db.Query(
		`SELECT `+scoreColumns+`
		 FROM scores
		 WHERE game_id = ?
		 ORDER BY score DESC, moves_used ASC, id ASC`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	return scanScores(rows)
}

// SessionScores retrieves the scores recorded in one session, oldest first.
func (s *Store) SessionScores(sessionID string) ([]ScoreEntry, error) {
	rows, err := s.db.Query(
		`SELECT `+scoreColumns+`
		 FROM scores
		 WHERE session_id = ?
		 ORDER BY id ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query session scores: %w", err)
	}
	return scanScores(rows)
}

func scanScores(rows *sql.Rows) ([]ScoreEntry, error) {
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &e.Score, &e.MovesUsed, &e.SessionID, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// parseTime handles both time.Time and the string form sqlite may return.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04:05.999999999-07:00", time.RFC3339Nano} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}

// HighScore returns the highest score for the given game.
// Returns 0 if no scores exist.
func (s *Store) HighScore(gameID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE game_id = ?",
		gameID,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearScores deletes all scores for the given game.
func (s *Store) ClearScores(gameID string) error {
	_, err := s.db.Exec("DELETE FROM scores WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// StartSession opens a new session and returns its id.
func (s *Store) StartSession(gameID, player string) (string, error) {
	if player == "" {
		player = "local"
	}
	id := uuid.NewString()

	_, err := s.db.Exec(
		"INSERT INTO sessions (session_id, game_id, player, started_at) VALUES (?, ?, ?, ?)",
		id, gameID, player, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot start session: %w", err)
	}
	return id, nil
}

// EndSession closes a session with the given reason.
// Ending an already closed session keeps the first reason.
func (s *Store) EndSession(sessionID, reason string) error {
	result, err := s.db.Exec(
		"UPDATE sessions SET end_reason = ?, ended_at = ? WHERE session_id = ? AND end_reason = ''",
		reason, time.Now().UTC(), sessionID,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot end session: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: cannot end session: %w", err)
	}
	if n == 0 {
		if _, err := s.SessionByID(sessionID); err != nil {
			return err
		}
	}
	return nil
}

const sessionQuery = `
	SELECT s.session_id, s.game_id, s.player, s.end_reason, s.started_at, s.ended_at,
	       COUNT(sc.id), COALESCE(MAX(sc.score), 0)
	FROM sessions s
	LEFT JOIN scores sc ON sc.session_id = s.session_id`

// SessionByID retrieves a session with its game count and best score.
func (s *Store) SessionByID(sessionID string) (*Session, error) {
	rows, err := s.db.Query(sessionQuery+`
		WHERE s.session_id = ?
		GROUP BY s.session_id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query session: %w", err)
	}

	sessions, err := scanSessions(rows)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return &sessions[0], nil
}

// RecentSessions retrieves the most recently started sessions.
func (s *Store) RecentSessions(limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(sessionQuery+`
		GROUP BY s.session_id
		ORDER BY s.started_at DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	return scanSessions(rows)
}

func scanSessions(rows *sql.Rows) ([]Session, error) {
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		var startedAt, endedAt any
		if err := rows.Scan(
			&sess.ID,
			&sess.GameID,
			&sess.Player,
			&sess.EndReason,
			&startedAt,
			&endedAt,
			&sess.Games,
			&sess.BestScore,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan session: %w", err)
		}
		sess.StartedAt = parseTime(startedAt)
		sess.EndedAt = parseTime(endedAt)
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return sessions, nil
}

// GameStats contains aggregated statistics for a game.
type GameStats struct {
	GameID     string
	GamesCount int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	AvgMoves   float64
	LastPlayed time.Time
}

// GetGameStats retrieves aggregated statistics for a specific game.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(SUM(score), 0), COALESCE(AVG(moves_used), 0)
		 FROM scores WHERE game_id = ?`,
		gameID,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &stats.TotalScore, &stats.AvgMoves)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM scores WHERE game_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`,
		gameID,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}

	return stats, nil
}

// GetAllGamesStats retrieves statistics for all games that have been played.
func (s *Store) GetAllGamesStats() (map[string]*GameStats, error) {
	rows, err := s.db.Query(
		`SELECT game_id, COUNT(*), MAX(score), AVG(score), SUM(score), AVG(moves_used), MAX(created_at)
		 FROM scores
		 GROUP BY game_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all games stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*GameStats)
	for rows.Next() {
		var gs GameStats
		var lastPlayed any
		if err := rows.Scan(&gs.GameID, &gs.GamesCount, &gs.HighScore, &gs.AvgScore, &gs.TotalScore, &gs.AvgMoves, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		gs.LastPlayed = parseTime(lastPlayed)
		stats[gs.GameID] = &gs
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}
