package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/vovakirdan/chatwire/internal/auth"
	"github.com/vovakirdan/chatwire/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Store implements store.Credentials on SQLite. Passwords are kept as
// bcrypt hashes; the UNIQUE constraint on username makes Insert an
// atomic insert-if-absent.
type Store struct {
	db *sql.DB
}

// New opens (and if needed creates) the credential database at dbPath.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Exists reports whether a user id is registered.
func (s *Store) Exists(ctx context.Context, userID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE username = ?`, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("select user: %w", err)
	}
	return true, nil
}

// Authenticate reports whether the user id and password match a stored
// record.
func (s *Store) Authenticate(ctx context.Context, userID, password string) (bool, error) {
	var hash string
	err := s.db.QueryRowContext(ctx, `SELECT password_hash FROM users WHERE username = ?`, userID).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("select password hash: %w", err)
	}
	return auth.ComparePassword(hash, password) == nil, nil
}

// Insert registers a new user. The UNIQUE constraint decides the winner
// when two inserts race for the same user id.
func (s *Store) Insert(ctx context.Context, userID, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO users (username, password_hash) VALUES (?, ?)`, userID, hash)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return store.ErrUserExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}
