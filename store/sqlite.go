package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/Goofygiraffe06/authscreen/internal/logging"
	"github.com/Goofygiraffe06/authscreen/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
)

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases coherent and serialises writers.
	db.SetMaxOpenConns(1)

	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE CHECK(username <> ''),
		email TEXT NOT NULL UNIQUE CHECK(email <> ''),
		password_hash TEXT NOT NULL CHECK(password_hash <> ''),
		created_at INTEGER NOT NULL
	);`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

// AddUser inserts user and returns it with ID and CreatedAt filled in.
func (s *SQLiteStore) AddUser(ctx context.Context, user models.User) (models.User, error) {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)`,
		user.Username, user.Email, user.PasswordHash, user.CreatedAt.Unix())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return models.User{}, ErrUserExists
		}
		return models.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, err
	}
	user.ID = id
	user.CreatedAt = time.Unix(user.CreatedAt.Unix(), 0).UTC()
	return user, nil
}

func (s *SQLiteStore) getUser(ctx context.Context, column, value string) (models.User, bool) {
	var (
		user    models.User
		created int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE `+column+` = ?`, value).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &created)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logging.ErrorLog("store.getUser(%s) error: %v", column, err)
		}
		return models.User{}, false
	}
	user.CreatedAt = time.Unix(created, 0).UTC()
	return user, true
}

func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (models.User, bool) {
	return s.getUser(ctx, "username", username)
}

func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (models.User, bool) {
	return s.getUser(ctx, "email", email)
}

// Exists reports whether either the username or the email is taken.
func (s *SQLiteStore) Exists(ctx context.Context, username, email string) bool {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM users WHERE username = ? OR email = ?`, username, email).Scan(&n)
	if err != nil {
		logging.ErrorLog("store.Exists error: %v", err)
		return false
	}
	return n > 0
}

// UpdatePasswordHash replaces the hash for the account registered under email.
func (s *SQLiteStore) UpdatePasswordHash(ctx context.Context, email, hash string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE email = ?`, hash, email)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
