package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq" // also registers the "postgres" driver

	"github.com/James-Trimble/PlayPalace11/models"
)

const queryTimeout = 5 * time.Second

// SQLStore is the PostgreSQL backend over database/sql with hand-written
// queries. Functionally equivalent to GormStore; some deployments prefer
// the thinner stack.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore opens the database, verifies the connection, and creates
// the schema.
func NewSQLStore(host string, port int, user, password, dbname string) (*SQLStore, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := initTables(db); err != nil {
		return nil, err
	}

	return &SQLStore{db: db}, nil
}

func initTables(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS tables (
            id SERIAL PRIMARY KEY,
            table_id VARCHAR(64) UNIQUE NOT NULL,
            game_type VARCHAR(100) NOT NULL,
            game_state JSONB NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS saved_tables (
            id SERIAL PRIMARY KEY,
            save_id VARCHAR(64) UNIQUE NOT NULL,
            username VARCHAR(255) NOT NULL,
            game_type VARCHAR(100) NOT NULL,
            game_name VARCHAR(255) NOT NULL,
            game_state JSONB NOT NULL,
            player_names TEXT[] NOT NULL,
            saved_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            username VARCHAR(255) UNIQUE NOT NULL,
            password_hash VARCHAR(255) NOT NULL,
            locale VARCHAR(16) DEFAULT 'en',
            preferences JSONB,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            last_seen_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE INDEX IF NOT EXISTS idx_saved_tables_username ON saved_tables(username);
    `)
	return err
}

func (s *SQLStore) SaveTable(rec models.TableRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	query := `
        INSERT INTO tables (table_id, game_type, game_state, created_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (table_id)
        DO UPDATE SET game_type = $2, game_state = $3
    `
	_, err := s.db.ExecContext(ctx, query,
		rec.TableID, rec.GameType, rec.GameState, rec.CreatedAt)
	return err
}

func (s *SQLStore) LoadAllTables() ([]models.TableRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT table_id, game_type, game_state, created_at FROM tables`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.TableRecord
	for rows.Next() {
		var rec models.TableRecord
		if err := rows.Scan(&rec.TableID, &rec.GameType, &rec.GameState, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLStore) DeleteTable(tableID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	_, err := s.db.ExecContext(ctx, `DELETE FROM tables WHERE table_id = $1`, tableID)
	return err
}

func (s *SQLStore) DeleteAllTables() error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	_, err := s.db.ExecContext(ctx, `DELETE FROM tables`)
	return err
}

func (s *SQLStore) SaveUserTable(rec models.SavedTableRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	query := `
        INSERT INTO saved_tables (save_id, username, game_type, game_name, game_state, player_names, saved_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	_, err := s.db.ExecContext(ctx, query,
		rec.SaveID, rec.Username, rec.GameType, rec.GameName,
		rec.GameState, pq.Array(rec.PlayerNames), rec.SavedAt)
	return err
}

func (s *SQLStore) GetSavedTable(saveID string) (models.SavedTableRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var rec models.SavedTableRecord
	query := `
        SELECT save_id, username, game_type, game_name, game_state, player_names, saved_at
        FROM saved_tables WHERE save_id = $1
    `
	err := s.db.QueryRowContext(ctx, query, saveID).Scan(
		&rec.SaveID, &rec.Username, &rec.GameType, &rec.GameName,
		&rec.GameState, pq.Array(&rec.PlayerNames), &rec.SavedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SavedTableRecord{}, ErrRecordNotFound
	}
	return rec, err
}

func (s *SQLStore) GetUserSavedTables(username string) ([]models.SavedTableRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	query := `
        SELECT save_id, username, game_type, game_name, game_state, player_names, saved_at
        FROM saved_tables WHERE username = $1 ORDER BY saved_at DESC
    `
	rows, err := s.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SavedTableRecord
	for rows.Next() {
		var rec models.SavedTableRecord
		if err := rows.Scan(&rec.SaveID, &rec.Username, &rec.GameType, &rec.GameName,
			&rec.GameState, pq.Array(&rec.PlayerNames), &rec.SavedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLStore) DeleteSavedTable(saveID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	_, err := s.db.ExecContext(ctx, `DELETE FROM saved_tables WHERE save_id = $1`, saveID)
	return err
}

func (s *SQLStore) GetUser(username string) (models.UserRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var rec models.UserRecord
	var prefs sql.NullString
	query := `
        SELECT username, password_hash, locale, preferences, created_at, last_seen_at
        FROM users WHERE username = $1
    `
	err := s.db.QueryRowContext(ctx, query, username).Scan(
		&rec.Username, &rec.PasswordHash, &rec.Locale, &prefs,
		&rec.CreatedAt, &rec.LastSeenAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserRecord{}, ErrRecordNotFound
	}
	if err != nil {
		return models.UserRecord{}, err
	}
	rec.Preferences = prefs.String
	return rec, nil
}

func (s *SQLStore) CreateUser(rec models.UserRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	query := `
        INSERT INTO users (username, password_hash, locale, preferences)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (username) DO NOTHING
    `
	result, err := s.db.ExecContext(ctx, query,
		rec.Username, rec.PasswordHash, rec.Locale, nullable(rec.Preferences))
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserExists
	}
	return nil
}

func (s *SQLStore) UpdateUserLocale(username, locale string) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET locale = $2 WHERE username = $1`, username, locale)
	return err
}

func (s *SQLStore) UpdateUserPreferences(username, prefs string) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET preferences = $2 WHERE username = $1`, username, prefs)
	return err
}

func (s *SQLStore) TouchUser(username string) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET last_seen_at = CURRENT_TIMESTAMP WHERE username = $1`, username)
	return err
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
