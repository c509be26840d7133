package database

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

func Connect() (*sql.DB, error) {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "typemaster_user")
	password := getEnv("DB_PASSWORD", "typemaster_password")
	dbname := getEnv("DB_NAME", "typemaster")
	sslmode := getEnv("DB_SSLMODE", "disable")

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func Migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id                 BIGSERIAL PRIMARY KEY,
		email              VARCHAR(255) UNIQUE NOT NULL,
		username           VARCHAR(50) UNIQUE NOT NULL,
		password           VARCHAR(255) NOT NULL,
		xp                 BIGINT NOT NULL DEFAULT 0 CHECK (xp >= 0),
		streak_days        INT NOT NULL DEFAULT 0,
		last_practice_date DATE,
		is_admin           BOOLEAN NOT NULL DEFAULT FALSE,
		created_at         TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at         TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
	CREATE INDEX IF NOT EXISTS idx_users_xp ON users(xp DESC);

	CREATE TABLE IF NOT EXISTS practice_contents (
		id         BIGSERIAL PRIMARY KEY,
		mode       VARCHAR(20) NOT NULL,
		body       TEXT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_contents_mode ON practice_contents(mode);

	CREATE TABLE IF NOT EXISTS typing_tests (
		id          BIGSERIAL PRIMARY KEY,
		test_number INT NOT NULL,
		title       VARCHAR(255) NOT NULL,
		content     TEXT NOT NULL,
		duration    INT NOT NULL,
		target_wpm  INT NOT NULL,
		difficulty  VARCHAR(20) NOT NULL,
		created_at  TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_tests_number ON typing_tests(test_number);

	CREATE TABLE IF NOT EXISTS practice_sessions (
		id            BIGSERIAL PRIMARY KEY,
		user_id       BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		submission_id UUID UNIQUE NOT NULL,
		mode          VARCHAR(20) NOT NULL,
		duration      INT NOT NULL,
		typed_text    TEXT NOT NULL,
		original_text TEXT NOT NULL,
		wpm           INT NOT NULL CHECK (wpm >= 0),
		accuracy      INT NOT NULL CHECK (accuracy >= 0 AND accuracy <= 100),
		errors        INT NOT NULL CHECK (errors >= 0),
		xp_gained     INT NOT NULL CHECK (xp_gained >= 0),
		created_at    TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_practice_user ON practice_sessions(user_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_practice_window ON practice_sessions(created_at);

	CREATE TABLE IF NOT EXISTS test_results (
		id            BIGSERIAL PRIMARY KEY,
		user_id       BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		test_id       BIGINT NOT NULL REFERENCES typing_tests(id) ON DELETE CASCADE,
		submission_id UUID UNIQUE NOT NULL,
		duration      INT NOT NULL,
		typed_text    TEXT NOT NULL,
		wpm           INT NOT NULL CHECK (wpm >= 0),
		accuracy      INT NOT NULL CHECK (accuracy >= 0 AND accuracy <= 100),
		errors        INT NOT NULL CHECK (errors >= 0),
		passed        BOOLEAN NOT NULL,
		xp_gained     INT NOT NULL CHECK (xp_gained >= 0),
		created_at    TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_results_user ON test_results(user_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_results_window ON test_results(created_at);
	`

	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
