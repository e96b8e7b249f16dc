package db

import (
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/yusufkecer/fitness-tracker-backend/internal/config"
)

type migration struct {
	version string
	mysql   string
	sqlite  string
}

func (m migration) statements(driver string) string {
	if driver == config.DriverSQLite {
		return m.sqlite
	}
	return m.mysql
}

var migrations = []migration{
	{
		version: "000_create_users",
		mysql: `
			CREATE TABLE IF NOT EXISTS users (
				id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
				username      VARCHAR(150) NOT NULL UNIQUE,
				email         VARCHAR(254) NOT NULL UNIQUE,
				first_name    VARCHAR(150) NOT NULL DEFAULT '',
				last_name     VARCHAR(150) NOT NULL DEFAULT '',
				password_hash VARCHAR(255) NOT NULL,
				date_joined   DATETIME(6) NOT NULL
			)`,
		sqlite: `
			CREATE TABLE IF NOT EXISTS users (
				id            INTEGER PRIMARY KEY AUTOINCREMENT,
				username      TEXT NOT NULL UNIQUE,
				email         TEXT NOT NULL UNIQUE,
				first_name    TEXT NOT NULL DEFAULT '',
				last_name     TEXT NOT NULL DEFAULT '',
				password_hash TEXT NOT NULL,
				date_joined   DATETIME NOT NULL
			)`,
	},
	{
		version: "001_create_user_profiles",
		mysql: `
			CREATE TABLE IF NOT EXISTS user_profiles (
				user_id         BIGINT UNSIGNED PRIMARY KEY,
				date_of_birth   DATE NULL,
				gender          CHAR(1) NULL,
				height          DECIMAL(5,2) NULL,
				weight          DECIMAL(5,2) NULL,
				bio             VARCHAR(500) NOT NULL DEFAULT '',
				profile_picture VARCHAR(500) NULL,
				created_at      DATETIME(6) NOT NULL,
				updated_at      DATETIME(6) NOT NULL,
				FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
			)`,
		sqlite: `
			CREATE TABLE IF NOT EXISTS user_profiles (
				user_id         INTEGER PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
				date_of_birth   TEXT NULL,
				gender          TEXT NULL,
				height          REAL NULL,
				weight          REAL NULL,
				bio             TEXT NOT NULL DEFAULT '',
				profile_picture TEXT NULL,
				created_at      DATETIME NOT NULL,
				updated_at      DATETIME NOT NULL
			)`,
	},
	{
		version: "002_create_activities",
		mysql: `
			CREATE TABLE IF NOT EXISTS activities (
				id                 BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
				user_id            BIGINT UNSIGNED NOT NULL,
				activity_type      VARCHAR(20) NOT NULL,
				title              VARCHAR(200) NOT NULL DEFAULT '',
				description        TEXT NOT NULL,
				duration           INT UNSIGNED NOT NULL,
				distance           DECIMAL(6,2) NULL,
				calories_burned    INT UNSIGNED NULL,
				intensity          VARCHAR(10) NOT NULL DEFAULT 'MODERATE',
				date               DATE NOT NULL,
				start_time         TIME NULL,
				average_heart_rate SMALLINT UNSIGNED NULL,
				max_heart_rate     SMALLINT UNSIGNED NULL,
				elevation_gain     DECIMAL(6,2) NULL,
				location           VARCHAR(200) NOT NULL DEFAULT '',
				created_at         DATETIME(6) NOT NULL,
				updated_at         DATETIME(6) NOT NULL,
				FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
			);
			CREATE INDEX idx_activities_user_date ON activities (user_id, date);
			CREATE INDEX idx_activities_type ON activities (activity_type);
			CREATE INDEX idx_activities_created ON activities (created_at)`,
		sqlite: `
			CREATE TABLE IF NOT EXISTS activities (
				id                 INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id            INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				activity_type      TEXT NOT NULL,
				title              TEXT NOT NULL DEFAULT '',
				description        TEXT NOT NULL DEFAULT '',
				duration           INTEGER NOT NULL CHECK (duration >= 1),
				distance           REAL NULL,
				calories_burned    INTEGER NULL,
				intensity          TEXT NOT NULL DEFAULT 'MODERATE',
				date               TEXT NOT NULL,
				start_time         TEXT NULL,
				average_heart_rate INTEGER NULL,
				max_heart_rate     INTEGER NULL,
				elevation_gain     REAL NULL,
				location           TEXT NOT NULL DEFAULT '',
				created_at         DATETIME NOT NULL,
				updated_at         DATETIME NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_activities_user_date ON activities (user_id, date);
			CREATE INDEX IF NOT EXISTS idx_activities_type ON activities (activity_type);
			CREATE INDEX IF NOT EXISTS idx_activities_created ON activities (created_at)`,
	},
	{
		version: "003_create_token_denylist",
		mysql: `
			CREATE TABLE IF NOT EXISTS token_denylist (
				jti        VARCHAR(64) PRIMARY KEY,
				user_id    BIGINT UNSIGNED NOT NULL,
				expires_at DATETIME(6) NOT NULL,
				created_at DATETIME(6) NOT NULL
			);
			CREATE INDEX idx_token_denylist_expires ON token_denylist (expires_at)`,
		sqlite: `
			CREATE TABLE IF NOT EXISTS token_denylist (
				jti        TEXT PRIMARY KEY,
				user_id    INTEGER NOT NULL,
				expires_at DATETIME NOT NULL,
				created_at DATETIME NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_token_denylist_expires ON token_denylist (expires_at)`,
	},
}

func RunMigrations(db *sql.DB, driver string, logger *zap.Logger) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    VARCHAR(255) PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		applied, err := isMigrationApplied(db, m.version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		if err := executeMigration(db, driver, m); err != nil {
			return err
		}

		logger.Info("applied migration", zap.String("version", m.version))
	}

	return nil
}

func isMigrationApplied(db *sql.DB, version string) (bool, error) {
	var count int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM schema_migrations WHERE version = ?",
		version,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check migration %s: %w", version, err)
	}
	return count > 0, nil
}

func executeMigration(db *sql.DB, driver string, m migration) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for %s: %w", m.version, err)
	}

	for _, stmt := range strings.Split(m.statements(driver), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.Exec(stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to execute migration %s: %w", m.version, err)
		}
	}

	if _, err := tx.Exec(
		"INSERT INTO schema_migrations (version) VALUES (?)",
		m.version,
	); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to record migration %s: %w", m.version, err)
	}

	return tx.Commit()
}
