package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB is the global database connection
var DB *sql.DB

// Config holds database configuration
type Config struct {
	Path string
}

// Open initializes the database connection and runs migrations
func Open(cfg Config) error {
	// Ensure directory exists
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	var err error
	DB, err = sql.Open("sqlite", cfg.Path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_time_format=sqlite")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := DB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	// Run migrations
	if err := migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// migrate runs all database migrations
func migrate() error {
	// Create migrations table
	_, err := DB.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	// Run each migration
	for _, m := range migrations {
		if err := runMigration(m); err != nil {
			return fmt.Errorf("migration %s failed: %w", m.name, err)
		}
	}

	return nil
}

type migration struct {
	name string
	up   string
}

func runMigration(m migration) error {
	// Check if already applied
	var count int
	err := DB.QueryRow("SELECT COUNT(*) FROM migrations WHERE name = ?", m.name).Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil // Already applied
	}

	// Run migration
	if _, err := DB.Exec(m.up); err != nil {
		return err
	}

	// Record migration
	_, err = DB.Exec("INSERT INTO migrations (name) VALUES (?)", m.name)
	return err
}

var migrations = []migration{
	{
		name: "001_create_users",
		up: `
			CREATE TABLE users (
				user_id INTEGER PRIMARY KEY AUTOINCREMENT,
				username TEXT NOT NULL UNIQUE,
				email TEXT NOT NULL UNIQUE,
				full_name TEXT NOT NULL,
				password_hash TEXT NOT NULL,
				role TEXT NOT NULL DEFAULT 'staff',
				is_active INTEGER NOT NULL DEFAULT 1,
				created_by INTEGER,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				last_login DATETIME
			);
			CREATE INDEX idx_users_username ON users(username);
			CREATE INDEX idx_users_email ON users(email);
		`,
	},
	{
		name: "002_create_sessions",
		up: `
			CREATE TABLE sessions (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id INTEGER NOT NULL,
				token_hash TEXT NOT NULL UNIQUE,
				username TEXT NOT NULL,
				role TEXT NOT NULL DEFAULT 'staff',
				full_name TEXT NOT NULL DEFAULT '',
				login_time DATETIME NOT NULL,
				expires_at DATETIME NOT NULL,
				FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE
			);
			CREATE INDEX idx_sessions_token_hash ON sessions(token_hash);
			CREATE INDEX idx_sessions_user_id ON sessions(user_id);
			CREATE INDEX idx_sessions_expires_at ON sessions(expires_at);
		`,
	},
	{
		name: "003_create_patients",
		up: `
			CREATE TABLE patients (
				patient_id INTEGER PRIMARY KEY AUTOINCREMENT,
				patient_number TEXT NOT NULL,
				first_name TEXT NOT NULL,
				last_name TEXT NOT NULL,
				date_of_birth TEXT NOT NULL,
				gender TEXT NOT NULL,
				phone TEXT DEFAULT '',
				email TEXT DEFAULT '',
				address TEXT DEFAULT '',
				emergency_contact_name TEXT DEFAULT '',
				emergency_contact_phone TEXT DEFAULT '',
				blood_type TEXT DEFAULT '',
				allergies TEXT DEFAULT '',
				medical_history TEXT DEFAULT '',
				is_active INTEGER NOT NULL DEFAULT 1,
				created_by INTEGER REFERENCES users(user_id),
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP
			);
			-- patient_number is deliberately NOT unique: it is a display
			-- identifier computed from a same-day row count and can collide
			-- under concurrent creation.
			CREATE INDEX idx_patients_number ON patients(patient_number);
			CREATE INDEX idx_patients_created_at ON patients(created_at);
			CREATE INDEX idx_patients_is_active ON patients(is_active);
		`,
	},
	{
		name: "004_create_visits",
		up: `
			CREATE TABLE visits (
				visit_id INTEGER PRIMARY KEY AUTOINCREMENT,
				patient_id INTEGER NOT NULL,
				visit_date TEXT NOT NULL,
				visit_time TEXT NOT NULL,
				height REAL,
				weight REAL,
				blood_pressure TEXT DEFAULT '',
				temperature REAL,
				pulse INTEGER,
				symptoms TEXT DEFAULT '',
				diagnosis TEXT DEFAULT '',
				prescription TEXT DEFAULT '',
				notes TEXT DEFAULT '',
				created_by INTEGER REFERENCES users(user_id),
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (patient_id) REFERENCES patients(patient_id)
			);
			CREATE INDEX idx_visits_patient_id ON visits(patient_id);
			CREATE INDEX idx_visits_visit_date ON visits(visit_date);
		`,
	},
	{
		name: "005_create_appointments",
		up: `
			CREATE TABLE appointments (
				appointment_id INTEGER PRIMARY KEY AUTOINCREMENT,
				patient_id INTEGER NOT NULL,
				appointment_date TEXT NOT NULL,
				appointment_time TEXT NOT NULL,
				purpose TEXT NOT NULL,
				status TEXT NOT NULL DEFAULT 'Scheduled',
				notes TEXT DEFAULT '',
				created_by INTEGER REFERENCES users(user_id),
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (patient_id) REFERENCES patients(patient_id)
			);
			CREATE INDEX idx_appointments_patient_id ON appointments(patient_id);
			CREATE INDEX idx_appointments_date ON appointments(appointment_date);
			CREATE INDEX idx_appointments_status ON appointments(status);
		`,
	},
}
