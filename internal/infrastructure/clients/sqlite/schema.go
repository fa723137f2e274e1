package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// The DDL matches files written by earlier releases so existing databases
// and backups stay interchangeable. Foreign keys are declared but only
// enforced when the connection enables them.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS patients (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		age INTEGER,
		address TEXT,
		contact TEXT)`,
	`CREATE TABLE IF NOT EXISTS doctors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		specialty TEXT,
		schedule TEXT)`,
	`CREATE TABLE IF NOT EXISTS appointments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		patient_id INTEGER,
		doctor_id INTEGER,
		date TEXT,
		time TEXT,
		FOREIGN KEY(patient_id) REFERENCES patients(id),
		FOREIGN KEY(doctor_id) REFERENCES doctors(id))`,
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL)`,
}

// Tables lists the tables created by EnsureSchema
var Tables = []string{"patients", "doctors", "appointments", "users"}

// EnsureSchema creates any missing table. It is safe to run on every start.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema: %w", err)
	}
	return nil
}
