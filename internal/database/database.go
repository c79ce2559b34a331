package database

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"

	"karting_backend/pkg/utils"

	_ "github.com/lib/pq" // PostgreSQL driver
)

var DB *sql.DB

//go:embed schema.sql
var defaultSchema string

// InitDB initializes the database connection and applies the schema.
func InitDB(host, port, user, password, dbname, sslmode, dbSchemaPath string) error {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)

	var err error
	DB, err = sql.Open("postgres", connStr)
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}

	if err = DB.Ping(); err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	utils.LogInfo("Successfully connected to the database", map[string]interface{}{"host": host, "dbname": dbname})

	if err = ApplySchema(DB, dbSchemaPath); err != nil {
		return fmt.Errorf("error applying database schema: %w", err)
	}
	return nil
}

// ApplySchema executes the schema file at schemaPath, or the embedded schema when the path is empty.
// The embedded schema is idempotent.
func ApplySchema(db *sql.DB, schemaPath string) error {
	content := defaultSchema
	if schemaPath != "" {
		raw, err := os.ReadFile(schemaPath)
		if err != nil {
			return fmt.Errorf("could not read schema file %s: %w", schemaPath, err)
		}
		content = string(raw)
	}

	if _, err := db.Exec(content); err != nil {
		return fmt.Errorf("could not execute schema script: %w", err)
	}
	utils.LogInfo("Database schema applied", map[string]interface{}{"custom_path": schemaPath != ""})
	return nil
}

// GetDB returns the database connection pool
func GetDB() *sql.DB {
	return DB
}
