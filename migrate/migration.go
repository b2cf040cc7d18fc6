package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Type defines the type of migration, categorizing the purpose of the change.
type Type string

const (
	// SchemaType represents schema changes (tables, columns, indexes, etc.)
	SchemaType Type = "schema"

	// DataType represents data manipulations (inserts, updates, etc.)
	DataType Type = "data"
)

// Direction specifies whether a migration applies or reverts a change.
type Direction string

const (
	// UpMigration indicates a forward migration that applies a change.
	UpMigration Direction = "up"

	// DownMigration indicates a rollback migration that reverts a change.
	DownMigration Direction = "down"
)

// Migration represents a single migration file with its metadata and content.
type Migration struct {
	// ID is a unique identifier for the migration, typically a timestamp (YYYYMMDDHHMMSS)
	// that also establishes the execution order.
	ID string

	// Name is a descriptive label for the migration.
	Name string

	// Type categorizes the migration as either schema or data.
	Type Type

	// Direction indicates whether this is an up (apply) or down (rollback) migration.
	Direction Direction

	// SQL contains the statements to execute.
	SQL string
}

// Load reads the migrations of one direction from dir, sorted by ID.
//
// Migration files follow the naming convention
// <id>_<type>_<name>.<direction>.sql, for example
// 20230101120000_schema_create_users_table.up.sql. Files that do not match are
// ignored.
func Load(dir string, direction Direction) ([]Migration, error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return nil, err
	}

	var migrations []Migration
	for _, entry := range entries {
		m, ok := parseFilename(filepath.Base(entry))
		if !ok || m.Direction != direction {
			continue
		}

		content, err := os.ReadFile(entry) //nolint:gosec
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", entry, err)
		}
		m.SQL = string(content)
		migrations = append(migrations, m)
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].ID < migrations[j].ID
	})
	return migrations, nil
}

func parseFilename(filename string) (Migration, bool) {
	parts := strings.Split(filename, ".")
	if len(parts) != 3 || parts[2] != "sql" {
		return Migration{}, false
	}

	nameParts := strings.Split(parts[0], "_")
	if len(nameParts) < 3 {
		return Migration{}, false
	}

	return Migration{
		ID:        nameParts[0],
		Type:      Type(nameParts[1]),
		Name:      strings.Join(nameParts[2:], "_"),
		Direction: Direction(parts[1]),
	}, true
}

// Create writes an empty up/down migration pair to dir and returns their
// common base filename.
func Create(dir, name string, migrationType Type) (string, error) {
	if migrationType != SchemaType && migrationType != DataType {
		return "", fmt.Errorf("unknown migration type %q", migrationType)
	}
	if name == "" || strings.ContainsAny(name, "./") {
		return "", fmt.Errorf("invalid migration name %q", name)
	}

	now := time.Now()
	base := fmt.Sprintf("%s_%s_%s", now.Format("20060102150405"), migrationType, name)

	upTemplate := fmt.Sprintf("-- Migration: %s\n-- Type: %s\n-- Created: %s\n\n", name, migrationType, now.Format(time.RFC3339))
	downTemplate := fmt.Sprintf("-- Migration: %s (rollback)\n-- Type: %s\n-- Created: %s\n\n", name, migrationType, now.Format(time.RFC3339))

	if err := os.MkdirAll(dir, 0750); err != nil { //nolint:gosec
		return "", fmt.Errorf("failed to create migrations directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, base+".up.sql"), []byte(upTemplate), 0600); err != nil { //nolint:gosec
		return "", fmt.Errorf("failed to create up migration file: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, base+".down.sql"), []byte(downTemplate), 0600); err != nil { //nolint:gosec
		return "", fmt.Errorf("failed to create down migration file: %w", err)
	}
	return base, nil
}
