package database

import (
	"context"
	"fmt"
	"log/slog"
)

// SluggedTables are the collections whose slug must be unique.
var SluggedTables = []string{"page", "post", "product", "category", "content"}

// Schema returns the DEFINE statements the API relies on. Every slugged table
// carries a UNIQUE index on slug so that concurrent writers that both pass the
// pre-write check cannot both commit.
func Schema() []string {
	stmts := make([]string, 0, len(SluggedTables)*3+8)
	for _, table := range SluggedTables {
		stmts = append(stmts,
			fmt.Sprintf("DEFINE TABLE IF NOT EXISTS %s SCHEMALESS", table),
			fmt.Sprintf("DEFINE INDEX IF NOT EXISTS %s_slug_unique ON TABLE %s FIELDS slug UNIQUE", table, table),
			fmt.Sprintf("DEFINE INDEX IF NOT EXISTS %s_created_on ON TABLE %s FIELDS created_on", table, table),
		)
	}
	stmts = append(stmts,
		"DEFINE INDEX IF NOT EXISTS category_parent ON TABLE category FIELDS parent_id",
		"DEFINE INDEX IF NOT EXISTS page_parent ON TABLE page FIELDS parent_id",
		"DEFINE TABLE IF NOT EXISTS menu SCHEMALESS",
		"DEFINE INDEX IF NOT EXISTS menu_location_unique ON TABLE menu FIELDS location UNIQUE",
		"DEFINE TABLE IF NOT EXISTS media SCHEMALESS",
		"DEFINE INDEX IF NOT EXISTS media_author ON TABLE media FIELDS author_id",
		"DEFINE INDEX IF NOT EXISTS media_storage_key ON TABLE media FIELDS storage, storage_key",
		"DEFINE TABLE IF NOT EXISTS site_settings SCHEMALESS",
		"DEFINE TABLE IF NOT EXISTS user SCHEMALESS",
		"DEFINE INDEX IF NOT EXISTS user_email_unique ON TABLE user FIELDS email UNIQUE",
	)
	return stmts
}

// ApplySchema defines tables and indexes in one atomic batch. It is idempotent.
func ApplySchema(ctx context.Context, db Database) error {
	batch := NewAtomicBatch()
	for _, stmt := range Schema() {
		batch.Add(stmt, nil)
	}
	if err := batch.Execute(ctx, db); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	slog.Info("database schema applied", "statements", batch.Len())
	return nil
}
