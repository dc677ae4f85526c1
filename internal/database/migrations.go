package database

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"
)

// AddIndexes adds the indexes the task search and ownership lookups rely on.
func AddIndexes(db *gorm.DB, log *slog.Logger) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		{"tasks", "idx_tasks_user_id", "user_id"},
		{"tasks", "idx_tasks_category_id", "category_id"},
		{"tasks", "idx_tasks_deadline", "deadline"},
		{"user_roles", "idx_user_roles_role", "role"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			log.Debug("index already exists, skipping", "index", idx.name)
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Debug("created index", "index", idx.name, "table", idx.table, "columns", idx.columns)
	}

	return nil
}
