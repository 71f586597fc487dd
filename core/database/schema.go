package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// RequireColumns verifies that table exposes every named column.
// Column names are compared case-insensitively.
func RequireColumns(db *gorm.DB, table string, columns ...string) error {
	types, err := db.Migrator().ColumnTypes(table)
	if err != nil {
		return fmt.Errorf("failed to get columns for table %s: %w", table, err)
	}
	have := make(map[string]struct{}, len(types))
	for _, ct := range types {
		have[strings.ToLower(ct.Name())] = struct{}{}
	}
	var missing []string
	for _, c := range columns {
		if _, ok := have[strings.ToLower(c)]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("table %s is missing columns: %s", table, strings.Join(missing, ", "))
	}
	return nil
}
