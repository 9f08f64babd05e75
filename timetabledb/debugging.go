package timetabledb

import (
	"context"
	"fmt"
)

// TableCounts returns the number of rows in every table of the dataset.
func (c *Client) TableCounts(ctx context.Context) (map[string]int, error) {
	tables, err := collect(ctx, c, "table_names",
		"SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'",
		func(row rowScanner, _ int) (string, error) {
			var name string
			err := row.Scan(&name)
			return name, err
		})
	if err != nil {
		return nil, err
	}

	db, err := c.handle(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(tables.Rows))
	for _, table := range tables.Rows {
		var count int
		// Table names come from sqlite_master, not from callers.
		query := fmt.Sprintf("SELECT COUNT(*) FROM %q", table)
		if err := db.QueryRowContext(ctx, query).Scan(&count); err != nil {
			return nil, &QueryError{Name: "table_counts", Err: err}
		}
		counts[table] = count
	}

	return counts, nil
}
