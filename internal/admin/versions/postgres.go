package versions

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// DB defines the database operations used by the postgres resolver.
// *pgxpool.Pool satisfies this interface.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres resolves the server version string of the connected database.
func Postgres(name, description string, db DB) Resolver {
	return Resolver{
		Name:        name,
		Description: description,
		Resolve: func(ctx context.Context) (string, error) {
			var version string
			if err := db.QueryRow(ctx, `SHOW server_version`).Scan(&version); err != nil {
				return "", fmt.Errorf("query server version: %w", err)
			}
			return version, nil
		},
	}
}
