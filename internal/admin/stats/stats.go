// Package stats provides entity counts and latest-created lookups for the
// admin dashboard.
package stats

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB defines the database operations used by the stats service.
// *pgxpool.Pool satisfies this interface.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Kind identifies an entity kind tracked by the dashboard.
type Kind string

const (
	KindUser       Kind = "user"
	KindGroup      Kind = "group"
	KindRepository Kind = "repository"
)

// Kinds lists all tracked entity kinds in display order.
var Kinds = []Kind{KindUser, KindGroup, KindRepository}

// Latest describes the most recently created entity of one kind.
// OwnerUsername is only set for repositories.
type Latest struct {
	ID            int32
	DisplayName   string
	OwnerUsername string
}

type Service struct {
	db DB
}

func NewService(db DB) *Service {
	return &Service{db: db}
}

var countQueries = map[Kind]string{
	KindUser:       `SELECT count(*) FROM users`,
	KindGroup:      `SELECT count(*) FROM groups`,
	KindRepository: `SELECT count(*) FROM repositories`,
}

// Count returns the total number of entities of the given kind. A store
// failure is returned as an error, never as a zero count.
func (s *Service) Count(ctx context.Context, kind Kind) (int64, error) {
	query, ok := countQueries[kind]
	if !ok {
		return 0, fmt.Errorf("count: unknown entity kind %q", kind)
	}

	var count int64
	if err := s.db.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s entities: %w", kind, err)
	}
	return count, nil
}

// Ordering: latest creation timestamp wins, creation ties broken by the
// higher id so the later insertion wins.
var latestQueries = map[Kind]string{
	KindUser: `SELECT id, username, '' FROM users
		ORDER BY created_at DESC, id DESC LIMIT 1`,
	KindGroup: `SELECT id, name, '' FROM groups
		ORDER BY created_at DESC, id DESC LIMIT 1`,
	KindRepository: `SELECT r.id, r.name, u.username
		FROM repositories r JOIN users u ON r.owner = u.id
		ORDER BY r.created_at DESC, r.id DESC LIMIT 1`,
}

// Latest returns the most recently created entity of the given kind.
// An empty table yields (nil, nil); that is a distinct state from a store
// failure, which yields a non-nil error.
func (s *Service) Latest(ctx context.Context, kind Kind) (*Latest, error) {
	query, ok := latestQueries[kind]
	if !ok {
		return nil, fmt.Errorf("latest: unknown entity kind %q", kind)
	}

	var l Latest
	err := s.db.QueryRow(ctx, query).Scan(&l.ID, &l.DisplayName, &l.OwnerUsername)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest %s: %w", kind, err)
	}
	return &l, nil
}
