// Package storage archives room snapshots to Postgres so a restarted
// process can pick up where it left off. The store works fine without it;
// configuring POSTGRES_URL is what switches it on.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shamrock-game/shamrock/internal/game"
)

var (
	ErrNoSnapshot         = errors.New("no snapshot for room")
	ErrUnexpectedDatabase = errors.New("unexpected database error")
)

// PostgresArchive keeps the latest document per room name in a single
// JSONB-backed table.
type PostgresArchive struct {
	pool *pgxpool.Pool
}

func NewPostgresArchive(ctx context.Context, connString string) (*PostgresArchive, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	return &PostgresArchive{pool: pool}, nil
}

func (a *PostgresArchive) Close() {
	a.pool.Close()
}

// SaveSnapshot upserts the room's current document, keyed by name.
func (a *PostgresArchive) SaveSnapshot(ctx context.Context, room *game.Room) error {
	doc, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("encode room %q: %w", room.Name, err)
	}

	_, err = a.pool.Exec(ctx,
		`INSERT INTO room_snapshots(name, doc, updated_at)
		 VALUES($1, $2, now())
		 ON CONFLICT (name) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`,
		room.Name, doc)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrUnexpectedDatabase, err)
	}
	return nil
}

// LoadSnapshot returns the archived document for a room name.
func (a *PostgresArchive) LoadSnapshot(ctx context.Context, name string) (*game.Room, error) {
	var doc []byte
	row := a.pool.QueryRow(ctx, `SELECT doc FROM room_snapshots WHERE name = $1`, name)

	if err := row.Scan(&doc); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, ErrNoSnapshot
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, err
		default:
			return nil, fmt.Errorf("%w: %w", ErrUnexpectedDatabase, err)
		}
	}

	var room game.Room
	if err := json.Unmarshal(doc, &room); err != nil {
		return nil, fmt.Errorf("decode room %q: %w", name, err)
	}
	return &room, nil
}

// LoadAll returns every archived room, used to seed the in-memory store at
// process start.
func (a *PostgresArchive) LoadAll(ctx context.Context) ([]*game.Room, error) {
	rows, err := a.pool.Query(ctx, `SELECT doc FROM room_snapshots`)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnexpectedDatabase, err)
	}
	defer rows.Close()

	var rooms []*game.Room
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnexpectedDatabase, err)
		}
		var room game.Room
		if err := json.Unmarshal(doc, &room); err != nil {
			continue
		}
		rooms = append(rooms, &room)
	}
	return rooms, rows.Err()
}
