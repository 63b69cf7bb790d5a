// Package journal stores poll events in Postgres for later inspection. The
// bot only appends; nothing is rebuilt from the journal on startup.
package journal

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sgdc3/reactord/internal/events"
)

const (
	// DefaultLimit is used when Recent is called with limit <= 0.
	DefaultLimit = 50
	// MaxLimit caps Recent.
	MaxLimit = 500
)

// Repository handles poll event persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a journal repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Publish appends e to the journal.
func (r *Repository) Publish(ctx context.Context, e events.Event) error {
	const query = `INSERT INTO poll_events (id, type, guild_id, channel_id, message_id, payload, at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`
	var payload []byte
	if len(e.Payload) > 0 {
		payload = e.Payload
	}
	if _, err := r.pool.Exec(ctx, query, e.ID, string(e.Type), e.GuildID, e.ChannelID, e.MessageID, payload, e.At); err != nil {
		return fmt.Errorf("insert poll event: %w", err)
	}
	return nil
}

// Recent returns the newest events first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]events.Event, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	const query = `SELECT id::text, type, guild_id, channel_id, message_id, payload, at
		FROM poll_events ORDER BY at DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query poll events: %w", err)
	}
	defer rows.Close()

	var out []events.Event
	for rows.Next() {
		var e events.Event
		var typ string
		var payload []byte
		if err := rows.Scan(&e.ID, &typ, &e.GuildID, &e.ChannelID, &e.MessageID, &payload, &e.At); err != nil {
			return nil, fmt.Errorf("scan poll event: %w", err)
		}
		e.Type = events.Type(typ)
		e.Payload = payload
		out = append(out, e)
	}
	return out, rows.Err()
}
