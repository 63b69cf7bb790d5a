// Package events publishes poll lifecycle events to the log, a Redis channel
// and the Postgres journal. Publishing is best effort and never feeds back
// into poll handling.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Type identifies the event kind.
type Type string

const (
	TypePollRegistered    Type = "poll_registered"
	TypePollRemoved       Type = "poll_removed"
	TypeVoteRetracted     Type = "vote_retracted"
	TypeCommandPollPosted Type = "command_poll_posted"
)

// PollRegisteredPayload is the payload of TypePollRegistered.
type PollRegisteredPayload struct {
	Question        string `json:"question"`
	Answers         int    `json:"answers"`
	ReactionsAdded  int    `json:"reactions_added"`
	ReactionsFailed int    `json:"reactions_failed"`
	FromBackfill    bool   `json:"from_backfill"`
}

// VoteRetractedPayload is the payload of TypeVoteRetracted.
type VoteRetractedPayload struct {
	UserID    string `json:"user_id"`
	Kept      string `json:"kept"`
	Requested int    `json:"requested"`
	Failed    int    `json:"failed"`
}

// CommandPollPostedPayload is the payload of TypeCommandPollPosted.
type CommandPollPostedPayload struct {
	Question string   `json:"question"`
	Answers  []string `json:"answers"`
	AuthorID string   `json:"author_id"`
}

// Event is the envelope shared by every publisher.
type Event struct {
	ID        string          `json:"id"`
	Type      Type            `json:"type"`
	GuildID   string          `json:"guild_id,omitempty"`
	ChannelID string          `json:"channel_id"`
	MessageID string          `json:"message_id"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	At        time.Time       `json:"at"`
}

// New builds an event with a fresh id. A payload that cannot be marshalled is dropped.
func New(typ Type, guildID, channelID, messageID string, payload interface{}) Event {
	e := Event{
		ID:        uuid.New().String(),
		Type:      typ,
		GuildID:   guildID,
		ChannelID: channelID,
		MessageID: messageID,
		At:        time.Now().UTC(),
	}
	if payload != nil {
		if body, err := json.Marshal(payload); err == nil {
			e.Payload = body
		}
	}
	return e
}

// Publisher delivers events somewhere.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Fanout publishes to every publisher and joins their errors.
type Fanout []Publisher

// Publish sends e to all publishers, even if some fail.
func (f Fanout) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogPublisher writes events to a zap logger.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a log publisher.
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogPublisher{logger: logger}
}

// Publish logs e at info level.
func (p *LogPublisher) Publish(_ context.Context, e Event) error {
	p.logger.Info("poll event",
		zap.String("event_id", e.ID),
		zap.String("type", string(e.Type)),
		zap.String("guild_id", e.GuildID),
		zap.String("channel_id", e.ChannelID),
		zap.String("message_id", e.MessageID),
		zap.ByteString("payload", e.Payload),
	)
	return nil
}
