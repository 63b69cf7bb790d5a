package bot

import (
	"context"
	"errors"

	"github.com/sgdc3/reactord/internal/emoji"
)

// ErrMessageGone is wrapped by Platform errors for messages that no longer exist.
var ErrMessageGone = errors.New("message no longer exists")

// Message is the part of a chat message the bot looks at.
type Message struct {
	ID        string
	ChannelID string
	GuildID   string // empty for direct messages
	AuthorID  string
	AuthorBot bool
	Content   string
	Reactions []emoji.Emoji
}

// Reaction is a reaction-added event.
type Reaction struct {
	GuildID   string
	ChannelID string
	MessageID string
	UserID    string
	Emoji     emoji.Emoji
}

// Platform is what the bot needs from the chat service. Every method except
// SelfID and CustomEmojis is a network round trip.
type Platform interface {
	SelfID() string
	CustomEmojis() []emoji.Emoji
	SendMessage(ctx context.Context, channelID, content string) (*Message, error)
	AddReaction(ctx context.Context, channelID, messageID string, e emoji.Emoji) error
	// RemoveReaction succeeds when the user has no such reaction.
	RemoveReaction(ctx context.Context, channelID, messageID string, e emoji.Emoji, userID string) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	FetchMessage(ctx context.Context, channelID, messageID string) (*Message, error)
	// FetchRecentHistory returns up to limit messages, newest first.
	FetchRecentHistory(ctx context.Context, channelID string, limit int) ([]*Message, error)
}
