// Package bot turns chat messages into reaction polls and keeps one vote per
// voter on every tracked poll.
package bot

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sgdc3/reactord/internal/emoji"
	"github.com/sgdc3/reactord/internal/events"
	"github.com/sgdc3/reactord/internal/polls"
)

const (
	// MaxBackfillLimit is the largest history page the platform serves.
	MaxBackfillLimit          = 100
	defaultRetractConcurrency = 4
)

// DefaultCommandAliases invoke the poll command.
var DefaultCommandAliases = []string{"!poll", "!sondaggio"}

// Options tune the bot. Zero values fall back to defaults.
type Options struct {
	Trigger        string
	CommandAliases []string
	BackfillLimit  int
	// SkipEmptyPolls leaves polls without a single resolvable answer unregistered.
	SkipEmptyPolls     bool
	RetractConcurrency int
}

// Bot wires the parsers, the registry and the platform together. Event
// handlers may run concurrently; the registry is the only shared state.
type Bot struct {
	platform  Platform
	registry  *polls.Registry
	resolver  *emoji.Resolver
	parser    *polls.Parser
	publisher events.Publisher
	logger    *zap.Logger
	opts      Options

	// lifecycle orders registry inserts against deletes; see track and forget.
	lifecycle sync.Mutex
	deleted   map[string]time.Time
}

// New creates a bot. publisher may be nil.
func New(platform Platform, registry *polls.Registry, publisher events.Publisher, opts Options, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	if publisher == nil {
		publisher = events.Fanout{}
	}
	if len(opts.CommandAliases) == 0 {
		opts.CommandAliases = DefaultCommandAliases
	}
	if opts.BackfillLimit <= 0 || opts.BackfillLimit > MaxBackfillLimit {
		opts.BackfillLimit = MaxBackfillLimit
	}
	if opts.RetractConcurrency <= 0 {
		opts.RetractConcurrency = defaultRetractConcurrency
	}
	resolver := emoji.NewResolver(platform)
	return &Bot{
		platform:  platform,
		registry:  registry,
		resolver:  resolver,
		parser:    polls.NewParser(opts.Trigger, resolver, logger),
		publisher: publisher,
		logger:    logger,
		opts:      opts,
		deleted:   make(map[string]time.Time),
	}
}

// Registry returns the live poll registry.
func (b *Bot) Registry() *polls.Registry {
	return b.registry
}

// OnMessage routes a newly created message to the command handler or to poll ingestion.
func (b *Bot) OnMessage(ctx context.Context, m *Message) {
	if args, ok := b.matchCommand(m.Content); ok {
		if m.AuthorBot {
			return
		}
		if reply := b.HandleCommand(ctx, m, args); reply != "" {
			if _, err := b.platform.SendMessage(ctx, m.ChannelID, reply); err != nil {
				b.logger.Warn("send command reply", zap.String("channel_id", m.ChannelID), zap.Error(err))
			}
		}
		return
	}
	b.Ingest(ctx, m)
}

// matchCommand returns the argument string if content invokes the poll command.
func (b *Bot) matchCommand(content string) (string, bool) {
	content = strings.TrimSpace(content)
	for _, alias := range b.opts.CommandAliases {
		if len(content) < len(alias) || !strings.EqualFold(content[:len(alias)], alias) {
			continue
		}
		rest := content[len(alias):]
		if rest == "" {
			return "", true
		}
		if rest[0] == ' ' || rest[0] == '\t' || rest[0] == '\n' {
			return strings.TrimSpace(rest), true
		}
	}
	return "", false
}

func (b *Bot) emit(ctx context.Context, typ events.Type, guildID, channelID, messageID string, payload interface{}) {
	e := events.New(typ, guildID, channelID, messageID, payload)
	if err := b.publisher.Publish(ctx, e); err != nil {
		b.logger.Warn("publish poll event", zap.String("type", string(typ)), zap.String("message_id", messageID), zap.Error(err))
	}
}
