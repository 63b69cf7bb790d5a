package discord

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/sgdc3/reactord/internal/bot"
)

// Intents are the gateway intents the bot needs.
const Intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildEmojis |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsGuildMessageReactions |
	discordgo.IntentsDirectMessages |
	discordgo.IntentsMessageContent

// Router forwards gateway events to the bot. discordgo runs every handler in
// its own goroutine.
type Router struct {
	ctx    context.Context
	bot    *bot.Bot
	logger *zap.Logger

	mu         sync.Mutex
	backfilled map[string]struct{} // guild ids
}

// NewRouter creates a router. ctx bounds every handler and is cancelled on shutdown.
func NewRouter(ctx context.Context, b *bot.Bot, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{ctx: ctx, bot: b, logger: logger, backfilled: make(map[string]struct{})}
}

// Register adds the handlers to the session and returns a function that removes them.
func (r *Router) Register(s *discordgo.Session) (remove func()) {
	removers := []func(){
		s.AddHandler(r.onReady),
		s.AddHandler(r.onGuildCreate),
		s.AddHandler(r.onMessageCreate),
		s.AddHandler(r.onMessageDelete),
		s.AddHandler(r.onReactionAdd),
	}
	return func() {
		for _, rm := range removers {
			rm()
		}
	}
}

func (r *Router) onReady(_ *discordgo.Session, e *discordgo.Ready) {
	if e.User == nil {
		return
	}
	r.logger.Info("connected",
		zap.String("user", e.User.Username),
		zap.String("user_id", e.User.ID),
		zap.Int("guilds", len(e.Guilds)),
	)
}

func (r *Router) onGuildCreate(_ *discordgo.Session, e *discordgo.GuildCreate) {
	if e.Guild == nil || e.Unavailable {
		return
	}
	var channels []string
	for _, c := range e.Channels {
		if c.Type == discordgo.ChannelTypeGuildText || c.Type == discordgo.ChannelTypeGuildNews {
			channels = append(channels, c.ID)
		}
	}
	if !r.claimBackfill(e.ID) {
		r.logger.Debug("guild already backfilled", zap.String("guild_id", e.ID))
		return
	}
	r.logger.Info("guild available", zap.String("guild_id", e.ID), zap.String("guild", e.Name), zap.Int("text_channels", len(channels)))
	r.bot.Backfill(r.ctx, e.ID, channels)
}

// claimBackfill reports whether guildID still needs its startup backfill.
// GuildCreate repeats after reconnects; live events keep the registry current
// from then on.
func (r *Router) claimBackfill(guildID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, done := r.backfilled[guildID]; done {
		return false
	}
	r.backfilled[guildID] = struct{}{}
	return true
}

func (r *Router) onMessageCreate(_ *discordgo.Session, e *discordgo.MessageCreate) {
	if e.Message == nil {
		return
	}
	r.bot.OnMessage(r.ctx, FromMessage(e.Message))
}

func (r *Router) onMessageDelete(_ *discordgo.Session, e *discordgo.MessageDelete) {
	if e.Message == nil {
		return
	}
	r.bot.OnDelete(r.ctx, e.GuildID, e.ChannelID, e.ID)
}

func (r *Router) onReactionAdd(_ *discordgo.Session, e *discordgo.MessageReactionAdd) {
	if e.MessageReaction == nil {
		return
	}
	r.bot.Enforce(r.ctx, bot.Reaction{
		GuildID:   e.GuildID,
		ChannelID: e.ChannelID,
		MessageID: e.MessageID,
		UserID:    e.UserID,
		Emoji:     FromEmoji(&e.Emoji),
	})
}
