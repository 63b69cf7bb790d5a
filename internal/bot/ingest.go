package bot

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/sgdc3/reactord/internal/events"
)

// Ingest activates m as a poll if its text is a free-text poll: it seeds one
// reaction per answer, in order, then registers the message. It reports
// whether the message was registered. Messages that are not polls cause no
// platform calls.
func (b *Bot) Ingest(ctx context.Context, m *Message) bool {
	return b.ingest(ctx, m, false)
}

func (b *Bot) ingest(ctx context.Context, m *Message, backfill bool) bool {
	poll, ok := b.parser.Parse(m.Content)
	if !ok {
		return false
	}
	start := time.Now()
	log := b.logger.With(
		zap.String("guild_id", m.GuildID),
		zap.String("channel_id", m.ChannelID),
		zap.String("message_id", m.ID),
	)

	if len(poll.Answers) == 0 {
		if b.opts.SkipEmptyPolls {
			log.Info("ignoring poll without resolvable answers", zap.String("question", poll.Question))
			return false
		}
		log.Warn("registering poll without resolvable answers", zap.String("question", poll.Question))
	}

	// One at a time so the reactions show up in the authored order.
	added, failed := 0, 0
	for _, a := range poll.Answers {
		err := b.platform.AddReaction(ctx, m.ChannelID, m.ID, a.Emoji)
		if errors.Is(err, ErrMessageGone) {
			log.Info("poll message deleted while seeding reactions", zap.Error(err))
			b.markDeleted(m.ID)
			return false
		}
		if err != nil {
			failed++
			log.Warn("add poll reaction", zap.String("emoji", a.Emoji.APIName()), zap.Error(err))
			continue
		}
		added++
	}

	if !b.track(m.ID) {
		log.Info("poll message deleted before registration")
		return false
	}

	log.Info("poll registered",
		zap.String("question", poll.Question),
		zap.Int("answers", len(poll.Answers)),
		zap.Int("reactions_failed", failed),
		zap.Bool("backfill", backfill),
		zap.Duration("took", time.Since(start)),
	)
	b.emit(ctx, events.TypePollRegistered, m.GuildID, m.ChannelID, m.ID, events.PollRegisteredPayload{
		Question:        poll.Question,
		Answers:         len(poll.Answers),
		ReactionsAdded:  added,
		ReactionsFailed: failed,
		FromBackfill:    backfill,
	})
	return true
}

// Backfill rescans the most recent messages of each channel and ingests the
// polls among them, oldest first. Only the last BackfillLimit messages per
// channel are seen, so older polls stay untracked. It returns the number of
// polls registered.
func (b *Bot) Backfill(ctx context.Context, guildID string, channelIDs []string) int {
	start := time.Now()
	registered := 0
	for _, channelID := range channelIDs {
		if ctx.Err() != nil {
			break
		}
		history, err := b.platform.FetchRecentHistory(ctx, channelID, b.opts.BackfillLimit)
		if err != nil {
			b.logger.Warn("fetch channel history",
				zap.String("guild_id", guildID), zap.String("channel_id", channelID), zap.Error(err))
			continue
		}
		for i := len(history) - 1; i >= 0; i-- {
			m := history[i]
			if m.GuildID == "" {
				m.GuildID = guildID
			}
			if b.ingest(ctx, m, true) {
				registered++
			}
		}
	}
	b.logger.Info("backfill finished",
		zap.String("guild_id", guildID),
		zap.Int("channels", len(channelIDs)),
		zap.Int("polls", registered),
		zap.Duration("took", time.Since(start)),
	)
	return registered
}

// OnDelete forgets a deleted message. Deleting an untracked message only
// remembers it briefly, so an ingestion still seeding it does not register it.
func (b *Bot) OnDelete(ctx context.Context, guildID, channelID, messageID string) {
	if !b.forget(messageID) {
		return
	}
	b.logger.Info("poll removed",
		zap.String("guild_id", guildID), zap.String("channel_id", channelID), zap.String("message_id", messageID))
	b.emit(ctx, events.TypePollRemoved, guildID, channelID, messageID, nil)
}
