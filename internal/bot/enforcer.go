package bot

import (
	"context"
	"errors"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sgdc3/reactord/internal/emoji"
	"github.com/sgdc3/reactord/internal/events"
)

// Enforce keeps r.UserID's reaction under r.Emoji as their only vote on a
// tracked poll by removing their reaction under every other emoji present on
// the message. Removals run concurrently and a failed one does not stop the
// others. Reactions by the bot and on untracked messages are ignored.
func (b *Bot) Enforce(ctx context.Context, r Reaction) {
	if r.UserID == b.platform.SelfID() {
		return
	}
	if !b.registry.Contains(r.MessageID) {
		return
	}
	log := b.logger.With(
		zap.String("channel_id", r.ChannelID),
		zap.String("message_id", r.MessageID),
		zap.String("user_id", r.UserID),
	)

	m, err := b.platform.FetchMessage(ctx, r.ChannelID, r.MessageID)
	if errors.Is(err, ErrMessageGone) {
		// The delete event was missed.
		b.OnDelete(ctx, r.GuildID, r.ChannelID, r.MessageID)
		return
	}
	if err != nil {
		log.Warn("fetch poll message", zap.Error(err))
		return
	}

	others := otherEmojis(m.Reactions, r.Emoji)
	if len(others) == 0 {
		return
	}

	var failed atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.RetractConcurrency)
	for _, e := range others {
		e := e
		g.Go(func() error {
			if err := b.platform.RemoveReaction(gctx, r.ChannelID, r.MessageID, e, r.UserID); err != nil {
				failed.Add(1)
				log.Warn("retract vote", zap.String("emoji", e.APIName()), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	log.Debug("vote enforced",
		zap.String("emoji", r.Emoji.APIName()),
		zap.Int("retracted", len(others)),
		zap.Int32("failed", failed.Load()),
	)
	b.emit(ctx, events.TypeVoteRetracted, r.GuildID, r.ChannelID, r.MessageID, events.VoteRetractedPayload{
		UserID:    r.UserID,
		Kept:      r.Emoji.APIName(),
		Requested: len(others),
		Failed:    int(failed.Load()),
	})
}

// otherEmojis returns the distinct emoji in present that differ from kept.
func otherEmojis(present []emoji.Emoji, kept emoji.Emoji) []emoji.Emoji {
	seen := make(map[string]struct{}, len(present))
	out := make([]emoji.Emoji, 0, len(present))
	for _, e := range present {
		if e.Equal(kept) {
			continue
		}
		if _, dup := seen[e.Key()]; dup {
			continue
		}
		seen[e.Key()] = struct{}{}
		out = append(out, e)
	}
	return out
}
