package bot

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sgdc3/reactord/internal/events"
	"github.com/sgdc3/reactord/internal/polls"
)

// HandleCommand runs the poll command, "!poll question|icon label;icon label".
// It posts the poll as a new message, seeds its reactions and deletes the
// invoking message. The returned string is the reply to send back, empty on
// success. Polls posted this way are not registered, so their votes are not
// kept exclusive.
func (b *Bot) HandleCommand(ctx context.Context, m *Message, args string) string {
	log := b.logger.With(
		zap.String("guild_id", m.GuildID),
		zap.String("channel_id", m.ChannelID),
		zap.String("author_id", m.AuthorID),
	)
	if m.GuildID == "" {
		log.Debug("ignoring poll command from a private channel")
		return ""
	}
	start := time.Now()
	log.Debug("received poll command", zap.String("content", m.Content))

	poll, err := polls.ParseCommand(args, b.resolver)
	if err != nil {
		b.deleteCommand(ctx, m, log)
		log.Debug("rejected poll command", zap.Error(err))
		if reply := polls.UserMessage(err); reply != "" {
			return reply
		}
		return polls.ErrUsage.Error()
	}

	sent, err := b.platform.SendMessage(ctx, m.ChannelID, poll.Format())
	if err != nil {
		log.Error("send poll message", zap.Error(err))
		b.deleteCommand(ctx, m, log)
		return ""
	}
	log.Debug("sent poll message", zap.String("message_id", sent.ID), zap.Duration("took", time.Since(start)))

	for _, a := range poll.Answers {
		reactionStart := time.Now()
		if err := b.platform.AddReaction(ctx, sent.ChannelID, sent.ID, a.Emoji); err != nil {
			log.Warn("add poll reaction", zap.String("message_id", sent.ID), zap.String("emoji", a.Emoji.APIName()), zap.Error(err))
			continue
		}
		log.Debug("added poll reaction", zap.String("emoji", a.Emoji.APIName()), zap.Duration("took", time.Since(reactionStart)))
	}

	b.deleteCommand(ctx, m, log)

	labels := make([]string, 0, len(poll.Answers))
	for _, a := range poll.Answers {
		labels = append(labels, a.Label)
	}
	log.Info("created new poll",
		zap.String("message_id", sent.ID),
		zap.String("question", poll.Question),
		zap.Int("answers", len(poll.Answers)),
		zap.Duration("took", time.Since(start)),
	)
	b.emit(ctx, events.TypeCommandPollPosted, m.GuildID, sent.ChannelID, sent.ID, events.CommandPollPostedPayload{
		Question: poll.Question,
		Answers:  labels,
		AuthorID: m.AuthorID,
	})
	return ""
}

func (b *Bot) deleteCommand(ctx context.Context, m *Message, log *zap.Logger) {
	start := time.Now()
	if err := b.platform.DeleteMessage(ctx, m.ChannelID, m.ID); err != nil {
		log.Warn("delete poll command", zap.String("message_id", m.ID), zap.Error(err))
		return
	}
	log.Debug("deleted poll command", zap.String("message_id", m.ID), zap.Duration("took", time.Since(start)))
}
