// Package discord adapts a discordgo session to the bot's Platform port and
// routes gateway events to the bot.
package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/sgdc3/reactord/internal/bot"
	"github.com/sgdc3/reactord/internal/emoji"
)

// Platform implements bot.Platform on top of a discordgo session.
type Platform struct {
	session *discordgo.Session
}

// NewPlatform wraps an open or soon to be opened session.
func NewPlatform(session *discordgo.Session) *Platform {
	return &Platform{session: session}
}

// SelfID returns the bot user id, or "" before the session is ready.
func (p *Platform) SelfID() string {
	p.session.State.RLock()
	defer p.session.State.RUnlock()
	if p.session.State.User == nil {
		return ""
	}
	return p.session.State.User.ID
}

// CustomEmojis returns the custom emoji of every guild in the session state.
func (p *Platform) CustomEmojis() []emoji.Emoji {
	p.session.State.RLock()
	defer p.session.State.RUnlock()
	var out []emoji.Emoji
	for _, g := range p.session.State.Guilds {
		for _, e := range g.Emojis {
			if e == nil || e.ID == "" {
				continue
			}
			out = append(out, emoji.NewCustom(e.ID, e.Name, e.Animated))
		}
	}
	return out
}

func (p *Platform) SendMessage(ctx context.Context, channelID, content string) (*bot.Message, error) {
	m, err := p.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("send message to %s: %w", channelID, err)
	}
	return FromMessage(m), nil
}

func (p *Platform) AddReaction(ctx context.Context, channelID, messageID string, e emoji.Emoji) error {
	if err := p.session.MessageReactionAdd(channelID, messageID, e.APIName(), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("add reaction %s to %s: %w", e.APIName(), messageID, classify(err))
	}
	return nil
}

func (p *Platform) RemoveReaction(ctx context.Context, channelID, messageID string, e emoji.Emoji, userID string) error {
	if err := p.session.MessageReactionRemove(channelID, messageID, e.APIName(), userID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("remove reaction %s of %s from %s: %w", e.APIName(), userID, messageID, classify(err))
	}
	return nil
}

func (p *Platform) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	if err := p.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("delete message %s: %w", messageID, classify(err))
	}
	return nil
}

func (p *Platform) FetchMessage(ctx context.Context, channelID, messageID string) (*bot.Message, error) {
	m, err := p.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch message %s: %w", messageID, classify(err))
	}
	return FromMessage(m), nil
}

func (p *Platform) FetchRecentHistory(ctx context.Context, channelID string, limit int) ([]*bot.Message, error) {
	msgs, err := p.session.ChannelMessages(channelID, limit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch history of %s: %w", channelID, err)
	}
	out := make([]*bot.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, FromMessage(m))
	}
	return out, nil
}

// classify marks Discord's "Unknown Message" API error as bot.ErrMessageGone.
func classify(err error) error {
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Message != nil && rest.Message.Code == discordgo.ErrCodeUnknownMessage {
		return fmt.Errorf("%w: %w", bot.ErrMessageGone, err)
	}
	return err
}

// FromEmoji converts a discordgo emoji. Emoji without an id are standard glyphs.
func FromEmoji(e *discordgo.Emoji) emoji.Emoji {
	if e.ID != "" {
		return emoji.NewCustom(e.ID, e.Name, e.Animated)
	}
	return emoji.NewStandard(e.Name)
}

// FromMessage converts a discordgo message.
func FromMessage(m *discordgo.Message) *bot.Message {
	out := &bot.Message{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
		Content:   m.Content,
	}
	if m.Author != nil {
		out.AuthorID = m.Author.ID
		out.AuthorBot = m.Author.Bot
	}
	for _, r := range m.Reactions {
		if r == nil || r.Emoji == nil {
			continue
		}
		out.Reactions = append(out.Reactions, FromEmoji(r.Emoji))
	}
	return out
}
