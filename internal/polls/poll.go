// Package polls holds the poll syntax parsers and the registry of live poll messages.
package polls

import (
	"fmt"
	"strings"

	"github.com/sgdc3/reactord/internal/emoji"
)

// Resolver turns an icon token into an emoji.
type Resolver interface {
	Resolve(token string) (emoji.Emoji, error)
}

// Answer is one selectable option of a poll.
type Answer struct {
	Emoji emoji.Emoji
	Label string
}

// ParsedPoll is a question with its answers in authored order. It is built
// fresh for every message or command and never stored.
type ParsedPoll struct {
	Question string
	Answers  []Answer
}

// Emojis returns the answer emoji in order.
func (p ParsedPoll) Emojis() []emoji.Emoji {
	out := make([]emoji.Emoji, 0, len(p.Answers))
	for _, a := range p.Answers {
		out = append(out, a.Emoji)
	}
	return out
}

// Format renders the poll as the confirmation message posted by the command.
func (p ParsedPoll) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Question:** %s\n", p.Question)
	for _, a := range p.Answers {
		fmt.Fprintf(&b, "\n%s: %s", a.Emoji.MentionTag(), a.Label)
	}
	return b.String()
}

// splitIcon splits "icon label" on the first run of whitespace.
func splitIcon(s string) (icon, label string, ok bool) {
	s = strings.TrimSpace(s)
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, "", false
	}
	label = strings.TrimSpace(s[i+1:])
	return s[:i], label, label != ""
}
