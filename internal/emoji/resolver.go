package emoji

import (
	"errors"
	"fmt"
	"strings"

	"github.com/forPelevin/gomoji"
)

// CustomMarker starts every custom emoji mention tag.
const CustomMarker = "<"

var (
	// ErrUnknown is matched by every resolution failure.
	ErrUnknown = errors.New("unknown emoji")
	// ErrUnknownCustom means no visible custom emoji has the given mention tag.
	ErrUnknownCustom = fmt.Errorf("%w: unknown custom emoji", ErrUnknown)
	// ErrUnknownUnicode means the token is not a known Unicode emoji.
	ErrUnknownUnicode = fmt.Errorf("%w: unknown unicode emoji", ErrUnknown)
)

// CustomSource lists the custom emoji visible to the bot.
type CustomSource interface {
	CustomEmojis() []Emoji
}

// CustomFunc adapts a function to CustomSource.
type CustomFunc func() []Emoji

// CustomEmojis calls f.
func (f CustomFunc) CustomEmojis() []Emoji {
	return f()
}

// Resolver maps icon tokens to emoji. It has no side effects.
type Resolver struct {
	custom CustomSource
}

// NewResolver creates a resolver. custom may be nil when no guild emoji are available.
func NewResolver(custom CustomSource) *Resolver {
	return &Resolver{custom: custom}
}

// Resolve turns a token into an emoji. Tokens starting with CustomMarker are
// matched against the visible custom emoji by exact mention tag; anything else
// must be a known Unicode emoji.
func (r *Resolver) Resolve(token string) (Emoji, error) {
	token = strings.TrimSpace(token)
	if strings.HasPrefix(token, CustomMarker) {
		if r.custom != nil {
			for _, e := range r.custom.CustomEmojis() {
				if e.MentionTag() == token {
					return e, nil
				}
			}
		}
		return Emoji{}, fmt.Errorf("%w %q", ErrUnknownCustom, token)
	}

	if token == "" {
		return Emoji{}, fmt.Errorf("%w %q", ErrUnknownUnicode, token)
	}
	if _, err := gomoji.GetInfo(token); err == nil {
		return NewStandard(token), nil
	}
	// Some clients send the glyph with a presentation selector the emoji table does not list.
	if bare := strings.ReplaceAll(token, variationSelector, ""); bare != token && bare != "" {
		if _, err := gomoji.GetInfo(bare); err == nil {
			return NewStandard(token), nil
		}
	}
	return Emoji{}, fmt.Errorf("%w %q", ErrUnknownUnicode, token)
}
