// Package emoji models the two kinds of reaction icons a guild understands
// (standard Unicode glyphs and guild custom emoji) and resolves typed icon
// tokens into them.
package emoji

import (
	"fmt"
	"strings"
)

// Kind tells standard and custom emoji apart.
type Kind int

const (
	Standard Kind = iota
	Custom
)

// variationSelector is the presentation selector that some clients append to
// a glyph. It does not change which emoji is meant.
const variationSelector = "\uFE0F"

// Emoji is either Standard(Unicode) or Custom(ID, Name). Compare with Equal or
// Key, never with ==, since two spellings of the same glyph are the same emoji.
type Emoji struct {
	Kind     Kind
	Unicode  string
	ID       string
	Name     string
	Animated bool
}

// NewStandard returns a standard emoji for the given glyph.
func NewStandard(glyph string) Emoji {
	return Emoji{Kind: Standard, Unicode: glyph}
}

// NewCustom returns a custom guild emoji.
func NewCustom(id, name string, animated bool) Emoji {
	return Emoji{Kind: Custom, ID: id, Name: name, Animated: animated}
}

// Key is the identity of the emoji: the custom id, or the glyph without
// presentation selectors.
func (e Emoji) Key() string {
	if e.Kind == Custom {
		return "c:" + e.ID
	}
	return "u:" + strings.ReplaceAll(e.Unicode, variationSelector, "")
}

// Equal reports whether both values name the same emoji.
func (e Emoji) Equal(o Emoji) bool {
	return e.Key() == o.Key()
}

// MentionTag is the form used inside message text: "<:name:id>",
// "<a:name:id>" for animated custom emoji, or the glyph itself.
func (e Emoji) MentionTag() string {
	if e.Kind != Custom {
		return e.Unicode
	}
	if e.Animated {
		return fmt.Sprintf("<a:%s:%s>", e.Name, e.ID)
	}
	return fmt.Sprintf("<:%s:%s>", e.Name, e.ID)
}

// APIName is the form the reaction endpoints expect: "name:id" or the glyph.
func (e Emoji) APIName() string {
	if e.Kind != Custom {
		return e.Unicode
	}
	return e.Name + ":" + e.ID
}

func (e Emoji) String() string {
	return e.MentionTag()
}
