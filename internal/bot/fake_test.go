package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sgdc3/reactord/internal/emoji"
)

const selfID = "bot"

type call struct {
	Op        string
	ChannelID string
	MessageID string
	Emoji     string
	UserID    string
	Content   string
}

// fakePlatform records every call and serves messages from memory.
type fakePlatform struct {
	mu       sync.Mutex
	calls    []call
	custom   []emoji.Emoji
	messages map[string]*Message
	history  map[string][]*Message
	nextID   int

	onAdd      func(messageID string) error // runs before every AddReaction
	failAdd    map[string]bool              // emoji api name
	failRemove map[string]bool
	failFetch  bool
	goneFetch  bool
	failSend   bool
	failDelete bool
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		messages:   make(map[string]*Message),
		history:    make(map[string][]*Message),
		failAdd:    make(map[string]bool),
		failRemove: make(map[string]bool),
	}
}

func (f *fakePlatform) record(c call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

func (f *fakePlatform) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func (f *fakePlatform) CallsOf(op string) []call {
	var out []call
	for _, c := range f.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakePlatform) SelfID() string { return selfID }

func (f *fakePlatform) CustomEmojis() []emoji.Emoji { return f.custom }

func (f *fakePlatform) SendMessage(_ context.Context, channelID, content string) (*Message, error) {
	f.record(call{Op: "send", ChannelID: channelID, Content: content})
	if f.failSend {
		return nil, errors.New("send failed")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	m := &Message{ID: fmt.Sprintf("sent-%d", f.nextID), ChannelID: channelID, AuthorID: selfID, Content: content}
	f.messages[m.ID] = m
	return m, nil
}

func (f *fakePlatform) AddReaction(_ context.Context, channelID, messageID string, e emoji.Emoji) error {
	f.record(call{Op: "add", ChannelID: channelID, MessageID: messageID, Emoji: e.APIName()})
	if f.onAdd != nil {
		if err := f.onAdd(messageID); err != nil {
			return err
		}
	}
	if f.failAdd[e.APIName()] {
		return errors.New("missing permissions")
	}
	return nil
}

func (f *fakePlatform) RemoveReaction(_ context.Context, channelID, messageID string, e emoji.Emoji, userID string) error {
	f.record(call{Op: "remove", ChannelID: channelID, MessageID: messageID, Emoji: e.APIName(), UserID: userID})
	if f.failRemove[e.APIName()] {
		return errors.New("unknown reaction")
	}
	return nil
}

func (f *fakePlatform) DeleteMessage(_ context.Context, channelID, messageID string) error {
	f.record(call{Op: "delete", ChannelID: channelID, MessageID: messageID})
	if f.failDelete {
		return errors.New("delete failed")
	}
	return nil
}

func (f *fakePlatform) FetchMessage(_ context.Context, channelID, messageID string) (*Message, error) {
	f.record(call{Op: "fetch", ChannelID: channelID, MessageID: messageID})
	if f.failFetch {
		return nil, errors.New("fetch failed")
	}
	if f.goneFetch {
		return nil, fmt.Errorf("404 Not Found: %w", ErrMessageGone)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.messages[messageID]
	if !ok {
		return nil, errors.New("unknown message")
	}
	return m, nil
}

func (f *fakePlatform) FetchRecentHistory(_ context.Context, channelID string, limit int) ([]*Message, error) {
	f.record(call{Op: "history", ChannelID: channelID, Content: fmt.Sprint(limit)})
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.history[channelID]
	if !ok {
		return nil, errors.New("missing access")
	}
	if len(h) > limit {
		h = h[:limit]
	}
	return h, nil
}
