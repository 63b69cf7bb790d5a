package bot

import "time"

// deletedTTL is how long a deleted message id is remembered. It only has to
// outlive an ingestion that is still seeding reactions.
const deletedTTL = 5 * time.Minute

// track registers messageID unless the message was deleted meanwhile.
func (b *Bot) track(messageID string) bool {
	b.lifecycle.Lock()
	defer b.lifecycle.Unlock()
	if _, gone := b.deleted[messageID]; gone {
		return false
	}
	b.registry.Add(messageID)
	return true
}

// forget unregisters messageID and remembers it as deleted. It reports
// whether the message was tracked.
func (b *Bot) forget(messageID string) bool {
	b.lifecycle.Lock()
	defer b.lifecycle.Unlock()
	b.rememberDeleted(messageID)
	return b.registry.Remove(messageID)
}

func (b *Bot) markDeleted(messageID string) {
	b.lifecycle.Lock()
	defer b.lifecycle.Unlock()
	b.rememberDeleted(messageID)
}

func (b *Bot) rememberDeleted(messageID string) {
	now := time.Now()
	for id, at := range b.deleted {
		if now.Sub(at) > deletedTTL {
			delete(b.deleted, id)
		}
	}
	b.deleted[messageID] = now
}
