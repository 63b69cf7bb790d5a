package polls

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgdc3/reactord/internal/emoji"
)

var (
	pizza  = emoji.NewStandard("🍕")
	burger = emoji.NewStandard("🍔")
	blob   = emoji.NewCustom("123", "blob", false)
)

func testResolver() *emoji.Resolver {
	return emoji.NewResolver(emoji.CustomFunc(func() []emoji.Emoji { return []emoji.Emoji{blob} }))
}

func TestParseNotAPoll(t *testing.T) {
	p := NewParser("", testResolver(), nil)

	for _, text := range []string{
		"",
		"poll: single line only",
		"hello\n🍕 Pizza",
		"pol: typo\n🍕 Pizza",
		"what about a poll: later\n🍕 Pizza",
		"   poll: indented\n🍕 Pizza",
		"\tpoll: indented\n🍕 Pizza",
	} {
		_, ok := p.Parse(text)
		assert.False(t, ok, "text %q", text)
	}
}

func TestParseTrailingSpaceAfterQuestion(t *testing.T) {
	p := NewParser("", testResolver(), nil)

	poll, ok := p.Parse("POLL: Lunch?  \t\r\n🍕 Pizza")
	require.True(t, ok)
	assert.Equal(t, "Lunch?", poll.Question)
	assert.Len(t, poll.Answers, 1)
}

func TestParsePoll(t *testing.T) {
	p := NewParser("", testResolver(), nil)

	poll, ok := p.Parse("POLL:  Lunch?  \n🍕 Pizza\n\n🍔   Burger with fries\r\n<:blob:123> Blob")
	require.True(t, ok)
	assert.Equal(t, "Lunch?", poll.Question)
	require.Len(t, poll.Answers, 3)
	assert.True(t, poll.Answers[0].Emoji.Equal(pizza))
	assert.Equal(t, "Pizza", poll.Answers[0].Label)
	assert.True(t, poll.Answers[1].Emoji.Equal(burger))
	assert.Equal(t, "Burger with fries", poll.Answers[1].Label)
	assert.True(t, poll.Answers[2].Emoji.Equal(blob))
}

func TestParseSkipsBadLines(t *testing.T) {
	p := NewParser("", testResolver(), nil)

	poll, ok := p.Parse("poll: Lunch?\nxx Pizza\n🍔\n<:gone:9> Gone\n🍔 Burger\n🍔 Burger again")
	require.True(t, ok)
	require.Len(t, poll.Answers, 2)
	assert.Equal(t, "Burger", poll.Answers[0].Label)
	assert.Equal(t, "Burger again", poll.Answers[1].Label)
}

func TestParseAllLinesUnresolved(t *testing.T) {
	p := NewParser("", testResolver(), nil)

	poll, ok := p.Parse("poll: Anything?\nfoo bar\nbaz qux")
	require.True(t, ok)
	assert.Equal(t, "Anything?", poll.Question)
	assert.Empty(t, poll.Answers)
}

func TestParseCustomTrigger(t *testing.T) {
	p := NewParser("vote:", testResolver(), nil)

	_, ok := p.Parse("poll: Lunch?\n🍕 Pizza")
	assert.False(t, ok)
	poll, ok := p.Parse("Vote: Lunch?\n🍕 Pizza")
	require.True(t, ok)
	assert.Len(t, poll.Answers, 1)
}

func TestParseCommand(t *testing.T) {
	poll, err := ParseCommand("Pick one|🍕 Pizza;🍔 Burger", testResolver())
	require.NoError(t, err)
	assert.Equal(t, "Pick one", poll.Question)
	require.Len(t, poll.Answers, 2)
	assert.Equal(t, "Pizza", poll.Answers[0].Label)
	assert.Equal(t, "Burger", poll.Answers[1].Label)

	msg := poll.Format()
	assert.Contains(t, msg, "Pick one")
	assert.Contains(t, msg, "🍕: Pizza")
	assert.Contains(t, msg, "🍔: Burger")
}

func TestParseCommandCustomEmoji(t *testing.T) {
	poll, err := ParseCommand("Mood?|<:blob:123> Blobby; 🍕 Pizza ;", testResolver())
	require.NoError(t, err)
	require.Len(t, poll.Answers, 2)
	assert.Contains(t, poll.Format(), "<:blob:123>: Blobby")
}

func TestParseCommandErrors(t *testing.T) {
	tests := []struct {
		args string
		want error
	}{
		{"no pipe here", ErrUsage},
		{"a|b|c", ErrUsage},
		{" |🍕 Pizza;🍔 Burger", ErrEmptyQuestion},
		{"Pick one|🍕 Pizza", ErrTooFewAnswers},
		{"Pick one|🍕 Pizza; ;", ErrTooFewAnswers},
		{"Pick one|🍕 Pizza;🍔", ErrMissingLabel},
		{"Pick one|🍕 Pizza;xx Burger", ErrUnknownEmoji},
		{"Pick one|🍕 Pizza;<:nope:1> Burger", ErrUnknownEmoji},
		{"Pick one|🍕 Pizza;🍕 Burger", ErrDuplicateAnswer},
		{"Pick one|🍕 Pizza;🍔 Pizza", ErrDuplicateAnswer},
	}
	for _, tt := range tests {
		t.Run(tt.args, func(t *testing.T) {
			_, err := ParseCommand(tt.args, testResolver())
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Equal(t, tt.want.Error(), UserMessage(err))
		})
	}
}

func TestUserMessageUnknownError(t *testing.T) {
	assert.Equal(t, "", UserMessage(errors.New("boom")))
	assert.Equal(t, "", UserMessage(nil))
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.Contains("1"))

	r.Add("1")
	r.Add("1")
	r.Add("2")
	assert.True(t, r.Contains("1"))
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"1", "2"}, r.IDs())

	assert.True(t, r.Remove("1"))
	assert.False(t, r.Remove("1"))
	assert.False(t, r.Remove("404"))
	assert.False(t, r.Contains("1"))
	assert.Equal(t, 1, r.Len())
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprint(i)
			r.Add(id)
			assert.True(t, r.Contains(id))
			if i%2 == 0 {
				r.Remove(id)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 25, r.Len())
}
