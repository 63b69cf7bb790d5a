package polls

import (
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// DefaultTrigger starts the first line of a free-text poll.
const DefaultTrigger = "poll:"

// Parser recognizes free-text polls:
//
//	poll: <question>
//	<icon> <label>
//	<icon> <label>
type Parser struct {
	trigger  string
	resolver Resolver
	logger   *zap.Logger
}

// NewParser creates a parser. An empty trigger means DefaultTrigger.
func NewParser(trigger string, resolver Resolver, logger *zap.Logger) *Parser {
	if trigger == "" {
		trigger = DefaultTrigger
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{trigger: trigger, resolver: resolver, logger: logger}
}

// Parse returns the poll in text and true, or false if text is not a poll.
// Answer lines that cannot be split or resolved are skipped, so the result
// may hold fewer than two answers. Duplicates are kept.
func (p *Parser) Parse(text string) (ParsedPoll, bool) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if len(lines) < 2 {
		return ParsedPoll{}, false
	}

	// Only trailing space is trimmed: the line must start with the trigger.
	first := strings.TrimRightFunc(lines[0], unicode.IsSpace)
	if len(first) < len(p.trigger) || !strings.EqualFold(first[:len(p.trigger)], p.trigger) {
		return ParsedPoll{}, false
	}

	poll := ParsedPoll{Question: strings.TrimSpace(first[len(p.trigger):])}
	for n, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		icon, label, ok := splitIcon(line)
		if !ok {
			p.logger.Debug("skipping poll line without label", zap.Int("line", n+2), zap.String("text", line))
			continue
		}
		e, err := p.resolver.Resolve(icon)
		if err != nil {
			p.logger.Info("skipping poll line with unresolved icon",
				zap.Int("line", n+2), zap.String("icon", icon), zap.Error(err))
			continue
		}
		poll.Answers = append(poll.Answers, Answer{Emoji: e, Label: label})
	}
	return poll, true
}
