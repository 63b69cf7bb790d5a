package polls

import (
	"fmt"
	"strings"
)

// ParseCommand parses the argument of the poll command,
// "question|icon label;icon label;...". Unlike Parser it rejects unresolved
// icons, missing labels and any repeated emoji or label.
func ParseCommand(args string, resolver Resolver) (ParsedPoll, error) {
	parts := strings.Split(args, "|")
	if len(parts) != 2 {
		return ParsedPoll{}, ErrUsage
	}

	question := strings.TrimSpace(parts[0])
	if question == "" {
		return ParsedPoll{}, ErrEmptyQuestion
	}

	var entries []string
	for _, raw := range strings.Split(parts[1], ";") {
		if e := strings.TrimSpace(raw); e != "" {
			entries = append(entries, e)
		}
	}
	if len(entries) < 2 {
		return ParsedPoll{}, ErrTooFewAnswers
	}

	poll := ParsedPoll{Question: question, Answers: make([]Answer, 0, len(entries))}
	for _, entry := range entries {
		icon, label, ok := splitIcon(entry)
		if !ok {
			return ParsedPoll{}, fmt.Errorf("%w: %q", ErrMissingLabel, entry)
		}
		e, err := resolver.Resolve(icon)
		if err != nil {
			return ParsedPoll{}, fmt.Errorf("%w: %w", ErrUnknownEmoji, err)
		}
		for _, prev := range poll.Answers {
			if prev.Emoji.Equal(e) || prev.Label == label {
				return ParsedPoll{}, fmt.Errorf("%w: %q", ErrDuplicateAnswer, entry)
			}
		}
		poll.Answers = append(poll.Answers, Answer{Emoji: e, Label: label})
	}
	return poll, nil
}
