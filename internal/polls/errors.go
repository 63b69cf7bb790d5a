package polls

import "errors"

// The text of each error is what the command author sees.
var (
	ErrUsage           = errors.New("Wrong command usage! Format: !poll Question|Icon1 Option1;Icon2 Option2")
	ErrEmptyQuestion   = errors.New("You have to write a question!")
	ErrTooFewAnswers   = errors.New("You have to specify at least 2 answers!")
	ErrMissingLabel    = errors.New("You need to define a valid emoji for the answer!")
	ErrUnknownEmoji    = errors.New("Unable to parse the emoji, try again!")
	ErrDuplicateAnswer = errors.New("Duplicated answer or icon! Retry...")
)

var userErrors = []error{
	ErrUsage,
	ErrEmptyQuestion,
	ErrTooFewAnswers,
	ErrMissingLabel,
	ErrUnknownEmoji,
	ErrDuplicateAnswer,
}

// UserMessage returns the reply for a command error, or "" if err is not a
// user-facing error.
func UserMessage(err error) string {
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return ""
}
