package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// noisyFragments mark library messages that are expected and only matter when debugging.
var noisyFragments = []string{
	"unknown event",
	"unknown packet",
}

// RouteLogs sends discordgo's internal logging to logger and sets the session
// log level to match it.
func RouteLogs(s *discordgo.Session, logger *zap.Logger) {
	logger = logger.Named("discordgo")
	discordgo.Logger = func(msgL, _ int, format string, a ...interface{}) {
		logLibraryMessage(logger, msgL, fmt.Sprintf(format, a...))
	}
	s.LogLevel = SessionLogLevel(logger.Core())
}

// SessionLogLevel maps the enabled zap level to a discordgo log level.
func SessionLogLevel(core zapcore.Core) int {
	switch {
	case core.Enabled(zapcore.DebugLevel):
		return discordgo.LogDebug
	case core.Enabled(zapcore.InfoLevel):
		return discordgo.LogInformational
	case core.Enabled(zapcore.WarnLevel):
		return discordgo.LogWarning
	default:
		return discordgo.LogError
	}
}

func logLibraryMessage(logger *zap.Logger, level int, msg string) {
	lower := strings.ToLower(msg)
	for _, f := range noisyFragments {
		if strings.Contains(lower, f) {
			logger.Debug(msg)
			return
		}
	}
	switch level {
	case discordgo.LogError:
		logger.Error(msg)
	case discordgo.LogWarning:
		logger.Warn(msg)
	case discordgo.LogInformational:
		logger.Info(msg)
	default:
		logger.Debug(msg)
	}
}
