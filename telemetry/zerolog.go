package telemetry

import (
	"context"

	"github.com/rs/zerolog"
)

// Zerolog returns hooks that write SDK log entries to logger.
func Zerolog(logger zerolog.Logger) Hooks {
	return Hooks{
		OnLogEntry: func(ctx context.Context, entry LogEntry) {
			var ev *zerolog.Event
			switch entry.Level {
			case LogLevelDebug:
				ev = logger.Debug()
			case LogLevelWarn:
				ev = logger.Warn()
			case LogLevelError:
				ev = logger.Error()
			default:
				ev = logger.Info()
			}
			if len(entry.Fields) > 0 {
				ev = ev.Fields(entry.Fields)
			}
			ev.Msg(entry.Message)
		},
	}
}
