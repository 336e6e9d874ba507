package logs

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/natefinch/lumberjack"
	"github.com/reusedev/render-relay/config"
	"github.com/rs/zerolog"
)

var (
	Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
)

func InitLogger() {
	cfg := config.GConfig

	level := parseLogLevel(cfg.LogLevel)
	zerolog.SetGlobalLevel(level)

	var writers []io.Writer

	// rotate into a file when configured, stdout otherwise
	if cfg.LogFile != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSize, // MB
			MaxBackups: cfg.LogMaxBackups,
			MaxAge:     cfg.LogMaxAge, // days
			Compress:   true,
		})
	}

	if level <= zerolog.DebugLevel {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stdout})
	} else if cfg.LogFile == "" {
		writers = append(writers, os.Stdout)
	}

	Logger = zerolog.New(io.MultiWriter(writers...)).With().Timestamp().Logger()
}

// FromContext returns the request scoped logger stored by the request id middleware,
// falling back to the global Logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
			return l
		}
	}
	return &Logger
}

func parseLogLevel(levelStr string) zerolog.Level {
	switch strings.ToLower(levelStr) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.InfoLevel
	}
}
