package initialize

import (
	"io"
	"os"
	"strings"
	"time"

	"store-rating/backend/config"

	"github.com/rs/zerolog"
)

// NewLogger builds the process logger: a console writer unless format is
// "json", at the configured level (info when unparseable).
func NewLogger(cfg config.Log, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stdout
	}
	if !strings.EqualFold(cfg.Format, "json") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
