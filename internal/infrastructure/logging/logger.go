package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger. format "json" forces JSON
// output; otherwise development gets a console writer and every other
// environment gets JSON. Unknown levels fall back to info.
func Setup(level, format, environment string) zerolog.Level {
	return setup(os.Stderr, level, format, environment)
}

func setup(out io.Writer, level, format, environment string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339

	var w io.Writer = out
	if useConsole(format, environment) {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()

	return lvl
}

func useConsole(format, environment string) bool {
	switch strings.ToLower(format) {
	case "json":
		return false
	case "console":
		return true
	}
	return environment == "" || environment == "development"
}
