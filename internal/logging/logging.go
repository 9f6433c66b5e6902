// Package logging configures the process-wide zerolog logger: console
// output on stderr scaled by verbosity, plus a persistent JSON sink under
// the XDG state directory for postmortem digging.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global logger. Verbosity maps to levels: 0 warn,
// 1 info, 2 debug, 3 and up trace.
func Setup(verbosity int) {
	var level zerolog.Level
	switch verbosity {
	case 0:
		level = zerolog.WarnLevel
	case 1:
		level = zerolog.InfoLevel
	case 2:
		level = zerolog.DebugLevel
	default:
		level = zerolog.TraceLevel
	}
	zerolog.SetGlobalLevel(level)

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	writers := []io.Writer{console}
	if sink, err := stateLogFile(); err == nil {
		writers = append(writers, sink)
	}
	log.Logger = zerolog.New(io.MultiWriter(writers...)).With().Timestamp().Logger()
}

// stateLogFile opens the append-only log under the XDG state home. Failure
// is not fatal; the console writer still works.
func stateLogFile() (io.Writer, error) {
	path, err := xdg.StateFile(filepath.Join("theia", "theia.log"))
	if err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644) //nolint:gosec // log file needs to be readable
}

// GetLogger returns a logger tagged with the component name.
func GetLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}
