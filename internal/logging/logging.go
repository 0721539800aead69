// Package logging builds the process logger and adapts it to the
// calculators' Logger interface.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a zerolog logger writing to w. Development mode gets the
// human readable console writer, everything else gets JSON lines.
func New(w io.Writer, env, level string) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	if env == "development" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// Adapter exposes a zerolog logger through printf-style methods.
type Adapter struct {
	log zerolog.Logger
}

// NewAdapter wraps l. The component name is attached to every entry.
func NewAdapter(l zerolog.Logger, component string) *Adapter {
	if component != "" {
		l = l.With().Str("component", component).Logger()
	}
	return &Adapter{log: l}
}

func (a *Adapter) Debugf(format string, args ...any) { a.log.Debug().Msg(fmt.Sprintf(format, args...)) }
func (a *Adapter) Infof(format string, args ...any)  { a.log.Info().Msg(fmt.Sprintf(format, args...)) }
func (a *Adapter) Warnf(format string, args ...any)  { a.log.Warn().Msg(fmt.Sprintf(format, args...)) }
func (a *Adapter) Errorf(format string, args ...any) { a.log.Error().Msg(fmt.Sprintf(format, args...)) }
