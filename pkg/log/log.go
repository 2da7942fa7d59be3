// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/catalogsync/pkg/catalog"
	"github.com/walteh/catalogsync/pkg/report"
)

// 🎨 Display configuration
const (
	objectIndent = 4  // spaces to indent object entries
	nameWidth    = 45 // width for <type>/<name> (<version>)
	statusWidth  = 15 // width for status text
)

// 🎯 Logger prints replication progress for humans and mirrors every line
// into zerolog.
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex

	succeeded int
	failed    int
}

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

var discard = New(io.Discard, zerolog.Nop())

// 🎯 FromContext gets the logger from context, or a logger that drops
// everything when none was attached.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(contextKey{}).(*Logger); ok {
		return logger
	}
	return discard
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatOutcome formats one outcome line
func (l *Logger) formatOutcome(o report.Outcome) string {
	symbol, symbolColor, status := '✓', color.FgGreen, "CREATED"
	switch {
	case !o.Success:
		symbol, symbolColor, status = '✗', color.FgRed, "FAILED"
	case o.Message != "":
		symbol, symbolColor, status = '•', color.FgCyan, o.Message
	}

	line := fmt.Sprintf("%s%s %s %s",
		fmt.Sprintf("%*s", objectIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, o.Key()),
		fmt.Sprintf("%-*s", statusWidth, status))
	if !o.Success && o.Message != "" {
		line += " " + color.New(color.Faint).Sprint(o.Message)
	}
	return line
}

// 📦 TypeStarted prints the header of one object type
func (l *Logger) TypeStarted(ctx context.Context, t catalog.ObjectType) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.succeeded, l.failed = 0, 0

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(t.Segment),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(t.Namespace+"/"+t.APIVersion))

	l.zlog.Info().
		Str("type", t.Segment).
		Bool("versioned", t.Versioned).
		Msg("starting object type")
}

// 📝 ObjectReplicated prints one outcome as soon as it completes
func (l *Logger) ObjectReplicated(ctx context.Context, o report.Outcome) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if o.Success {
		l.succeeded++
	} else {
		l.failed++
	}

	fmt.Fprintln(l.console, l.formatOutcome(o))

	ev := l.zlog.Info()
	if !o.Success {
		ev = l.zlog.Warn()
	}
	ev.Str("type", o.Type).
		Str("name", o.Name).
		Str("version", o.Version).
		Bool("success", o.Success).
		Int("status_code", o.StatusCode).
		Bool("timeout", o.Timeout).
		Str("message", o.Message).
		Msg("object replicated")
}

// 📝 TypeFinished logs the end of one object type
func (l *Logger) TypeFinished(ctx context.Context, t catalog.ObjectType, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err != nil {
		fmt.Fprintf(l.console, "%s%s %s\n",
			fmt.Sprintf("%*s", objectIndent, ""),
			color.New(color.FgRed).Sprint("⛔"),
			color.New(color.FgRed).Sprint(err.Error()))
		l.zlog.Error().Err(err).Str("type", t.Segment).Msg("object type aborted")
	} else {
		l.zlog.Info().
			Str("type", t.Segment).
			Int("succeeded", l.succeeded).
			Int("failed", l.failed).
			Msg("object type complete")
	}
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("catalogsync")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}
