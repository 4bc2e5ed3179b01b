// Package logger provides the process-wide zerolog logger and the email
// masking used wherever an address ends up in a log line.
//
// Call Init once from main; everything else receives the logger through its
// constructor or calls Get.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options controls logger behaviour at initialisation time.
type Options struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Defaults to "info" when empty or unrecognised.
	Level string
	// Pretty switches to zerolog's console writer. Production emits JSON.
	Pretty bool
	// Service is attached to every entry as the "service" field when set.
	Service string
	// EmailVisibleChars is how many leading characters of an email's local
	// part ObfuscateEmail leaves readable.
	EmailVisibleChars int
	Output            io.Writer
}

var (
	mu          sync.RWMutex
	instance    zerolog.Logger
	initialized bool
	emailKeep   int
)

// Init builds the logger. Only the first call has any effect until Reset.
func Init(opts Options) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if initialized {
		return instance
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	lvl := parseLevel(opts.Level)
	zerolog.SetGlobalLevel(lvl)

	ctx := zerolog.New(out).Level(lvl).With().Timestamp()
	if opts.Service != "" {
		ctx = ctx.Str("service", opts.Service)
	}
	instance = ctx.Logger()
	emailKeep = max(opts.EmailVisibleChars, 0)
	initialized = true
	return instance
}

// Get returns the logger. Panics if Init has not been called yet.
func Get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if !initialized {
		panic("logger: Get() called before Init()")
	}
	return instance
}

// Reset tears down the logger so that the next Init call rebuilds it.
// Tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	instance = zerolog.Logger{}
	initialized = false
	emailKeep = 0
}

// ObfuscateEmail masks the local part of email, keeping the configured
// number of leading characters: "jane@example.com" becomes "ja**@example.com"
// with two visible characters. Input without an "@" is masked entirely.
func ObfuscateEmail(email string) string {
	mu.RLock()
	keep := emailKeep
	mu.RUnlock()
	return obfuscate(email, keep)
}

func obfuscate(email string, keep int) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		return strings.Repeat("*", len(email))
	}
	keep = min(keep, len(local))
	return local[:keep] + strings.Repeat("*", len(local)-keep) + "@" + domain
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
