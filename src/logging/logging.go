package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

// Level is a severity threshold for the package logger.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var current int32 = int32(LevelInfo)

var out = log.New(os.Stderr, "", log.Ldate|log.Ltime|log.Lmicroseconds)

// ParseLevel maps a user-supplied string ("debug", "info", "warn", "warning",
// "error") to a Level. Unknown strings report ok=false and leave the caller
// free to keep the current level.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	}
	return LevelInfo, false
}

// SetLevel sets the global threshold. Safe for concurrent use.
func SetLevel(l Level) { atomic.StoreInt32(&current, int32(l)) }

// SetLevelString parses and applies a level name; unknown names are ignored.
func SetLevelString(s string) {
	if l, ok := ParseLevel(s); ok {
		SetLevel(l)
	}
}

// CurrentLevel returns the active threshold.
func CurrentLevel() Level { return Level(atomic.LoadInt32(&current)) }

// SetOutput redirects log output (used by tests).
func SetOutput(w io.Writer) { out = log.New(w, "", log.Ldate|log.Ltime|log.Lmicroseconds) }

func emit(l Level, format string, args ...interface{}) {
	if CurrentLevel() > l {
		return
	}
	prefix := "INFO"
	switch l {
	case LevelDebug:
		prefix = "DEBUG"
	case LevelWarn:
		prefix = "WARN"
	case LevelError:
		prefix = "ERROR"
	}
	// Without args the input is a plain message; skip fmt so literal %
	// characters survive.
	if len(args) == 0 {
		out.Printf("[%s] %s", prefix, format)
		return
	}
	out.Printf("[%s] %s", prefix, fmt.Sprintf(format, args...))
}

func Debugf(format string, a ...interface{}) { emit(LevelDebug, format, a...) }
func Infof(format string, a ...interface{})  { emit(LevelInfo, format, a...) }
func Warnf(format string, a ...interface{})  { emit(LevelWarn, format, a...) }
func Errorf(format string, a ...interface{}) { emit(LevelError, format, a...) }

// TimeTrack logs phase duration at debug level; call via defer with a start time.
func TimeTrack(start time.Time, label string) {
	Debugf("%s took %s", label, time.Since(start))
}
