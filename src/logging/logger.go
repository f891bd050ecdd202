// Package logging is the small leveled logger shared by the chemviz binaries and packages.
// Messages carry their component as a bracketed tag, e.g. "[fetch] dataset 3 ready".
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

// Level is a message severity; higher is more severe.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	}
	return fmt.Sprintf("level(%d)", int32(l))
}

func (l Level) tag() string { return strings.ToUpper(l.String()) }

// ParseLevel accepts the level names used in config files and CHEMVIZ_LOG_LEVEL.
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

var (
	threshold atomic.Int32
	out       = log.New(os.Stderr, "", log.Ldate|log.Ltime|log.Lmicroseconds)
)

func init() { threshold.Store(int32(LevelInfo)) }

// SetLevel changes the threshold and reports whether s named a level. An unknown name
// leaves the threshold alone so a typo in a config file never silences errors.
func SetLevel(s string) bool {
	l, ok := ParseLevel(s)
	if ok {
		threshold.Store(int32(l))
	}
	return ok
}

// GetLevel returns the current threshold.
func GetLevel() Level { return Level(threshold.Load()) }

// Enabled reports whether messages at l are written.
func Enabled(l Level) bool { return l >= GetLevel() }

// SetOutput redirects log output (tests, or a log file chosen by a front-end).
func SetOutput(w io.Writer) { out.SetOutput(w) }

func emit(l Level, format string, args []interface{}) {
	if !Enabled(l) {
		return
	}
	msg := format
	// a bare message may already contain % signs from formatted values
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	out.Printf("[%s] %s", l.tag(), msg)
}

func Debugf(format string, a ...interface{}) { emit(LevelDebug, format, a) }
func Infof(format string, a ...interface{})  { emit(LevelInfo, format, a) }
func Warnf(format string, a ...interface{})  { emit(LevelWarn, format, a) }
func Errorf(format string, a ...interface{}) { emit(LevelError, format, a) }

// TimeTrack logs at debug level how long label took since start. Use with defer.
func TimeTrack(start time.Time, label string) {
	if Enabled(LevelDebug) {
		Debugf("%s took %s", label, time.Since(start).Round(time.Microsecond))
	}
}
