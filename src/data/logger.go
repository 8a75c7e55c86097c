package data

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

// LogLevel orders message severities; messages below the current level are
// dropped.
type LogLevel int32

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelPrefixes = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

var currentLevel atomic.Int32

var baseLogger = log.New(os.Stderr, "", log.Ldate|log.Ltime|log.Lmicroseconds)

func init() {
	currentLevel.Store(int32(LevelInfo))
}

// SetLogLevel sets the global level from its name (debug, info, warn,
// error). Unknown names leave the level unchanged.
func SetLogLevel(s string) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		currentLevel.Store(int32(LevelDebug))
	case "info":
		currentLevel.Store(int32(LevelInfo))
	case "warn", "warning":
		currentLevel.Store(int32(LevelWarn))
	case "error":
		currentLevel.Store(int32(LevelError))
	}
}

func logf(l LogLevel, format string, args ...interface{}) {
	if int32(l) < currentLevel.Load() {
		return
	}
	baseLogger.Printf("[%s] %s", levelPrefixes[l], fmt.Sprintf(format, args...))
}

func Debugf(format string, a ...interface{}) { logf(LevelDebug, format, a...) }
func Infof(format string, a ...interface{})  { logf(LevelInfo, format, a...) }
func Warnf(format string, a ...interface{})  { logf(LevelWarn, format, a...) }
func Errorf(format string, a ...interface{}) { logf(LevelError, format, a...) }

// TimeTrack logs a phase duration at debug level; call it with defer and
// time.Now().
func TimeTrack(start time.Time, label string) {
	Debugf("%s took %s", label, time.Since(start))
}
