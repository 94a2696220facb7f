package logger

import (
	"log"
	"strings"
	"sync/atomic"
)

// Verbosity follows the server.log_level config key: "debug" enables the
// per-request and query logging, anything else stays at the default level.

const (
	levelInfo int32 = iota
	levelDebug
)

var current atomic.Int32

func SetLevel(level string) {
	if strings.EqualFold(strings.TrimSpace(level), "debug") {
		current.Store(levelDebug)
		return
	}
	current.Store(levelInfo)
}

func IsDebugEnabled() bool {
	return current.Load() == levelDebug
}

func Debugf(format string, v ...any) {
	if !IsDebugEnabled() {
		return
	}
	log.Printf("[DEBUG] "+format, v...)
}
