// Package logging builds the shared zap logger and hands out named
// sub-loggers per subsystem (catalog, flow, session, store, render).
package logging

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category names a subsystem logger.
type Category string

const (
	CategoryCatalog Category = "catalog" // catalog loading and watching
	CategoryFlow    Category = "flow"    // expression evaluation, filtering
	CategorySession Category = "session" // interview sessions
	CategoryStore   Category = "store"   // SQLite persistence
	CategoryRender  Category = "render"  // document assembly and preview
)

var (
	mu   sync.RWMutex
	root *zap.Logger = zap.NewNop()
)

// Initialize builds the root logger. Format is "console" or "json";
// level is one of debug, info, warn, error.
func Initialize(level, format string) error {
	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	cfg.Level = zap.NewAtomicLevelAt(parsed)

	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	mu.Lock()
	root = logger
	mu.Unlock()
	return nil
}

// Get returns the named logger for a category. Safe before Initialize;
// it just returns a no-op logger.
func Get(category Category) *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root.Named(string(category))
}

// Sync flushes buffered log entries. Call before exit.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = root.Sync()
}
