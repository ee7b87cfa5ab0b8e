package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// LogLevelWatcher re-reads log_level from the YAML config file whenever it
// changes and applies it to an AtomicLevel.
type LogLevelWatcher struct {
	path    string
	level   zap.AtomicLevel
	logger  *zap.Logger
	watcher *fsnotify.Watcher
}

// NewLogLevelWatcher watches the directory holding path, so editors that
// replace the file on save are picked up too.
func NewLogLevelWatcher(path string, level zap.AtomicLevel, logger *zap.Logger) (*LogLevelWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return &LogLevelWatcher{path: abs, level: level, logger: logger, watcher: w}, nil
}

// Run applies changes until ctx is done, then closes the watcher.
func (w *LogLevelWatcher) Run(ctx context.Context) {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Config watcher error", zap.Error(err))
		}
	}
}

func (w *LogLevelWatcher) reload() {
	level, err := ReadLogLevel(w.path)
	if err != nil {
		w.logger.Warn("Ignoring unreadable config change", zap.String("path", w.path), zap.Error(err))
		return
	}
	if level == w.level.Level() {
		return
	}
	w.level.SetLevel(level)
	w.logger.Info("Log level changed", zap.String("level", level.String()))
}

// ReadLogLevel parses only the log_level key of a YAML config file.
func ReadLogLevel(path string) (zapcore.Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return zapcore.InfoLevel, err
	}
	var partial struct {
		LogLevel string `yaml:"log_level"`
	}
	if err := yaml.Unmarshal(data, &partial); err != nil {
		return zapcore.InfoLevel, err
	}
	if partial.LogLevel == "" {
		return zapcore.InfoLevel, fmt.Errorf("log_level is not set")
	}
	return zapcore.ParseLevel(partial.LogLevel)
}
