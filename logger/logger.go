package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig controls level, format and where log lines go.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`   // text | json
	Output string `env:"LOG_OUTPUT" envDefault:"stdout"` // stdout | file | both

	// rotation, only used when Output writes to a file
	LogPath    string `env:"LOG_PATH" envDefault:"./logs"`
	AppFile    string `env:"LOG_APP_FILE" envDefault:"app.log"`
	MaxSize    int    `env:"LOG_MAX_SIZE" envDefault:"100"` // MB
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"7"`
	MaxAge     int    `env:"LOG_MAX_AGE" envDefault:"7"` // days
	Compress   bool   `env:"LOG_COMPRESS" envDefault:"true"`
}

var (
	mu  sync.Mutex
	app *logrus.Logger
)

// Init builds the application logger. Calling it again replaces the previous one.
func Init(cfg LogConfig) error {
	l := logrus.New()

	level, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if strings.EqualFold(cfg.Format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})
	}

	var writers []io.Writer
	if cfg.Output == "file" || cfg.Output == "both" {
		if err := os.MkdirAll(cfg.LogPath, 0755); err != nil {
			return fmt.Errorf("failed to create logs directory: %w", err)
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   filepath.Join(cfg.LogPath, cfg.AppFile),
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})
	}
	if len(writers) == 0 || cfg.Output == "both" {
		writers = append(writers, os.Stdout)
	}
	l.SetOutput(io.MultiWriter(writers...))

	mu.Lock()
	app = l
	mu.Unlock()
	return nil
}

// Log returns the application logger, falling back to a stdout text logger
// when Init has not been called (tests, tools).
func Log() *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()
	if app == nil {
		app = logrus.New()
	}
	return app
}

// WithCollection is a shorthand used by the store and ledger layers.
func WithCollection(name string) *logrus.Entry {
	return Log().WithField("collection", name)
}
