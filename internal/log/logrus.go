package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Default *logrus.Logger

type Logger = logrus.Logger

func init() {
	Default = logrus.New()
	Default.SetLevel(logrus.InfoLevel)
}

// Options configures where the process logger writes.
type Options struct {
	Level string
	// File enables rotating file output when non-empty.
	File string
	// Console keeps writing to stderr alongside the file.
	Console bool
}

// Setup applies opts to Default. The terminal table owns stdout, so without
// Console and with a File the logger writes to the file only.
func Setup(opts Options) {
	SetLevel(opts.Level)

	var writers []io.Writer
	if opts.Console || opts.File == "" {
		writers = append(writers, os.Stderr)
	}
	if opts.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    50, // megabytes
			MaxBackups: 4,
			MaxAge:     7, // days
			LocalTime:  true,
		})
	}
	Default.SetOutput(io.MultiWriter(writers...))
}

func SetLevel(lvstr string) {
	if lvstr == "" {
		return
	}
	lv, err := logrus.ParseLevel(lvstr)
	if err != nil {
		Default.Error(err)
	} else {
		Default.SetLevel(lv)
	}
}

// Debugf logs a message at level Debug on the standard logger.
func Debugf(format string, args ...interface{}) {
	Default.Debugf(format, args...)
}

// Infof logs a message at level Info on the standard logger.
func Infof(format string, args ...interface{}) {
	Default.Infof(format, args...)
}

// Warnf logs a message at level Warn on the standard logger.
func Warnf(format string, args ...interface{}) {
	Default.Warnf(format, args...)
}

// Errorf logs a message at level Error on the standard logger.
func Errorf(format string, args ...interface{}) {
	Default.Errorf(format, args...)
}

// WithField starts a structured entry on the standard logger.
func WithField(key string, value interface{}) *logrus.Entry {
	return Default.WithField(key, value)
}
