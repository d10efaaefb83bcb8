/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package log

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level defines a log level for logging messages.
type Level int

// Log levels.
const (
	DEBUG   = Level(zapcore.DebugLevel)
	INFO    = Level(zapcore.InfoLevel)
	WARNING = Level(zapcore.WarnLevel)
	ERROR   = Level(zapcore.ErrorLevel)
	PANIC   = Level(zapcore.PanicLevel)
	FATAL   = Level(zapcore.FatalLevel)

	// ERROR keeps the CLI quiet unless asked otherwise.
	defaultLevel = ERROR
)

// String returns string representation of given log level.
func (l Level) String() string {
	return strings.ToUpper(zapcore.Level(l).String())
}

// ParseLevel returns the level from the given string.
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return DEBUG, nil
	case "info":
		return INFO, nil
	case "warn", "warning":
		return WARNING, nil
	case "error":
		return ERROR, nil
	case "panic":
		return PANIC, nil
	case "fatal":
		return FATAL, nil
	default:
		return ERROR, fmt.Errorf("logger: invalid log level '%s'", level)
	}
}

// Encoding defines the log encoding.
type Encoding = string

// Log encodings.
const (
	Console Encoding = "console"
	JSON    Encoding = "json"
)

// DefaultEncoding sets the default logger encoding.
var DefaultEncoding = Console //nolint:gochecknoglobals

var levels = &moduleLevels{levels: make(map[string]Level)} //nolint:gochecknoglobals

type options struct {
	encoding Encoding
	out      zapcore.WriteSyncer
	fields   []zap.Field
}

// Option is a logger option.
type Option func(o *options)

// WithOutput sets the log destination. Logs go to stderr by default so that
// standard output only ever carries the produced token.
func WithOutput(out zapcore.WriteSyncer) Option {
	return func(o *options) {
		o.out = out
	}
}

// WithFields sets the fields that will be output with every log.
func WithFields(fields ...zap.Field) Option {
	return func(o *options) {
		o.fields = fields
	}
}

// WithEncoding sets the output encoding (console or json).
func WithEncoding(encoding Encoding) Option {
	return func(o *options) {
		o.encoding = encoding
	}
}

// Log uses the Zap Logger to log messages in a structured way.
type Log struct {
	*zap.Logger
	module string
}

// New creates a structured Logger implementation based on given module name.
func New(module string, opts ...Option) *Log {
	o := &options{
		encoding: DefaultEncoding,
		out:      os.Stderr,
	}

	for _, opt := range opts {
		opt(o)
	}

	return &Log{
		Logger: newZap(module, o.encoding, o.out).With(o.fields...),
		module: module,
	}
}

// IsEnabled returns true if given log level is enabled.
func (l *Log) IsEnabled(level Level) bool {
	return levels.isEnabled(l.module, level)
}

// SetLevel sets the log level for given module and level.
func SetLevel(module string, level Level) {
	levels.Set(module, level)
}

// SetDefaultLevel sets the default log level.
func SetDefaultLevel(level Level) {
	levels.Set("", level)
}

// GetLevel returns the log level for the given module.
func GetLevel(module string) Level {
	return levels.Get(module)
}

// SetSpec sets the log levels for individual modules as well as the default log level.
// The format of the spec is module1=level1:module2=level2:defaultLevel, e.g.
//
//	jws-builder=debug:warning
func SetSpec(spec string) error {
	var (
		defaultSet   bool
		defaultLevel Level
		moduleLevels = make(map[string]Level)
	)

	for _, part := range strings.Split(spec, ":") {
		module, level, hasModule := strings.Cut(part, "=")
		if !hasModule {
			if defaultSet {
				return errors.New("multiple default values found")
			}

			l, err := ParseLevel(part)
			if err != nil {
				return err
			}

			defaultLevel, defaultSet = l, true

			continue
		}

		l, err := ParseLevel(level)
		if err != nil {
			return err
		}

		moduleLevels[module] = l
	}

	if defaultSet {
		SetDefaultLevel(defaultLevel)
	}

	for module, l := range moduleLevels {
		SetLevel(module, l)
	}

	return nil
}

// GetSpec returns the log spec in the format accepted by SetSpec.
func GetSpec() string {
	all := levels.All()

	modules := make([]string, 0, len(all))

	for module := range all {
		if module != "" {
			modules = append(modules, module)
		}
	}

	sort.Strings(modules)

	var spec strings.Builder

	for _, module := range modules {
		spec.WriteString(fmt.Sprintf("%s=%s:", module, all[module]))
	}

	spec.WriteString(levels.Get("").String())

	return spec.String()
}

// moduleLevels maintains log levels based on modules.
type moduleLevels struct {
	levels map[string]Level
	mutex  sync.RWMutex
}

func (l *moduleLevels) Get(module string) Level {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	if level, exists := l.levels[module]; exists {
		return level
	}

	if level, exists := l.levels[""]; exists {
		return level
	}

	return defaultLevel
}

func (l *moduleLevels) All() map[string]Level {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	levelsCopy := make(map[string]Level, len(l.levels))

	for module, level := range l.levels {
		levelsCopy[module] = level
	}

	return levelsCopy
}

func (l *moduleLevels) Set(module string, level Level) {
	l.mutex.Lock()
	l.levels[module] = level
	l.mutex.Unlock()
}

func (l *moduleLevels) isEnabled(module string, level Level) bool {
	return level >= l.Get(module)
}

func newZap(module string, encoding Encoding, out zapcore.WriteSyncer) *zap.Logger {
	core := zapcore.NewCore(newZapEncoder(encoding), zapcore.Lock(out),
		zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return levels.isEnabled(module, Level(lvl))
		}),
	)

	return zap.New(core, zap.AddCaller()).Named(module)
}

func newZapEncoder(encoding Encoding) zapcore.Encoder {
	cfg := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	if strings.EqualFold(encoding, JSON) {
		cfg.EncodeLevel = zapcore.LowercaseLevelEncoder

		return zapcore.NewJSONEncoder(cfg)
	}

	cfg.EncodeName = func(moduleName string, encoder zapcore.PrimitiveArrayEncoder) {
		encoder.AppendString(fmt.Sprintf("[%s]", moduleName))
	}

	return zapcore.NewConsoleEncoder(cfg)
}
