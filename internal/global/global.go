// Package global provides centralized initialization and configuration for core services.
package global

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ChiaYuChang/pwsscraper/pkgs/utils"
	"github.com/go-playground/validator/v10"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Singleton is a generic type that holds a single instance of a type T.
type Singleton[T any] struct {
	instance *T
	once     sync.Once
	errs     []error
}

// NewSingleton creates a new instance of Singleton.
func NewSingleton[T any]() *Singleton[T] {
	return &Singleton[T]{
		instance: new(T),
		once:     sync.Once{},
		errs:     nil,
	}
}

// Errors returns a slice of errors encountered during initialization.
func (s *Singleton[T]) Errors() []error {
	return s.errs
}

func (s *Singleton[T]) Panic(msg string) {
	sb := strings.Builder{}
	for _, err := range s.errs {
		sb.WriteString(fmt.Sprintf(" - %s\n", err))
	}
	panic(fmt.Errorf("%s:\n%s", msg, sb.String()))
}

func (s *Singleton[T]) CleanUp() {
	s.instance = nil
	s.errs = nil
}

func (s *Singleton[T]) Reset() {
	s.once = sync.Once{}
	s.CleanUp()
}

// Logger is the global zerolog logger instance.
var Logger zerolog.Logger

// mode indicates the current running mode (e.g., "dev", "prod").
var mode string

// SetMode sets the current running mode (e.g., "dev", "prod").
func SetMode(m string) {
	mode = m
}

// Mode returns the current running mode (e.g., "dev", "prod").
func Mode() string {
	return utils.DefaultIfZero(mode, ModeDev)
}

// Validate singleton instance
var validate = NewSingleton[validator.Validate]()

// Validator returns the singleton instance of the validator.
func Validator() *validator.Validate {
	validate.once.Do(func() {
		validate.instance = validator.New(validator.WithRequiredStructEnabled())
		Logger.Debug().Msg("Validator initialized")
	})

	if len(validate.errs) > 0 {
		validate.Panic("validator errors")
	}
	return validate.instance
}

// InitBaseLogger initializes the base logger for the application. Logs go to
// stderr so stdout only carries the report.
func InitBaseLogger() zerolog.Logger {
	logger := log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	logger = logger.Level(utils.IfElse(
		Mode() == ModeDev,
		zerolog.DebugLevel,
		zerolog.InfoLevel))

	logger.Debug().
		Str("mode", Mode()).
		Str("log_level", logger.GetLevel().String()).
		Msg("Base Logger Initialized")
	return logger
}

// InitLogger builds the logger described by cfg. When a NATS connection is
// given, every log line is also published on cfg.NatsSubject.
func InitLogger(cfg ZeroLogConfig, nc *nats.Conn) zerolog.Logger {
	var console io.Writer = os.Stderr
	if cfg.Console {
		console = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	}

	w := console
	if nc != nil {
		w = zerolog.MultiLevelWriter(console, &NatsLogWriter{
			Conn:    nc,
			Subject: utils.DefaultIfZero(cfg.NatsSubject, NATSLogSubject),
		})
	}

	level := utils.IfElse(Mode() == ModeDev, zerolog.DebugLevel, zerolog.InfoLevel)
	if cfg.Level != "" {
		if lvl, err := zerolog.ParseLevel(cfg.Level); err == nil {
			level = lvl
		}
	}

	logger := zerolog.New(w).Level(level).With().Timestamp().Logger()
	logger.Debug().
		Str("mode", Mode()).
		Str("log_level", logger.GetLevel().String()).
		Bool("nats", nc != nil).
		Msg("Logger Initialized")
	return logger
}

func CleanUp() {
	defer validate.CleanUp()
}

func Reset() {
	Logger.Debug().Msg("Resetting global state")
	validate.Reset()
}
