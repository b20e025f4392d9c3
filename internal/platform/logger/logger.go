// Package logger owns the process zerolog logger and the per request child loggers
// that middleware stores on the context.
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"ksefconnect/internal/platform/config/raw"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger is zerolog's logger; callers never need to import zerolog for the type
type Logger = zerolog.Logger

// Options shape the root logger. Zero values give debug level JSON on stdout.
type Options struct {
	Level       string
	Format      string // "console" or anything else for JSON
	Service     string
	Writer      io.Writer
	WithCaller  bool
	SampleEvery int
}

// FromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_SERVICE, LOG_CALLER and LOG_SAMPLE_EVERY
func FromEnv() Options {
	env := raw.New().Prefix("LOG_")
	return Options{
		Level:       env.Get("LEVEL", "debug"),
		Format:      strings.ToLower(env.Get("FORMAT", "console")),
		Service:     env.Get("SERVICE", ""),
		WithCaller:  env.GetBool("CALLER", false),
		SampleEvery: env.GetInt("SAMPLE_EVERY", 0),
	}
}

var (
	once sync.Once
	root atomic.Pointer[Logger]
)

// Init builds the root logger. Only the first call has any effect.
func Init(opt Options) {
	once.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano
		l := build(opt)
		root.Store(&l)
	})
}

// Get returns the root logger, configuring it from LOG_* on first use
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	Init(FromEnv())
	return root.Load()
}

func build(opt Options) Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opt.Level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.DebugLevel
	}

	w := opt.Writer
	if w == nil {
		w = os.Stdout
	}
	if opt.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	zc := zerolog.New(w).Level(lvl).With().Timestamp()
	if opt.Service != "" {
		zc = zc.Str("service", opt.Service)
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		zc = zc.Str("go_version", bi.GoVersion)
	}
	if opt.WithCaller {
		zc = zc.Caller()
	}
	l := zc.Logger()
	if opt.SampleEvery > 1 {
		l = l.Sample(&zerolog.BasicSampler{N: uint32(opt.SampleEvery)})
	}
	return l
}

// With returns ctx carrying a child of C(ctx) with extra string fields, given as key value pairs
func With(ctx context.Context, kv ...string) context.Context {
	zc := C(ctx).With()
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			zc = zc.Str(kv[i], kv[i+1])
		}
	}
	return zc.Logger().WithContext(ctx)
}

// C returns the logger stored on ctx by With, or the root logger
func C(ctx context.Context) *Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return Get()
}

// Named returns a root child tagged with a component
func Named(component string) *Logger {
	l := Get().With().Str("component", component).Logger()
	return &l
}
