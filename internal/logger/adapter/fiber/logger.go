// Package fiber writes one access log line per request handled by the dashboard.
package fiber

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/staffpanel/staffpanel/internal/logger"
)

// fiber.Locals keys handlers set to annotate their access log line.
const (
	// UserLocal holds the acting session user id.
	UserLocal = "accessLogUser"

	// BatchLocal holds the id of the batch action handled by the request.
	BatchLocal = "accessLogBatch"

	// StaleLocal is true when the roster was served from a stale snapshot.
	StaleLocal = "accessLogStale"
)

// HeaderResponseTime carries the handling time in seconds.
const HeaderResponseTime = "X-Response-Time"

// Config of the access log middleware.
type Config struct {
	// Next skips the middleware when it returns true.
	Next func(c *fiber.Ctx) bool

	// Config of the logger.
	Config logger.Log

	// CheckAliveURI is not logged when Config.DisableCheckAlive is set.
	CheckAliveURI string
}

// New creates the zerolog access log middleware.
//
// Handler errors are passed to the app error handler here so the logged
// status is the one the client receives.
func New(cfg Config) fiber.Handler {
	access := newAccessLogger(cfg.Config)
	silenced := cfg.Config.DisableCheckAlive && cfg.CheckAliveURI != ""

	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		start := time.Now()

		chainErr := c.Next()
		if chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
				c.Set(fiber.HeaderCacheControl, "max-age=0")
			}
		}

		took := time.Since(start)
		c.Set(HeaderResponseTime, strconv.FormatFloat(took.Seconds(), 'f', 6, 64))

		if silenced && c.Path() == cfg.CheckAliveURI {
			return nil
		}

		requestEvent(access, c, took, chainErr).Send()

		return nil
	}
}

func requestEvent(access zerolog.Logger, c *fiber.Ctx, took time.Duration, chainErr error) *zerolog.Event {
	e := access.Log().
		Str("ip", c.IP()).
		Str("method", c.Method()).
		Str("uri", rawURI(c)).
		Int("status", c.Response().StatusCode()).
		Dur("took", took).
		Bytes("host", c.Request().Host())

	if v := c.Get(fiber.HeaderXForwardedFor); v != "" {
		e.Str("forwarded_for", v)
	}

	if v := c.Get(fiber.HeaderUserAgent); v != "" {
		e.Str("user_agent", v)
	}

	if v := c.Get(fiber.HeaderReferer); v != "" {
		e.Str("referer", v)
	}

	if user, ok := c.Locals(UserLocal).(string); ok && user != "" {
		e.Str("user", user)
	}

	if batch, ok := c.Locals(BatchLocal).(string); ok && batch != "" {
		e.Str("batch", batch)
	}

	if stale, ok := c.Locals(StaleLocal).(bool); ok && stale {
		e.Bool("stale", true)
	}

	if chainErr != nil {
		e.Err(chainErr)
	}

	return e
}

// rawURI is the path as sent, fasthttp normalizes /a//b to /a/b.
func rawURI(c *fiber.Ctx) string {
	p := c.Path()
	if q := c.Request().URI().QueryString(); len(q) > 0 {
		p += "?" + string(q)
	}

	return p
}

func newAccessLogger(cfg logger.Log) zerolog.Logger {
	var writers []io.Writer

	if cfg.File.Enabled {
		if w := logger.NewRollingAccessFile(cfg); w != nil {
			writers = append(writers, w)
		}
	}

	if cfg.Console.Enabled && cfg.EnableAccessLogToConsole {
		if cfg.Console.UseConsoleWriter {
			writers = append(writers, zerolog.ConsoleWriter{
				Out:          os.Stdout,
				TimeFormat:   zerolog.TimeFieldFormat,
				PartsExclude: []string{zerolog.LevelFieldName},
			})
		} else {
			writers = append(writers, os.Stdout)
		}
	}

	if len(writers) == 0 {
		return zerolog.Nop()
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Logger().
		Level(zerolog.NoLevel)
}
