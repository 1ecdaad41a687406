package fiberlog

import (
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// Config is config for middleware
type Config struct {
	Logger *log.Logger
}

// New creates a request logging middleware backed by logrus.
func New(config ...Config) fiber.Handler {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	}
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if c.Method() == fiber.MethodOptions {
			return err
		}

		fields := log.Fields{
			"method":  c.Method(),
			"path":    c.Path(),
			"status":  c.Response().StatusCode(),
			"latency": time.Since(start).String(),
			"ip":      c.IP(),
		}
		var entry *log.Entry
		if cfg.Logger != nil {
			entry = cfg.Logger.WithFields(fields)
		} else {
			entry = log.WithFields(fields)
		}
		if c.Response().StatusCode() >= fiber.StatusBadRequest {
			entry.Warn("api request")
		} else {
			entry.Info("api request")
		}
		return err
	}
}
