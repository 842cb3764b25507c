package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-inventario/pkg/logger"
)

const localLogger = "logger"

// RequestLogger registra método, ruta, status y duración de cada petición, y deja el
// logger en c.Locals para que los handlers registren errores internos.
func RequestLogger(log *logger.Logger) fiber.Handler {
	httpLog := log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		c.Locals(localLogger, httpLog)
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		event := httpLog.Info()
		if status >= fiber.StatusInternalServerError {
			event = httpLog.Error().Err(err)
		}
		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("user_id", GetUserID(c)).
			Msg("request")
		return err
	}
}

func requestLogger(c *fiber.Ctx) *logger.Logger {
	l, _ := c.Locals(localLogger).(*logger.Logger)
	return l
}
