package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/biznexa/biznexa-api/pkg/logger"
)

// requestObserver histograma de latencia por ruta.
type requestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// RequestLogger registra método, ruta, status y latencia de cada request, y
// alimenta el histograma. Los errores se resuelven aquí con el ErrorHandler
// para conocer el status final.
func RequestLogger(log *logger.Logger, obs requestObserver) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				return herr
			}
		}
		elapsed := time.Since(start)
		status := c.Response().StatusCode()
		route := c.Route().Path

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		} else if status >= fiber.StatusBadRequest {
			ev = log.Warn()
		}
		ev = ev.Str("method", c.Method()).
			Str("route", route).
			Int("status", status).
			Dur("latency", elapsed)
		if companyID := GetCompanyID(c); companyID != "" {
			ev = ev.Str("company_id", companyID)
		}
		ev.Msg("request")

		if obs != nil {
			obs.ObserveRequest(c.Method(), route, status, elapsed)
		}
		return nil
	}
}
