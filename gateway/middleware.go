package gateway

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	logMsgRequestHandled = "request handled"
	logMsgRequestFailed  = "request failed"

	logAttrRequestID  = "request_id"
	logAttrMethod     = "method"
	logAttrPath       = "path"
	logAttrStatus     = "status"
	logAttrDurationMS = "duration_ms"
	logAttrError      = "error"
)

// operationContext bounds the engine work of one request and writes the access log line.
func (s *server) operationContext(c *fiber.Ctx) error {
	start := time.Now()

	ctx := c.UserContext()
	if s.operationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.operationTimeout)
		defer cancel()
	}

	c.SetUserContext(ctx)

	err := c.Next()

	if s.logger != nil {
		status := c.Response().StatusCode()
		if err != nil {
			status = statusOf(err)
		}

		s.logger.InfoContext(ctx, logMsgRequestHandled,
			logAttrRequestID, requestID(c),
			logAttrMethod, c.Method(),
			logAttrPath, c.Path(),
			logAttrStatus, status,
			logAttrDurationMS, float64(time.Since(start).Microseconds())/1000.0,
		)
	}

	return err
}

func (s *server) logError(c *fiber.Ctx, msg string, err error) {
	if s.logger == nil {
		return
	}

	s.logger.ErrorContext(c.UserContext(), msg,
		logAttrRequestID, requestID(c),
		logAttrMethod, c.Method(),
		logAttrPath, c.Path(),
		logAttrError, err.Error(),
	)
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}
