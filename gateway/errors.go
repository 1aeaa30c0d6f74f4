package gateway

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"

	"github.com/AntonStoeckl/library-lending-go/store"
)

const retryAfterSeconds = "1"

type errorResponse struct {
	Detail string `json:"detail"`
}

// kinds maps each business outcome to its HTTP status. Rule violations share 400 as existing
// clients expect, payload problems get 422.
var kinds = []struct {
	sentinel error
	status   int
}{
	{store.ErrNotFound, fiber.StatusNotFound},
	{store.ErrConflict, fiber.StatusBadRequest},
	{store.ErrInvalidReference, fiber.StatusBadRequest},
	{store.ErrUnavailable, fiber.StatusBadRequest},
	{store.ErrInvalidState, fiber.StatusBadRequest},
	{store.ErrInvalidInput, fiber.StatusUnprocessableEntity},
	{store.ErrTransient, fiber.StatusServiceUnavailable},
}

func statusOf(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}

	for _, k := range kinds {
		if errors.Is(err, k.sentinel) {
			return k.status
		}
	}

	return fiber.StatusInternalServerError
}

// detailOf renders the reason of a business error without its kind prefix.
// Transient and unclassified errors get a fixed text so driver messages never leak.
func detailOf(err error, status int) string {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Message
	}

	switch status {
	case fiber.StatusServiceUnavailable:
		return "the library is busy, please retry"
	case fiber.StatusInternalServerError:
		return "internal server error"
	}

	msg := err.Error()
	for _, k := range kinds {
		msg = strings.TrimPrefix(msg, k.sentinel.Error()+": ")
	}

	return capitalize(msg)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(unicode.ToUpper(r)) + s[size:]
}

func (s *server) handleError(c *fiber.Ctx, err error) error {
	status := statusOf(err)

	switch status {
	case fiber.StatusInternalServerError:
		s.logError(c, logMsgRequestFailed, err)
	case fiber.StatusServiceUnavailable:
		c.Set(fiber.HeaderRetryAfter, retryAfterSeconds)
	}

	return c.Status(status).JSON(errorResponse{Detail: detailOf(err, status)})
}

// invalidInput turns a parse failure of the request into an InvalidInput error.
func invalidInput(format string, args ...any) error {
	return store.Violation(store.ErrInvalidInput, format, args...)
}
