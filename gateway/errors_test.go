package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-lending-go/store"
)

func Test_StatusOf_And_DetailOf(t *testing.T) {
	testCases := []struct {
		name           string
		err            error
		expectedStatus int
		expectedDetail string
	}{
		{
			name:           "not found",
			err:            store.Violation(store.ErrNotFound, "Loan %d not found", 3),
			expectedStatus: fiber.StatusNotFound,
			expectedDetail: "Loan 3 not found",
		},
		{
			name:           "conflict",
			err:            store.Violation(store.ErrConflict, "isbn already exists"),
			expectedStatus: fiber.StatusBadRequest,
			expectedDetail: "Isbn already exists",
		},
		{
			name:           "unavailable",
			err:            store.Violation(store.ErrUnavailable, "book not available for loan"),
			expectedStatus: fiber.StatusBadRequest,
			expectedDetail: "Book not available for loan",
		},
		{
			name:           "invalid input",
			err:            store.Violation(store.ErrInvalidInput, "title is required"),
			expectedStatus: fiber.StatusUnprocessableEntity,
			expectedDetail: "Title is required",
		},
		{
			name:           "transient hides the cause",
			err:            errors.Join(store.ErrTransient, context.DeadlineExceeded),
			expectedStatus: fiber.StatusServiceUnavailable,
			expectedDetail: "the library is busy, please retry",
		},
		{
			name:           "unclassified hides the cause",
			err:            errors.New("pq: connection refused"),
			expectedStatus: fiber.StatusInternalServerError,
			expectedDetail: "internal server error",
		},
		{
			name:           "fiber error keeps its code",
			err:            fiber.NewError(fiber.StatusMethodNotAllowed, "Method Not Allowed"),
			expectedStatus: fiber.StatusMethodNotAllowed,
			expectedDetail: "Method Not Allowed",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			status := statusOf(tc.err)

			// assert
			assert.Equal(t, tc.expectedStatus, status)
			assert.Equal(t, tc.expectedDetail, detailOf(tc.err, status))
		})
	}
}
