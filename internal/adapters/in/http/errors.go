package http

import (
	"errors"
	"log/slog"
	"net/http"

	"courierdispatch/internal/core/application/usecases/commands"
	"courierdispatch/internal/core/domain/model/assignment"
	"courierdispatch/internal/core/domain/model/courier"
	"courierdispatch/internal/core/domain/model/kernel"
	"courierdispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

var badRequestErrors = []error{
	errs.ErrObjectNotFound,
	errs.ErrObjectAlreadyExists,
	errs.ErrValueIsInvalid,
	errs.ErrValueIsOutOfRange,
	errs.ErrValueIsRequired,
	courier.ErrEmptyPatch,
	kernel.ErrTimeIntervalFormat,
	assignment.ErrAssignmentIsAlreadyCompleted,
}

// writeError maps use case errors to responses. Rejected bulk items are listed by id,
// other business errors get a bare 400.
func (s *Server) writeError(ctx echo.Context, err error) error {
	var rejected *commands.RejectedIDsError
	if errors.As(err, &rejected) {
		return ctx.JSON(http.StatusBadRequest, ValidationErrorResponse{
			ValidationError: map[string][]IDResponse{rejected.Entity: idList(rejected.IDs)},
		})
	}

	if isBusinessError(err) {
		s.logger.DebugContext(ctx.Request().Context(), "request rejected", slog.Any("error", err))
		return ctx.NoContent(http.StatusBadRequest)
	}

	s.logger.ErrorContext(ctx.Request().Context(), "request failed",
		slog.String("method", ctx.Request().Method),
		slog.String("path", ctx.Path()),
		slog.Any("error", err),
	)
	return ctx.NoContent(http.StatusInternalServerError)
}

func isBusinessError(err error) bool {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func asRejected(err error) (*commands.RejectedIDsError, bool) {
	var rejected *commands.RejectedIDsError
	if err == nil || !errors.As(err, &rejected) {
		return nil, false
	}
	return rejected, true
}
