package response

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/crewbook/crewbook-backend-go/internal/domain/auth"
	"github.com/crewbook/crewbook-backend-go/internal/domain/client"
	"github.com/crewbook/crewbook-backend-go/internal/domain/report"
	"github.com/crewbook/crewbook-backend-go/internal/domain/schedule"
	"github.com/crewbook/crewbook-backend-go/internal/domain/worker"
	"github.com/crewbook/crewbook-backend-go/internal/pkg/jwt"
	"github.com/crewbook/crewbook-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var rangeErr *report.RangeError
	if errors.As(err, &rangeErr) {
		field := rangeErr.Field
		if field == "" {
			field = "range"
		}
		ValidationError(w, map[string]string{field: rangeErr.Reason})
		return
	}

	switch {
	// The client went away or the request ran out of time; neither is a bug.
	case errors.Is(err, context.Canceled):
		slog.Debug("Request cancelled", "error", err)
		ClientClosedRequest(w)
	case errors.Is(err, context.DeadlineExceeded):
		slog.Warn("Request timed out", "error", err)
		GatewayTimeout(w, "The request took too long to complete")

	// Report errors
	case errors.Is(err, report.ErrInvalidPeriod):
		ValidationError(w, map[string]string{"period": err.Error()})
	case errors.Is(err, report.ErrInvalidRange):
		ValidationError(w, map[string]string{"range": err.Error()})

	// Auth errors
	case errors.Is(err, jwt.ErrMissingClaims), errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, jwt.ErrWrongTokenType):
		Unauthorized(w, err.Error())
	case errors.Is(err, jwt.ErrCompanyRequired):
		Forbidden(w, "Token is not bound to a company")
	case errors.Is(err, auth.ErrInsufficientRole):
		Forbidden(w, err.Error())
	case errors.Is(err, schedule.ErrActorRequired):
		Forbidden(w, err.Error())

	// Not found
	case errors.Is(err, schedule.ErrScheduleNotFound):
		NotFound(w, "Schedule not found")
	case errors.Is(err, schedule.ErrAssignmentNotFound):
		NotFound(w, "Assignment not found")
	case errors.Is(err, worker.ErrWorkerNotFound):
		NotFound(w, "Worker not found")
	case errors.Is(err, client.ErrClientNotFound):
		NotFound(w, "Client not found")

	case errors.Is(err, schedule.ErrVersionConflict):
		Conflict(w, "The record was changed by someone else; reload and try again")

	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
