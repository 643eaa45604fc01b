package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/crewbook/crewbook-backend-go/internal/domain/schedule"
	"github.com/crewbook/crewbook-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ScheduleHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	MarkCollected(w http.ResponseWriter, r *http.Request)
	SetAssignmentPaid(w http.ResponseWriter, r *http.Request)
}

type scheduleHandlerImpl struct {
	scheduleService schedule.ScheduleService
}

func NewScheduleHandler(scheduleService schedule.ScheduleService) ScheduleHandler {
	return &scheduleHandlerImpl{
		scheduleService: scheduleService,
	}
}

// decodeBody decodes an optional JSON body. An empty body leaves dst as is.
func decodeBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// Get handles GET /schedules/{id}
func (h *scheduleHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.scheduleService.GetSchedule(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// MarkCollected handles POST /schedules/{id}/collect
func (h *scheduleHandlerImpl) MarkCollected(w http.ResponseWriter, r *http.Request) {
	var req schedule.MarkCollectedRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ScheduleID = chi.URLParam(r, "id")

	result, err := h.scheduleService.MarkCollected(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "Schedule marked as received"
	if !result.Changed {
		message = "Schedule was already received"
	}
	response.SuccessWithMessage(w, message, result)
}

// SetAssignmentPaid handles PUT /assignments/{id}/paid
func (h *scheduleHandlerImpl) SetAssignmentPaid(w http.ResponseWriter, r *http.Request) {
	var req schedule.SetAssignmentPaidRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.AssignmentID = chi.URLParam(r, "id")

	result, err := h.scheduleService.SetAssignmentPaid(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
