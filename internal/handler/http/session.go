package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/shiftwise-hq/workforce-backend-go/internal/domain/session"
	"github.com/shiftwise-hq/workforce-backend-go/internal/handler/http/response"
)

type SessionHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	StartBreak(w http.ResponseWriter, r *http.Request)
	EndBreak(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	Current(w http.ResponseWriter, r *http.Request)
}

type sessionHandlerImpl struct {
	sessionService session.SessionService
}

func NewSessionHandler(sessionService session.SessionService) SessionHandler {
	return &sessionHandlerImpl{
		sessionService: sessionService,
	}
}

// decodeBody tolerates an empty body: every clock action is valid with no
// payload, the body only carries supervisor overrides.
func decodeBody(r *http.Request, dst interface{}) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == io.EOF {
		return nil
	}
	return err
}

// ClockIn implements SessionHandler.
func (h *sessionHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	var req session.ClockInRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.sessionService.ClockIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clock in successful", result)
}

// StartBreak implements SessionHandler.
func (h *sessionHandlerImpl) StartBreak(w http.ResponseWriter, r *http.Request) {
	var req session.ActionRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.sessionService.StartBreak(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Break started", result)
}

// EndBreak implements SessionHandler.
func (h *sessionHandlerImpl) EndBreak(w http.ResponseWriter, r *http.Request) {
	var req session.ActionRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.sessionService.EndBreak(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Break ended", result)
}

// ClockOut implements SessionHandler.
func (h *sessionHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	var req session.ActionRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.sessionService.ClockOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clock out successful", result)
}

// Current implements SessionHandler.
func (h *sessionHandlerImpl) Current(w http.ResponseWriter, r *http.Request) {
	var req session.ActionRequest
	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		req.EmployeeID = &employeeID
	}

	result, err := h.sessionService.Current(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
