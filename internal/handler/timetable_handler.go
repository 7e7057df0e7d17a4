package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cps-portal-api/internal/models"
	"github.com/noah-isme/cps-portal-api/internal/service"
	appErrors "github.com/noah-isme/cps-portal-api/pkg/errors"
	"github.com/noah-isme/cps-portal-api/pkg/response"
)

// TimetableHandler wires HTTP endpoints to the timetable service.
type TimetableHandler struct {
	service *service.TimetableService
}

// NewTimetableHandler creates a new handler.
func NewTimetableHandler(svc *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// Slots godoc
// @Summary Fixed period sequence
// @Tags Timetables
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /timetables/slots [get]
func (h *TimetableHandler) Slots(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Slots(), nil)
}

// Draft godoc
// @Summary Fetch the draft in progress
// @Tags Timetables
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetables/draft [get]
func (h *TimetableHandler) Draft(c *gin.Context) {
	draft, err := h.service.Draft(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, draft, nil)
}

// SaveDraftHeader godoc
// @Summary Create the draft or update its header
// @Tags Timetables
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.DraftHeaderRequest true "Header payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /timetables/draft [put]
func (h *TimetableHandler) SaveDraftHeader(c *gin.Context) {
	var req service.DraftHeaderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid header payload"))
		return
	}

	draft, err := h.service.SaveDraftHeader(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, draft, nil)
}

// UpsertCell godoc
// @Summary Add or replace one draft cell
// @Description A second insert at an occupied (day, slot) key replaces the cell
// @Tags Timetables
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CellRequest true "Cell payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /timetables/draft/cells [put]
func (h *TimetableHandler) UpsertCell(c *gin.Context) {
	var req service.CellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid cell payload"))
		return
	}

	draft, err := h.service.UpsertCell(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, draft, nil)
}

// DeleteCell godoc
// @Summary Clear one draft cell
// @Tags Timetables
// @Produce json
// @Security BearerAuth
// @Param day path string true "Day"
// @Param slotId path string true "Time slot ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /timetables/draft/cells/{day}/{slotId} [delete]
func (h *TimetableHandler) DeleteCell(c *gin.Context) {
	draft, err := h.service.DeleteCell(c.Request.Context(), c.Param("day"), c.Param("slotId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, draft, nil)
}

// Submit godoc
// @Summary Submit the draft into faculty peer review
// @Tags Timetables
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /timetables/draft/submit [post]
func (h *TimetableHandler) Submit(c *gin.Context) {
	tt, err := h.service.Submit(c.Request.Context(), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tt, nil)
}

// List godoc
// @Summary List submitted timetables
// @Tags Timetables
// @Produce json
// @Security BearerAuth
// @Param status query string false "Comma separated statuses"
// @Success 200 {object} response.Envelope
// @Router /timetables [get]
func (h *TimetableHandler) List(c *gin.Context) {
	var statuses []models.TimetableStatus
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			statuses = append(statuses, models.TimetableStatus(strings.TrimSpace(s)))
		}
	}

	tables, err := h.service.List(c.Request.Context(), actorFromContext(c), statuses...)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tables, nil)
}

// Get godoc
// @Summary Fetch one submitted timetable
// @Tags Timetables
// @Produce json
// @Security BearerAuth
// @Param id path string true "Timetable ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetables/{id} [get]
func (h *TimetableHandler) Get(c *gin.Context) {
	tt, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tt, nil)
}

// Subjects godoc
// @Summary Derived subject roster for a timetable
// @Description Deduplicates subject code, name and faculty across populated cells
// @Tags Timetables
// @Produce json
// @Security BearerAuth
// @Param id path string true "Timetable ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetables/{id}/subjects [get]
func (h *TimetableHandler) Subjects(c *gin.Context) {
	tt, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tt.Subjects(), nil)
}

// ApproveByFaculty godoc
// @Summary Record the caller's peer sign-off
// @Description Once enough distinct faculty approve, the timetable advances to HOD review
// @Tags Timetables
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Timetable ID"
// @Param payload body remarksPayload false "Optional remarks"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /timetables/{id}/approvals/faculty [post]
func (h *TimetableHandler) ApproveByFaculty(c *gin.Context) {
	var payload remarksPayload
	_ = c.ShouldBindJSON(&payload)

	tt, err := h.service.ApproveByFaculty(c.Request.Context(), actorFromContext(c), c.Param("id"), payload.Remarks)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tt, nil)
}

// ApproveByHOD godoc
// @Summary Finalize a timetable under HOD review
// @Tags Timetables
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Timetable ID"
// @Param payload body remarksPayload false "Optional remarks"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /timetables/{id}/approvals/hod [post]
func (h *TimetableHandler) ApproveByHOD(c *gin.Context) {
	var payload remarksPayload
	_ = c.ShouldBindJSON(&payload)

	tt, err := h.service.ApproveByHOD(c.Request.Context(), actorFromContext(c), c.Param("id"), payload.Remarks)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tt, nil)
}

// Reject godoc
// @Summary Reject a timetable under HOD review
// @Tags Timetables
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Timetable ID"
// @Param payload body remarksPayload false "Optional remarks"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /timetables/{id}/reject [post]
func (h *TimetableHandler) Reject(c *gin.Context) {
	var payload remarksPayload
	_ = c.ShouldBindJSON(&payload)

	tt, err := h.service.Reject(c.Request.Context(), actorFromContext(c), c.Param("id"), payload.Remarks)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tt, nil)
}
