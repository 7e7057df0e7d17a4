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

// CPSHandler wires HTTP endpoints to the credit claim service.
type CPSHandler struct {
	service *service.CPSService
}

// NewCPSHandler creates a new handler.
func NewCPSHandler(svc *service.CPSService) *CPSHandler {
	return &CPSHandler{service: svc}
}

type remarksPayload struct {
	Remarks string `json:"remarks"`
}

// Catalog godoc
// @Summary Activity catalog
// @Description Fixed list of claimable activities with their credit values
// @Tags CPS
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /cps/catalog [get]
func (h *CPSHandler) Catalog(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Catalog(), nil)
}

// Create godoc
// @Summary Create draft claim
// @Tags CPS
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateCPSRequest true "Claim payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /cps [post]
func (h *CPSHandler) Create(c *gin.Context) {
	var req service.CreateCPSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid activity payload"))
		return
	}

	entry, err := h.service.Create(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, entry)
}

// List godoc
// @Summary List claims visible to the caller
// @Tags CPS
// @Produce json
// @Security BearerAuth
// @Param status query string false "Comma separated statuses"
// @Param category query string false "Category filter"
// @Success 200 {object} response.Envelope
// @Router /cps [get]
func (h *CPSHandler) List(c *gin.Context) {
	req := service.ListCPSRequest{
		Category: models.CPSCategory(c.Query("category")),
		OwnerID:  c.Query("owner_id"),
	}
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			req.Status = append(req.Status, models.CPSStatus(strings.TrimSpace(s)))
		}
	}

	entries, err := h.service.List(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, entries, nil)
}

// Get godoc
// @Summary Fetch one claim
// @Tags CPS
// @Produce json
// @Security BearerAuth
// @Param id path string true "Claim ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /cps/{id} [get]
func (h *CPSHandler) Get(c *gin.Context) {
	entry, err := h.service.Get(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Update godoc
// @Summary Update a draft claim
// @Tags CPS
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Claim ID"
// @Param payload body service.UpdateCPSRequest true "Patch payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /cps/{id} [put]
func (h *CPSHandler) Update(c *gin.Context) {
	var req service.UpdateCPSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid patch payload"))
		return
	}

	entry, err := h.service.Update(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, entry, nil)
}

// Delete godoc
// @Summary Delete a draft claim
// @Tags CPS
// @Security BearerAuth
// @Param id path string true "Claim ID"
// @Success 204 {object} nil
// @Failure 409 {object} response.Envelope
// @Router /cps/{id} [delete]
func (h *CPSHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), actorFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Submit godoc
// @Summary Submit a draft into the approval chain
// @Tags CPS
// @Produce json
// @Security BearerAuth
// @Param id path string true "Claim ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /cps/{id}/submit [post]
func (h *CPSHandler) Submit(c *gin.Context) {
	entry, err := h.service.Submit(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Approve godoc
// @Summary Approve a pending claim
// @Tags CPS
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Claim ID"
// @Param payload body remarksPayload false "Optional remarks"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /cps/{id}/approve [post]
func (h *CPSHandler) Approve(c *gin.Context) {
	var payload remarksPayload
	_ = c.ShouldBindJSON(&payload)

	entry, err := h.service.Approve(c.Request.Context(), actorFromContext(c), c.Param("id"), payload.Remarks)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Reject godoc
// @Summary Reject a pending claim
// @Tags CPS
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Claim ID"
// @Param payload body remarksPayload false "Optional remarks"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /cps/{id}/reject [post]
func (h *CPSHandler) Reject(c *gin.Context) {
	var payload remarksPayload
	_ = c.ShouldBindJSON(&payload)

	entry, err := h.service.Reject(c.Request.Context(), actorFromContext(c), c.Param("id"), payload.Remarks)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Queue godoc
// @Summary Claims awaiting the caller's approval stage
// @Tags CPS
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /cps/queue [get]
func (h *CPSHandler) Queue(c *gin.Context) {
	entries, err := h.service.Queue(c.Request.Context(), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}
