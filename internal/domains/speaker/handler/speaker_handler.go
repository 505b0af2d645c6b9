package handler

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tedtalks-backend/internal/domains/speaker/model"
	"tedtalks-backend/internal/domains/speaker/service"
	"tedtalks-backend/internal/shared/response"
)

type SpeakerHandler struct {
	service service.ServiceInterface
}

func NewSpeakerHandler(svc service.ServiceInterface) *SpeakerHandler {
	return &SpeakerHandler{
		service: svc,
	}
}

// Create handles POST /api/v1/speakers
func (h *SpeakerHandler) Create(c *gin.Context) {
	var req model.CreateSpeakerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	speaker, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, speaker.ToResponse())
}

// List handles GET /api/v1/speakers
func (h *SpeakerHandler) List(c *gin.Context) {
	speakers, err := h.service.List(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, speakers)
}

// GetByID handles GET /api/v1/speakers/:id
func (h *SpeakerHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid UUID format")
		return
	}

	speaker, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, speaker.ToResponse())
}

// GetByName handles GET /api/v1/speakers/by-name/:name
func (h *SpeakerHandler) GetByName(c *gin.Context) {
	speaker, err := h.service.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, speaker.ToResponse())
}

// Search handles GET /api/v1/speakers/search?q=
func (h *SpeakerHandler) Search(c *gin.Context) {
	speakers, err := h.service.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.InternalServerError(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, speakers)
}

// Count handles GET /api/v1/speakers/count
func (h *SpeakerHandler) Count(c *gin.Context) {
	count, err := h.service.Count(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, gin.H{"count": count})
}

// UpdateBio handles PATCH /api/v1/speakers/:id/bio
func (h *SpeakerHandler) UpdateBio(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid UUID format")
		return
	}

	var req model.UpdateBioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	speaker, err := h.service.UpdateBio(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, speaker.ToResponse())
}

// Delete handles DELETE /api/v1/speakers/:id
func (h *SpeakerHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid UUID format")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *SpeakerHandler) writeError(c *gin.Context, err error) {
	var vErrs validation.Errors
	switch {
	case errors.As(err, &vErrs):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_FAILED", "validation failed", vErrs)
	case errors.Is(err, model.ErrSpeakerNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, model.ErrDuplicateSpeakerName), errors.Is(err, model.ErrSpeakerHasTalks):
		response.Conflict(c, err.Error())
	default:
		response.InternalServerError(c, err.Error())
	}
}
