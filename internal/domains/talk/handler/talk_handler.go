package handler

import (
	"errors"
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	speakermodel "tedtalks-backend/internal/domains/speaker/model"
	"tedtalks-backend/internal/domains/talk/model"
	"tedtalks-backend/internal/domains/talk/service"
	"tedtalks-backend/internal/shared/response"
)

type TalkHandler struct {
	service service.ServiceInterface
}

func NewTalkHandler(svc service.ServiceInterface) *TalkHandler {
	return &TalkHandler{
		service: svc,
	}
}

// List handles GET /api/v1/talks
func (h *TalkHandler) List(c *gin.Context) {
	talks, err := h.service.List(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, toResponses(talks))
}

// GetByID handles GET /api/v1/talks/:id
func (h *TalkHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid UUID format")
		return
	}

	talk, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, talk.ToResponse())
}

// GetBySpeaker handles GET /api/v1/talks/by-speaker/:name
func (h *TalkHandler) GetBySpeaker(c *gin.Context) {
	talks, err := h.service.GetBySpeakerName(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, toResponses(talks))
}

// GetByYear handles GET /api/v1/talks/by-year/:year
func (h *TalkHandler) GetByYear(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1 {
		response.BadRequest(c, "invalid year")
		return
	}

	talks, err := h.service.GetByYear(c.Request.Context(), year)
	if err != nil {
		response.InternalServerError(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, toResponses(talks))
}

// Search handles GET /api/v1/talks/search?q=
func (h *TalkHandler) Search(c *gin.Context) {
	talks, err := h.service.SearchByTitle(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.InternalServerError(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, toResponses(talks))
}

// Count handles GET /api/v1/talks/count
func (h *TalkHandler) Count(c *gin.Context) {
	count, err := h.service.Count(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, gin.H{"count": count})
}

// Create handles POST /api/v1/talks
func (h *TalkHandler) Create(c *gin.Context) {
	var req model.CreateTalkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	talk, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, talk.ToResponse())
}

// Update handles PATCH /api/v1/talks/:id
func (h *TalkHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid UUID format")
		return
	}

	var req model.UpdateTalkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	talk, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, talk.ToResponse())
}

// Delete handles DELETE /api/v1/talks/:id
func (h *TalkHandler) Delete(c *gin.Context) {
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

func toResponses(talks []model.Talk) []*model.TalkResponse {
	out := make([]*model.TalkResponse, 0, len(talks))
	for i := range talks {
		out = append(out, talks[i].ToResponse())
	}
	return out
}

func (h *TalkHandler) writeError(c *gin.Context, err error) {
	var vErrs validation.Errors
	switch {
	case errors.As(err, &vErrs):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_FAILED", "validation failed", vErrs)
	case errors.Is(err, model.ErrTalkNotFound), errors.Is(err, speakermodel.ErrSpeakerNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, model.ErrDuplicateTalk):
		response.Conflict(c, err.Error())
	default:
		response.InternalServerError(c, err.Error())
	}
}
