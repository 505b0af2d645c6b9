package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tedtalks-backend/internal/domains/analysis/model"
	"tedtalks-backend/internal/domains/analysis/service"
	"tedtalks-backend/internal/shared/response"
)

const defaultTopLimit = 10

type AnalysisHandler struct {
	service service.ServiceInterface
}

func NewAnalysisHandler(svc service.ServiceInterface) *AnalysisHandler {
	return &AnalysisHandler{
		service: svc,
	}
}

// TopSpeakers handles GET /api/v1/analysis/top-speakers?limit=
func (h *AnalysisHandler) TopSpeakers(c *gin.Context) {
	limit := defaultTopLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(c, "limit must be an integer")
			return
		}
		limit = parsed
	}

	top, err := h.service.TopInfluentialSpeakers(c.Request.Context(), limit)
	if err != nil {
		if errors.Is(err, model.ErrInvalidLimit) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalServerError(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, top)
}

// PerYear handles GET /api/v1/analysis/most-influential-per-year
func (h *AnalysisHandler) PerYear(c *gin.Context) {
	highlights, err := h.service.MostInfluentialTalkPerYear(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, err.Error())
		return
	}

	response.Success(c, http.StatusOK, highlights)
}

// Speaker handles GET /api/v1/analysis/speakers/:name
func (h *AnalysisHandler) Speaker(c *gin.Context) {
	summary, err := h.service.AnalyzeSpeaker(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.InternalServerError(c, err.Error())
		return
	}
	if summary == nil {
		response.NotFound(c, "no talks found for speaker")
		return
	}

	response.Success(c, http.StatusOK, summary)
}
