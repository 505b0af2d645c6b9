package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tedtalks-backend/internal/domains/importer/model"
	"tedtalks-backend/internal/domains/importer/service"
	"tedtalks-backend/internal/shared/response"
)

// maxUploadSize caps import uploads at 64 MiB.
const maxUploadSize = 64 << 20

type ImportHandler struct {
	service service.ServiceInterface
}

func NewImportHandler(svc service.ServiceInterface) *ImportHandler {
	return &ImportHandler{
		service: svc,
	}
}

// Submit handles POST /api/v1/import. Accepts a multipart "file" part
// and answers 202 with the run id; the import itself runs in the
// background.
func (h *ImportHandler) Submit(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "multipart field 'file' is required")
		return
	}
	if fileHeader.Size > maxUploadSize {
		response.BadRequest(c, "file too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.InternalServerError(c, "failed to open upload")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		response.InternalServerError(c, "failed to read upload")
		return
	}

	run, err := h.service.SubmitImport(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusAccepted, gin.H{
		"run_id": run.RunID,
		"status": run.Status,
	})
}

// Status handles GET /api/v1/import/:id/status
func (h *ImportHandler) Status(c *gin.Context) {
	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid run id")
		return
	}

	status, err := h.service.GetStatus(runID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, status)
}

// Errors handles GET /api/v1/import/:id/errors
func (h *ImportHandler) Errors(c *gin.Context) {
	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid run id")
		return
	}

	errs, err := h.service.GetErrors(runID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, errs)
}

func (h *ImportHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrRunNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, model.ErrEmptyFile), errors.Is(err, model.ErrUnsupportedFormat):
		response.BadRequest(c, err.Error())
	default:
		response.InternalServerError(c, err.Error())
	}
}
