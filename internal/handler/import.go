package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roeeblo/smart-job-tracker/internal/constants"
	"github.com/roeeblo/smart-job-tracker/internal/dto"
	"github.com/roeeblo/smart-job-tracker/internal/service"
)

type ImportHandler struct {
	imports *service.ImportService
	// maxUploadSize caps the CSV file in bytes.
	maxUploadSize int64
}

func NewImportHandler(imports *service.ImportService, maxUploadSize int64) *ImportHandler {
	return &ImportHandler{imports: imports, maxUploadSize: maxUploadSize}
}

// ImportCSV handles POST /import/csv with a multipart "file" part.
func (h *ImportHandler) ImportCSV(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("file is required"))
		return
	}
	if fileHeader.Size > h.maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, constants.BuildErrorResponse("file too large"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("file is required"))
		return
	}
	defer file.Close()

	resp, err := h.imports.ImportCSV(c.Request.Context(), userID, file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ImportJSON handles POST /import/json.
func (h *ImportHandler) ImportJSON(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.ImportJSONRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.imports.ImportJSON(c.Request.Context(), userID, req.Items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
