// internal/handlers/imports/imports_handler.go
package imports

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	xerrors "omnia-service/internal/pkg/errors"
	"omnia-service/internal/pkg/response"
	service "omnia-service/internal/service/imports"

	"github.com/gin-gonic/gin"
)

const maxUploadSize = 10 << 20

type ImportHandler struct {
	importService *service.ImportService
}

func NewImportHandler(importService *service.ImportService) *ImportHandler {
	return &ImportHandler{
		importService: importService,
	}
}

// ParseFile parses an uploaded CSV without storing anything.
func (h *ImportHandler) ParseFile(c *gin.Context) {
	body, closeFn, err := openUpload(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "no file uploaded", err)
		return
	}
	defer closeFn()

	result, err := h.importService.Parse(c.Param("kind"), body)
	if err != nil {
		if errors.Is(err, xerrors.ErrEmptyImport) && result != nil {
			response.Error(c, http.StatusBadRequest, "no rows imported", err, result)
			return
		}
		response.FromError(c, "failed to parse file", err)
		return
	}

	response.Success(c, http.StatusOK, fmt.Sprintf("%d rows imported", result.Imported), result)
}

// MergeFile parses an uploaded CSV into the business profile.
func (h *ImportHandler) MergeFile(c *gin.Context) {
	body, closeFn, err := openUpload(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "no file uploaded", err)
		return
	}
	defer closeFn()

	result, err := h.importService.Merge(c.Request.Context(), c.Param("id"), c.Param("kind"), body)
	if err != nil {
		if errors.Is(err, xerrors.ErrEmptyImport) && result != nil {
			response.Error(c, http.StatusBadRequest, "no rows imported", err, result)
			return
		}
		response.FromError(c, "failed to import file", err)
		return
	}

	response.Success(c, http.StatusOK, fmt.Sprintf("%d rows imported", result.Imported), result)
}

func (h *ImportHandler) DownloadTemplate(c *gin.Context) {
	filename, body, err := h.importService.Template(c.Param("kind"))
	if err != nil {
		response.FromError(c, "unknown template", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", body)
}

// openUpload reads the multipart field "file", or the raw body when the
// request is not multipart.
func openUpload(c *gin.Context) (io.Reader, func(), error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return nil, nil, err
		}
		return f, func() { f.Close() }, nil
	}

	if c.Request.ContentLength == 0 {
		return nil, nil, errors.New("empty request body")
	}
	return c.Request.Body, func() {}, nil
}
