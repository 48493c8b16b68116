// internal/handlers/dataset/dataset_handler.go
package dataset

import (
	"fmt"
	"net/http"

	"omnia-service/internal/domain/dataset"
	"omnia-service/internal/pkg/response"
	service "omnia-service/internal/service/dataset"

	"github.com/gin-gonic/gin"
)

type DatasetHandler struct {
	datasetService *service.DatasetService
}

func NewDatasetHandler(datasetService *service.DatasetService) *DatasetHandler {
	return &DatasetHandler{
		datasetService: datasetService,
	}
}

// ========== Entries ==========

func (h *DatasetHandler) PromoteStrategy(c *gin.Context) {
	var req dataset.PromoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.datasetService.Promote(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to add strategy to dataset", err)
		return
	}

	response.Success(c, http.StatusCreated, "strategy added to dataset", result)
}

func (h *DatasetHandler) ListEntries(c *gin.Context) {
	var filters dataset.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	result, err := h.datasetService.List(c.Request.Context(), &filters)
	if err != nil {
		response.FromError(c, "failed to list dataset", err)
		return
	}

	response.Success(c, http.StatusOK, "dataset retrieved", result)
}

func (h *DatasetHandler) RecordOutcome(c *gin.Context) {
	var req dataset.RecordOutcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.datasetService.RecordOutcome(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.FromError(c, "failed to record outcome", err)
		return
	}

	response.Success(c, http.StatusOK, "outcome recorded", result)
}

func (h *DatasetHandler) DeleteEntry(c *gin.Context) {
	if err := h.datasetService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.FromError(c, "failed to delete dataset entry", err)
		return
	}

	response.Success(c, http.StatusOK, "dataset entry deleted", nil)
}

// ========== Export ==========

// ExportDataset downloads the whole dataset as a JSON attachment.
func (h *DatasetHandler) ExportDataset(c *gin.Context) {
	filename, body, err := h.datasetService.Export(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to export dataset", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

func (h *DatasetHandler) ArchiveDataset(c *gin.Context) {
	key, err := h.datasetService.Archive(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to archive dataset", err)
		return
	}

	response.Success(c, http.StatusOK, "dataset archived", gin.H{"key": key})
}
