// handlers_reports.go - Source report upload and management
package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/achyuthrachur/KYC-Analysis-Dashboard/internal/extract"
	"github.com/achyuthrachur/KYC-Analysis-Dashboard/internal/models"
)

// reportUploadResult is the response body for a processed report upload.
type reportUploadResult struct {
	Report         *models.FileInfo `json:"report"`
	RecordsWritten int              `json:"recordsWritten"`
}

// HandleUploadReport accepts a host HTML report as multipart form data,
// stores it, extracts the embedded snapshot payload to the canonical
// snapshot file and swaps the live snapshot.
func (h *Handler) HandleUploadReport(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return RespondWithError(c, NewBadRequestError("missing report file", err))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return RespondWithError(c, NewBadRequestError("failed to read report file", err))
	}
	defer src.Close()

	info, err := h.store.Save(fileHeader.Filename, src)
	if err != nil {
		return RespondWithError(c, NewInternalError("failed to store report", err))
	}

	path, err := h.store.GetFilePath(info.ID)
	if err != nil {
		return RespondWithError(c, NewInternalError("failed to locate stored report", err))
	}

	count, err := extract.Extract(path, h.cfg.Storage.SnapshotFile)
	if err != nil {
		h.store.SetStatus(info.ID, "error")
		switch {
		case errors.Is(err, extract.ErrNoMarkerBlock):
			h.metrics.RecordExtraction("not_found")
			return RespondWithError(c, NewUnprocessableError("report contains no dashboard-data block", err))
		case errors.Is(err, extract.ErrInvalidPayload):
			h.metrics.RecordExtraction("invalid_payload")
			return RespondWithError(c, NewBadRequestError("dashboard-data block is not valid JSON", err))
		default:
			h.metrics.RecordExtraction("error")
			return RespondWithError(c, NewInternalError("extraction failed", err))
		}
	}
	h.metrics.RecordExtraction("ok")
	h.store.SetStatus(info.ID, "extracted")

	h.loader.Invalidate(h.cfg.Storage.SnapshotFile)
	snap, loadErr := h.currentSnapshot(c)
	if snap == nil {
		return loadErr
	}
	h.hub.BroadcastSnapshotUpdated(snap)

	h.log.Info("report processed",
		zap.String("report", info.Name),
		zap.String("id", info.ID),
		zap.Int("records", count))

	return c.JSON(http.StatusCreated, reportUploadResult{
		Report:         info,
		RecordsWritten: count,
	})
}

// HandleRecentReports returns recently uploaded reports.
func (h *Handler) HandleRecentReports(c echo.Context) error {
	reports, err := h.store.List(20)
	if err != nil {
		return RespondWithError(c, NewInternalError("failed to list reports", err))
	}
	return c.JSON(http.StatusOK, reports)
}

// HandleGetReport returns metadata for a specific report.
func (h *Handler) HandleGetReport(c echo.Context) error {
	id := c.Param("id")
	info, err := h.store.Get(id)
	if err != nil {
		return RespondWithError(c, NewNotFoundError("report", id))
	}
	return c.JSON(http.StatusOK, info)
}

// HandleDeleteReport removes a stored report. The snapshot it produced is
// untouched; deleting a source report never rewinds the dashboard.
func (h *Handler) HandleDeleteReport(c echo.Context) error {
	id := c.Param("id")
	if err := h.store.Delete(id); err != nil {
		return RespondWithError(c, NewNotFoundError("report", id))
	}
	return c.NoContent(http.StatusNoContent)
}
