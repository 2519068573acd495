package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"github.com/achyuthrachur/KYC-Analysis-Dashboard/internal/config"
	"github.com/achyuthrachur/KYC-Analysis-Dashboard/internal/models"
	"github.com/achyuthrachur/KYC-Analysis-Dashboard/internal/monitoring"
	"github.com/achyuthrachur/KYC-Analysis-Dashboard/internal/query"
	"github.com/achyuthrachur/KYC-Analysis-Dashboard/internal/snapshot"
	"github.com/achyuthrachur/KYC-Analysis-Dashboard/internal/storage"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// Handler handles API requests.
type Handler struct {
	cfg     *config.Config
	loader  *snapshot.Loader
	store   storage.Store
	metrics *monitoring.Metrics
	hub     *UpdateHub
	log     *zap.Logger
	version string
}

// NewHandler creates a new API handler.
func NewHandler(cfg *config.Config, loader *snapshot.Loader, store storage.Store, metrics *monitoring.Metrics, hub *UpdateHub, log *zap.Logger, version string) *Handler {
	return &Handler{
		cfg:     cfg,
		loader:  loader,
		store:   store,
		metrics: metrics,
		hub:     hub,
		log:     log,
		version: version,
	}
}

// HandleHealth returns server health status.
func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.version,
	})
}

// currentSnapshot loads the snapshot through the cache, translating a
// malformed file into the user-visible "data unavailable" state.
func (h *Handler) currentSnapshot(c echo.Context) (*models.Snapshot, error) {
	snap, err := h.loader.Load(h.cfg.Storage.SnapshotFile)
	if err != nil {
		if errors.Is(err, snapshot.ErrMalformedSnapshot) {
			return nil, RespondWithError(c, NewSnapshotUnavailableError(err))
		}
		return nil, RespondWithError(c, NewInternalError("failed to load snapshot", err))
	}
	return snap, nil
}

// filteredRecords applies the rm/q query filters to the current snapshot.
func (h *Handler) filteredRecords(c echo.Context) ([]models.KycRecord, *models.Snapshot, error) {
	snap, err := h.currentSnapshot(c)
	if snap == nil {
		return nil, nil, err
	}

	rm := c.QueryParam("rm")
	if rm == "" {
		rm = query.ManagerAll
	}
	return query.Filter(snap.Records, rm, c.QueryParam("q")), snap, nil
}

// snapshotMeta is the /api/snapshot response body.
type snapshotMeta struct {
	State       string   `json:"state"` // "ok" or "missing"
	GeneratedAt string   `json:"generatedAt,omitempty"`
	InputFile   string   `json:"inputFile,omitempty"`
	RecordCount int      `json:"recordCount"`
	Managers    []string `json:"managers"`
}

// HandleGetSnapshot returns metadata about the current snapshot.
func (h *Handler) HandleGetSnapshot(c echo.Context) error {
	snap, err := h.currentSnapshot(c)
	if snap == nil {
		return err
	}

	state := "ok"
	if snap.Missing {
		state = "missing"
	}

	return c.JSON(http.StatusOK, snapshotMeta{
		State:       state,
		GeneratedAt: snap.GeneratedAt,
		InputFile:   snap.InputFile,
		RecordCount: len(snap.Records),
		Managers:    append([]string{query.ManagerAll}, snap.Managers()...),
	})
}

// HandleGetManagers returns the relationship-manager filter options.
func (h *Handler) HandleGetManagers(c echo.Context) error {
	snap, err := h.currentSnapshot(c)
	if snap == nil {
		return err
	}
	return c.JSON(http.StatusOK, append([]string{query.ManagerAll}, snap.Managers()...))
}

// recordPage is the paginated records response body.
type recordPage struct {
	Records  []models.KycRecord `json:"records" msgpack:"records"`
	Total    int                `json:"total" msgpack:"total"`
	Page     int                `json:"page" msgpack:"page"`
	PageSize int                `json:"pageSize" msgpack:"pageSize"`
}

func (h *Handler) recordPage(c echo.Context) (*recordPage, error) {
	filtered, _, err := h.filteredRecords(c)
	if filtered == nil {
		return nil, err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.QueryParam("pageSize"))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	total := len(filtered)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return &recordPage{
		Records:  filtered[start:end],
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// HandleGetRecords returns the filtered record listing, paginated.
func (h *Handler) HandleGetRecords(c echo.Context) error {
	pageResp, err := h.recordPage(c)
	if pageResp == nil {
		return err
	}
	return c.JSON(http.StatusOK, pageResp)
}

// HandleGetRecordsMsgpack returns the same listing msgpack-encoded, for
// table renderers that pull the full filtered set in one request.
func (h *Handler) HandleGetRecordsMsgpack(c echo.Context) error {
	pageResp, err := h.recordPage(c)
	if pageResp == nil {
		return err
	}

	data, err := msgpack.Marshal(pageResp)
	if err != nil {
		return RespondWithError(c, NewInternalError("failed to encode records", err))
	}
	return c.Blob(http.StatusOK, "application/x-msgpack", data)
}

// HandleGetBucketCounts returns per-bucket counts over the filtered subset,
// in canonical bucket order with zero-filled entries.
func (h *Handler) HandleGetBucketCounts(c echo.Context) error {
	filtered, _, err := h.filteredRecords(c)
	if filtered == nil {
		return err
	}
	return c.JSON(http.StatusOK, query.BucketCounts(filtered))
}

// HandleGetBucketByRisk returns the bucket x risk matrix over the filtered
// subset; every cell of the cross product is present.
func (h *Handler) HandleGetBucketByRisk(c echo.Context) error {
	filtered, _, err := h.filteredRecords(c)
	if filtered == nil {
		return err
	}
	return c.JSON(http.StatusOK, query.BucketByRisk(filtered))
}

// HandleRefresh drops the cached snapshot and reloads it from disk.
func (h *Handler) HandleRefresh(c echo.Context) error {
	h.loader.Invalidate(h.cfg.Storage.SnapshotFile)
	snap, err := h.currentSnapshot(c)
	if snap == nil {
		return err
	}

	h.hub.BroadcastSnapshotUpdated(snap)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"refreshed":   true,
		"recordCount": len(snap.Records),
	})
}
