package dataset

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"omnia-service/internal/domain/business"
	"omnia-service/internal/domain/dataset"
	"omnia-service/internal/domain/strategy"
	xerrors "omnia-service/internal/pkg/errors"
	"omnia-service/internal/repository/postgres"
	service "omnia-service/internal/service/dataset"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// entryRepo keeps entries in memory; only the calls the handler tests
// reach are meaningful.
type entryRepo struct {
	entries map[string]*dataset.Entry
}

func (r *entryRepo) Create(_ context.Context, e *dataset.Entry) error {
	r.entries[e.ID] = e
	return nil
}

func (r *entryRepo) FindByID(_ context.Context, id string) (*dataset.Entry, error) {
	e, ok := r.entries[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return e, nil
}

func (r *entryRepo) UpdateOutcome(_ context.Context, id string, o *dataset.RealOutcome, c dataset.Classification) error {
	e, ok := r.entries[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	e.Outcome, e.Classification = o, c
	return nil
}

func (r *entryRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.entries[id]; !ok {
		return xerrors.ErrNotFound
	}
	delete(r.entries, id)
	return nil
}

func (r *entryRepo) List(ctx context.Context, _ *dataset.ListFilters) ([]*dataset.Entry, int64, error) {
	all, _ := r.All(ctx)
	return all, int64(len(all)), nil
}

func (r *entryRepo) All(context.Context) ([]*dataset.Entry, error) {
	out := make([]*dataset.Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	return out, nil
}

func setupRouter(repo service.Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewDatasetService(
		repo,
		postgres.UnavailableStrategyRepository{},
		postgres.UnavailableBusinessRepository{},
		nil,
		zap.NewNop(),
	)
	h := NewDatasetHandler(svc)

	r := gin.New()
	r.POST("/dataset", h.PromoteStrategy)
	r.GET("/dataset", h.ListEntries)
	r.PUT("/dataset/:id/outcome", h.RecordOutcome)
	r.DELETE("/dataset/:id", h.DeleteEntry)
	r.GET("/dataset/export", h.ExportDataset)
	r.POST("/dataset/archive", h.ArchiveDataset)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seeded() *entryRepo {
	e := dataset.NewEntry("01HX", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), "b-1", "s-1",
		business.Profile{Type: business.TypeRestaurant}, strategy.GeneratedStrategy{Summary: "captación"})
	return &entryRepo{entries: map[string]*dataset.Entry{e.ID: e}}
}

func TestPromoteStrategy(t *testing.T) {
	r := setupRouter(seeded())

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/dataset", `{}`).Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(r, http.MethodPost, "/dataset", `{"business_id": "b-1"}`).Code)
}

func TestRecordOutcome(t *testing.T) {
	repo := seeded()
	r := setupRouter(repo)

	w := do(r, http.MethodPut, "/dataset/01HX/outcome", `{
		"ticketMedioAntes": 10,
		"ticketMedioDespues": 12,
		"ventasTotales": 3000,
		"costoMarketing": 1000
	}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dataset.ClassSuccess, repo.entries["01HX"].Classification)
	assert.Equal(t, 2.0, repo.entries["01HX"].Outcome.ROI)

	w = do(r, http.MethodPut, "/dataset/01HX/outcome", `{"satisfaccionCliente": 11}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPut, "/dataset/missing/outcome", `{}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListAndDelete(t *testing.T) {
	r := setupRouter(seeded())

	w := do(r, http.MethodGet, "/dataset", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)

	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/dataset/01HX", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/dataset/01HX", "").Code)
}

func TestExportDataset(t *testing.T) {
	r := setupRouter(seeded())

	w := do(r, http.MethodGet, "/dataset/export", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="omnia_dataset_`)
	assert.True(t, strings.HasPrefix(w.Body.String(), "[\n  {"))
	assert.Contains(t, w.Body.String(), "captación")
}

func TestExportDataset_Empty(t *testing.T) {
	r := setupRouter(&entryRepo{entries: map[string]*dataset.Entry{}})

	w := do(r, http.MethodGet, "/dataset/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestArchiveDataset_NotConfigured(t *testing.T) {
	r := setupRouter(seeded())

	w := do(r, http.MethodPost, "/dataset/archive", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
