package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"omnia-service/internal/domain/business"
	"omnia-service/internal/domain/dataset"
	"omnia-service/internal/domain/strategy"
	xerrors "omnia-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, e *dataset.Entry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockRepo) FindByID(ctx context.Context, id string) (*dataset.Entry, error) {
	args := m.Called(ctx, id)
	e, _ := args.Get(0).(*dataset.Entry)
	return e, args.Error(1)
}

func (m *mockRepo) UpdateOutcome(ctx context.Context, id string, o *dataset.RealOutcome, c dataset.Classification) error {
	return m.Called(ctx, id, o, c).Error(0)
}

func (m *mockRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) List(ctx context.Context, f *dataset.ListFilters) ([]*dataset.Entry, int64, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]*dataset.Entry)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *mockRepo) All(ctx context.Context) ([]*dataset.Entry, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]*dataset.Entry)
	return items, args.Error(1)
}

type mockStrategies struct {
	mock.Mock
}

func (m *mockStrategies) FindByID(ctx context.Context, id string) (*strategy.Record, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*strategy.Record)
	return r, args.Error(1)
}

func (m *mockStrategies) LatestByBusiness(ctx context.Context, id string) (*strategy.Record, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*strategy.Record)
	return r, args.Error(1)
}

type mockBusinesses struct {
	mock.Mock
}

func (m *mockBusinesses) FindByID(ctx context.Context, id string) (*business.Business, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*business.Business)
	return b, args.Error(1)
}

type memArchiver struct {
	key  string
	body []byte
	err  error
}

func (a *memArchiver) Upload(_ context.Context, key string, body []byte, _ string) error {
	a.key, a.body = key, body
	return a.err
}

var fixedNow = time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC)

func newService(archiver Archiver) (*DatasetService, *mockRepo, *mockStrategies, *mockBusinesses) {
	repo, st, b := &mockRepo{}, &mockStrategies{}, &mockBusinesses{}
	svc := NewDatasetService(repo, st, b, archiver, zap.NewNop())
	svc.now = func() time.Time { return fixedNow }
	return svc, repo, st, b
}

func TestPromote_UsesLatestStrategy(t *testing.T) {
	svc, repo, strategies, businesses := newService(nil)
	businesses.On("FindByID", mock.Anything, "b1").Return(&business.Business{
		ID:      "b1",
		Profile: business.Profile{City: "Bilbao", AverageTicket: 22},
	}, nil)
	strategies.On("LatestByBusiness", mock.Anything, "b1").Return(&strategy.Record{
		ID:         "s1",
		BusinessID: "b1",
		Strategy:   strategy.GeneratedStrategy{Summary: "Plan", Automations: []string{"Email"}},
	}, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	e, err := svc.Promote(context.Background(), &dataset.PromoteRequest{BusinessID: "b1"})
	require.NoError(t, err)

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "s1", e.StrategyID)
	assert.Equal(t, fixedNow, e.Date)
	assert.Equal(t, "Bilbao", e.Profile.Location)
	assert.Equal(t, []string{"Email"}, []string(e.Strategy.KeyActions))
	assert.Equal(t, dataset.ClassNeutral, e.Classification)
}

func TestPromote_ExplicitStrategyMustMatchBusiness(t *testing.T) {
	svc, repo, strategies, businesses := newService(nil)
	businesses.On("FindByID", mock.Anything, "b1").Return(&business.Business{ID: "b1"}, nil)
	strategies.On("FindByID", mock.Anything, "s9").Return(&strategy.Record{ID: "s9", BusinessID: "b2"}, nil)

	_, err := svc.Promote(context.Background(), &dataset.PromoteRequest{BusinessID: "b1", StrategyID: "s9"})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPromote_NoStrategy(t *testing.T) {
	svc, _, strategies, businesses := newService(nil)
	businesses.On("FindByID", mock.Anything, "b1").Return(&business.Business{ID: "b1"}, nil)
	strategies.On("LatestByBusiness", mock.Anything, "b1").Return(nil, xerrors.ErrNotFound)

	_, err := svc.Promote(context.Background(), &dataset.PromoteRequest{BusinessID: "b1"})
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestRecordOutcome_ComputesROIAndClass(t *testing.T) {
	svc, repo, _, _ := newService(nil)
	repo.On("FindByID", mock.Anything, "e1").Return(&dataset.Entry{ID: "e1", Classification: dataset.ClassNeutral}, nil)
	repo.On("UpdateOutcome", mock.Anything, "e1", mock.MatchedBy(func(o *dataset.RealOutcome) bool {
		return o.ROI == 3 && o.RecordedAt.Equal(fixedNow)
	}), dataset.ClassSuccess).Return(nil)

	e, err := svc.RecordOutcome(context.Background(), "e1", &dataset.RecordOutcomeRequest{
		TicketBefore:  15,
		TicketAfter:   18,
		TotalSales:    2000,
		MarketingCost: 500,
	})
	require.NoError(t, err)
	assert.Equal(t, dataset.ClassSuccess, e.Classification)
	require.NotNil(t, e.Outcome)
	assert.Equal(t, 3.0, e.Outcome.ROI)
	repo.AssertExpectations(t)
}

func TestRecordOutcome_ExplicitClassificationWins(t *testing.T) {
	svc, repo, _, _ := newService(nil)
	repo.On("FindByID", mock.Anything, "e1").Return(&dataset.Entry{ID: "e1"}, nil)
	repo.On("UpdateOutcome", mock.Anything, "e1", mock.Anything, dataset.ClassFailure).Return(nil)

	failure := dataset.ClassFailure
	e, err := svc.RecordOutcome(context.Background(), "e1", &dataset.RecordOutcomeRequest{
		TotalSales:     2000,
		MarketingCost:  500,
		Classification: &failure,
	})
	require.NoError(t, err)
	assert.Equal(t, dataset.ClassFailure, e.Classification)
}

func TestRecordOutcome_NotFound(t *testing.T) {
	svc, repo, _, _ := newService(nil)
	repo.On("FindByID", mock.Anything, "x").Return(nil, xerrors.ErrNotFound)

	_, err := svc.RecordOutcome(context.Background(), "x", &dataset.RecordOutcomeRequest{})
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestExport(t *testing.T) {
	svc, repo, _, _ := newService(nil)
	repo.On("All", mock.Anything).Return([]*dataset.Entry{
		{ID: "e2", Classification: dataset.ClassSuccess},
		{ID: "e1", Classification: dataset.ClassNeutral},
	}, nil)

	name, body, err := svc.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "omnia_dataset_2026-04-02.json", name)
	assert.Contains(t, string(body), "\n  {", "export is pretty printed")

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "e2", decoded[0]["id"])
}

func TestArchive(t *testing.T) {
	arch := &memArchiver{}
	svc, repo, _, _ := newService(arch)
	repo.On("All", mock.Anything).Return([]*dataset.Entry{}, nil)

	key, err := svc.Archive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "datasets/omnia_dataset_2026-04-02.json", key)
	assert.Equal(t, arch.key, key)
	assert.JSONEq(t, `[]`, string(arch.body))
}

func TestArchive_Failures(t *testing.T) {
	svc, _, _, _ := newService(nil)
	_, err := svc.Archive(context.Background())
	assert.ErrorIs(t, err, xerrors.ErrArchiveUnavailable)

	svc, repo, _, _ := newService(&memArchiver{err: errors.New("denied")})
	repo.On("All", mock.Anything).Return([]*dataset.Entry{}, nil)
	_, err = svc.Archive(context.Background())
	assert.ErrorContains(t, err, "denied")
}

func TestList(t *testing.T) {
	svc, repo, _, _ := newService(nil)
	f := &dataset.ListFilters{Page: 1, PageSize: 50}
	repo.On("List", mock.Anything, f).Return([]*dataset.Entry{{ID: "e1"}}, int64(51), nil)

	res, err := svc.List(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalPages)
}
