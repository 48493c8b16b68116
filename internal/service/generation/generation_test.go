package generation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"omnia-service/internal/domain/business"
	"omnia-service/internal/domain/strategy"
	wstypes "omnia-service/internal/domain/websocket"
	xerrors "omnia-service/internal/pkg/errors"
	"omnia-service/internal/templates"
	"omnia-service/internal/workspace"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRemote struct {
	mock.Mock
}

func (m *mockRemote) GenerateStrategy(ctx context.Context, p business.Profile) (strategy.GeneratedStrategy, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(strategy.GeneratedStrategy), args.Error(1)
}

func (m *mockRemote) GenerateMarketingPlan(ctx context.Context, p business.Profile) (strategy.MarketingPlan, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(strategy.MarketingPlan), args.Error(1)
}

type mockBusinesses struct {
	mock.Mock
}

func (m *mockBusinesses) FindByID(ctx context.Context, id string) (*business.Business, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*business.Business)
	return b, args.Error(1)
}

type mockStrategies struct {
	mock.Mock
}

func (m *mockStrategies) Create(ctx context.Context, rec *strategy.Record) error {
	return m.Called(ctx, rec).Error(0)
}

type recordingHub struct {
	mu     sync.Mutex
	events []wstypes.EventType
}

func (h *recordingHub) BroadcastToBusiness(_ string, event wstypes.EventType, _ interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
}

type fixture struct {
	svc        *GenerationService
	remote     *mockRemote
	businesses *mockBusinesses
	strategies *mockStrategies
	store      *workspace.MemoryStore
	hub        *recordingHub
}

func newFixture(withRemote bool) *fixture {
	f := &fixture{
		remote:     &mockRemote{},
		businesses: &mockBusinesses{},
		strategies: &mockStrategies{},
		store:      workspace.NewMemoryStore(),
		hub:        &recordingHub{},
	}
	f.svc = NewGenerationService(f.businesses, f.strategies, f.store, nil, f.hub, time.Second, zap.NewNop())
	if withRemote {
		f.svc.remote = f.remote
	}
	return f
}

func sampleBusiness() *business.Business {
	p := business.Profile{
		Name:             "Bar Sol",
		City:             "Sevilla",
		Type:             business.TypeRestaurant,
		PrimaryObjective: business.ObjectiveRaiseTicket,
		AverageTicket:    15,
		MonthlyRevenue:   20000,
		MarketingPercent: 5,
	}
	return &business.Business{ID: "b1", Name: p.Name, Type: p.Type, Profile: p}
}

func validStrategy() strategy.GeneratedStrategy {
	prizes := make([]strategy.Prize, strategy.PrizesPerGame)
	return strategy.GeneratedStrategy{
		Analysis: "remote analysis",
		Games:    []strategy.Game{{Type: strategy.GameWelcome, Prizes: prizes}},
	}
}

func TestGenerateStrategy_RemoteSuccess(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()
	f.businesses.On("FindByID", mock.Anything, "b1").Return(sampleBusiness(), nil)
	f.remote.On("GenerateStrategy", mock.Anything, mock.Anything).Return(validStrategy(), nil)
	f.strategies.On("Create", mock.Anything, mock.MatchedBy(func(r *strategy.Record) bool {
		return r.BusinessID == "b1" && r.Source == strategy.SourceRemote && r.BusinessName == "Bar Sol"
	})).Return(nil)

	res, err := f.svc.GenerateStrategy(ctx, "b1", nil)
	require.NoError(t, err)

	assert.Equal(t, strategy.SourceRemote, res.Source)
	assert.False(t, res.Stale)
	assert.Empty(t, res.Notice)
	assert.NotEmpty(t, res.RecordID)
	assert.Equal(t, "remote analysis", res.Strategy.Analysis)

	snap, err := f.store.Get(ctx, "b1")
	require.NoError(t, err)
	require.NotNil(t, snap.Strategy)
	assert.Equal(t, res.Token, snap.StrategyToken)
	assert.Equal(t, []wstypes.EventType{wstypes.EventTypeStrategyGenerated}, f.hub.events)
	f.strategies.AssertExpectations(t)
}

func TestGenerateStrategy_RemoteFailureFallsBackToTemplate(t *testing.T) {
	f := newFixture(true)
	b := sampleBusiness()
	f.businesses.On("FindByID", mock.Anything, "b1").Return(b, nil)
	f.remote.On("GenerateStrategy", mock.Anything, mock.Anything).
		Return(strategy.GeneratedStrategy{}, errors.New("upstream 500"))
	f.strategies.On("Create", mock.Anything, mock.Anything).Return(nil)

	res, err := f.svc.GenerateStrategy(context.Background(), "b1", nil)
	require.NoError(t, err)

	assert.Equal(t, strategy.SourceLocal, res.Source)
	assert.Equal(t, fallbackNotice, res.Notice)
	assert.Equal(t, templates.SelectStrategyTemplate(b.Profile.Normalize()), res.Strategy)
}

func TestGenerateStrategy_NoRemoteConfigured(t *testing.T) {
	f := newFixture(false)
	f.businesses.On("FindByID", mock.Anything, "b1").Return(sampleBusiness(), nil)
	f.strategies.On("Create", mock.Anything, mock.Anything).Return(nil)

	res, err := f.svc.GenerateStrategy(context.Background(), "b1", nil)
	require.NoError(t, err)
	assert.Equal(t, strategy.SourceLocal, res.Source)
	f.remote.AssertNotCalled(t, "GenerateStrategy", mock.Anything, mock.Anything)
}

type slowRemote struct{}

func (slowRemote) GenerateStrategy(ctx context.Context, _ business.Profile) (strategy.GeneratedStrategy, error) {
	<-ctx.Done()
	return strategy.GeneratedStrategy{}, ctx.Err()
}

func (slowRemote) GenerateMarketingPlan(ctx context.Context, _ business.Profile) (strategy.MarketingPlan, error) {
	<-ctx.Done()
	return strategy.MarketingPlan{}, ctx.Err()
}

func TestGenerateStrategy_RemoteTimeout(t *testing.T) {
	f := newFixture(false)
	f.svc.remote = slowRemote{}
	f.svc.timeout = 20 * time.Millisecond
	f.businesses.On("FindByID", mock.Anything, "b1").Return(sampleBusiness(), nil)
	f.strategies.On("Create", mock.Anything, mock.Anything).Return(nil)

	res, err := f.svc.GenerateStrategy(context.Background(), "b1", nil)
	require.NoError(t, err)
	assert.Equal(t, strategy.SourceLocal, res.Source)
}

func TestGenerateStrategy_SupersededResultIsNotApplied(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()
	f.businesses.On("FindByID", mock.Anything, "b1").Return(sampleBusiness(), nil)
	f.remote.On("GenerateStrategy", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			// a newer request is issued while this one is in flight
			_, _ = f.store.NextToken(ctx, "b1", workspace.KindStrategy)
		}).
		Return(validStrategy(), nil)

	res, err := f.svc.GenerateStrategy(ctx, "b1", nil)
	require.NoError(t, err)

	assert.True(t, res.Stale)
	assert.Empty(t, res.RecordID)
	snap, err := f.store.Get(ctx, "b1")
	require.NoError(t, err)
	assert.Nil(t, snap.Strategy)
	assert.Empty(t, f.hub.events)
	f.strategies.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGenerateStrategy_SaveFailureIsReported(t *testing.T) {
	f := newFixture(false)
	f.businesses.On("FindByID", mock.Anything, "b1").Return(sampleBusiness(), nil)
	f.strategies.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	res, err := f.svc.GenerateStrategy(context.Background(), "b1", nil)
	require.NoError(t, err)
	assert.Contains(t, res.SaveError, "disk full")
	assert.Empty(t, res.RecordID)
}

func TestGenerateStrategy_DegradedStoreUsesWorkspaceProfile(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	f.businesses.On("FindByID", mock.Anything, mock.Anything).Return(nil, xerrors.ErrStoreUnavailable)
	f.strategies.On("Create", mock.Anything, mock.Anything).Return(xerrors.ErrStoreUnavailable)

	_, err := f.svc.GenerateStrategy(ctx, "missing", nil)
	assert.ErrorIs(t, err, xerrors.ErrNotFound)

	require.NoError(t, f.store.SaveProfile(ctx, "b1", sampleBusiness().Profile))
	res, err := f.svc.GenerateStrategy(ctx, "b1", nil)
	require.NoError(t, err)
	assert.Empty(t, res.SaveError, "a disabled store is not reported as a save failure")
	assert.Equal(t, strategy.SourceLocal, res.Source)
}

func TestGenerateStrategy_OverrideProfile(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	f.strategies.On("Create", mock.Anything, mock.Anything).Return(nil)

	p := sampleBusiness().Profile
	p.PrimaryObjective = business.ObjectiveReviews
	res, err := f.svc.GenerateStrategy(ctx, "b1", &p)
	require.NoError(t, err)

	assert.Equal(t, templates.SelectStrategyTemplate(p.Normalize()), res.Strategy)
	f.businesses.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)

	snap, err := f.store.Get(ctx, "b1")
	require.NoError(t, err)
	require.NotNil(t, snap.Profile)
	assert.Equal(t, business.ObjectiveReviews, snap.Profile.PrimaryObjective)
}

func TestGenerateStrategy_BusinessNotFound(t *testing.T) {
	f := newFixture(false)
	f.businesses.On("FindByID", mock.Anything, "nope").Return(nil, xerrors.ErrNotFound)

	_, err := f.svc.GenerateStrategy(context.Background(), "nope", nil)
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestGenerateMarketingPlan_StoredWithCurrentStrategy(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	f.businesses.On("FindByID", mock.Anything, "b1").Return(sampleBusiness(), nil)
	f.strategies.On("Create", mock.Anything, mock.MatchedBy(func(r *strategy.Record) bool {
		return r.MarketingPlan == nil
	})).Return(nil).Once()
	f.strategies.On("Create", mock.Anything, mock.MatchedBy(func(r *strategy.Record) bool {
		return r.MarketingPlan != nil && r.Strategy.Analysis != ""
	})).Return(nil).Once()

	_, err := f.svc.GenerateStrategy(ctx, "b1", nil)
	require.NoError(t, err)

	res, err := f.svc.GenerateMarketingPlan(ctx, "b1", nil)
	require.NoError(t, err)
	assert.Equal(t, strategy.SourceLocal, res.Source)
	assert.NotEmpty(t, res.RecordID)
	assert.NotEmpty(t, res.Plan.Organic.Posts)

	snap, err := f.store.Get(ctx, "b1")
	require.NoError(t, err)
	require.NotNil(t, snap.Plan)
	assert.Equal(t, res.Token, snap.PlanToken)
	f.strategies.AssertExpectations(t)
}

func TestGenerateMarketingPlan_WithoutStrategyIsNotPersisted(t *testing.T) {
	f := newFixture(false)
	f.businesses.On("FindByID", mock.Anything, "b1").Return(sampleBusiness(), nil)

	res, err := f.svc.GenerateMarketingPlan(context.Background(), "b1", nil)
	require.NoError(t, err)
	assert.Empty(t, res.RecordID)
	f.strategies.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPreview_IsDeterministic(t *testing.T) {
	f := newFixture(false)
	p := sampleBusiness().Profile

	a := f.svc.Preview(p)
	b := f.svc.Preview(p)
	assert.Equal(t, a, b)
	require.NotEmpty(t, a.Strategy.Games)
	assert.Len(t, a.Strategy.Games[0].Prizes, strategy.PrizesPerGame)
}
