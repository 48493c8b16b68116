// internal/service/business/business.go
package business

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"omnia-service/internal/domain/business"
	"omnia-service/internal/domain/strategy"
	wstypes "omnia-service/internal/domain/websocket"
	xerrors "omnia-service/internal/pkg/errors"
	"omnia-service/internal/workspace"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BusinessRepository interface {
	Upsert(ctx context.Context, b *business.Business) error
	FindByID(ctx context.Context, id string) (*business.Business, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters *business.BusinessListFilters) ([]*business.Business, int64, error)
}

type StrategyRepository interface {
	Create(ctx context.Context, rec *strategy.Record) error
	LatestByBusiness(ctx context.Context, businessID string) (*strategy.Record, error)
}

type Broadcaster interface {
	BroadcastToBusiness(businessID string, eventType wstypes.EventType, data interface{})
}

type BusinessService struct {
	businesses BusinessRepository
	strategies StrategyRepository
	store      workspace.Store
	hub        Broadcaster
	logger     *zap.Logger
}

func NewBusinessService(
	businesses BusinessRepository,
	strategies StrategyRepository,
	store workspace.Store,
	hub Broadcaster,
	logger *zap.Logger,
) *BusinessService {
	return &BusinessService{
		businesses: businesses,
		strategies: strategies,
		store:      store,
		hub:        hub,
		logger:     logger,
	}
}

// ========== Profiles ==========

// Upsert stores a profile in either snapshot shape, keyed by business
// name. The second return reports whether a legacy shape was migrated.
func (s *BusinessService) Upsert(ctx context.Context, raw json.RawMessage) (*business.Business, bool, error) {
	p, legacy, err := business.DecodeProfile(raw)
	if err != nil {
		return nil, false, xerrors.Wrap(xerrors.ErrInvalidInput, err.Error())
	}
	b, err := s.save(ctx, p)
	return b, legacy, err
}

// UpsertLegacy always treats the payload as the flat legacy shape.
func (s *BusinessService) UpsertLegacy(ctx context.Context, raw json.RawMessage) (*business.Business, error) {
	var l business.LegacyProfile
	if err := json.Unmarshal(raw, &l); err != nil {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, fmt.Sprintf("failed to decode legacy profile: %v", err))
	}
	return s.save(ctx, business.MigrateLegacy(l))
}

// SaveProfile replaces the profile of an existing business. The name
// is kept so the upsert hits the same row.
func (s *BusinessService) SaveProfile(ctx context.Context, id string, p business.Profile) (*business.Business, error) {
	existing, err := s.businesses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name = existing.Name
	return s.save(ctx, p)
}

func (s *BusinessService) save(ctx context.Context, p business.Profile) (*business.Business, error) {
	p = p.Normalize()
	if p.Name == "" {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "business name is required")
	}

	b := &business.Business{
		ID:                  uuid.NewString(),
		Name:                p.Name,
		City:                p.City,
		Type:                p.Type,
		ForbiddenDays:       p.Constraints.ForbiddenDays,
		BlacklistedProducts: p.Constraints.BlacklistedProducts,
		Profile:             p,
	}
	if err := s.businesses.Upsert(ctx, b); err != nil {
		s.logger.Error("failed to save business", zap.Error(err), zap.String("name", p.Name))
		return nil, err
	}

	if err := s.store.SaveProfile(ctx, b.ID, p); err != nil {
		s.logger.Warn("failed to refresh workspace profile", zap.Error(err), zap.String("business_id", b.ID))
	}
	s.broadcast(b.ID, wstypes.EventTypeBusinessUpdated, b)

	s.logger.Info("business saved", zap.String("business_id", b.ID), zap.String("name", b.Name))
	return b, nil
}

func (s *BusinessService) Get(ctx context.Context, id string) (*business.BusinessDetail, error) {
	b, err := s.businesses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &business.BusinessDetail{Business: b}
	rec, err := s.strategies.LatestByBusiness(ctx, id)
	switch {
	case err == nil:
		detail.LatestStrategy = rec
	case errors.Is(err, xerrors.ErrNotFound):
	default:
		s.logger.Error("failed to load latest strategy", zap.Error(err), zap.String("business_id", id))
		return nil, err
	}
	return detail, nil
}

func (s *BusinessService) List(ctx context.Context, filters *business.BusinessListFilters) (*business.BusinessListResponse, error) {
	items, total, err := s.businesses.List(ctx, filters)
	if err != nil {
		s.logger.Error("failed to list businesses", zap.Error(err))
		return nil, err
	}

	return &business.BusinessListResponse{
		Businesses: items,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: totalPages(total, filters.PageSize),
	}, nil
}

func (s *BusinessService) Delete(ctx context.Context, id string) error {
	if err := s.businesses.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		s.logger.Warn("failed to clear workspace", zap.Error(err), zap.String("business_id", id))
	}
	s.broadcast(id, wstypes.EventTypeBusinessDeleted, map[string]string{"business_id": id})

	s.logger.Info("business deleted", zap.String("business_id", id))
	return nil
}

// ========== Strategies ==========

// SaveStrategy stores a caller-supplied strategy against the business.
func (s *BusinessService) SaveStrategy(ctx context.Context, id string, req *strategy.SaveStrategyRequest) (*strategy.Record, error) {
	b, err := s.businesses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	gs := req.Strategy.Normalize()
	if err := gs.Validate(); err != nil {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, err.Error())
	}

	source := req.Source
	if source != strategy.SourceRemote {
		source = strategy.SourceLocal
	}

	rec := &strategy.Record{
		ID:            uuid.NewString(),
		BusinessID:    b.ID,
		BusinessName:  b.Name,
		BusinessType:  string(b.Type),
		Source:        source,
		Strategy:      gs,
		MarketingPlan: req.MarketingPlan,
	}
	if err := s.strategies.Create(ctx, rec); err != nil {
		s.logger.Error("failed to save strategy", zap.Error(err), zap.String("business_id", id))
		return nil, err
	}

	s.logger.Info("strategy saved", zap.String("business_id", id), zap.String("strategy_id", rec.ID))
	return rec, nil
}

func (s *BusinessService) broadcast(id string, event wstypes.EventType, data interface{}) {
	if s.hub != nil {
		s.hub.BroadcastToBusiness(id, event, data)
	}
}

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
