// internal/service/generation/generation.go
package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"omnia-service/internal/ai"
	"omnia-service/internal/domain/business"
	"omnia-service/internal/domain/strategy"
	wstypes "omnia-service/internal/domain/websocket"
	xerrors "omnia-service/internal/pkg/errors"
	"omnia-service/internal/templates"
	"omnia-service/internal/workspace"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const fallbackNotice = "remote generation unavailable, using local template"

type BusinessRepository interface {
	FindByID(ctx context.Context, id string) (*business.Business, error)
}

type StrategyRepository interface {
	Create(ctx context.Context, rec *strategy.Record) error
}

type Broadcaster interface {
	BroadcastToBusiness(businessID string, eventType wstypes.EventType, data interface{})
}

type StrategyResult struct {
	BusinessID string                     `json:"business_id"`
	Token      uint64                     `json:"token"`
	Source     strategy.Source            `json:"source"`
	Stale      bool                       `json:"stale"`
	Strategy   strategy.GeneratedStrategy `json:"strategy"`
	RecordID   string                     `json:"record_id,omitempty"`
	Notice     string                     `json:"notice,omitempty"`
	SaveError  string                     `json:"save_error,omitempty"`
}

type PlanResult struct {
	BusinessID string                 `json:"business_id"`
	Token      uint64                 `json:"token"`
	Source     strategy.Source        `json:"source"`
	Stale      bool                   `json:"stale"`
	Plan       strategy.MarketingPlan `json:"marketing_plan"`
	RecordID   string                 `json:"record_id,omitempty"`
	Notice     string                 `json:"notice,omitempty"`
	SaveError  string                 `json:"save_error,omitempty"`
}

type GenerationService struct {
	businesses BusinessRepository
	strategies StrategyRepository
	store      workspace.Store
	remote     ai.Generator
	hub        Broadcaster
	timeout    time.Duration
	logger     *zap.Logger
}

// NewGenerationService wires the orchestrator. remote and hub may be nil.
func NewGenerationService(
	businesses BusinessRepository,
	strategies StrategyRepository,
	store workspace.Store,
	remote ai.Generator,
	hub Broadcaster,
	timeout time.Duration,
	logger *zap.Logger,
) *GenerationService {
	return &GenerationService{
		businesses: businesses,
		strategies: strategies,
		store:      store,
		remote:     remote,
		hub:        hub,
		timeout:    timeout,
		logger:     logger,
	}
}

// ========== Strategy ==========

// GenerateStrategy runs one remote attempt and falls back to the local
// template on any failure. The result is applied to the workspace only
// if no newer request was issued in the meantime.
func (s *GenerationService) GenerateStrategy(ctx context.Context, businessID string, override *business.Profile) (*StrategyResult, error) {
	p, name, err := s.resolveProfile(ctx, businessID, override)
	if err != nil {
		return nil, err
	}

	token, err := s.store.NextToken(ctx, businessID, workspace.KindStrategy)
	if err != nil {
		s.logger.Error("failed to issue generation token", zap.Error(err), zap.String("business_id", businessID))
		return nil, fmt.Errorf("failed to issue generation token: %w", err)
	}

	res := &StrategyResult{BusinessID: businessID, Token: token, Source: strategy.SourceRemote}
	gs, err := s.remoteStrategy(ctx, p)
	if err != nil {
		s.logger.Warn("remote strategy generation failed, using local template",
			zap.Error(err),
			zap.String("business_id", businessID),
		)
		gs = templates.SelectStrategyTemplate(p)
		res.Source = strategy.SourceLocal
		res.Notice = fallbackNotice
	}
	res.Strategy = gs

	applied, err := s.store.Apply(ctx, businessID, workspace.Result{
		Kind:     workspace.KindStrategy,
		Token:    token,
		Source:   res.Source,
		Strategy: &gs,
	})
	if err != nil {
		s.logger.Error("failed to apply strategy", zap.Error(err), zap.String("business_id", businessID))
		return nil, fmt.Errorf("failed to apply strategy: %w", err)
	}
	if !applied {
		res.Stale = true
		s.logger.Info("discarding superseded strategy",
			zap.String("business_id", businessID),
			zap.Uint64("token", token),
		)
		return res, nil
	}

	rec := &strategy.Record{
		ID:           uuid.NewString(),
		BusinessID:   businessID,
		BusinessName: name,
		BusinessType: string(p.Type),
		Source:       res.Source,
		Strategy:     gs,
	}
	s.persist(ctx, rec, &res.RecordID, &res.SaveError)

	s.broadcast(businessID, wstypes.EventTypeStrategyGenerated, token, res.Source, gs)

	s.logger.Info("strategy generated",
		zap.String("business_id", businessID),
		zap.String("source", string(res.Source)),
		zap.Uint64("token", token),
	)
	return res, nil
}

func (s *GenerationService) remoteStrategy(ctx context.Context, p business.Profile) (strategy.GeneratedStrategy, error) {
	if s.remote == nil {
		return strategy.GeneratedStrategy{}, xerrors.ErrRemoteUnavailable
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.remote.GenerateStrategy(ctx, p)
}

// ========== Marketing Plan ==========

func (s *GenerationService) GenerateMarketingPlan(ctx context.Context, businessID string, override *business.Profile) (*PlanResult, error) {
	p, name, err := s.resolveProfile(ctx, businessID, override)
	if err != nil {
		return nil, err
	}

	token, err := s.store.NextToken(ctx, businessID, workspace.KindPlan)
	if err != nil {
		s.logger.Error("failed to issue generation token", zap.Error(err), zap.String("business_id", businessID))
		return nil, fmt.Errorf("failed to issue generation token: %w", err)
	}

	res := &PlanResult{BusinessID: businessID, Token: token, Source: strategy.SourceRemote}
	plan, err := s.remotePlan(ctx, p)
	if err != nil {
		s.logger.Warn("remote marketing plan generation failed, using local template",
			zap.Error(err),
			zap.String("business_id", businessID),
		)
		plan = templates.SelectMarketingTemplate(p)
		res.Source = strategy.SourceLocal
		res.Notice = fallbackNotice
	}
	res.Plan = plan

	applied, err := s.store.Apply(ctx, businessID, workspace.Result{
		Kind:   workspace.KindPlan,
		Token:  token,
		Source: res.Source,
		Plan:   &plan,
	})
	if err != nil {
		s.logger.Error("failed to apply marketing plan", zap.Error(err), zap.String("business_id", businessID))
		return nil, fmt.Errorf("failed to apply marketing plan: %w", err)
	}
	if !applied {
		res.Stale = true
		return res, nil
	}

	// A plan is stored alongside the strategy it was generated with.
	snap, err := s.store.Get(ctx, businessID)
	if err == nil && snap.Strategy != nil {
		rec := &strategy.Record{
			ID:            uuid.NewString(),
			BusinessID:    businessID,
			BusinessName:  name,
			BusinessType:  string(p.Type),
			Source:        snap.StrategySource,
			Strategy:      *snap.Strategy,
			MarketingPlan: &plan,
		}
		s.persist(ctx, rec, &res.RecordID, &res.SaveError)
	}

	s.broadcast(businessID, wstypes.EventTypePlanGenerated, token, res.Source, plan)
	return res, nil
}

func (s *GenerationService) remotePlan(ctx context.Context, p business.Profile) (strategy.MarketingPlan, error) {
	if s.remote == nil {
		return strategy.MarketingPlan{}, xerrors.ErrRemoteUnavailable
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.remote.GenerateMarketingPlan(ctx, p)
}

// ========== Workspace ==========

func (s *GenerationService) Workspace(ctx context.Context, businessID string) (*workspace.Snapshot, error) {
	snap, err := s.store.Get(ctx, businessID)
	if err != nil {
		s.logger.Error("failed to load workspace", zap.Error(err), zap.String("business_id", businessID))
		return nil, fmt.Errorf("failed to load workspace: %w", err)
	}
	return snap, nil
}

// Preview runs the local templates only and touches no state.
func (s *GenerationService) Preview(p business.Profile) *strategy.PreviewResponse {
	p = p.Normalize()
	return &strategy.PreviewResponse{
		Strategy:      templates.SelectStrategyTemplate(p),
		MarketingPlan: templates.SelectMarketingTemplate(p),
	}
}

// ========== Helpers ==========

// resolveProfile prefers an explicit profile, then the stored business,
// then the workspace copy when persistence is off.
func (s *GenerationService) resolveProfile(ctx context.Context, businessID string, override *business.Profile) (business.Profile, string, error) {
	if override != nil {
		p := override.Normalize()
		if err := s.store.SaveProfile(ctx, businessID, p); err != nil {
			s.logger.Warn("failed to save profile to workspace", zap.Error(err), zap.String("business_id", businessID))
		}
		return p, p.Name, nil
	}

	b, err := s.businesses.FindByID(ctx, businessID)
	if err == nil {
		return b.Profile.Normalize(), b.Name, nil
	}
	if !errors.Is(err, xerrors.ErrStoreUnavailable) {
		return business.Profile{}, "", err
	}

	snap, serr := s.store.Get(ctx, businessID)
	if serr != nil {
		return business.Profile{}, "", fmt.Errorf("failed to load workspace: %w", serr)
	}
	if snap.Profile == nil {
		return business.Profile{}, "", xerrors.ErrNotFound
	}
	return snap.Profile.Normalize(), snap.Profile.Name, nil
}

// persist saves the record; failures are reported to the caller but do
// not undo the generation. A disabled store is not an error here.
func (s *GenerationService) persist(ctx context.Context, rec *strategy.Record, id, saveErr *string) {
	err := s.strategies.Create(ctx, rec)
	switch {
	case err == nil:
		*id = rec.ID
	case errors.Is(err, xerrors.ErrStoreUnavailable):
	default:
		s.logger.Error("failed to save strategy", zap.Error(err), zap.String("business_id", rec.BusinessID))
		*saveErr = err.Error()
	}
}

func (s *GenerationService) broadcast(businessID string, event wstypes.EventType, token uint64, source strategy.Source, payload interface{}) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToBusiness(businessID, event, wstypes.GenerationData{
		BusinessID: businessID,
		Token:      token,
		Source:     string(source),
		Payload:    payload,
	})
}

func (s *GenerationService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
