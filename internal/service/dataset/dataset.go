// internal/service/dataset/dataset.go
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"omnia-service/internal/domain/business"
	"omnia-service/internal/domain/dataset"
	"omnia-service/internal/domain/strategy"
	xerrors "omnia-service/internal/pkg/errors"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, e *dataset.Entry) error
	FindByID(ctx context.Context, id string) (*dataset.Entry, error)
	UpdateOutcome(ctx context.Context, id string, outcome *dataset.RealOutcome, class dataset.Classification) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters *dataset.ListFilters) ([]*dataset.Entry, int64, error)
	All(ctx context.Context) ([]*dataset.Entry, error)
}

type StrategyRepository interface {
	FindByID(ctx context.Context, id string) (*strategy.Record, error)
	LatestByBusiness(ctx context.Context, businessID string) (*strategy.Record, error)
}

type BusinessRepository interface {
	FindByID(ctx context.Context, id string) (*business.Business, error)
}

// Archiver uploads an export to long-term storage.
type Archiver interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) error
}

type DatasetService struct {
	repo       Repository
	strategies StrategyRepository
	businesses BusinessRepository
	archiver   Archiver
	logger     *zap.Logger
	now        func() time.Time
}

// NewDatasetService wires the service. archiver may be nil.
func NewDatasetService(
	repo Repository,
	strategies StrategyRepository,
	businesses BusinessRepository,
	archiver Archiver,
	logger *zap.Logger,
) *DatasetService {
	return &DatasetService{
		repo:       repo,
		strategies: strategies,
		businesses: businesses,
		archiver:   archiver,
		logger:     logger,
		now:        time.Now,
	}
}

// ========== Entries ==========

// Promote turns a stored strategy into a training example. Without a
// strategy id the business's latest strategy is used.
func (s *DatasetService) Promote(ctx context.Context, req *dataset.PromoteRequest) (*dataset.Entry, error) {
	b, err := s.businesses.FindByID(ctx, req.BusinessID)
	if err != nil {
		return nil, err
	}

	var rec *strategy.Record
	if req.StrategyID != "" {
		rec, err = s.strategies.FindByID(ctx, req.StrategyID)
	} else {
		rec, err = s.strategies.LatestByBusiness(ctx, req.BusinessID)
	}
	if err != nil {
		return nil, err
	}
	if rec.BusinessID != b.ID {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "strategy belongs to another business")
	}

	now := s.now().UTC()
	entry := dataset.NewEntry(ulid.Make().String(), now, b.ID, rec.ID, b.Profile, rec.Strategy)
	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error("failed to create dataset entry", zap.Error(err), zap.String("business_id", b.ID))
		return nil, err
	}

	s.logger.Info("dataset entry created",
		zap.String("entry_id", entry.ID),
		zap.String("business_id", b.ID),
		zap.String("strategy_id", rec.ID),
	)
	return entry, nil
}

func (s *DatasetService) List(ctx context.Context, filters *dataset.ListFilters) (*dataset.ListResponse, error) {
	entries, total, err := s.repo.List(ctx, filters)
	if err != nil {
		s.logger.Error("failed to list dataset entries", zap.Error(err))
		return nil, err
	}

	pages := 0
	if filters.PageSize > 0 {
		pages = int((total + int64(filters.PageSize) - 1) / int64(filters.PageSize))
	}
	return &dataset.ListResponse{
		Entries:    entries,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: pages,
	}, nil
}

// RecordOutcome attaches measured results. ROI is always computed here;
// the classification is derived unless the caller supplies one.
func (s *DatasetService) RecordOutcome(ctx context.Context, id string, req *dataset.RecordOutcomeRequest) (*dataset.Entry, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	recordedAt := s.now().UTC()
	if req.RecordedAt != nil {
		recordedAt = *req.RecordedAt
	}
	outcome := dataset.RealOutcome{
		RecordedAt:         recordedAt,
		TicketBefore:       req.TicketBefore,
		TicketAfter:        req.TicketAfter,
		TotalCustomers:     req.TotalCustomers,
		ReturningCustomers: req.ReturningCustomers,
		NewCustomers:       req.NewCustomers,
		TotalSales:         req.TotalSales,
		MarketingCost:      req.MarketingCost,
		Satisfaction:       req.Satisfaction,
	}.WithComputedROI()

	class := dataset.Classify(outcome)
	if req.Classification != nil {
		class = *req.Classification
	}

	if err := s.repo.UpdateOutcome(ctx, id, &outcome, class); err != nil {
		s.logger.Error("failed to record outcome", zap.Error(err), zap.String("entry_id", id))
		return nil, err
	}

	entry.Outcome = &outcome
	entry.Classification = class
	s.logger.Info("dataset outcome recorded",
		zap.String("entry_id", id),
		zap.Float64("roi", outcome.ROI),
		zap.String("classification", string(class)),
	)
	return entry, nil
}

func (s *DatasetService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("dataset entry deleted", zap.String("entry_id", id))
	return nil
}

// ========== Export / Archive ==========

// Export returns every entry, newest first, as indented JSON together
// with its dated filename.
func (s *DatasetService) Export(ctx context.Context) (string, []byte, error) {
	entries, err := s.repo.All(ctx)
	if err != nil {
		s.logger.Error("failed to load dataset for export", zap.Error(err))
		return "", nil, err
	}
	if entries == nil {
		entries = []*dataset.Entry{}
	}

	body, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode dataset: %w", err)
	}
	return dataset.ExportFilename(s.now()), body, nil
}

// Archive uploads the current export and returns its object key.
func (s *DatasetService) Archive(ctx context.Context) (string, error) {
	if s.archiver == nil {
		return "", xerrors.ErrArchiveUnavailable
	}

	name, body, err := s.Export(ctx)
	if err != nil {
		return "", err
	}

	key := "datasets/" + name
	if err := s.archiver.Upload(ctx, key, body, "application/json"); err != nil {
		s.logger.Error("failed to archive dataset", zap.Error(err), zap.String("key", key))
		return "", fmt.Errorf("failed to archive dataset: %w", err)
	}

	s.logger.Info("dataset archived", zap.String("key", key), zap.Int("bytes", len(body)))
	return key, nil
}
