// internal/service/imports/imports.go
package imports

import (
	"context"
	"io"

	"omnia-service/internal/domain/business"
	"omnia-service/internal/pkg/csvimport"
	"omnia-service/internal/pkg/finance"

	"go.uber.org/zap"
)

type BusinessRepository interface {
	FindByID(ctx context.Context, id string) (*business.Business, error)
}

type ProfileSaver interface {
	SaveProfile(ctx context.Context, id string, p business.Profile) (*business.Business, error)
}

type MergeResult struct {
	*csvimport.Result
	Business *business.Business `json:"business"`
}

type ImportService struct {
	businesses BusinessRepository
	saver      ProfileSaver
	logger     *zap.Logger
}

func NewImportService(businesses BusinessRepository, saver ProfileSaver, logger *zap.Logger) *ImportService {
	return &ImportService{
		businesses: businesses,
		saver:      saver,
		logger:     logger,
	}
}

// Parse reads a CSV file without touching any stored profile. On
// ErrEmptyImport the partial result is still returned.
func (s *ImportService) Parse(kind string, r io.Reader) (*csvimport.Result, error) {
	k, err := csvimport.ParseKind(kind)
	if err != nil {
		return nil, err
	}
	res, err := csvimport.Parse(k, r)
	if err != nil {
		s.logger.Warn("csv import produced no rows", zap.String("kind", kind), zap.Error(err))
		return res, err
	}
	s.logger.Info("csv parsed",
		zap.String("kind", kind),
		zap.Int("imported", res.Imported),
		zap.Int("skipped", res.Skipped),
	)
	return res, nil
}

// Merge parses the file and replaces the matching list in the business
// profile.
func (s *ImportService) Merge(ctx context.Context, businessID, kind string, r io.Reader) (*MergeResult, error) {
	res, err := s.Parse(kind, r)
	if err != nil {
		if res != nil {
			return &MergeResult{Result: res}, err
		}
		return nil, err
	}

	b, err := s.businesses.FindByID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	p := b.Profile
	switch res.Kind {
	case csvimport.KindTickets:
		p.DailyTickets = res.Tickets
		if p.AverageTicket == 0 {
			p.AverageTicket = averageTicket(res.Tickets)
		}
	case csvimport.KindProducts:
		p.Products = res.Products
	case csvimport.KindPromotions:
		p.PromotionUsage = res.Promotions
	}

	updated, err := s.saver.SaveProfile(ctx, businessID, p)
	if err != nil {
		s.logger.Error("failed to save imported data", zap.Error(err), zap.String("business_id", businessID))
		return nil, err
	}
	return &MergeResult{Result: res, Business: updated}, nil
}

// Template returns the download name and content of the example file.
func (s *ImportService) Template(kind string) (string, []byte, error) {
	k, err := csvimport.ParseKind(kind)
	if err != nil {
		return "", nil, err
	}
	return csvimport.Template(k)
}

func averageTicket(tickets []business.Ticket) float64 {
	if len(tickets) == 0 {
		return 0
	}
	var sum float64
	for _, t := range tickets {
		sum += t.Total
	}
	return finance.Round2(sum / float64(len(tickets)))
}
