package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"tutorlink/internal/domain"
	"tutorlink/internal/listing"
	"tutorlink/internal/security"
)

// TutorView es un listing con su rating ya calculado.
type TutorView struct {
	domain.Tutor
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int     `json:"reviewCount"`
}

func newTutorView(t domain.Tutor) TutorView {
	return TutorView{Tutor: t, AverageRating: t.AverageRating(), ReviewCount: t.ReviewCount()}
}

// BrowseResult es la vista filtrada. Facets y Total se calculan sobre la colección completa.
type BrowseResult struct {
	Tutors  []TutorView    `json:"tutors"`
	Facets  listing.Facets `json:"facets"`
	Total   int            `json:"total"`
	Matched int            `json:"matched"`
}

type BrowseService struct {
	logger    *zap.Logger
	backend   TutorBackend
	sanitizer *security.Sanitizer
}

func NewBrowseService(logger *zap.Logger, backend TutorBackend, sanitizer *security.Sanitizer) *BrowseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sanitizer == nil {
		sanitizer = security.NewSanitizer()
	}
	return &BrowseService{logger: logger, backend: backend, sanitizer: sanitizer}
}

// Browse trae el catálogo completo y aplica los criterios del lado cliente.
func (s *BrowseService) Browse(ctx context.Context, criteria listing.Criteria) (*BrowseResult, error) {
	all, err := s.backend.ListTutors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tutors: %w", err)
	}
	all = s.sanitizer.Tutors(all)

	filtered := listing.Filter(all, criteria)
	views := make([]TutorView, 0, len(filtered))
	for _, t := range filtered {
		views = append(views, newTutorView(t))
	}

	s.logger.Debug("browse",
		zap.String("search", criteria.SearchTerm),
		zap.String("subject", criteria.Subject),
		zap.String("location", criteria.Location),
		zap.Int("total", len(all)),
		zap.Int("matched", len(views)),
	)
	return &BrowseResult{
		Tutors:  views,
		Facets:  listing.BuildFacets(all),
		Total:   len(all),
		Matched: len(views),
	}, nil
}

func (s *BrowseService) Tutor(ctx context.Context, id string) (*TutorView, error) {
	t, err := s.backend.GetTutor(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get tutor %s: %w", id, err)
	}
	view := newTutorView(s.sanitizer.Tutor(*t))
	return &view, nil
}
