// Package api exposes the collection and analysis pipeline over HTTP.
// Upstream failures are collapsed at this boundary into empty or partial
// payloads with a human-readable message; clients never see raw API errors.
package api

import (
	"context"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/yunseo-dev/disasterscope/internal/models"
)

// Searcher finds candidate videos for a query.
type Searcher interface {
	SearchVideos(ctx context.Context, query, order string, maxResults int64) ([]models.CandidateVideo, error)
}

// Analyzer runs one full collection-and-labeling pass over a selection.
type Analyzer interface {
	Run(ctx context.Context, selection *models.SelectionSet, opts models.AnalysisOptions) (*models.AnalysisResult, error)
}

// Archiver persists finished runs and serves them back by id. May be absent.
type Archiver interface {
	StoreRun(ctx context.Context, dataset *models.AnalysisDataset) error
	GetRunRows(ctx context.Context, runID string) ([]models.LabeledComment, error)
}

// Server holds the pipeline pieces plus the latest dataset. Each analysis
// run fully replaces the previous dataset.
type Server struct {
	searcher Searcher
	analyzer Analyzer
	archive  Archiver
	validate *validator.Validate

	mu      sync.RWMutex
	dataset *models.AnalysisDataset
}

func NewServer(searcher Searcher, analyzer Analyzer, archive Archiver) *Server {
	return &Server{
		searcher: searcher,
		analyzer: analyzer,
		archive:  archive,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (s *Server) setDataset(dataset *models.AnalysisDataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dataset = dataset
}

func (s *Server) latestDataset() *models.AnalysisDataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}
