package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/yunseo-dev/disasterscope/internal/analysis"
	"github.com/yunseo-dev/disasterscope/internal/keywords"
	"github.com/yunseo-dev/disasterscope/internal/models"
	"github.com/yunseo-dev/disasterscope/internal/taxonomy"
)

type SearchRequest struct {
	Query      string `json:"query" validate:"required"`
	Order      string `json:"order" validate:"omitempty,oneof=relevance viewCount"`
	MaxResults int64  `json:"max_results" validate:"omitempty,min=1,max=50"`
}

type SearchResponse struct {
	Videos  []models.CandidateVideo `json:"videos"`
	Message string                  `json:"message,omitempty"`
}

type SelectedVideoInput struct {
	VideoID string `json:"video_id" validate:"required"`
	Title   string `json:"title"`
}

type AnalyzeRequest struct {
	Videos              []SelectedVideoInput `json:"videos" validate:"required,min=1,max=5,dive"`
	EmotionThreshold    float64              `json:"emotion_threshold" validate:"omitempty,min=0.1,max=0.9"`
	MaxCommentsPerVideo int64                `json:"max_comments_per_video" validate:"omitempty,min=50,max=500"`
}

type AnalyzeResponse struct {
	RunID    string   `json:"run_id,omitempty"`
	Rows     int      `json:"rows"`
	Warnings []string `json:"warnings,omitempty"`
	Message  string   `json:"message,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleSearch returns candidate videos for a disaster-related query.
// A query without a known disaster term, and any upstream search failure,
// both come back as 200 with an empty list and an explanatory message.
func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	if !keywords.ContainsDisasterTerm(req.Query) {
		writeJSON(w, http.StatusOK, SearchResponse{
			Videos:  []models.CandidateVideo{},
			Message: "검색어에 재난 관련 키워드가 없습니다. 지진, 홍수, 태풍 등 재난 키워드를 포함해 주세요.",
		})
		return
	}

	order := req.Order
	if order == "" {
		order = "relevance"
	}
	maxResults := req.MaxResults
	if maxResults == 0 {
		maxResults = models.DefaultMaxSearchResults
	}

	videos, err := s.searcher.SearchVideos(r.Context(), req.Query, order, maxResults)
	if err != nil {
		writeJSON(w, http.StatusOK, SearchResponse{
			Videos:  []models.CandidateVideo{},
			Message: "영상 검색에 실패했습니다. API 할당량을 확인한 뒤 다시 시도해 주세요.",
		})
		return
	}
	if videos == nil {
		videos = []models.CandidateVideo{}
	}

	writeJSON(w, http.StatusOK, SearchResponse{Videos: videos})
}

// HandleAnalyze runs one analysis pass over the submitted selection and
// replaces the served dataset with the result.
func (s *Server) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	selection := models.NewSelectionSet()
	for _, video := range req.Videos {
		if err := selection.Add(video.VideoID, video.Title); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
	}

	opts := models.AnalysisOptions{
		MaxCommentsPerVideo: req.MaxCommentsPerVideo,
		EmotionThreshold:    req.EmotionThreshold,
	}

	result, err := s.analyzer.Run(r.Context(), selection, opts)
	if err != nil {
		if errors.Is(err, analysis.ErrNoComments) {
			// a no-data run still replaces the previous dataset
			s.setDataset(nil)
			writeJSON(w, http.StatusOK, AnalyzeResponse{
				Rows:     0,
				Warnings: result.Warnings,
				Message:  "선택한 영상에서 수집된 댓글이 없습니다.",
			})
			return
		}
		slog.Error("[API] Analysis run failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "analysis run failed"})
		return
	}

	s.setDataset(result.Dataset)

	if s.archive != nil {
		if err := s.archive.StoreRun(r.Context(), result.Dataset); err != nil {
			slog.Warn("[API] Failed to archive run, continuing",
				slog.String("run_id", result.Dataset.RunID),
				slog.String("error", err.Error()))
		}
	}

	writeJSON(w, http.StatusOK, AnalyzeResponse{
		RunID:    result.Dataset.RunID,
		Rows:     len(result.Dataset.Rows),
		Warnings: result.Warnings,
	})
}

// HandleDataset serves the labeled dataset of the most recent run.
// ?exclude_no_emotion=true drops the "없음" class from sentiment labels so
// charts only show expressed emotions; the rows themselves are untouched.
func (s *Server) HandleDataset(w http.ResponseWriter, r *http.Request) {
	dataset := s.latestDataset()
	if dataset == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no analysis run has completed yet"})
		return
	}

	if r.URL.Query().Get("exclude_no_emotion") == "true" {
		filtered := *dataset
		filtered.Rows = make([]models.LabeledComment, len(dataset.Rows))
		for i, row := range dataset.Rows {
			labels := make([]string, 0, len(row.SentimentLabels))
			for _, label := range row.SentimentLabels {
				if label != taxonomy.NoEmotionLabel {
					labels = append(labels, label)
				}
			}
			row.SentimentLabels = labels
			filtered.Rows[i] = row
		}
		writeJSON(w, http.StatusOK, &filtered)
		return
	}

	writeJSON(w, http.StatusOK, dataset)
}

type LabelsResponse struct {
	DisasterCategories []string `json:"disaster_categories"`
	EmotionLabels      []string `json:"emotion_labels"`
	NoEmotionLabel     string   `json:"no_emotion_label"`
}

// HandleLabels publishes both taxonomies so clients can build filters
// without hardcoding the label sets.
func (s *Server) HandleLabels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LabelsResponse{
		DisasterCategories: keywords.DisasterCategories(),
		EmotionLabels:      taxonomy.KOTELabels,
		NoEmotionLabel:     taxonomy.NoEmotionLabel,
	})
}

type KeywordsResponse struct {
	RunID    string                  `json:"run_id"`
	Keywords []keywords.KeywordCount `json:"keywords"`
}

// HandleKeywords ranks the most frequent nouns across every comment of the
// latest run. ?k= bounds the list (default 20) and ?stopwords= adds
// comma-separated extra stopwords on top of the built-in set.
func (s *Server) HandleKeywords(w http.ResponseWriter, r *http.Request) {
	dataset := s.latestDataset()
	if dataset == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no analysis run has completed yet"})
		return
	}

	k := 20
	if raw := r.URL.Query().Get("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "k must be an integer between 1 and 100"})
			return
		}
		k = parsed
	}

	var custom []string
	if raw := r.URL.Query().Get("stopwords"); raw != "" {
		for _, word := range strings.Split(raw, ",") {
			if word = strings.TrimSpace(word); word != "" {
				custom = append(custom, word)
			}
		}
	}

	var builder strings.Builder
	for _, row := range dataset.Rows {
		builder.WriteString(row.Text)
		builder.WriteByte(' ')
	}

	writeJSON(w, http.StatusOK, KeywordsResponse{
		RunID:    dataset.RunID,
		Keywords: keywords.ExtractKeywords(builder.String(), k, custom),
	})
}

type ArchivedRunResponse struct {
	RunID string                  `json:"run_id"`
	Rows  []models.LabeledComment `json:"rows"`
}

// HandleArchivedRun serves a past run's rows from the DynamoDB archive,
// letting clients revisit results after the in-memory dataset was replaced.
func (s *Server) HandleArchivedRun(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "run archiving is not configured"})
		return
	}

	runID := chi.URLParam(r, "runID")
	rows, err := s.archive.GetRunRows(r.Context(), runID)
	if err != nil {
		slog.Error("[API] Archive lookup failed",
			slog.String("run_id", runID),
			slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "archive lookup failed"})
		return
	}
	if len(rows) == 0 {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no archived rows for run " + runID})
		return
	}

	writeJSON(w, http.StatusOK, ArchivedRunResponse{RunID: runID, Rows: rows})
}

func (s *Server) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error: "validation failed on field " + fieldErrs[0].Field(),
			})
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("[API] Failed to encode response", slog.String("error", err.Error()))
	}
}
