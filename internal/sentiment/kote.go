package sentiment

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelineBackends"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/yunseo-dev/disasterscope/internal/utils"
)

const (
	// BATCH_SIZE bounds how many texts are pushed through the model per
	// chunk. Purely a memory/throughput knob; results are per-text.
	BATCH_SIZE = 32

	KOTE_MODEL_REPO = "searle-j/kote_for_easygoing_people"
	KOTE_MODEL_DIR  = "./models/kote"
)

var (
	classifierInstance *Classifier
	classifierOnce     sync.Once
)

// LabelScore is one emotion label with its sigmoid probability. Scores are
// independent per label and do not sum to 1.
type LabelScore struct {
	Label string
	Score float64
}

// Model scores a batch of texts across the full emotion taxonomy, one score
// vector per input, same order.
type Model interface {
	ScoreBatch(texts []string) ([][]LabelScore, error)
}

// Classifier applies a decision threshold on top of a multi-label Model.
// A nil model is a legal degraded state: every text gets an empty label list.
type Classifier struct {
	model Model
	mu    sync.Mutex
}

func NewClassifier(model Model) *Classifier {
	return &Classifier{model: model}
}

// Ready reports whether a model is loaded behind this classifier.
func (c *Classifier) Ready() bool {
	return c != nil && c.model != nil
}

// ClassifyBatch returns one label list per input text, same length and order
// as texts. A label is selected when its probability strictly exceeds
// threshold; no label above threshold yields an empty list. Blank texts skip
// inference, and a per-text inference error degrades that text to an empty
// list without aborting the rest of the batch.
func (c *Classifier) ClassifyBatch(texts []string, threshold float64) [][]string {
	results := make([][]string, 0, len(texts))

	if !c.Ready() || len(texts) == 0 {
		for range texts {
			results = append(results, []string{})
		}
		return results
	}

	for _, chunk := range utils.Chunks(texts, BATCH_SIZE) {
		results = append(results, c.classifyChunk(chunk, threshold)...)
	}
	return results
}

// classifyChunk runs one model invocation for the chunk's non-blank texts.
// If the batched call fails, every text is retried alone so a single bad
// input degrades only its own row.
func (c *Classifier) classifyChunk(chunk []string, threshold float64) [][]string {
	out := make([][]string, len(chunk))

	var batch []string
	var positions []int
	for i, text := range chunk {
		if strings.TrimSpace(text) == "" {
			out[i] = []string{}
			continue
		}
		batch = append(batch, text)
		positions = append(positions, i)
	}
	if len(batch) == 0 {
		return out
	}

	c.mu.Lock()
	scores, err := c.model.ScoreBatch(batch)
	c.mu.Unlock()

	if err != nil || len(scores) != len(batch) {
		slog.Warn("[KOTEClassifier] Batched inference failed, retrying texts individually",
			slog.Int("batch_size", len(batch)))
		for j, i := range positions {
			c.mu.Lock()
			single, err := c.model.ScoreBatch(batch[j : j+1])
			c.mu.Unlock()
			if err != nil || len(single) != 1 {
				slog.Warn("[KOTEClassifier] Inference failed for text, skipping",
					slog.Int("position", i))
				out[i] = []string{}
				continue
			}
			out[i] = selectLabels(single[0], threshold)
		}
		return out
	}

	for j, i := range positions {
		out[i] = selectLabels(scores[j], threshold)
	}
	return out
}

func selectLabels(scores []LabelScore, threshold float64) []string {
	labels := []string{}
	for _, score := range scores {
		if score.Score > threshold {
			labels = append(labels, score.Label)
		}
	}
	return labels
}

// kotePipeline adapts a hugot text-classification pipeline to Model.
type kotePipeline struct {
	pipeline *pipelines.TextClassificationPipeline
}

func (k *kotePipeline) ScoreBatch(texts []string) ([][]LabelScore, error) {
	output, err := k.pipeline.RunPipeline(texts)
	if err != nil {
		return nil, err
	}
	if len(output.ClassificationOutputs) != len(texts) {
		return nil, fmt.Errorf("pipeline returned %d outputs for %d texts",
			len(output.ClassificationOutputs), len(texts))
	}

	scores := make([][]LabelScore, 0, len(texts))
	for _, raw := range output.ClassificationOutputs {
		perText := make([]LabelScore, 0, len(raw))
		for _, entry := range raw {
			perText = append(perText, LabelScore{Label: entry.Label, Score: float64(entry.Score)})
		}
		scores = append(scores, perText)
	}
	return scores, nil
}

// GetClassifier lazily loads the KOTE model and returns the process-wide
// classifier. A failed load is fatal to sentiment labeling only: the
// returned classifier stays usable and labels everything empty.
func GetClassifier() *Classifier {
	classifierOnce.Do(func() {
		model, err := loadKOTEModel()
		if err != nil {
			slog.Error("[KOTEClassifier] Model unavailable, emotion labeling disabled",
				slog.String("error", err.Error()))
			classifierInstance = NewClassifier(nil)
			return
		}
		classifierInstance = NewClassifier(model)
	})
	return classifierInstance
}

func loadKOTEModel() (Model, error) {
	modelDir := os.Getenv("KOTE_MODEL_DIR")
	if modelDir == "" {
		modelDir = KOTE_MODEL_DIR
	}
	modelRepo := os.Getenv("KOTE_MODEL_REPO")
	if modelRepo == "" {
		modelRepo = KOTE_MODEL_REPO
	}

	if err := os.MkdirAll(modelDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create model directory: %w", err)
	}

	modelPath := filepath.Join(modelDir, filepath.Base(modelRepo))
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		slog.Info("[KOTEClassifier] Model not found, downloading...",
			slog.String("repo", modelRepo))
		downloaded, err := hugot.DownloadModel(modelRepo, modelDir, hugot.NewDownloadOptions())
		if err != nil {
			return nil, fmt.Errorf("failed to download KOTE model: %w", err)
		}
		modelPath = downloaded
		slog.Info("[KOTEClassifier] Model downloaded successfully",
			slog.String("path", modelPath))
	} else {
		slog.Info("[KOTEClassifier] Using existing model",
			slog.String("path", modelPath))
	}

	session, err := hugot.NewORTSession()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Hugot session: %w", err)
	}

	config := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      "koteEmotionPipeline",
		Options: []pipelineBackends.PipelineOption[*pipelines.TextClassificationPipeline]{
			pipelines.WithMultiLabel(),
		},
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize KOTE pipeline: %w", err)
	}

	return &kotePipeline{pipeline: pipeline}, nil
}
