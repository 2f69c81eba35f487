package sentiment

import (
	"errors"
	"reflect"
	"testing"
)

// fakeModel returns canned scores per text and fails any batch containing a
// poisoned text, mimicking how one bad input sinks a whole model invocation.
type fakeModel struct {
	scores     map[string][]LabelScore
	failOn     map[string]bool
	calls      int
	batchSizes []int
}

func (f *fakeModel) ScoreBatch(texts []string) ([][]LabelScore, error) {
	f.calls++
	f.batchSizes = append(f.batchSizes, len(texts))

	out := make([][]LabelScore, 0, len(texts))
	for _, text := range texts {
		if f.failOn[text] {
			return nil, errors.New("inference failed")
		}
		out = append(out, f.scores[text])
	}
	return out, nil
}

func TestClassifyBatch(t *testing.T) {
	t.Run("StrictThreshold", func(t *testing.T) {
		model := &fakeModel{scores: map[string][]LabelScore{
			"첫번째": {
				{Label: "기쁨", Score: 0.5},
				{Label: "슬픔", Score: 0.3},
				{Label: "불안", Score: 0.9},
			},
		}}
		classifier := NewClassifier(model)

		got := classifier.ClassifyBatch([]string{"첫번째"}, 0.4)
		want := [][]string{{"기쁨", "불안"}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("ClassifyBatch mismatch: got %v, want %v", got, want)
		}
	})

	t.Run("ScoreEqualToThresholdIsExcluded", func(t *testing.T) {
		model := &fakeModel{scores: map[string][]LabelScore{
			"경계값": {{Label: "분노", Score: 0.4}},
		}}
		classifier := NewClassifier(model)

		got := classifier.ClassifyBatch([]string{"경계값"}, 0.4)
		if len(got[0]) != 0 {
			t.Errorf("score equal to threshold selected label %v, want none", got[0])
		}
	})

	t.Run("OutputMatchesInputLengthAndOrder", func(t *testing.T) {
		model := &fakeModel{scores: map[string][]LabelScore{
			"하나": {{Label: "기쁨", Score: 0.8}},
			"둘":  {{Label: "슬픔", Score: 0.8}},
			"셋":  {{Label: "불안", Score: 0.8}},
		}}
		classifier := NewClassifier(model)

		got := classifier.ClassifyBatch([]string{"하나", "둘", "셋"}, 0.4)
		want := [][]string{{"기쁨"}, {"슬픔"}, {"불안"}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("order mismatch: got %v, want %v", got, want)
		}
	})

	t.Run("HigherThresholdSelectsSubset", func(t *testing.T) {
		model := &fakeModel{scores: map[string][]LabelScore{
			"본문": {
				{Label: "기쁨", Score: 0.45},
				{Label: "불안", Score: 0.7},
				{Label: "슬픔", Score: 0.95},
			},
		}}
		classifier := NewClassifier(model)

		loose := classifier.ClassifyBatch([]string{"본문"}, 0.4)[0]
		strict := classifier.ClassifyBatch([]string{"본문"}, 0.6)[0]

		looseSet := make(map[string]bool, len(loose))
		for _, label := range loose {
			looseSet[label] = true
		}
		for _, label := range strict {
			if !looseSet[label] {
				t.Errorf("label %q selected at 0.6 but not at 0.4", label)
			}
		}
		if len(strict) >= len(loose) {
			t.Errorf("expected fewer labels at stricter threshold: got %d vs %d", len(strict), len(loose))
		}
	})

	t.Run("PerTextErrorDegradesToEmptyList", func(t *testing.T) {
		model := &fakeModel{
			scores: map[string][]LabelScore{
				"정상": {{Label: "기쁨", Score: 0.9}},
			},
			failOn: map[string]bool{"고장": true},
		}
		classifier := NewClassifier(model)

		got := classifier.ClassifyBatch([]string{"정상", "고장", "정상"}, 0.4)
		want := [][]string{{"기쁨"}, {}, {"기쁨"}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("error isolation mismatch: got %v, want %v", got, want)
		}
		// one failed batched call, then one single-text retry per input
		if !reflect.DeepEqual(model.batchSizes, []int{3, 1, 1, 1}) {
			t.Errorf("call sizes = %v, want [3 1 1 1]", model.batchSizes)
		}
	})

	t.Run("BlankTextsSkipInference", func(t *testing.T) {
		model := &fakeModel{scores: map[string][]LabelScore{}}
		classifier := NewClassifier(model)

		got := classifier.ClassifyBatch([]string{"", "   "}, 0.4)
		want := [][]string{{}, {}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("blank handling mismatch: got %v, want %v", got, want)
		}
		if model.calls != 0 {
			t.Errorf("blank texts hit the model %d times, want 0", model.calls)
		}
	})

	t.Run("NilModelLabelsEverythingEmpty", func(t *testing.T) {
		classifier := NewClassifier(nil)

		got := classifier.ClassifyBatch([]string{"아무거나", "댓글"}, 0.4)
		want := [][]string{{}, {}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("nil model mismatch: got %v, want %v", got, want)
		}
		if classifier.Ready() {
			t.Error("Ready() = true for nil model, want false")
		}
	})

	t.Run("EmptyBatch", func(t *testing.T) {
		classifier := NewClassifier(&fakeModel{})
		got := classifier.ClassifyBatch(nil, 0.4)
		if len(got) != 0 {
			t.Errorf("ClassifyBatch(nil) = %v, want empty", got)
		}
	})

	t.Run("BatchLargerThanChunkSize", func(t *testing.T) {
		model := &fakeModel{scores: map[string][]LabelScore{
			"댓글": {{Label: "기쁨", Score: 0.9}},
		}}
		classifier := NewClassifier(model)

		texts := make([]string, BATCH_SIZE+5)
		for i := range texts {
			texts[i] = "댓글"
		}
		got := classifier.ClassifyBatch(texts, 0.4)
		if len(got) != len(texts) {
			t.Fatalf("output length %d, want %d", len(got), len(texts))
		}
		for i, labels := range got {
			if !reflect.DeepEqual(labels, []string{"기쁨"}) {
				t.Fatalf("row %d mismatch: got %v", i, labels)
			}
		}
		// real chunking: one full batch, then the remainder
		if !reflect.DeepEqual(model.batchSizes, []int{BATCH_SIZE, 5}) {
			t.Errorf("call sizes = %v, want [%d 5]", model.batchSizes, BATCH_SIZE)
		}
	})

	t.Run("ChunkSendsOneBatchedCall", func(t *testing.T) {
		model := &fakeModel{scores: map[string][]LabelScore{
			"하나": {{Label: "기쁨", Score: 0.9}},
			"둘":  {{Label: "슬픔", Score: 0.9}},
		}}
		classifier := NewClassifier(model)

		classifier.ClassifyBatch([]string{"하나", "", "둘"}, 0.4)
		// blanks are excluded before the model sees the chunk
		if !reflect.DeepEqual(model.batchSizes, []int{2}) {
			t.Errorf("call sizes = %v, want a single 2-text batch", model.batchSizes)
		}
	})
}
