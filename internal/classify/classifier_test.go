package classify

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsRoundup/internal/domain"
	"NewsRoundup/internal/labels"
)

func testSet() labels.Set {
	return labels.NewSet([]labels.Label{
		{Name: "top_stories"},
		{Name: "politics"},
		{Name: "education"},
		{Name: "lastly"},
	}, "top_stories", "lastly")
}

func testTable() labels.Table {
	return labels.NewTable(map[string]string{
		"Top stories":           "top_stories",
		"Politics + government": "politics",
	}, "lastly")
}

// stubOracle returns canned results keyed by headline, or fails entirely.
type stubOracle struct {
	results   map[string]domain.ClassificationResult
	failBatch bool // fail calls with more than one story
	failAll   bool
	calls     []int // batch sizes seen
}

func (s *stubOracle) Classify(_ context.Context, batch []domain.Story) ([]domain.ClassificationResult, error) {
	s.calls = append(s.calls, len(batch))
	if s.failAll {
		return nil, fmt.Errorf("oracle unreachable")
	}
	if s.failBatch && len(batch) > 1 {
		return nil, fmt.Errorf("oracle returned unparseable text")
	}

	out := make([]domain.ClassificationResult, 0, len(batch))
	for _, story := range batch {
		result, ok := s.results[story.Headline]
		if !ok {
			return nil, fmt.Errorf("no canned result for %q", story.Headline)
		}
		out = append(out, result)
	}
	return out, nil
}

func TestClassifyAllBatchSuccess(t *testing.T) {
	t.Parallel()

	oracle := &stubOracle{results: map[string]domain.ClassificationResult{
		"Governor signs infrastructure budget": {Section: "politics", Confidence: 0.9},
		"New ramen shop opens in Montclair":    {Section: "lastly", Confidence: 0.8},
	}}
	classifier := New(oracle, testSet(), testTable(), nil, 10, nil)

	stories := classifier.ClassifyAll(context.Background(), []domain.Story{
		{Headline: "Governor signs infrastructure budget", URL: "https://example.com/1"},
		{Headline: "New ramen shop opens in Montclair", URL: "https://example.com/2"},
	})

	require.Len(t, stories, 2)
	assert.Equal(t, "politics", stories[0].Section)
	assert.Equal(t, "lastly", stories[1].Section)
	assert.Equal(t, []int{2}, oracle.calls, "one batch call, no fallback")
}

func TestClassifyAllFallsBackPerStory(t *testing.T) {
	t.Parallel()

	oracle := &stubOracle{
		failBatch: true,
		results: map[string]domain.ClassificationResult{
			"story one": {Section: "politics", Confidence: 0.7},
			"story two": {Section: "education", Confidence: 0.6},
		},
	}
	classifier := New(oracle, testSet(), testTable(), nil, 10, nil)

	stories := classifier.ClassifyAll(context.Background(), []domain.Story{
		{Headline: "story one", URL: "https://example.com/1"},
		{Headline: "story two", URL: "https://example.com/2"},
	})

	require.Len(t, stories, 2)
	assert.Equal(t, "politics", stories[0].Section)
	assert.Equal(t, "education", stories[1].Section)
	// One failed batch call, then one call per story.
	assert.Equal(t, []int{2, 1, 1}, oracle.calls)
}

func TestClassifyAllOracleDownDefaultsEverything(t *testing.T) {
	t.Parallel()

	oracle := &stubOracle{failAll: true}
	classifier := New(oracle, testSet(), testTable(), nil, 10, nil)

	stories := classifier.ClassifyAll(context.Background(), []domain.Story{
		{Headline: "story one", URL: "https://example.com/1"},
		{Headline: "story two", URL: "https://example.com/2"},
	})

	require.Len(t, stories, 2)
	for _, story := range stories {
		assert.Equal(t, "lastly", story.Section)
		assert.Less(t, story.Confidence, 0.5)
	}
}

func TestClassifyAllSingleBadStoryDoesNotAbortBatch(t *testing.T) {
	t.Parallel()

	// The batch call fails, then per-story calls succeed except for one
	// story with no canned result.
	oracle := &stubOracle{
		failBatch: true,
		results: map[string]domain.ClassificationResult{
			"good story": {Section: "politics", Confidence: 0.8},
		},
	}
	classifier := New(oracle, testSet(), testTable(), nil, 10, nil)

	stories := classifier.ClassifyAll(context.Background(), []domain.Story{
		{Headline: "good story", URL: "https://example.com/1"},
		{Headline: "bad story", URL: "https://example.com/2"},
	})

	require.Len(t, stories, 2)
	assert.Equal(t, "politics", stories[0].Section)
	assert.Equal(t, "lastly", stories[1].Section)
	assert.Less(t, stories[1].Confidence, 0.5)
}

func TestClassifyAllLabelOutsideEnumDefaults(t *testing.T) {
	t.Parallel()

	oracle := &stubOracle{results: map[string]domain.ClassificationResult{
		"odd story": {Section: "crypto", Confidence: 0.9},
	}}
	classifier := New(oracle, testSet(), testTable(), nil, 10, nil)

	stories := classifier.ClassifyAll(context.Background(), []domain.Story{
		{Headline: "odd story", URL: "https://example.com/1"},
	})

	require.Len(t, stories, 1)
	assert.Equal(t, "lastly", stories[0].Section)
	assert.Less(t, stories[0].Confidence, 0.5)
}

func TestClassifyAllPreLabeledBypassesOracle(t *testing.T) {
	t.Parallel()

	oracle := &stubOracle{failAll: true}
	classifier := New(oracle, testSet(), testTable(), nil, 10, nil)

	stories := classifier.ClassifyAll(context.Background(), []domain.Story{
		{Headline: "submitted story", URL: "https://example.com/1", Origin: domain.OriginSubmitted, PreAssigned: "Politics + government"},
		{Headline: "unmapped vocabulary", URL: "https://example.com/2", Origin: domain.OriginSubmitted, PreAssigned: "Opinion"},
	})

	require.Len(t, stories, 2)
	assert.Equal(t, "politics", stories[0].Section)
	assert.Equal(t, "lastly", stories[1].Section, "unmapped external label resolves to the default")
	assert.Empty(t, oracle.calls, "pre-labeled submissions never reach the oracle")
}

func TestPriorityFilterDemotesExcludedHeadlines(t *testing.T) {
	t.Parallel()

	exclusion := []string{"crash", "crime", "fire", "fatal"}
	oracle := &stubOracle{results: map[string]domain.ClassificationResult{
		"Fatal crash kills two on Route 1":     {Section: "top_stories", Confidence: 0.9},
		"Governor signs infrastructure budget": {Section: "top_stories", Confidence: 0.9},
	}}
	classifier := New(oracle, testSet(), testTable(), exclusion, 10, nil)

	stories := classifier.ClassifyAll(context.Background(), []domain.Story{
		{Headline: "Fatal crash kills two on Route 1", URL: "https://example.com/1"},
		{Headline: "Governor signs infrastructure budget", URL: "https://example.com/2"},
	})

	require.Len(t, stories, 2)
	assert.Equal(t, "lastly", stories[0].Section)
	assert.NotEmpty(t, stories[0].Reasoning, "the override reason must be recorded")
	assert.Equal(t, "top_stories", stories[1].Section)
}

func TestPriorityFilterNeverTouchesOtherSections(t *testing.T) {
	t.Parallel()

	exclusion := []string{"crash"}
	oracle := &stubOracle{results: map[string]domain.ClassificationResult{
		"Crash course in state budgeting": {Section: "politics", Confidence: 0.8},
	}}
	classifier := New(oracle, testSet(), testTable(), exclusion, 10, nil)

	stories := classifier.ClassifyAll(context.Background(), []domain.Story{
		{Headline: "Crash course in state budgeting", URL: "https://example.com/1"},
	})

	require.Len(t, stories, 1)
	assert.Equal(t, "politics", stories[0].Section)
}

func TestClassifyAllRespectsBatchSize(t *testing.T) {
	t.Parallel()

	results := map[string]domain.ClassificationResult{}
	var input []domain.Story
	for i := 0; i < 12; i++ {
		headline := fmt.Sprintf("story %d", i)
		results[headline] = domain.ClassificationResult{Section: "politics", Confidence: 0.6}
		input = append(input, domain.Story{Headline: headline, URL: fmt.Sprintf("https://example.com/%d", i)})
	}

	oracle := &stubOracle{results: results}
	classifier := New(oracle, testSet(), testTable(), nil, 5, nil)

	stories := classifier.ClassifyAll(context.Background(), input)

	require.Len(t, stories, 12)
	assert.Equal(t, []int{5, 5, 2}, oracle.calls)
}
