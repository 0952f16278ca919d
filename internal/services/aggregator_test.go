package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/electionnews/internal/aliases"
	"github.com/ternarybob/electionnews/internal/models"
)

func newTestAliasIndex(t *testing.T) *aliases.Index {
	t.Helper()
	return aliases.BuildIndex(
		[]aliases.SourceEntries{{
			Name: "test",
			Rows: []aliases.Row{
				{Symbol: "EXM", Name: "Example Corp"},
				{Symbol: "ACME", Name: "Acme Holdings"},
			},
		}},
		aliases.BuildOptions{
			MinAliasLength:  4,
			GenericSuffixes: []string{"corp", "holdings", "inc"},
		},
		nil,
	)
}

// stubFetcher serves canned bodies keyed by link.
type stubFetcher struct {
	bodies map[string]string
}

func (s *stubFetcher) FetchBody(_ context.Context, link string) string {
	return s.bodies[link]
}

// stubClassifier labels by sentence keyword for deterministic tests.
type stubClassifier struct{}

func (stubClassifier) Classify(_ context.Context, _, sentence string) string {
	switch {
	case strings.Contains(sentence, "surge"):
		return SentimentPositive
	case strings.Contains(sentence, "slump"):
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

func TestAggregate_MentionsFromTitleSummaryBody(t *testing.T) {
	articles := []models.Article{
		{
			Candidate: "Jane Doe",
			Title:     "Jane Doe comments on Example Corp earnings",
			Summary:   "The candidate weighed in.",
			Link:      "https://example.com/1",
		},
		{
			Candidate: "Jane Doe",
			Title:     "Market wrap",
			Summary:   "A quiet day overall.",
			Link:      "https://example.com/2",
		},
		{
			// Candidate named only in the fetched body
			Candidate: "Jane Doe",
			Title:     "Acme Holdings expands",
			Summary:   "",
			Link:      "https://example.com/3",
		},
	}

	fetcher := &stubFetcher{bodies: map[string]string{
		"https://example.com/3": "Jane Doe toured the new Acme Holdings facility.",
	}}

	agg := NewAggregator(newTestAliasIndex(t), []string{"Jane Doe"}, fetcher, nil, 3, nil)
	records, err := agg.Aggregate(context.Background(), articles)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{"EXM"}, records[0].Tickers)
	assert.Equal(t, "https://example.com/1", records[0].Link)
	assert.Empty(t, records[0].Sentiment)

	assert.Equal(t, []string{"ACME"}, records[1].Tickers)
	assert.Equal(t, "https://example.com/3", records[1].Link)
}

func TestAggregate_OneArticleManyCandidates(t *testing.T) {
	articles := []models.Article{
		{
			Candidate: "Jane Doe",
			Title:     "Jane Doe and John Roe spar over Example Corp tax breaks",
			Link:      "https://example.com/1",
		},
	}

	agg := NewAggregator(newTestAliasIndex(t), []string{"Jane Doe", "John Roe"}, nil, nil, 3, nil)
	records, err := agg.Aggregate(context.Background(), articles)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Jane Doe", records[0].Candidate)
	assert.Equal(t, "John Roe", records[1].Candidate)
	assert.Equal(t, records[0].Link, records[1].Link)
}

func TestAggregate_CandidateNameRequired(t *testing.T) {
	articles := []models.Article{
		{
			// Ticker present but the candidate is never named in kept text
			Candidate: "Jane Doe",
			Title:     "Example Corp posts record quarter",
			Summary:   "Strong earnings across the board.",
			Link:      "https://example.com/1",
		},
	}

	agg := NewAggregator(newTestAliasIndex(t), []string{"Jane Doe"}, nil, nil, 3, nil)
	records, err := agg.Aggregate(context.Background(), articles)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAggregate_SentenceCapped(t *testing.T) {
	long := strings.Repeat("filler words here ", 100)
	articles := []models.Article{
		{
			Candidate: "Jane Doe",
			Title:     "Jane Doe and Example Corp",
			Summary:   long,
			Link:      "https://example.com/1",
		},
	}

	agg := NewAggregator(newTestAliasIndex(t), []string{"Jane Doe"}, nil, nil, 3, nil)
	records, err := agg.Aggregate(context.Background(), articles)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.LessOrEqual(t, len(records[0].Sentence), 500)
}

func TestAggregate_SentimentAttached(t *testing.T) {
	articles := []models.Article{
		{
			Candidate: "Jane Doe",
			Title:     "Example Corp shares surge after Jane Doe endorsement",
			Link:      "https://example.com/1",
		},
		{
			Candidate: "Jane Doe",
			Title:     "Acme Holdings shares slump as Jane Doe criticizes",
			Link:      "https://example.com/2",
		},
	}

	agg := NewAggregator(newTestAliasIndex(t), []string{"Jane Doe"}, nil, stubClassifier{}, 3, nil)
	records, err := agg.Aggregate(context.Background(), articles)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, SentimentPositive, records[0].Sentiment)
	assert.Equal(t, SentimentNegative, records[1].Sentiment)
}

func TestAggregateAndSummarize_CoOccurrenceCounts(t *testing.T) {
	// Three articles pair the candidate with Example Corp; two name the
	// company without the candidate and must contribute nothing.
	articles := []models.Article{
		{Candidate: "Jane Doe", Title: "Jane Doe praises Example Corp plant", Link: "https://example.com/1"},
		{Candidate: "Jane Doe", Title: "Example Corp hosts Jane Doe rally", Link: "https://example.com/2"},
		{Candidate: "Jane Doe", Title: "Jane Doe questions Example Corp subsidy", Link: "https://example.com/3"},
		{Candidate: "Jane Doe", Title: "Example Corp beats earnings estimates", Link: "https://example.com/4"},
		{Candidate: "Jane Doe", Title: "Example Corp opens new office", Link: "https://example.com/5"},
	}

	agg := NewAggregator(newTestAliasIndex(t), []string{"Jane Doe"}, nil, nil, 3, nil)
	records, err := agg.Aggregate(context.Background(), articles)
	require.NoError(t, err)
	require.Len(t, records, 3)

	summaries := Summarize(records, 5)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Jane Doe", summaries[0].Candidate)
	assert.Equal(t, "EXM (3)", summaries[0].TopMentions)
	assert.Equal(t, 3, summaries[0].TotalMentions)
}

func TestCombineText(t *testing.T) {
	got := combineText("Title", "Summary", "Body")
	assert.Equal(t, "Title. Summary. Body", got)

	got = combineText("Title", "", "")
	assert.Equal(t, "Title", got)

	long := strings.Repeat("x", 5000)
	got = combineText("T", "S", long)
	assert.LessOrEqual(t, len(got), len("T. S. ")+2000)
}
