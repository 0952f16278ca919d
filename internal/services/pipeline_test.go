package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/electionnews/internal/aliases"
	"github.com/ternarybob/electionnews/internal/common"
	"github.com/ternarybob/electionnews/internal/gdelt"
)

func testPipelineConfig(t *testing.T) *common.Config {
	t.Helper()
	cfg := common.NewDefaultConfig()
	cfg.DocAPI.Candidates = []string{"Jane Doe"}
	cfg.Output.DataDir = t.TempDir()
	return cfg
}

func testIndexLoader(t *testing.T) IndexLoader {
	t.Helper()
	return func(ctx context.Context) (*aliases.Index, error) {
		return newTestAliasIndex(t), nil
	}
}

func TestPipeline_NoArticlesIsTerminal(t *testing.T) {
	cfg := testPipelineConfig(t)
	client := &fakeSearchClient{}
	w := NewWriter(cfg.Output, nil)

	p := NewPipeline(cfg, testIndexLoader(t), client, nil, nil, w, nil)
	result, err := p.Run(context.Background())

	require.ErrorIs(t, err, ErrNoArticles)
	require.NotNil(t, result)
	assert.Zero(t, result.Articles)

	// Terminal empty states write nothing
	matches, globErr := filepath.Glob(filepath.Join(cfg.Output.DataDir, "*.csv"))
	require.NoError(t, globErr)
	assert.Empty(t, matches)
}

func TestPipeline_NoMentionsIsTerminal(t *testing.T) {
	cfg := testPipelineConfig(t)
	query := BuildQuery("Jane Doe", cfg.DocAPI)
	client := &fakeSearchClient{
		responses: map[string][]gdelt.DocArticle{
			query: {{URL: "https://example.com/a", Title: "Nothing relevant here"}},
		},
	}

	p := NewPipeline(cfg, testIndexLoader(t), client, nil, nil, NewWriter(cfg.Output, nil), nil)
	result, err := p.Run(context.Background())

	require.ErrorIs(t, err, ErrNoMentions)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.Articles)
	assert.Zero(t, result.Mentions)
}

func TestPipeline_FullRunWritesOutputs(t *testing.T) {
	cfg := testPipelineConfig(t)
	query := BuildQuery("Jane Doe", cfg.DocAPI)
	client := &fakeSearchClient{
		responses: map[string][]gdelt.DocArticle{
			query: {
				{
					URL:      "https://example.com/a",
					Title:    "Jane Doe weighs in on Example Corp",
					SeenDate: "2026-08-27T10:00:00Z",
				},
				{
					URL:   "https://example.com/b",
					Title: "Unrelated market wrap",
				},
			},
		},
	}

	p := NewPipeline(cfg, testIndexLoader(t), client, nil, nil, NewWriter(cfg.Output, nil), nil)
	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Articles)
	assert.Equal(t, 1, result.Mentions)
	require.Len(t, result.Summaries, 1)
	assert.Equal(t, "Jane Doe", result.Summaries[0].Candidate)
	assert.Equal(t, "EXM (1)", result.Summaries[0].TopMentions)
	assert.NotEmpty(t, result.Meta.RunID)

	for _, name := range []string{cfg.Output.RawFile, cfg.Output.SummaryFile, cfg.Output.HistoryFile} {
		rows := readCSVFile(t, filepath.Join(cfg.Output.DataDir, name))
		assert.GreaterOrEqual(t, len(rows), 2, "%s should have header plus data", name)
	}
}

func TestPipeline_IndexLoadFailureIsFatal(t *testing.T) {
	cfg := testPipelineConfig(t)
	loader := func(ctx context.Context) (*aliases.Index, error) {
		return nil, assert.AnError
	}

	p := NewPipeline(cfg, loader, &fakeSearchClient{}, nil, nil, NewWriter(cfg.Output, nil), nil)
	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoArticles)
}
