package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/electionnews/internal/common"
)

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name string
		cfg  common.DocAPIConfig
		want string
	}{
		{
			name: "candidate only",
			cfg:  common.DocAPIConfig{},
			want: `"Jane Doe"`,
		},
		{
			name: "keywords or-joined",
			cfg: common.DocAPIConfig{
				Keywords: []string{"election", "campaign"},
			},
			want: `"Jane Doe" AND "election" OR "campaign"`,
		},
		{
			name: "domains and filters",
			cfg: common.DocAPIConfig{
				DomainWhitelist: []string{"example.com", "news.example.org"},
				SourceCountry:   "US",
				SourceLang:      "english",
			},
			want: `"Jane Doe" AND site:example.com OR site:news.example.org AND sourcecountry:US AND sourcelang:english`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildQuery("Jane Doe", tt.cfg)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "(")
			assert.NotContains(t, got, ")")
		})
	}
}

func TestComposeWindows_ExplicitRange(t *testing.T) {
	cfg := common.DocAPIConfig{
		Candidates: []string{"Jane Doe", "John Roe"},
		Timespan:   "1d",
		DateRange:  "01-Sep-2024 - 03-Sep-2024",
	}

	windows := ComposeWindows(cfg, nil)
	require.Len(t, windows, 6) // 3 days x 2 candidates

	first := windows[0]
	assert.Equal(t, "Jane Doe", first.Candidate)
	require.True(t, first.Explicit())
	assert.Equal(t, time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), *first.Start)
	assert.Equal(t, time.Date(2024, 9, 1, 23, 59, 59, 0, time.UTC), *first.End)
	assert.Empty(t, first.Timespan, "explicit windows must not carry a timespan")

	last := windows[5]
	assert.Equal(t, "John Roe", last.Candidate)
	assert.Equal(t, time.Date(2024, 9, 3, 0, 0, 0, 0, time.UTC), *last.Start)
}

func TestComposeWindows_TimespanMode(t *testing.T) {
	cfg := common.DocAPIConfig{
		Candidates: []string{"Jane Doe", "John Roe"},
		Timespan:   "3d",
	}

	windows := ComposeWindows(cfg, nil)
	require.Len(t, windows, 2)
	for _, w := range windows {
		assert.False(t, w.Explicit())
		assert.Equal(t, "3d", w.Timespan)
	}
}

func TestComposeWindows_BadRangeFallsBackToTimespan(t *testing.T) {
	cfg := common.DocAPIConfig{
		Candidates: []string{"Jane Doe"},
		Timespan:   "1d",
		DateRange:  "not a range at all",
	}

	windows := ComposeWindows(cfg, nil)
	require.Len(t, windows, 1)
	assert.False(t, windows[0].Explicit())
	assert.Equal(t, "1d", windows[0].Timespan)
}

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"standard separator", "01-Sep-2024 - 03-Nov-2024", false},
		{"end before start", "03-Nov-2024 - 01-Sep-2024", true},
		{"empty", "", true},
		{"garbage", "soonish", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parseDateRange(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
