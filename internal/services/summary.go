package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ternarybob/electionnews/internal/models"
)

// tickerCount pairs a symbol with its mention count for ranking.
type tickerCount struct {
	Symbol string
	Count  int
}

// Summarize rolls mention records up into one summary per candidate.
// Candidates appear in first-seen record order. Within a candidate, tickers
// rank descending by count with first-seen order breaking ties, and the top
// topK render as "SYM (count)" pairs. Totals count every ticker mention,
// not just the rendered ones.
func Summarize(records []models.MentionRecord, topK int) []models.CandidateSummary {
	if topK <= 0 {
		topK = 5
	}

	var order []string
	grouped := make(map[string][]models.MentionRecord)
	for _, r := range records {
		if _, ok := grouped[r.Candidate]; !ok {
			order = append(order, r.Candidate)
		}
		grouped[r.Candidate] = append(grouped[r.Candidate], r)
	}

	hasSentiment := false
	for _, r := range records {
		if r.Sentiment != "" {
			hasSentiment = true
			break
		}
	}

	summaries := make([]models.CandidateSummary, 0, len(order))
	for _, candidate := range order {
		recs := grouped[candidate]

		top, total := rankTickers(recs, nil, topK)
		summary := models.CandidateSummary{
			Candidate:     candidate,
			TopMentions:   top,
			TotalMentions: total,
		}

		if hasSentiment {
			summary.PositiveTop, summary.TotalPositive = rankTickers(recs, func(r models.MentionRecord) bool {
				return r.Sentiment == SentimentPositive
			}, topK)
			summary.NegativeTop, summary.TotalNegative = rankTickers(recs, func(r models.MentionRecord) bool {
				return r.Sentiment == SentimentNegative
			}, topK)
		}

		summaries = append(summaries, summary)
	}

	return summaries
}

// rankTickers counts ticker occurrences over the records passing keep (nil
// keeps all) and renders the top K. Returns the rendering and the total
// occurrence count across all tickers.
func rankTickers(records []models.MentionRecord, keep func(models.MentionRecord) bool, topK int) (string, int) {
	counts := make(map[string]int)
	var seen []string

	for _, r := range records {
		if keep != nil && !keep(r) {
			continue
		}
		for _, sym := range r.Tickers {
			if _, ok := counts[sym]; !ok {
				seen = append(seen, sym)
			}
			counts[sym]++
		}
	}

	ranked := make([]tickerCount, 0, len(seen))
	total := 0
	for _, sym := range seen {
		ranked = append(ranked, tickerCount{Symbol: sym, Count: counts[sym]})
		total += counts[sym]
	}

	// Stable sort preserves first-seen order among equal counts
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	parts := make([]string, 0, len(ranked))
	for _, tc := range ranked {
		parts = append(parts, fmt.Sprintf("%s (%d)", tc.Symbol, tc.Count))
	}

	return strings.Join(parts, ", "), total
}
