package aliases

// DefaultMaxHits caps the symbols recorded per text. The cap exists to keep
// one syndicated market-wrap article from dominating the counts.
const DefaultMaxHits = 3

// ExtractTickers returns the symbols whose alias appears as a whole-word
// match in the text, at most maxHits of them, in index build order. The text
// is normalized internally; per symbol, the first alias hit wins and the
// remaining variants are skipped. A nil result means no mention, not an
// error. The matcher is recall-biased: whole-word substring matching with no
// confidence scoring, mitigated only by the minimum alias length and the
// exclusion list.
func (idx *Index) ExtractTickers(text string, maxHits int) []string {
	if text == "" {
		return nil
	}
	if maxHits <= 0 {
		maxHits = DefaultMaxHits
	}

	norm := Normalize(text)
	if norm == "" {
		return nil
	}

	var found []string
	for _, sym := range idx.symbols {
		for _, pattern := range idx.patterns[sym] {
			if pattern.MatchString(norm) {
				found = append(found, sym)
				break
			}
		}
		if len(found) >= maxHits {
			break
		}
	}
	return found
}
