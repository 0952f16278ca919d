package aliases

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ternarybob/arbor"
)

// Index maps ticker symbols to their matchable alias patterns. Symbol
// iteration order is the build order: reference sources in configuration
// order, rows in file order, then extra entries in lexical symbol order.
// That ordering decides which symbols win when extraction truncates at the
// hit cap, so it is part of the contract.
type Index struct {
	symbols  []string
	aliases  map[string][]string
	patterns map[string][]*regexp.Regexp
}

// BuildOptions controls alias derivation and index assembly.
type BuildOptions struct {
	MinAliasLength  int
	GenericSuffixes []string
	Extra           map[string][]string // Merged verbatim after the sources, last writer wins
	ExcludeSymbols  []string            // Removed after merge
}

// SourceEntries is the usable row set of one reference source.
type SourceEntries struct {
	Name string
	Rows []Row
}

// Row is one (symbol, display name) pair from a reference source.
type Row struct {
	Symbol string
	Name   string
}

// BuildIndex assembles the alias index from reference source rows plus the
// configured extra entries, then removes excluded symbols. Duplicate symbols
// are overwritten in place (last writer wins, first-seen position kept).
func BuildIndex(sources []SourceEntries, opts BuildOptions, logger arbor.ILogger) *Index {
	suffixes := make(map[string]struct{}, len(opts.GenericSuffixes))
	for _, s := range opts.GenericSuffixes {
		suffixes[s] = struct{}{}
	}

	idx := &Index{
		aliases:  make(map[string][]string),
		patterns: make(map[string][]*regexp.Regexp),
	}

	for _, src := range sources {
		for _, row := range src.Rows {
			derived := DeriveAliases(row.Name, suffixes, opts.MinAliasLength)
			if len(derived) == 0 {
				continue
			}
			idx.put(row.Symbol, derived)
		}
		if logger != nil {
			logger.Debug().
				Str("source", src.Name).
				Int("rows", len(src.Rows)).
				Msg("Merged reference source into alias index")
		}
	}

	// Extra entries are taken as-is: no derivation, no length filter. Sorted
	// for a deterministic position in the truncation order.
	extraSymbols := make([]string, 0, len(opts.Extra))
	for sym := range opts.Extra {
		extraSymbols = append(extraSymbols, sym)
	}
	sort.Strings(extraSymbols)
	for _, sym := range extraSymbols {
		idx.put(sym, opts.Extra[sym])
	}

	for _, sym := range opts.ExcludeSymbols {
		idx.remove(sym)
	}

	if logger != nil {
		logger.Info().
			Int("symbols", len(idx.symbols)).
			Msg("Alias index built")
	}

	return idx
}

// DeriveAliases produces the ordered alias variants for one display name:
// the raw lowercase name, the punctuation-stripped name, and the
// generic-suffix-stripped name. Variants are deduplicated preserving
// discovery order; anything shorter than minLen is discarded (short tokens
// are the dominant false-positive source).
func DeriveAliases(rawName string, suffixes map[string]struct{}, minLen int) []string {
	lower := strings.ToLower(strings.TrimSpace(rawName))
	if lower == "" {
		return nil
	}

	variants := []string{lower}

	cleaned := Normalize(lower)
	if cleaned != "" {
		variants = append(variants, cleaned)
	}

	words := make([]string, 0, 4)
	for _, w := range strings.Fields(cleaned) {
		if _, generic := suffixes[w]; !generic {
			words = append(words, w)
		}
	}
	if len(words) > 0 {
		variants = append(variants, strings.Join(words, " "))
	}

	seen := make(map[string]struct{}, len(variants))
	uniq := make([]string, 0, len(variants))
	for _, v := range variants {
		if len(v) < minLen {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		uniq = append(uniq, v)
	}
	return uniq
}

// put inserts or overwrites a symbol's aliases. An overwritten symbol keeps
// its original position in the iteration order.
func (idx *Index) put(symbol string, aliasList []string) {
	if symbol == "" || len(aliasList) == 0 {
		return
	}
	if _, exists := idx.aliases[symbol]; !exists {
		idx.symbols = append(idx.symbols, symbol)
	}
	idx.aliases[symbol] = aliasList

	patterns := make([]*regexp.Regexp, 0, len(aliasList))
	for _, alias := range aliasList {
		if alias == "" {
			continue
		}
		patterns = append(patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(alias)+`\b`))
	}
	idx.patterns[symbol] = patterns
}

func (idx *Index) remove(symbol string) {
	if _, exists := idx.aliases[symbol]; !exists {
		return
	}
	delete(idx.aliases, symbol)
	delete(idx.patterns, symbol)
	for i, s := range idx.symbols {
		if s == symbol {
			idx.symbols = append(idx.symbols[:i], idx.symbols[i+1:]...)
			break
		}
	}
}

// Len returns the number of symbols in the index.
func (idx *Index) Len() int {
	return len(idx.symbols)
}

// Symbols returns the symbols in build order.
func (idx *Index) Symbols() []string {
	out := make([]string, len(idx.symbols))
	copy(out, idx.symbols)
	return out
}

// Aliases returns the alias variants for a symbol in derivation order, or
// nil when the symbol is not in the index.
func (idx *Index) Aliases(symbol string) []string {
	list, ok := idx.aliases[symbol]
	if !ok {
		return nil
	}
	out := make([]string, len(list))
	copy(out, list)
	return out
}
