package services

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/electionnews/internal/common"
	"github.com/ternarybob/electionnews/internal/httpclient"
)

// BodyFetcher retrieves the readable text of an article page. Body text is
// best-effort enrichment: any failure yields an empty string, never an error.
type BodyFetcher interface {
	FetchBody(ctx context.Context, link string) string
}

// HTTPBodyFetcher fetches pages over HTTP and extracts readable text with
// a markdown conversion pass over the cleaned document.
type HTTPBodyFetcher struct {
	client        *http.Client
	converter     *md.Converter
	maxBodySize   int
	maxTextLength int
	logger        arbor.ILogger
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Fragments that indicate framework bootstrap payloads rather than article
// text. A body dominated by these is discarded.
var boilerplateMarkers = []string{
	"self.__next_f",
	"window.__",
	"__NUXT__",
	"googletag.cmd",
}

// NewHTTPBodyFetcher creates a body fetcher from the crawler configuration.
func NewHTTPBodyFetcher(cfg common.CrawlerConfig, logger arbor.ILogger) *HTTPBodyFetcher {
	return &HTTPBodyFetcher{
		client:        httpclient.NewCrawlClient(cfg.RequestTimeout, cfg.UserAgent),
		converter:     md.NewConverter("", true, nil),
		maxBodySize:   cfg.MaxBodySize,
		maxTextLength: cfg.MaxTextLength,
		logger:        logger,
	}
}

// FetchBody downloads the page at link and returns its readable text,
// capped at the configured length. Returns "" on any failure.
func (f *HTTPBodyFetcher) FetchBody(ctx context.Context, link string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return ""
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.debugSkip(link, err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.debugSkip(link, nil)
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(f.maxBodySize)))
	if err != nil {
		f.debugSkip(link, err)
		return ""
	}

	return f.ExtractText(string(body))
}

// ExtractText converts raw HTML to plain readable text. Script, style, and
// chrome elements are removed before conversion; the converter's output
// falls back to the document's text nodes when conversion fails.
func (f *HTTPBodyFetcher) ExtractText(rawHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}

	doc.Find("script, style, noscript, nav, header, footer, aside, iframe").Remove()

	html, err := doc.Find("body").Html()
	if err != nil || strings.TrimSpace(html) == "" {
		html, _ = doc.Html()
	}

	text, err := f.converter.ConvertString(html)
	if err != nil || strings.TrimSpace(text) == "" {
		text = doc.Text()
	}

	text = whitespaceRun.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	for _, marker := range boilerplateMarkers {
		if strings.Contains(text, marker) {
			return ""
		}
	}

	if f.maxTextLength > 0 && len(text) > f.maxTextLength {
		text = truncateUTF8(text, f.maxTextLength)
	}

	return text
}

func (f *HTTPBodyFetcher) debugSkip(link string, err error) {
	if f.logger == nil {
		return
	}
	event := f.logger.Debug().Str("link", link)
	if err != nil {
		event = event.Err(err)
	}
	event.Msg("Body fetch failed, continuing without body")
}

// truncateUTF8 cuts s to at most max bytes without splitting a rune.
func truncateUTF8(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
