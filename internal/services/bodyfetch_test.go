package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/electionnews/internal/common"
)

func testCrawlerConfig() common.CrawlerConfig {
	return common.CrawlerConfig{
		UserAgent:      "test-agent",
		RequestTimeout: 0,
		MaxBodySize:    1024 * 1024,
		MaxTextLength:  4000,
	}
}

func TestExtractText_StripsChrome(t *testing.T) {
	f := NewHTTPBodyFetcher(testCrawlerConfig(), nil)

	html := `<html><head><script>var x = 1;</script><style>.a{}</style></head>
	<body>
	<nav>Site Nav</nav>
	<p>Jane Doe spoke about Example Corp today.</p>
	<footer>Copyright</footer>
	</body></html>`

	text := f.ExtractText(html)
	assert.Contains(t, text, "Jane Doe spoke about Example Corp today.")
	assert.NotContains(t, text, "var x")
	assert.NotContains(t, text, "Site Nav")
	assert.NotContains(t, text, "Copyright")
}

func TestExtractText_BoilerplateDiscarded(t *testing.T) {
	f := NewHTTPBodyFetcher(testCrawlerConfig(), nil)
	text := f.ExtractText(`<html><body><p>self.__next_f.push([1,"payload"])</p></body></html>`)
	assert.Empty(t, text)
}

func TestExtractText_CappedAtMaxLength(t *testing.T) {
	cfg := testCrawlerConfig()
	cfg.MaxTextLength = 100
	f := NewHTTPBodyFetcher(cfg, nil)

	text := f.ExtractText("<html><body><p>" + strings.Repeat("word ", 200) + "</p></body></html>")
	assert.LessOrEqual(t, len(text), 100)
	assert.NotEmpty(t, text)
}

func TestFetchBody_SendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("<html><body><p>Article text here.</p></body></html>"))
	}))
	defer srv.Close()

	f := NewHTTPBodyFetcher(testCrawlerConfig(), nil)
	body := f.FetchBody(context.Background(), srv.URL)

	require.Contains(t, body, "Article text here.")
	assert.Equal(t, "test-agent", gotUA)
}

func TestFetchBody_FailureReturnsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	f := NewHTTPBodyFetcher(testCrawlerConfig(), nil)
	assert.Empty(t, f.FetchBody(context.Background(), srv.URL))
	assert.Empty(t, f.FetchBody(context.Background(), "http://127.0.0.1:1/unreachable"))
	assert.Empty(t, f.FetchBody(context.Background(), "::bad url::"))
}

func TestTruncateUTF8(t *testing.T) {
	assert.Equal(t, "abc", truncateUTF8("abc", 10))
	assert.Equal(t, "ab", truncateUTF8("abcd", 2))

	// Never split a multibyte rune
	s := "日本語テキスト"
	out := truncateUTF8(s, 7)
	assert.True(t, len(out) <= 7)
	assert.True(t, strings.HasPrefix(s, out))
	for _, r := range out {
		assert.NotEqual(t, '�', r)
	}
}
