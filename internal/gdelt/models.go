package gdelt

import "time"

// seenDateLayout is the fixed timestamp format of the Doc API's seendate
// field.
const seenDateLayout = "2006-01-02T15:04:05Z"

// ArticleListResponse is the ArtList-mode response payload.
type ArticleListResponse struct {
	Articles []DocArticle `json:"articles"`
}

// DocArticle is one article entry as returned by the Doc API.
type DocArticle struct {
	URL           string `json:"url"`
	Title         string `json:"title"`
	SeenDate      string `json:"seendate"`
	Excerpt       string `json:"excerpt"`
	Domain        string `json:"domain"`
	Language      string `json:"language"`
	SourceCountry string `json:"sourcecountry"`
}

// PublishedTime parses the seendate field. Returns nil when the value is
// absent or malformed; an unparseable timestamp never fails the record.
func (a DocArticle) PublishedTime() *time.Time {
	if a.SeenDate == "" {
		return nil
	}
	t, err := time.Parse(seenDateLayout, a.SeenDate)
	if err != nil {
		return nil
	}
	return &t
}
