package feed

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/go-pkgz/lgr"
	"github.com/microcosm-cc/bluemonday"

	"github.com/joolab/newswire/pkg/domain"
)

const maxNoteLen = 120

// htmlTagRe matches the inline html elements feeds leak into titles. Other bracketed
// words, like <CPI> or <FOMC>, are part of the headline.
var htmlTagRe = regexp.MustCompile(`(?i)</?(?:a|b|big|br|div|em|font|i|img|mark|p|s|small|span|strike|strong|sub|sup|u)(?:\s[^>]*)?/?>`)

// FeedParser is the feed-parsing capability
type FeedParser interface {
	Parse(ctx context.Context, url string) (*ParsedFeed, error)
}

// Tagger reports keyword hits for a title
type Tagger interface {
	Tag(title string) []string
}

// Result is the outcome of ingesting one source. Err is set only for ERROR status,
// Items is empty in that case.
type Result struct {
	Status domain.SourceStatus
	Items  []domain.NewsItem
	Err    error
}

// OK reports whether the source was fetched at all
func (r Result) OK() bool { return r.Err == nil }

// Ingestor fetches one source and turns its entries into news items
type Ingestor struct {
	parser     FeedParser
	tagger     Tagger
	normalizer *Normalizer
	perSource  int
	policy     *bluemonday.Policy
}

// IngestorParams holds Ingestor dependencies
type IngestorParams struct {
	Parser     FeedParser
	Tagger     Tagger
	Normalizer *Normalizer
	PerSource  int // entries taken from the head of each feed, <= 0 means all
}

// NewIngestor creates a new ingestor
func NewIngestor(params IngestorParams) *Ingestor {
	return &Ingestor{
		parser:     params.Parser,
		tagger:     params.Tagger,
		normalizer: params.Normalizer,
		perSource:  params.PerSource,
		policy:     bluemonday.StrictPolicy(),
	}
}

// Ingest fetches the source and classifies it. Failures, including panics, stay inside
// and come back as an ERROR result.
func (i *Ingestor) Ingest(ctx context.Context, src domain.FeedSource) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic: %v", r)
			lgr.Printf("[WARN] ingest %s recovered from %v", src.ID, err)
			res = Result{Status: domain.NewStatus(src, domain.StatusError, truncateRunes(err.Error(), maxNoteLen)), Items: []domain.NewsItem{}, Err: err}
		}
	}()

	parsed, err := i.parser.Parse(ctx, src.URL)
	if err != nil {
		lgr.Printf("[WARN] failed to parse feed %s (%s): %v", src.ID, src.URL, err)
		return Result{Status: domain.NewStatus(src, domain.StatusError, truncateRunes(err.Error(), maxNoteLen)), Items: []domain.NewsItem{}, Err: err}
	}

	var status domain.SourceStatus
	switch {
	case parsed.Malformed:
		status = domain.NewStatus(src, domain.StatusDegraded, truncateRunes("malformed feed: "+parsed.MalformedReason, maxNoteLen))
	case len(parsed.Entries) == 0:
		status = domain.NewStatus(src, domain.StatusMissing, "no entries")
	default:
		status = domain.NewStatus(src, domain.StatusOK, "")
	}

	entries := parsed.Entries
	if i.perSource > 0 && len(entries) > i.perSource {
		entries = entries[:i.perSource]
	}

	items := make([]domain.NewsItem, 0, len(entries))
	for _, e := range entries {
		item, ok := i.makeItem(src, e)
		if !ok {
			continue
		}
		items = append(items, item)
	}

	lgr.Printf("[DEBUG] feed %s: status %s, %d entries, %d items", src.ID, status.Status, len(parsed.Entries), len(items))
	return Result{Status: status, Items: items}
}

// makeItem normalizes an entry, entries without title or link are dropped
func (i *Ingestor) makeItem(src domain.FeedSource, e Entry) (domain.NewsItem, bool) {
	title := i.cleanText(e.Title)
	link := strings.TrimSpace(e.Link)
	if link == "" {
		if guid := strings.TrimSpace(e.GUID); strings.HasPrefix(guid, "http://") || strings.HasPrefix(guid, "https://") {
			link = guid
		}
	}
	if title == "" || link == "" {
		return domain.NewsItem{}, false
	}

	return domain.NewsItem{
		Source:      src.ID,
		Press:       src.Name,
		PublishedAt: i.normalizer.Normalize(e),
		Title:       title,
		URL:         link,
		KeywordsHit: i.tagger.Tag(title),
	}, true
}

// cleanText strips html elements, decodes entities and collapses whitespace.
// Titles without html elements are left as is apart from entity decoding.
func (i *Ingestor) cleanText(s string) string {
	if tags := htmlTagRe.FindAllStringIndex(s, -1); len(tags) > 0 {
		s = i.policy.Sanitize(escapeOutside(s, tags))
	}
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}

// escapeOutside escapes '<' everywhere except at the start of the given tag spans,
// so the sanitizer keeps bracketed words as text
func escapeOutside(s string, tags [][]int) string {
	var sb strings.Builder
	prev := 0
	for _, t := range tags {
		sb.WriteString(strings.ReplaceAll(s[prev:t[0]], "<", "&lt;"))
		sb.WriteString(s[t[0]:t[1]])
		prev = t[1]
	}
	sb.WriteString(strings.ReplaceAll(s[prev:], "<", "&lt;"))
	return sb.String()
}
