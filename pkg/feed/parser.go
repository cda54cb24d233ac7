package feed

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-resty/resty/v2"
	"github.com/mmcdole/gofeed"
)

// maxBodySize caps a feed response, larger bodies fail the fetch
const maxBodySize = 10 << 20

// Parser fetches and parses RSS/Atom feeds. Each Parse makes exactly one request.
type Parser struct {
	client    *resty.Client
	userAgent string
}

// NewParser creates a new feed parser
func NewParser(timeout time.Duration, userAgent string) *Parser {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(10)).
		SetResponseBodyLimit(maxBodySize)
	return &Parser{client: client, userAgent: userAgent}
}

// Parse fetches and parses a feed from the given URL. Fetch failures are errors;
// a document that could not be parsed cleanly is returned with Malformed set.
func (p *Parser) Parse(ctx context.Context, url string) (*ParsedFeed, error) {
	body, contentType, err := p.fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	return parseBody(body, contentType), nil
}

// fetch retrieves content from a URL
func (p *Parser) fetch(ctx context.Context, url string) (body []byte, contentType string, err error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetHeaders(browserHeaders(p.userAgent)).
		Get(url)
	if err != nil {
		return nil, "", fmt.Errorf("fetch URL: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	return resp.Body(), resp.Header().Get("Content-Type"), nil
}

// parseBody tries a clean parse, then a parse with control characters removed,
// then the lenient DOM recovery
func parseBody(body []byte, contentType string) *ParsedFeed {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err == nil {
		return convertFeed(feed)
	}
	reason := err.Error()
	lgr.Printf("[DEBUG] feed parse failed, trying recovery: %v", err)

	if cleaned := stripControlChars(body); len(cleaned) != len(body) {
		if feed, cerr := gofeed.NewParser().Parse(bytes.NewReader(cleaned)); cerr == nil {
			res := convertFeed(feed)
			res.Malformed, res.MalformedReason = true, reason
			return res
		}
	}

	return &ParsedFeed{Entries: recoverEntries(body, contentType), Malformed: true, MalformedReason: reason}
}

// convertFeed converts gofeed result to our types
func convertFeed(feed *gofeed.Feed) *ParsedFeed {
	result := &ParsedFeed{
		Title:   feed.Title,
		Entries: make([]Entry, 0, len(feed.Items)),
	}

	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		entry := Entry{
			Title:     item.Title,
			Link:      item.Link,
			GUID:      item.GUID,
			Published: item.PublishedParsed,
			Updated:   item.UpdatedParsed,
			DateText:  nonEmpty(item.Published, item.Updated),
		}
		if entry.Link == "" && len(item.Links) > 0 {
			entry.Link = item.Links[0]
		}
		if item.DublinCoreExt != nil {
			entry.DateText = append(entry.DateText, nonEmpty(item.DublinCoreExt.Date...)...)
		}
		result.Entries = append(result.Entries, entry)
	}

	return result
}

// stripControlChars drops bytes not allowed in XML 1.0 (C0 controls except tab, lf, cr).
// Works on raw bytes so multibyte legacy encodings stay intact.
func stripControlChars(body []byte) []byte {
	res := make([]byte, 0, len(body))
	for _, b := range body {
		if b < 0x20 && b != '\t' && b != '\n' && b != '\r' {
			continue
		}
		res = append(res, b)
	}
	return res
}

func nonEmpty(vals ...string) []string {
	res := make([]string, 0, len(vals))
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			res = append(res, v)
		}
	}
	return res
}
