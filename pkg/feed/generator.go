package feed

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/joolab/newswire/pkg/domain"
)

// Generator renders merged news as RSS and the source registry as OPML
type Generator struct {
	baseURL string
	title   string
	loc     *time.Location
}

// NewGenerator creates a new feed generator. Published times are read in loc.
func NewGenerator(baseURL, title string, loc *time.Location) *Generator {
	if loc == nil {
		loc = time.UTC
	}
	return &Generator{
		baseURL: strings.TrimRight(baseURL, "/"),
		title:   title,
		loc:     loc,
	}
}

// GenerateRSS creates an RSS 2.0 feed from the payload items, keywords become categories
func (g *Generator) GenerateRSS(payload domain.Payload) (string, error) {
	rssItems := make([]*RSSItem, 0, len(payload.Items))
	for _, item := range payload.Items {
		rssItems = append(rssItems, g.convertToRSSItem(item))
	}

	lastBuild := time.Now().In(g.loc)
	if t, err := time.ParseInLocation(TimeLayout+" MST", payload.UpdatedAt, g.loc); err == nil {
		lastBuild = t
	}

	feed := &RSS{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: &RSSChannel{
			Title:         g.title,
			Link:          g.baseURL + "/",
			Description:   fmt.Sprintf("%d latest items from %d sources", payload.Count, len(payload.Sources)),
			AtomLink:      &AtomLink{Href: g.baseURL + "/latest.xml", Rel: "self", Type: "application/rss+xml"},
			LastBuildDate: lastBuild.Format(time.RFC1123Z),
			Items:         rssItems,
		},
	}

	output, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal RSS: %w", err)
	}

	return xml.Header + string(output), nil
}

// convertToRSSItem converts a news item to an RSS item, unparseable dates are left out
func (g *Generator) convertToRSSItem(item domain.NewsItem) *RSSItem {
	res := &RSSItem{
		Title:      item.Title,
		Link:       item.URL,
		GUID:       item.URL,
		Source:     item.Press,
		Categories: item.KeywordsHit,
	}
	if t, err := time.ParseInLocation(TimeLayout, item.PublishedAt, g.loc); err == nil {
		res.PubDate = t.Format(time.RFC1123Z)
	}
	return res
}

// GenerateOPML creates an OPML file with the feed registry
func (g *Generator) GenerateOPML(sources []domain.FeedSource) (string, error) {
	type outline struct {
		XMLName xml.Name `xml:"outline"`
		Text    string   `xml:"text,attr"`
		Title   string   `xml:"title,attr"`
		Type    string   `xml:"type,attr"`
		XMLUrl  string   `xml:"xmlUrl,attr"`
	}

	type body struct {
		XMLName  xml.Name  `xml:"body"`
		Outlines []outline `xml:"outline"`
	}

	type head struct {
		XMLName     xml.Name `xml:"head"`
		Title       string   `xml:"title"`
		DateCreated string   `xml:"dateCreated"`
	}

	type opml struct {
		XMLName xml.Name `xml:"opml"`
		Version string   `xml:"version,attr"`
		Head    head     `xml:"head"`
		Body    body     `xml:"body"`
	}

	outlines := make([]outline, 0, len(sources))
	for _, src := range sources {
		outlines = append(outlines, outline{
			Text:   src.ID,
			Title:  src.Name,
			Type:   "rss",
			XMLUrl: src.URL,
		})
	}

	doc := opml{
		Version: "2.0",
		Head: head{
			Title:       g.title + " sources",
			DateCreated: time.Now().In(g.loc).Format(time.RFC1123Z),
		},
		Body: body{Outlines: outlines},
	}

	output, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal OPML: %w", err)
	}

	return xml.Header + string(output), nil
}
