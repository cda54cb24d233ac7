package feed

import (
	"encoding/xml"
	"time"
)

// ParsedFeed is a feed document reduced to the fields ingestion needs
type ParsedFeed struct {
	Title           string
	Entries         []Entry
	Malformed       bool   // document violated the feed format, entries recovered best-effort
	MalformedReason string // parser error that triggered recovery
}

// Entry is one article record before normalization
type Entry struct {
	Title     string
	Link      string
	GUID      string
	Published *time.Time
	Updated   *time.Time
	DateText  []string // raw date fields in priority order: published, updated, dc:date
}

// RSS represents the root RSS 2.0 element
type RSS struct {
	XMLName xml.Name    `xml:"rss"`
	Version string      `xml:"version,attr"`
	Atom    string      `xml:"xmlns:atom,attr"`
	Channel *RSSChannel `xml:"channel"`
}

// RSSChannel represents an RSS channel
type RSSChannel struct {
	XMLName       xml.Name   `xml:"channel"`
	Title         string     `xml:"title"`
	Link          string     `xml:"link"`
	Description   string     `xml:"description"`
	AtomLink      *AtomLink  `xml:"http://www.w3.org/2005/Atom link"`
	LastBuildDate string     `xml:"lastBuildDate"`
	Items         []*RSSItem `xml:"item"`
}

// AtomLink represents an Atom link element within RSS
type AtomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

// RSSItem represents an item in an RSS feed
type RSSItem struct {
	Title      string   `xml:"title"`
	Link       string   `xml:"link"`
	GUID       string   `xml:"guid"`
	Source     string   `xml:"source,omitempty"`
	PubDate    string   `xml:"pubDate,omitempty"`
	Categories []string `xml:"category"`
}
