package feed

import (
	"bytes"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-pkgz/lgr"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

var xmlEncodingRe = regexp.MustCompile(`^\s*<\?xml[^>]*encoding=["']([A-Za-z0-9._-]+)["']`)

// recoverEntries scans a broken feed document with the forgiving html parser and
// collects whatever <item> and <entry> elements survive. The html parser treats
// <link> as a void element, so rss link text ends up in the following text node.
func recoverEntries(body []byte, contentType string) []Entry {
	r, err := decodeCharset(body, contentType)
	if err != nil {
		lgr.Printf("[DEBUG] can't detect feed charset, using raw bytes: %v", err)
		r = bytes.NewReader(body)
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		lgr.Printf("[DEBUG] recovery parse failed: %v", err)
		return nil
	}

	entries := []Entry{}
	doc.Find("item, entry").Each(func(_ int, s *goquery.Selection) {
		entries = append(entries, Entry{
			Title:    childText(s, "title"),
			Link:     childLink(s),
			GUID:     childText(s, "guid", "id"),
			DateText: nonEmpty(childText(s, "pubdate"), childText(s, "published"), childText(s, "updated"), childText(s, "dc:date")),
		})
	})
	return entries
}

// decodeCharset converts the body to utf-8. Charset in content-type wins over the xml declaration.
func decodeCharset(body []byte, contentType string) (io.Reader, error) {
	if !strings.Contains(strings.ToLower(contentType), "charset=") {
		if m := xmlEncodingRe.FindSubmatch(body); m != nil {
			return charset.NewReaderLabel(string(m[1]), bytes.NewReader(body))
		}
	}
	return charset.NewReader(bytes.NewReader(body), contentType)
}

// childText returns the text of the first direct child with one of the names, in name order
func childText(s *goquery.Selection, names ...string) string {
	for _, name := range names {
		var text string
		s.Children().EachWithBreak(func(_ int, c *goquery.Selection) bool {
			if goquery.NodeName(c) != name {
				return true
			}
			text = unwrapCDATA(nodeText(c.Nodes[0]))
			return text == ""
		})
		if text != "" {
			return text
		}
	}
	return ""
}

// childLink returns href of an atom alternate link or the text following an rss <link>
func childLink(s *goquery.Selection) string {
	var link string
	s.Children().EachWithBreak(func(_ int, c *goquery.Selection) bool {
		if goquery.NodeName(c) != "link" {
			return true
		}
		if href, ok := c.Attr("href"); ok {
			if rel, _ := c.Attr("rel"); rel == "" || rel == "alternate" {
				link = strings.TrimSpace(href)
			}
			return link == ""
		}
		if next := c.Nodes[0].NextSibling; next != nil && next.Type == html.TextNode {
			link = strings.TrimSpace(next.Data)
		} else {
			link = unwrapCDATA(nodeText(c.Nodes[0]))
		}
		return link == ""
	})
	return link
}

// nodeText collects text, including cdata sections the html parser turns into comments
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				sb.WriteString(c.Data)
			case html.CommentNode:
				if strings.HasPrefix(c.Data, "[CDATA[") {
					sb.WriteString(strings.TrimSuffix(strings.TrimPrefix(c.Data, "[CDATA["), "]]"))
				}
			case html.ElementNode:
				walk(c)
			}
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

// unwrapCDATA strips a literal cdata wrapper left in raw-text elements like <title>
func unwrapCDATA(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "<![CDATA[") {
		s = strings.TrimSuffix(strings.TrimPrefix(s, "<![CDATA["), "]]>")
	}
	return strings.TrimSpace(s)
}
