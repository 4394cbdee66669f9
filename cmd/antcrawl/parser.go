package main

import (
	"bytes"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/nao1215/antcrawl/thing"
)

// page holds what the spider extracts from one fetched document.
type page struct {
	// Title is the text of the first <title> element.
	Title string

	// Links are the absolute http(s) URLs found in href attributes,
	// resolved against the page URL, in document order without
	// duplicates.
	Links []*url.URL
}

// parsePage extracts the title and links from an HTML response. We use
// golang.org/x/net/html rather than regex because it handles the
// malformed HTML common on the web.
func parsePage(res *thing.Response) (*page, error) {
	doc, err := html.Parse(bytes.NewReader(res.Body))
	if err != nil {
		return nil, err
	}

	base := res.Request.URL
	p := &page{}
	seen := make(map[string]struct{})

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if p.Title == "" && n.FirstChild != nil {
					p.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "a":
				if link, ok := resolveLink(base, href(n)); ok {
					if _, dup := seen[link.String()]; !dup {
						seen[link.String()] = struct{}{}
						p.Links = append(p.Links, link)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return p, nil
}

// href returns the href attribute of an element, or "".
func href(n *html.Node) string {
	for _, attr := range n.Attr {
		if attr.Key == "href" {
			return strings.TrimSpace(attr.Val)
		}
	}
	return ""
}

// resolveLink resolves raw against base and keeps only followable
// http(s) URLs. Fragments are stripped so anchors on one page don't
// count as distinct targets.
func resolveLink(base *url.URL, raw string) (*url.URL, bool) {
	if raw == "" || strings.HasPrefix(raw, "#") {
		return nil, false
	}
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "tel:") {
		return nil, false
	}

	u, err := base.Parse(raw)
	if err != nil {
		return nil, false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, false
	}
	u.Fragment = ""
	return u, true
}
