package catalog

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Listing is one PDF discovered on a catalog listing page.
type Listing struct {
	Numero string
	Titulo string
	URL    string
}

var (
	ncgLinkPattern  = regexp.MustCompile(`(?i)NCG[_\-\s]*N?[°º]?\s*(\d+)`)
	instLinkPattern = regexp.MustCompile(`(?i)INSTRUCTIVO[_\-\s]*(?:SUPERIR|SIR)?[_\-\s]*N?[.°º]?\s*(\d+)`)
)

// ScrapeListing extracts PDF links and their document numbers from a
// catalog HTML page. Links whose href or anchor text does not identify a
// document number are skipped.
func ScrapeListing(r io.Reader, baseURL string) ([]Listing, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing page: %w", err)
	}

	var listings []Listing
	seen := map[string]bool{}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			href := attr(n, "href")
			if strings.HasSuffix(strings.ToLower(href), ".pdf") {
				text := strings.TrimSpace(nodeText(n))
				numero := extractNumero(href)
				if numero == "" {
					numero = extractNumero(text)
				}
				if numero != "" && !seen[numero] {
					seen[numero] = true
					listings = append(listings, Listing{
						Numero: numero,
						Titulo: text,
						URL:    resolveURL(baseURL, href),
					})
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)

	return listings, nil
}

func extractNumero(s string) string {
	if m := ncgLinkPattern.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	if m := instLinkPattern.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		b.WriteString(nodeText(child))
	}
	return b.String()
}

func resolveURL(base, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if base == "" {
		return href
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(href, "/")
}
