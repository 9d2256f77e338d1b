package htmlutil

import (
	"bytes"
	"context"
	"net/url"
	"obracalc-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
)

var tracer = otel.Tracer("obracalc.lib.htmlutil")

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// SearchResult is one organic entry of a search engine results page.
type SearchResult struct {
	Title   string
	Snippet string
	Href    string
}

// result containers vary by engine and change without notice, so we
// probe a list of shapes instead of pinning one selector.
var resultSelectors = []string{
	"div.g",
	"div.result",
	"li.b_algo",
	"div[data-sokoban-container]",
	"article[data-testid='result']",
}

// GetSearchResults extracts (title, snippet, href) triples from a
// results page. Results missing a title or a link are skipped; snippets
// are optional. The first selector that matches anything wins.
func GetSearchResults(ctx context.Context, doc *goquery.Document) []SearchResult {
	ctx, span := tracer.Start(ctx, "GetSearchResults")
	defer span.End()

	var results []SearchResult
	for _, selector := range resultSelectors {
		containers := doc.Find(selector)
		if containers.Length() == 0 {
			continue
		}

		containers.Each(func(_ int, container *goquery.Selection) {
			result, ok := parseResultContainer(container)
			if !ok {
				return
			}
			results = append(results, result)
			span.AddEvent("result", trace.WithAttributes(
				attribute.String("title", result.Title),
				attribute.String("url", result.Href),
			))
		})

		if len(results) > 0 {
			break
		}
	}

	if len(results) == 0 {
		span.SetStatus(codes.Error, "no recognizable result containers")
	}
	return results
}

func parseResultContainer(container *goquery.Selection) (SearchResult, bool) {
	anchor := container.Find("a[href]").First()
	href := anchor.AttrOr("href", "")
	if _, err := url.Parse(href); err != nil || href == "" {
		return SearchResult{}, false
	}

	heading := container.Find("h1, h2, h3, h4").First()
	var title string
	for _, n := range heading.Nodes {
		title += GetText(n)
	}
	if title == "" {
		for _, n := range anchor.Nodes {
			title += GetText(n)
		}
	}
	title = textutil.CollapseSpaces(title)
	if title == "" {
		return SearchResult{}, false
	}

	// the snippet is whatever text the container holds beyond
	// the heading and link labels
	snippet := textutil.CollapseSpaces(snippetText(container, heading))

	return SearchResult{
		Title:   title,
		Snippet: snippet,
		Href:    href,
	}, true
}

func snippetText(container, heading *goquery.Selection) string {
	var buffer bytes.Buffer
	headingNodes := map[*html.Node]struct{}{}
	for _, n := range heading.Nodes {
		headingNodes[n] = struct{}{}
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n == nil {
			return
		}
		if _, isHeading := headingNodes[n]; isHeading {
			return
		}
		if n.Type == html.TextNode {
			buffer.WriteString(n.Data)
			buffer.WriteString(" ")
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for _, n := range container.Nodes {
		walk(n)
	}
	return buffer.String()
}
