package scrape

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/handiism/course-mirror/internal/model"
)

// PageFetcher retrieves a page as text.
type PageFetcher interface {
	GetString(ctx context.Context, url string) (string, error)
}

// Extractor fetches a source's page and lists the links inside its region.
type Extractor struct {
	fetcher     PageFetcher
	selectorFor func(model.Source) Selector
}

// NewExtractor creates an Extractor selecting regions with SourceSelector.
func NewExtractor(fetcher PageFetcher) *Extractor {
	return &Extractor{
		fetcher:     fetcher,
		selectorFor: SourceSelector,
	}
}

// WithSelector replaces the strategy mapping a source to its Selector.
func (e *Extractor) WithSelector(fn func(model.Source) Selector) *Extractor {
	e.selectorFor = fn
	return e
}

// Extract fetches src's page with a single GET, serializes it, and returns
// the anchors found in its region, in document order.
//
// Fetch errors are returned wrapped; use errors.As with *http.NetworkError to
// tell an unreachable server from a rejected request.
func (e *Extractor) Extract(ctx context.Context, src model.Source) ([]model.LinkRecord, error) {
	page, err := e.fetcher.GetString(ctx, src.PageURL())
	if err != nil {
		return nil, fmt.Errorf("fetching page of %s: %w", src.Name, err)
	}

	text, err := Serialize(page)
	if err != nil {
		return nil, fmt.Errorf("parsing page of %s: %w", src.Name, err)
	}

	links, err := ParseLinks(e.selectorFor(src).Select(text))
	if err != nil {
		return nil, fmt.Errorf("parsing page of %s: %w", src.Name, err)
	}
	return links, nil
}

// Serialize parses page and renders it back in canonical form: attributes
// double-quoted, character references decoded, missing html/head/body
// elements added. Region markers are matched against this form.
func Serialize(page string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", err
	}
	return doc.Html()
}

// ParseLinks parses an HTML fragment and returns the href of every anchor in
// document order. Anchors without an href attribute are skipped.
func ParseLinks(fragment string) ([]model.LinkRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, err
	}

	var links []model.LinkRecord
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		links = append(links, model.LinkRecord{Href: href})
	})
	return links, nil
}
