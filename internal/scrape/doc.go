// Package scrape extracts material links from course pages.
//
// Course pages list their exercise sheets, solutions and slides inside one
// region of the page (a table, a section between two headings). The region
// is isolated with a Selector and the anchors inside it are returned in
// document order.
//
// # Region Selection
//
// LiteralSelector bounds the region with two literal substrings:
//
//	sel := scrape.LiteralSelector{Left: "<h1>Übungsserien</h1>", Right: "<h1>Übungsstunden</h1>"}
//	text, err := scrape.Serialize(page)
//	fragment := sel.Select(text)
//
// Markers are matched against the serialized document, not the bytes the
// server sent: attributes are double-quoted and character references are
// decoded, so "<h1>&Uuml;bungsserien</h1>" matches the marker above.
//
// The fragment starts after the first occurrence of Left and ends before the
// last occurrence of Right. A missing Left keeps the whole document; a
// missing Right keeps everything after Left.
//
// # Extraction
//
//	extractor := scrape.NewExtractor(client)
//	links, err := extractor.Extract(ctx, src)
//
// Anchors without an href are skipped. Duplicates are kept.
package scrape
