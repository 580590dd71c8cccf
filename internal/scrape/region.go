package scrape

import (
	"strings"

	"github.com/handiism/course-mirror/internal/model"
)

// Selector isolates the part of a page that holds the links of interest.
type Selector interface {
	Select(document string) string
}

// LiteralSelector bounds a region by two literal markers.
type LiteralSelector struct {
	Left  string
	Right string
}

// Select returns the text after the first Left and before the last Right.
//
// Without a Left occurrence the whole document is kept; without a Right
// occurrence nothing is cut from the end.
func (s LiteralSelector) Select(document string) string {
	fragment := document
	if i := strings.Index(fragment, s.Left); i >= 0 {
		fragment = fragment[i+len(s.Left):]
	}
	if j := strings.LastIndex(fragment, s.Right); j >= 0 {
		fragment = fragment[:j]
	}
	return fragment
}

// SourceSelector returns the LiteralSelector built from a source's markers.
func SourceSelector(src model.Source) Selector {
	return LiteralSelector{Left: src.LeftMarker, Right: src.RightMarker}
}
