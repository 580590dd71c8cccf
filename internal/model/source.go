package model

import (
	"encoding/json"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// PathRuleKind selects how a PathRule shortens an href.
type PathRuleKind string

const (
	// RuleNthSlash drops the first N path segments of the href.
	RuleNthSlash PathRuleKind = "nth_slash"
	// RuleQueryParam keeps what follows the last "key=" in the href.
	RuleQueryParam PathRuleKind = "query_param"
)

// PathRule determines how a raw hyperlink is shortened into a path relative
// to a Source's base directory.
//
// Rules are source-specific. Course sites nest their files at different
// depths, and wiki-style sites carry the file name in a query parameter, so
// each Source picks its own variant.
type PathRule struct {
	Kind PathRuleKind `json:"kind"`
	N    int          `json:"n,omitempty"`
	Key  string       `json:"key,omitempty"`
}

// NthSlash returns a rule dropping the first n path segments of an href.
func NthSlash(n int) PathRule {
	return PathRule{Kind: RuleNthSlash, N: n}
}

// QueryParam returns a rule keeping the text after the last occurrence of
// key + "=". A key already ending in "=" is used as is.
func QueryParam(key string) PathRule {
	return PathRule{Kind: RuleQueryParam, Key: key}
}

// Validate reports whether the rule can be applied.
func (r PathRule) Validate() error {
	switch r.Kind {
	case RuleNthSlash:
		if r.N < 0 {
			return fmt.Errorf("path rule %s: negative segment count %d", r.Kind, r.N)
		}
	case RuleQueryParam:
		if strings.TrimSuffix(r.Key, "=") == "" {
			return fmt.Errorf("path rule %s: empty key", r.Kind)
		}
	default:
		return fmt.Errorf("unknown path rule kind %q", r.Kind)
	}
	return nil
}

// Apply shortens href according to the rule.
//
// For RuleNthSlash, a leading slash does not count as a segment, so
// "/a/b/c/file.pdf" with N=2 yields "c/file.pdf". Absolute URLs are reduced
// to their path first. When the href has N segments or fewer, the last
// segment is kept.
//
// For RuleQueryParam, an href without the marker is returned unchanged.
//
// The result is not validated or cleaned: ".." segments survive.
func (r PathRule) Apply(href string) string {
	switch r.Kind {
	case RuleQueryParam:
		marker := r.Key
		if !strings.HasSuffix(marker, "=") {
			marker += "="
		}
		if i := strings.LastIndex(href, marker); i >= 0 {
			return href[i+len(marker):]
		}
		return href
	default:
		p := href
		if u, err := url.Parse(href); err == nil && u.Scheme != "" {
			p = u.Path
		}
		p = strings.TrimPrefix(p, "/")
		parts := strings.SplitN(p, "/", r.N+1)
		return parts[len(parts)-1]
	}
}

func (r PathRule) String() string {
	switch r.Kind {
	case RuleQueryParam:
		return fmt.Sprintf("%s(%s)", r.Kind, r.Key)
	default:
		return fmt.Sprintf("%s(%d)", r.Kind, r.N)
	}
}

// Source is one course's scrape configuration.
//
// Sources are defined before a run and never modified during it.
type Source struct {
	// Name is shown as a header when the source is processed.
	Name string `json:"name"`

	// BaseURL is the site root. Relative hrefs are appended to it verbatim.
	BaseURL string `json:"base_url"`

	// URLExtension is appended to BaseURL to form the page URL. Optional.
	URLExtension string `json:"url_extension,omitempty"`

	// LeftMarker and RightMarker bound the page region holding the links.
	LeftMarker  string `json:"left_marker"`
	RightMarker string `json:"right_marker"`

	// BaseDir is the local directory files are written under.
	BaseDir string `json:"base_dir"`

	// RequiresAuth makes file downloads carry Basic Authentication.
	// The page itself is always fetched anonymously.
	RequiresAuth bool `json:"requires_auth"`

	PathRule PathRule `json:"path_rule"`
}

// PageURL returns the URL of the page holding the material links.
func (s Source) PageURL() string {
	return s.BaseURL + s.URLExtension
}

// FileURL returns the URL a link's file is fetched from: the href itself
// when it carries a scheme, otherwise BaseURL followed by the href.
func (s Source) FileURL(href string) string {
	if u, err := url.Parse(href); err == nil && u.Scheme != "" {
		return href
	}
	return s.BaseURL + href
}

// Resolve maps a raw link to its remote URL and local destination.
func (s Source) Resolve(link LinkRecord) ResolvedLink {
	return ResolvedLink{
		Href:      link.Href,
		RemoteURL: s.FileURL(link.Href),
		LocalPath: filepath.Join(s.BaseDir, filepath.FromSlash(s.PathRule.Apply(link.Href))),
	}
}

// ResolveAll resolves links in order. Duplicates are kept.
func (s Source) ResolveAll(links []LinkRecord) []ResolvedLink {
	resolved := make([]ResolvedLink, 0, len(links))
	for _, link := range links {
		resolved = append(resolved, s.Resolve(link))
	}
	return resolved
}

// UnmarshalJSON defaults a missing path rule to NthSlash(1), the
// convention most course pages follow.
func (s *Source) UnmarshalJSON(data []byte) error {
	type plain Source
	src := plain{PathRule: NthSlash(1)}
	if err := json.Unmarshal(data, &src); err != nil {
		return err
	}
	*s = Source(src)
	return nil
}
