package download

import (
	"context"
	"errors"
	"fmt"

	"github.com/handiism/course-mirror/internal/http"
	"github.com/handiism/course-mirror/internal/model"
)

var (
	// ErrAuth means a server rejected the credentials.
	ErrAuth = errors.New("authorization error")

	// ErrNetwork means a file server became unreachable mid-run.
	ErrNetwork = errors.New("network error")

	// ErrAborted means a page was unreachable and the policy gave up.
	ErrAborted = errors.New("no internet connection")

	// ErrPageUnavailable means a page answered but could not be used.
	// Only that source is abandoned.
	ErrPageUnavailable = errors.New("page unavailable")

	// ErrStrictAbort means a link failed while Options.Strict was set.
	ErrStrictAbort = errors.New("aborted on download error")
)

// SourceReport collects the results of one source.
type SourceReport struct {
	Source  string
	Results []model.DownloadResult
}

// Count returns how many results have the given status.
func (r SourceReport) Count(status model.Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}

// Summary aggregates a whole run.
type Summary struct {
	Sources   int
	Completed int
	Skipped   int
	Failed    int
	Bytes     int64

	// Failures lists every failed link in processing order.
	Failures []model.DownloadResult
}

func (s *Summary) add(r SourceReport) {
	s.Sources++
	for _, res := range r.Results {
		s.Bytes += res.BytesWritten
		switch res.Status {
		case model.StatusCompleted:
			s.Completed++
		case model.StatusSkipped:
			s.Skipped++
		case model.StatusFailed:
			s.Failed++
			s.Failures = append(s.Failures, res)
		}
	}
}

// SourcePlan is the resolved link list of one source.
type SourcePlan struct {
	Source model.Source
	Links  []model.ResolvedLink
}

// Run processes sources one after the other in the given order.
//
// Fatal conditions (unreachable page with no retry, rejected credentials,
// lost connection during a transfer, a failure under Options.Strict, context
// cancellation) stop the run and are returned immediately. Sources whose page
// could not be used, and sources rejected with 401 when
// Options.ContinueAfterAuthError is set, are reported and joined into the
// returned error after the remaining sources have run.
func (m *Manager) Run(ctx context.Context, sources []model.Source) (Summary, error) {
	var summary Summary
	var deferred []error

	for _, src := range sources {
		report, err := m.RunSource(ctx, src)
		summary.add(report)
		if err == nil {
			continue
		}
		if errors.Is(err, ErrPageUnavailable) || (errors.Is(err, ErrAuth) && m.opts.ContinueAfterAuthError) {
			deferred = append(deferred, err)
			continue
		}
		return summary, err
	}

	return summary, errors.Join(deferred...)
}

// RunSource extracts, resolves and fetches the links of one source, strictly
// in extraction order.
func (m *Manager) RunSource(ctx context.Context, src model.Source) (SourceReport, error) {
	report := SourceReport{Source: src.Name}
	m.progress(ProgressEvent{Message: src.Name, Level: LevelSource})

	links, err := m.extractLinks(ctx, src)
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("%s: %v", src.Name, err), Level: LevelError})
		return report, err
	}

	resolved := src.ResolveAll(links)
	m.progress(ProgressEvent{Message: fmt.Sprintf("Found %d link(s) on %s", len(resolved), src.PageURL()), Level: LevelVerbose})

	for _, link := range resolved {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		res := m.FetchFile(ctx, src, link, m.opts)
		report.Results = append(report.Results, res)
		if !res.Failed() {
			continue
		}

		m.progress(ProgressEvent{
			Message: fmt.Sprintf("%s: %s -> %s: %v", res.Kind, link.RemoteURL, link.LocalPath, res.Err),
			Level:   LevelError,
			File:    link.LocalPath,
			Written: res.BytesWritten,
		})

		switch res.Kind {
		case model.KindAuth:
			return report, fmt.Errorf("%s: %w: %w", src.Name, ErrAuth, res.Err)
		case model.KindNetwork:
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			return report, fmt.Errorf("%s: %w: %w", src.Name, ErrNetwork, res.Err)
		}
		if m.opts.Strict {
			return report, fmt.Errorf("%s: %w: %w", src.Name, ErrStrictAbort, res.Err)
		}
	}

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("%s: %d downloaded, %d skipped, %d failed",
			src.Name, report.Count(model.StatusCompleted), report.Count(model.StatusSkipped), report.Count(model.StatusFailed)),
		Level: LevelSuccess,
	})
	return report, nil
}

// Plan extracts and resolves the links of every source without transferring
// anything.
func (m *Manager) Plan(ctx context.Context, sources []model.Source) ([]SourcePlan, error) {
	plans := make([]SourcePlan, 0, len(sources))
	for _, src := range sources {
		links, err := m.extractLinks(ctx, src)
		if err != nil {
			return plans, err
		}
		plans = append(plans, SourcePlan{Source: src, Links: src.ResolveAll(links)})
	}
	return plans, nil
}

// extractLinks fetches the page of src, consulting the failure policy while
// the server is unreachable.
func (m *Manager) extractLinks(ctx context.Context, src model.Source) ([]model.LinkRecord, error) {
	for {
		links, err := m.extractor.Extract(ctx, src)
		if err == nil {
			return links, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !http.IsNetwork(err) {
			return nil, fmt.Errorf("%w: %w", ErrPageUnavailable, err)
		}

		m.progress(ProgressEvent{Message: fmt.Sprintf("No internet connection: %v", err), Level: LevelWarning})
		if !m.policy.RetryPage(ctx, src, err) {
			return nil, fmt.Errorf("%w: %w", ErrAborted, err)
		}
	}
}
