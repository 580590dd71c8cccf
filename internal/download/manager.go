package download

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/handiism/course-mirror/internal/http"
	ioutils "github.com/handiism/course-mirror/internal/io"
	"github.com/handiism/course-mirror/internal/model"
	"github.com/handiism/course-mirror/internal/scrape"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
	// LevelSource announces the source about to be processed.
	LevelSource
	// LevelTransfer reports bytes received for the file being downloaded.
	LevelTransfer
	// LevelFileDone closes a transfer started with LevelTransfer events.
	LevelFileDone
	// LevelSkipped reports a file left alone because it already exists.
	LevelSkipped
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel

	// File, Written and Total are set for per-file events. Total is -1
	// when the server sent no Content-Length.
	File    string
	Written int64
	Total   int64
}

// Options are the run controls of the engine.
type Options struct {
	// ForceRedownload fetches files even when they already exist.
	ForceRedownload bool

	// VerboseSkipReporting emits a LevelSkipped event for every skip.
	VerboseSkipReporting bool

	// Strict aborts the run on the first failed link.
	Strict bool

	// ContinueAfterAuthError moves on to the next source after a 401
	// instead of ending the run.
	ContinueAfterAuthError bool
}

// Downloader transfers one file to disk.
type Downloader interface {
	DownloadFile(ctx context.Context, url, destPath string, creds *model.Credentials, onProgress func(written, total int64)) (int64, error)
}

// LinkExtractor lists the links of a source's page region.
type LinkExtractor interface {
	Extract(ctx context.Context, src model.Source) ([]model.LinkRecord, error)
}

// CredentialSource hands out the login for sources that require it.
type CredentialSource interface {
	Credentials(ctx context.Context) (model.Credentials, error)
}

// Manager coordinates source processing and file transfers.
type Manager struct {
	downloader Downloader
	extractor  LinkExtractor
	creds      CredentialSource
	policy     FailurePolicy
	opts       Options

	onProgress func(ProgressEvent)
}

// NewManager creates a new download Manager.
//
// creds is only consulted for sources with RequiresAuth. A nil policy
// behaves like Unattended.
func NewManager(client *http.Client, opts Options, creds CredentialSource, policy FailurePolicy, onProgress func(ProgressEvent)) *Manager {
	if policy == nil {
		policy = Unattended{}
	}
	return &Manager{
		downloader: client,
		extractor:  scrape.NewExtractor(client),
		creds:      creds,
		policy:     policy,
		opts:       opts,
		onProgress: onProgress,
	}
}

// Options returns the options the manager runs with.
func (m *Manager) Options() Options {
	return m.opts
}

// FetchFile transfers one resolved link, or skips it when the file is
// already present and opts.ForceRedownload is false.
//
// A skipped link makes no network request. The returned result carries the
// bytes written, which are partial when a transfer broke off midway.
func (m *Manager) FetchFile(ctx context.Context, src model.Source, link model.ResolvedLink, opts Options) model.DownloadResult {
	name := filepath.Base(link.LocalPath)
	result := model.DownloadResult{Link: link}

	if !opts.ForceRedownload && ioutils.FileExists(link.LocalPath) {
		if opts.VerboseSkipReporting {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Skipped %s", link.LocalPath), Level: LevelSkipped, File: name})
		}
		result.Status = model.StatusSkipped
		return result
	}

	var creds *model.Credentials
	if src.RequiresAuth {
		if m.creds == nil {
			return failed(result, model.KindAuth, errors.New("source requires authentication but no credentials are configured"))
		}
		c, err := m.creds.Credentials(ctx)
		if err != nil {
			return failed(result, model.KindAuth, fmt.Errorf("obtaining credentials: %w", err))
		}
		creds = &c
	}

	var total int64 = -1
	n, err := m.downloader.DownloadFile(ctx, link.RemoteURL, link.LocalPath, creds, func(written, t int64) {
		total = t
		m.progress(ProgressEvent{Level: LevelTransfer, File: name, Written: written, Total: t})
	})
	result.BytesWritten = n
	if err != nil {
		return failed(result, classify(err), err)
	}

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Downloaded: %s", link.LocalPath),
		Level:   LevelFileDone,
		File:    name,
		Written: n,
		Total:   total,
	})
	result.Status = model.StatusCompleted
	return result
}

func failed(result model.DownloadResult, kind model.ErrorKind, err error) model.DownloadResult {
	result.Status = model.StatusFailed
	result.Kind = kind
	result.Err = err
	return result
}

func classify(err error) model.ErrorKind {
	var se *http.StatusError
	switch {
	case errors.Is(err, http.ErrUnauthorized):
		return model.KindAuth
	case errors.As(err, &se), errors.Is(err, http.ErrUnsupportedURL):
		return model.KindDownload
	case http.IsNetwork(err), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return model.KindNetwork
	default:
		return model.KindFilesystem
	}
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
