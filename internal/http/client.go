package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	ioutils "github.com/handiism/course-mirror/internal/io"
	"github.com/handiism/course-mirror/internal/model"
)

// ChunkSize is the size of the reads a download is streamed in.
const ChunkSize = 4096

// DefaultUserAgent is sent when no other User-Agent is configured.
const DefaultUserAgent = "course-mirror/1.0"

// Client wraps HTTP operations with course-mirror's fixed request headers.
//
// Client provides:
//   - A constant User-Agent header
//   - Timeout handling
//   - Page retrieval without authentication
//   - File download with Basic Authentication and progress tracking
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new HTTP client.
//
// An empty userAgent falls back to DefaultUserAgent; a zero timeout means
// no timeout.
func NewClient(userAgent string, timeout time.Duration) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
	}
}

// ProgressWriter wraps a writer to track download progress.
//
// OnUpdate receives the bytes written so far and the expected total
// (-1 when the server sent no Content-Length).
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header).
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

func (c *Client) newRequest(ctx context.Context, url string, creds *model.Credentials) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedURL, url)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if creds != nil {
		req.SetBasicAuth(creds.Username, creds.Password)
	}
	return req, nil
}

// do sends req and returns the response only for a 2xx status. The body of
// any other response is drained and closed.
func (c *Client) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &NetworkError{URL: req.URL.String(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		resp.Body.Close()
		return nil, &StatusError{URL: req.URL.String(), Code: resp.StatusCode, Status: resp.Status}
	}
	return resp, nil
}

// Get performs an anonymous GET request and returns the response body.
//
// Returns an error if:
//   - The server cannot be reached (*NetworkError)
//   - The response status is not 2xx (*StatusError)
//   - Reading the body fails
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := c.newRequest(ctx, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	return body, nil
}

// GetString performs a GET request and returns the response body as a string.
//
// This is a convenience wrapper around Get for fetching HTML pages.
func (c *Client) GetString(ctx context.Context, url string) (string, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// DownloadFile downloads url to destPath and returns the bytes written.
//
// The response status is checked before the destination is created, so a
// rejected request never leaves an empty file behind. Missing parent
// directories of destPath are created. The body is streamed in ChunkSize
// reads; onProgress, when non-nil, is called after every chunk with the
// running byte count and the Content-Length (-1 if absent).
//
// creds, when non-nil, are sent as Basic Authentication.
//
// A connection that drops mid-stream leaves the partial file in place and
// returns a *NetworkError.
func (c *Client) DownloadFile(ctx context.Context, url, destPath string, creds *model.Credentials, onProgress func(written, total int64)) (int64, error) {
	req, err := c.newRequest(ctx, url, creds)
	if err != nil {
		return 0, err
	}

	resp, err := c.do(ctx, req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	file, err := ioutils.CreateFile(destPath)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	pw := &ProgressWriter{
		Writer:   file,
		Total:    resp.ContentLength,
		OnUpdate: onProgress,
	}

	buf := make([]byte, ChunkSize)
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := pw.Write(buf[:n]); werr != nil {
				return pw.Written, werr
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			if ctx.Err() != nil {
				return pw.Written, ctx.Err()
			}
			return pw.Written, &NetworkError{URL: url, Err: rerr}
		}
	}

	return pw.Written, file.Close()
}
