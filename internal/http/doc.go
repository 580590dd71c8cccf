// Package http provides the HTTP client course-mirror talks to course sites
// with.
//
// The Client in this package handles:
//   - A constant User-Agent header on every request
//   - Anonymous page fetches
//   - Streaming file downloads with optional Basic Authentication
//   - Status validation before anything touches the disk
//
// # Basic Usage
//
//	client := http.NewClient("course-mirror", 60*time.Second)
//
//	// Fetch the course page
//	page, err := client.GetString(ctx, src.PageURL())
//
//	// Download one file, reporting progress per 4096-byte chunk
//	n, err := client.DownloadFile(ctx, link.RemoteURL, link.LocalPath, creds,
//	    func(written, total int64) { ... })
//
// # Errors
//
// A 401 answer matches ErrUnauthorized via errors.Is. Other non-success
// answers are *StatusError. Failures to reach the server at all are
// *NetworkError.
package http
