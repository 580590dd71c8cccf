package model

import "fmt"

// LinkRecord is a raw hyperlink found inside a page region.
type LinkRecord struct {
	Href string
}

// ResolvedLink is a LinkRecord mapped onto a remote URL and a local path.
type ResolvedLink struct {
	Href      string
	RemoteURL string
	LocalPath string
}

// Credentials is a username/password pair used for Basic Authentication.
// It is only ever held in memory.
type Credentials struct {
	Username string
	Password string
}

// String hides the password so credentials never end up in logs.
func (c Credentials) String() string {
	return fmt.Sprintf("%s:***", c.Username)
}

// Status is the outcome of one link transfer.
type Status int

const (
	StatusSkipped Status = iota
	StatusCompleted
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSkipped:
		return "skipped"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// ErrorKind classifies a failed transfer.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	// KindNetwork means the server could not be reached.
	KindNetwork
	// KindAuth means the server answered 401.
	KindAuth
	// KindDownload means any other non-success status.
	KindDownload
	// KindFilesystem means the destination could not be created or written.
	KindFilesystem
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNetwork:
		return "network error"
	case KindAuth:
		return "authorization error"
	case KindDownload:
		return "download error"
	case KindFilesystem:
		return "filesystem error"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// DownloadResult reports what happened to one ResolvedLink.
type DownloadResult struct {
	Link         ResolvedLink
	Status       Status
	Kind         ErrorKind
	BytesWritten int64
	Err          error
}

// Failed reports whether the transfer failed.
func (r DownloadResult) Failed() bool {
	return r.Status == StatusFailed
}
