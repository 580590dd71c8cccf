package ui

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/handiism/course-mirror/internal/download"
	mirrorhttp "github.com/handiism/course-mirror/internal/http"
	"github.com/handiism/course-mirror/internal/model"
)

func TestBar(t *testing.T) {
	tests := []struct {
		name        string
		written     int64
		total       int64
		wantPercent float64
		wantFilled  int
	}{
		{"empty", 0, 8192, 0, 0},
		{"first chunk", 4096, 8192, 0.5, 20},
		{"complete", 8192, 8192, 1, 40},
		{"overshoot clamps", 9000, 8192, 1, 40},
		{"unknown total", 4096, -1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBar(BarWidth)
			b.Update(tt.written, tt.total)
			if got := b.Percent(); got != tt.wantPercent {
				t.Errorf("Percent() = %v, want %v", got, tt.wantPercent)
			}
			if got := b.Filled(); got != tt.wantFilled {
				t.Errorf("Filled() = %d, want %d", got, tt.wantFilled)
			}
			if tt.total > 0 {
				if got := strings.Count(b.View(), "="); got != tt.wantFilled {
					t.Errorf("View() has %d filled cells, want %d", got, tt.wantFilled)
				}
			}
		})
	}
}

// A transfer of 8192 bytes in two 4096-byte chunks ends with a full bar.
func TestPrinter_ProgressReachesFullBar(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "8192")
		for i := 0; i < 2; i++ {
			w.Write(bytes.Repeat([]byte{'a'}, 4096))
			w.(http.Flusher).Flush()
		}
	}))
	defer srv.Close()

	var out bytes.Buffer
	printer := NewPrinter(&out, false)
	m := download.NewManager(mirrorhttp.NewClient("", 5*time.Second), download.Options{}, nil, nil, printer.Handle)

	src := model.Source{BaseURL: srv.URL, BaseDir: t.TempDir(), PathRule: model.NthSlash(0)}
	res := m.FetchFile(context.Background(), src, src.Resolve(model.LinkRecord{Href: "/serie01.pdf"}), download.Options{})
	if res.BytesWritten != 8192 {
		t.Fatalf("BytesWritten = %d, want 8192", res.BytesWritten)
	}

	frames := strings.Split(strings.TrimRight(out.String(), "\n"), "\r")
	last := frames[len(frames)-1]
	if !strings.Contains(last, "serie01.pdf") {
		t.Errorf("last frame %q does not name the file", last)
	}
	if got := strings.Count(last, "="); got != BarWidth {
		t.Errorf("last frame has %d filled cells, want %d: %q", got, BarWidth, last)
	}
	if !strings.HasSuffix(out.String(), "\n") {
		t.Error("completed transfer should end its line")
	}
}

func TestPrinter_Events(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		events  []download.ProgressEvent
		want    []string
		notWant []string
	}{
		{
			name: "source header and skip",
			events: []download.ProgressEvent{
				{Level: download.LevelSource, Message: "NumCSE"},
				{Level: download.LevelSkipped, File: "serie01.pdf"},
			},
			want: []string{"NumCSE\n", "serie01.pdf", "Skipped"},
		},
		{
			name: "unknown length",
			events: []download.ProgressEvent{
				{Level: download.LevelTransfer, File: "blatt.pdf", Written: 10, Total: -1},
				{Level: download.LevelFileDone, File: "blatt.pdf", Written: 10, Total: -1},
			},
			want:    []string{"-> Downloading: blatt.pdf"},
			notWant: []string{"["},
		},
		{
			name: "error closes open line",
			events: []download.ProgressEvent{
				{Level: download.LevelTransfer, File: "a.pdf", Written: 1, Total: 2},
				{Level: download.LevelError, Message: "download error: http://x/a.pdf -> out/a.pdf"},
			},
			want: []string{"]\ndownload error: http://x/a.pdf -> out/a.pdf\n"},
		},
		{
			name:    "verbose hidden",
			events:  []download.ProgressEvent{{Level: download.LevelVerbose, Message: "Found 3 link(s)"}},
			notWant: []string{"Found"},
		},
		{
			name:    "verbose shown",
			verbose: true,
			events:  []download.ProgressEvent{{Level: download.LevelVerbose, Message: "Found 3 link(s)"}},
			want:    []string{"Found 3 link(s)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrinter(&out, tt.verbose)
			for _, e := range tt.events {
				p.Handle(e)
			}
			for _, w := range tt.want {
				if !strings.Contains(out.String(), w) {
					t.Errorf("output %q missing %q", out.String(), w)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out.String(), w) {
					t.Errorf("output %q should not contain %q", out.String(), w)
				}
			}
		})
	}
}

func TestPrinter_Summary(t *testing.T) {
	var out bytes.Buffer
	NewPrinter(&out, false).Summary(download.Summary{
		Sources: 2, Completed: 3, Skipped: 4, Failed: 1, Bytes: 2048,
		Failures: []model.DownloadResult{{
			Link:   model.ResolvedLink{RemoteURL: "http://x/s2.pdf", LocalPath: "ti/s2.pdf"},
			Status: model.StatusFailed,
			Kind:   model.KindDownload,
			Err:    errors.New("HTTP 404"),
		}},
	})

	for _, w := range []string{"2 source(s)", "3 downloaded (2.00 KiB)", "4 skipped", "1 failed", "http://x/s2.pdf -> ti/s2.pdf"} {
		if !strings.Contains(out.String(), w) {
			t.Errorf("summary %q missing %q", out.String(), w)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.00 KiB"},
		{8192, "8.00 KiB"},
		{3 << 20, "3.00 MiB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.n); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
