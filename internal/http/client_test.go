package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/handiism/course-mirror/internal/model"
)

func TestClient_GetString(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		if _, _, ok := r.BasicAuth(); ok {
			t.Error("page request must not carry credentials")
		}
		fmt.Fprint(w, "<html>course</html>")
	}))
	defer srv.Close()

	c := NewClient("test-agent", 5*time.Second)
	body, err := c.GetString(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("GetString failed: %v", err)
	}
	if body != "<html>course</html>" {
		t.Errorf("body = %q", body)
	}
	if gotUA != "test-agent" {
		t.Errorf("User-Agent = %q, want %q", gotUA, "test-agent")
	}
}

func TestClient_GetStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewClient("", time.Second).Get(context.Background(), srv.URL)
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if se.Code != http.StatusNotFound {
		t.Errorf("Code = %d, want 404", se.Code)
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Error("404 must not match ErrUnauthorized")
	}
}

func TestClient_GetNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient("", time.Second).Get(context.Background(), url)
	if !IsNetwork(err) {
		t.Errorf("expected network error, got %v", err)
	}
}

func TestClient_DownloadFile(t *testing.T) {
	payload := strings.Repeat("x", 3*ChunkSize+17)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "student" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Length", fmt.Sprint(len(payload)))
		fmt.Fprint(w, payload)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "aw", "serie1.pdf")
	var calls int
	var last, lastTotal int64
	n, err := NewClient("", 5*time.Second).DownloadFile(context.Background(), srv.URL, dest,
		&model.Credentials{Username: "student", Password: "secret"},
		func(written, total int64) {
			if written-last > ChunkSize {
				t.Errorf("chunk of %d bytes exceeds %d", written-last, ChunkSize)
			}
			calls++
			last, lastTotal = written, total
		})
	if err != nil {
		t.Fatalf("DownloadFile failed: %v", err)
	}
	if n != int64(len(payload)) {
		t.Errorf("written = %d, want %d", n, len(payload))
	}
	if last != n || lastTotal != n {
		t.Errorf("last progress = %d/%d, want %d/%d", last, lastTotal, n, n)
	}
	if calls < 4 {
		t.Errorf("got %d progress calls, want at least 4", calls)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != payload {
		t.Error("file content mismatch")
	}
}

func TestClient_DownloadFileUnauthorizedLeavesNoFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "pprog", "slides.pdf")
	_, err := NewClient("", time.Second).DownloadFile(context.Background(), srv.URL, dest,
		&model.Credentials{Username: "u", Password: "wrong"}, nil)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Errorf("destination should not exist, stat err = %v", err)
	}
	if _, err := os.Stat(filepath.Dir(dest)); !os.IsNotExist(err) {
		t.Errorf("parent directory should not be created, stat err = %v", err)
	}
}

func TestClient_DownloadFileUnknownLength(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fl := w.(http.Flusher)
		for i := 0; i < 3; i++ {
			fmt.Fprint(w, strings.Repeat("y", 1000))
			fl.Flush()
		}
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "ti", "blatt.pdf")
	var total int64
	n, err := NewClient("", time.Second).DownloadFile(context.Background(), srv.URL, dest, nil,
		func(_, tot int64) { total = tot })
	if err != nil {
		t.Fatalf("DownloadFile failed: %v", err)
	}
	if n != 3000 {
		t.Errorf("written = %d, want 3000", n)
	}
	if total != -1 {
		t.Errorf("total = %d, want -1 for chunked response", total)
	}
}

func TestClient_DownloadFileUnsupportedURL(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "mail")
	_, err := NewClient("", time.Second).DownloadFile(context.Background(), "mailto:ta@example.com", dest, nil, nil)
	if !errors.Is(err, ErrUnsupportedURL) {
		t.Errorf("err = %v, want ErrUnsupportedURL", err)
	}
	if IsNetwork(err) {
		t.Error("unsupported URL must not count as a network error")
	}
}
