package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/handiism/course-mirror/internal/model"
)

func TestDefaultSettings_Valid(t *testing.T) {
	s := DefaultSettings()
	if err := s.Validate(); err != nil {
		t.Fatalf("default settings invalid: %v", err)
	}

	sources, err := s.Select(nil)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, src := range sources {
		names = append(names, src.Name)
	}
	want := []string{"Analysis II", "NumCSE", "Theoretische Informatik"}
	if len(names) != len(want) {
		t.Fatalf("default run = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("source %d = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestSettings_SelectOrderAndAliases(t *testing.T) {
	s := DefaultSettings()

	sources, err := s.Select([]string{"pprog", "numcse"})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if len(sources) != 2 || sources[0].Name != "Parallel Computing" || sources[1].Name != "NumCSE" {
		t.Errorf("got %+v", sources)
	}
	if !sources[0].RequiresAuth {
		t.Error("Parallel Computing should require auth")
	}

	if _, err := s.Select([]string{"Compilers"}); err == nil {
		t.Error("expected error for unknown source")
	}
}

func TestSettings_SelectAllWithoutDefaults(t *testing.T) {
	s := DefaultSettings()
	s.DefaultSources = nil

	sources, err := s.Select(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != len(s.Sources) {
		t.Errorf("got %d sources, want %d", len(sources), len(s.Sources))
	}
}

func TestSettings_Validate(t *testing.T) {
	base := model.Source{Name: "X", BaseURL: "http://x/", BaseDir: "x", PathRule: model.NthSlash(1)}

	tests := []struct {
		name   string
		mutate func(*model.Source)
	}{
		{"no name", func(s *model.Source) { s.Name = "" }},
		{"no url", func(s *model.Source) { s.BaseURL = "" }},
		{"no dir", func(s *model.Source) { s.BaseDir = "" }},
		{"bad rule", func(s *model.Source) { s.PathRule = model.PathRule{Kind: "glob"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := base
			tt.mutate(&src)
			s := &Settings{Sources: []model.Source{src}}
			if err := s.Validate(); !errors.Is(err, ErrInvalidSource) {
				t.Errorf("err = %v, want ErrInvalidSource", err)
			}
		})
	}

	dup := &Settings{Sources: []model.Source{base, base}}
	if err := dup.Validate(); !errors.Is(err, ErrInvalidSource) {
		t.Errorf("duplicate names: err = %v, want ErrInvalidSource", err)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(s.Sources) != 7 {
		t.Errorf("got %d sources, want 7", len(s.Sources))
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.json")
	s := DefaultSettings()
	s.Username = "pwicki"
	s.Strict = true
	s.Sources = s.Sources[4:5]
	s.DefaultSources = []string{"Design of Digital Circuits"}

	if err := s.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Username != "pwicki" || !loaded.Strict {
		t.Errorf("scalar settings lost: %+v", loaded)
	}
	if len(loaded.Sources) != 1 || loaded.Sources[0].PathRule != model.QueryParam("media") {
		t.Errorf("sources = %+v", loaded.Sources)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"force_redownload": true, "request_timeout": 5}`), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !s.Options().ForceRedownload {
		t.Error("force_redownload not applied")
	}
	if s.Timeout() != 5*time.Second {
		t.Errorf("Timeout() = %v", s.Timeout())
	}
	if len(s.Sources) != 7 {
		t.Errorf("default sources lost: %d", len(s.Sources))
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"sources": [`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestLoad_PathRuleOverrideKeepsSitePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{
  "sources": [
    {
      "name": "NumCSE",
      "base_url": "https://metaphor.ethz.ch/x/2018/hs/401-0663-00L/",
      "left_marker": "<div class=\"page-header\" id=\"exercises\">",
      "right_marker": "Exercises are",
      "base_dir": "numCSE",
      "path_rule": {"kind": "nth_slash", "n": 0}
    }
  ],
  "default_sources": ["NumCSE"]
}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	sources, err := s.Select(nil)
	if err != nil || len(sources) != 1 {
		t.Fatalf("Select = %v, %v", sources, err)
	}

	href := "/x/2018/hs/401-0663-00L/ex/serie1.pdf"
	tests := []struct {
		name string
		src  model.Source
		want string
	}{
		{"override keeps the site path", sources[0], filepath.Join("numCSE", "x", "2018", "hs", "401-0663-00L", "ex", "serie1.pdf")},
		{"default drops the first segment", DefaultSettings().Sources[0], filepath.Join("numCSE", "2018", "hs", "401-0663-00L", "ex", "serie1.pdf")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.src.Resolve(model.LinkRecord{Href: href}).LocalPath; got != tt.want {
				t.Errorf("LocalPath = %q, want %q", got, tt.want)
			}
		})
	}
}
