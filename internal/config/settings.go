package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/handiism/course-mirror/internal/download"
	"github.com/handiism/course-mirror/internal/model"
)

// ErrInvalidSource is returned by Validate for an unusable source entry.
var ErrInvalidSource = errors.New("invalid source")

// Settings holds all configuration options.
type Settings struct {
	// HTTP settings
	UserAgent      string  `json:"user_agent"`
	RequestTimeout float64 `json:"request_timeout"` // seconds, 0 = none

	// Download behaviour
	ForceRedownload        bool `json:"force_redownload"`
	VerboseSkipReporting   bool `json:"verbose_skip_reporting"`
	Strict                 bool `json:"strict"`
	ContinueAfterAuthError bool `json:"continue_after_auth_error"`

	// Unattended disables the retry prompt when a page cannot be reached.
	Unattended bool `json:"unattended"`

	// Username is offered to the login prompt. The password is never stored.
	Username string `json:"username"`

	// Sources is the course table; DefaultSources names the ones run when
	// no selection is given.
	Sources        []model.Source `json:"sources"`
	DefaultSources []string       `json:"default_sources"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		UserAgent:      "course-mirror/1.0",
		RequestTimeout: 60,
		Sources:        defaultSources(),
		DefaultSources: []string{"Analysis II", "NumCSE", "Theoretische Informatik"},
	}
}

func defaultSources() []model.Source {
	return []model.Source{
		{
			Name:        "NumCSE",
			BaseURL:     "https://metaphor.ethz.ch/x/2018/hs/401-0663-00L/",
			LeftMarker:  `<div class="page-header" id="exercises">`,
			RightMarker: "Exercises are",
			BaseDir:     "numCSE",
			PathRule:    model.NthSlash(1),
		},
		{
			Name:        "Theoretische Informatik",
			BaseURL:     "http://www.ita.inf.ethz.ch/theoInf18/",
			LeftMarker:  `<table class="exercises">`,
			RightMarker: "Kontakt",
			BaseDir:     "ti",
			PathRule:    model.NthSlash(1),
		},
		{
			Name:        "Analysis I",
			BaseURL:     "https://metaphor.ethz.ch/x/2018/fs/401-0212-16L/",
			LeftMarker:  `<table class="table table-bordered table-condensed table-striped">`,
			RightMarker: "Übungsgruppen",
			BaseDir:     "analysis-1",
			PathRule:    model.NthSlash(1),
		},
		{
			Name:        "Analysis II",
			BaseURL:     "https://metaphor.ethz.ch/x/2018/hs/401-0213-16L/",
			LeftMarker:  "<h1>Übungsserien</h1>",
			RightMarker: "<h1>Übungsstunden</h1>",
			BaseDir:     "analysis-2",
			PathRule:    model.NthSlash(1),
		},
		{
			Name:         "Design of Digital Circuits",
			BaseURL:      "https://safari.ethz.ch/",
			URLExtension: "digitaltechnik/spring2018/doku.php?id=labs",
			LeftMarker:   `<div class="table sectionedit2">`,
			RightMarker:  "Working with the FPGA Board",
			BaseDir:      "design_of_digital_circuits",
			PathRule:     model.QueryParam("media"),
		},
		{
			Name:         "Algorithmen und Wahrscheinlichkeiten",
			BaseURL:      "https://www.cadmo.ethz.ch/education/lectures/FS18/AW/",
			URLExtension: "index.html",
			LeftMarker:   `<table cellpadding="3" cellspacing="0" style="width:100%">`,
			RightMarker:  "Einschreibung in die Übungsstunden",
			BaseDir:      "aw",
			RequiresAuth: true,
			PathRule:     model.NthSlash(1),
		},
		{
			Name:         "Parallel Computing",
			BaseURL:      "https://www.sri.inf.ethz.ch/",
			URLExtension: "pp2018.php",
			LeftMarker:   "Presentation Schedule",
			RightMarker:  "Exams and Grading",
			BaseDir:      "pprog",
			RequiresAuth: true,
			PathRule:     model.NthSlash(1),
		},
	}
}

// Load reads settings from a JSON file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks every source entry.
func (s *Settings) Validate() error {
	seen := make(map[string]bool, len(s.Sources))
	for i, src := range s.Sources {
		switch {
		case src.Name == "":
			return fmt.Errorf("%w: entry %d has no name", ErrInvalidSource, i)
		case seen[src.Name]:
			return fmt.Errorf("%w: duplicate name %q", ErrInvalidSource, src.Name)
		case src.BaseURL == "":
			return fmt.Errorf("%w: %q has no base_url", ErrInvalidSource, src.Name)
		case src.BaseDir == "":
			return fmt.Errorf("%w: %q has no base_dir", ErrInvalidSource, src.Name)
		}
		if err := src.PathRule.Validate(); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrInvalidSource, src.Name, err)
		}
		seen[src.Name] = true
	}
	for _, name := range s.DefaultSources {
		if _, ok := s.find(name); !ok {
			return fmt.Errorf("%w: default source %q is not defined", ErrInvalidSource, name)
		}
	}
	return nil
}

// Select returns the named sources in the order given. An empty list
// selects DefaultSources, or every source when DefaultSources is empty too.
// Names match case-insensitively.
func (s *Settings) Select(names []string) ([]model.Source, error) {
	if len(names) == 0 {
		names = s.DefaultSources
	}
	if len(names) == 0 {
		return append([]model.Source(nil), s.Sources...), nil
	}

	selected := make([]model.Source, 0, len(names))
	for _, name := range names {
		src, ok := s.find(name)
		if !ok {
			return nil, fmt.Errorf("unknown source %q", name)
		}
		selected = append(selected, src)
	}
	return selected, nil
}

func (s *Settings) find(name string) (model.Source, bool) {
	name = strings.TrimSpace(name)
	for _, src := range s.Sources {
		if strings.EqualFold(src.Name, name) || strings.EqualFold(src.BaseDir, name) {
			return src, true
		}
	}
	return model.Source{}, false
}

// Timeout returns RequestTimeout as a duration.
func (s *Settings) Timeout() time.Duration {
	return time.Duration(s.RequestTimeout * float64(time.Second))
}

// Options converts settings to the engine's run options.
func (s *Settings) Options() download.Options {
	return download.Options{
		ForceRedownload:        s.ForceRedownload,
		VerboseSkipReporting:   s.VerboseSkipReporting,
		Strict:                 s.Strict,
		ContinueAfterAuthError: s.ContinueAfterAuthError,
	}
}
