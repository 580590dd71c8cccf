package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/handiism/course-mirror/internal/config"
	"github.com/handiism/course-mirror/internal/tui"
)

func main() {
	configFlag := flag.String("config", "", "Path to config file")
	sourceFlag := flag.String("source", "", "Sources to mirror, comma-separated, in order")
	outputFlag := flag.String("output", "", "Root directory for source directories")
	flag.Parse()

	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		if settings, err = config.Load(*configFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error in config: %v\n", err)
		os.Exit(1)
	}

	var names []string
	for _, n := range strings.Split(*sourceFlag, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	sources, err := settings.Select(names)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *outputFlag != "" {
		for i := range sources {
			sources[i].BaseDir = filepath.Join(*outputFlag, sources[i].BaseDir)
		}
	}

	if err := tui.Run(settings, sources); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
