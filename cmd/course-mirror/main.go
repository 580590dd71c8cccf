package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/handiism/course-mirror/internal/auth"
	"github.com/handiism/course-mirror/internal/config"
	"github.com/handiism/course-mirror/internal/download"
	"github.com/handiism/course-mirror/internal/http"
	"github.com/handiism/course-mirror/internal/ui"
)

func main() {
	// Command line flags
	var (
		configFlag     = flag.String("config", "", "Path to config file")
		sourceFlag     = flag.String("source", "", "Sources to mirror, comma-separated, in order (default: configured defaults)")
		outputFlag     = flag.String("output", "", "Root directory for source directories")
		userFlag       = flag.String("user", "", "Login name for sources that require authentication")
		forceFlag      = flag.Bool("r", false, "Re-download files that already exist")
		verboseFlag    = flag.Bool("v", false, "Report skipped files and show verbose output")
		strictFlag     = flag.Bool("strict", false, "Stop at the first failed download")
		unattendedFlag = flag.Bool("unattended", false, "Never prompt to retry when a page is unreachable")
		listFlag       = flag.Bool("list", false, "List resolved links without downloading")
		dumpFlag       = flag.String("dump-config", "", "Write the effective config to this path and exit")
	)

	flag.Parse()

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Apply flags
	if *forceFlag {
		settings.ForceRedownload = true
	}
	if *verboseFlag {
		settings.VerboseSkipReporting = true
	}
	if *strictFlag {
		settings.Strict = true
	}
	if *unattendedFlag {
		settings.Unattended = true
	}
	if *userFlag != "" {
		settings.Username = *userFlag
	}

	if *dumpFlag != "" {
		if err := settings.Save(*dumpFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error in config: %v\n", err)
		os.Exit(1)
	}

	sources, err := settings.Select(splitList(*sourceFlag))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *outputFlag != "" {
		for i := range sources {
			sources[i].BaseDir = filepath.Join(*outputFlag, sources[i].BaseDir)
		}
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	// Prompter and retry policy share one reader so neither swallows the
	// other's input.
	stdin := bufio.NewReader(os.Stdin)
	prompter := auth.NewTerminalPrompter()
	prompter.In = stdin

	var policy download.FailurePolicy = &download.InteractivePolicy{In: stdin, Out: os.Stderr}
	if settings.Unattended {
		policy = download.Unattended{}
	}

	printer := newPrinter(os.Stdout, settings)
	manager := download.NewManager(
		http.NewClient(settings.UserAgent, settings.Timeout()),
		settings.Options(),
		auth.NewStore(prompter, settings.Username),
		policy,
		printer.Handle,
	)

	if *listFlag {
		plans, err := manager.Plan(ctx, sources)
		printer.Plan(plans)
		if err != nil {
			exit(ctx, err)
		}
		return
	}

	summary, err := manager.Run(ctx, sources)
	printer.Summary(summary)
	if err != nil {
		exit(ctx, err)
	}

	fmt.Println("All done. ;)")
}

// newPrinter shows verbose lines when -v or the config file asks for them.
func newPrinter(out io.Writer, settings *config.Settings) *ui.Printer {
	return ui.NewPrinter(out, settings.VerboseSkipReporting)
}

func exit(ctx context.Context, err error) {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		fmt.Println("\nRun cancelled.")
		os.Exit(130)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
