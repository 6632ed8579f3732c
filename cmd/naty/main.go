package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"naty/internal/bundle"
	"naty/internal/icon"
	"naty/internal/settings"
	"naty/internal/siteicons"
	"naty/internal/transfer"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	opts, err := parseArgs(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if opts.showVersion {
		fmt.Println("naty", version)
		return
	}

	// Configure slog
	var logLevel slog.Level
	if opts.debug {
		logLevel = slog.LevelDebug
	} else {
		logLevel = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))

	// Create context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err = run(ctx, opts)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run builds the bundles described by opts
func run(ctx context.Context, opts *cliOptions) error {
	s, err := opts.settings()
	if err != nil {
		return err
	}

	policy, err := icon.ParsePolicy(opts.iconPolicy)
	if err != nil {
		return &settings.ConfigError{Field: "icon-policy", Err: err}
	}

	slog.Debug("Configuration",
		"targetURL", s.TargetURL,
		"name", s.DisplayName(),
		"outputDir", s.OutputDir,
		"platforms", settings.ResolvePlatforms(s.Platforms, settings.HostPlatform()),
		"iconPolicy", policy,
		"probeIcons", opts.probeIcons,
		"version", version)

	// A single transfer slot: downloads never overlap
	downloader := transfer.NewDownloader(transfer.NewPool(1), nil)

	assembler := bundle.NewAssembler(bundle.Options{
		Host:       settings.HostPlatform(),
		Version:    version,
		Icons:      newIconResolver(downloader, policy, opts.probeIcons),
		Downloader: downloader,
	})

	results, err := assembler.Run(ctx, s)
	if err != nil {
		return err
	}

	for _, r := range results {
		slog.Debug("Bundle", "platform", r.Platform, "dir", r.Dir, "executable", r.Executable, "acquisition", r.Acquisition)
	}
	return nil
}

// newIconResolver wires the website extractor and the resolver to one
// downloader. With probe set, icons that declare no size are downloaded and
// measured so they can qualify.
func newIconResolver(downloader *transfer.Downloader, policy icon.Policy, probe bool) *icon.Resolver {
	extractor := siteicons.NewHTMLExtractor(downloader)
	extractor.Probe = probe
	return icon.NewResolver(downloader, extractor, policy)
}
