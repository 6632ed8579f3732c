package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"naty/internal/icon"
	"naty/internal/settings"
	"naty/internal/siteicons"
	"naty/internal/transfer"
)

func main() {
	// Flags
	policyName := flag.String("policy", "first", "Icon selection policy: first or largest")
	fetch := flag.Bool("fetch", false, "Resolve the icon into a temporary directory and inspect it")
	probe := flag.Bool("probe", true, "Download candidates without declared sizes to measure them")
	flag.Usage = printUsage
	flag.Parse()

	// Configure logging
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	slog.SetDefault(slog.New(handler))

	args := flag.Args()
	if len(args) != 1 {
		printUsage()
		os.Exit(1)
	}
	targetURL := args[0]

	if _, err := settings.ParseTargetURL(targetURL); err != nil {
		slog.Error("Invalid URL", "error", err)
		os.Exit(1)
	}

	policy, err := icon.ParsePolicy(*policyName)
	if err != nil {
		slog.Error("Invalid policy", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	downloader := transfer.NewDownloader(transfer.NewPool(1), nil)
	extractor := siteicons.NewHTMLExtractor(downloader)
	extractor.Probe = *probe

	candidates, err := extractor.Icons(ctx, targetURL)
	if err != nil {
		slog.Error("Failed to extract icons", "error", err)
		os.Exit(1)
	}

	selected, found := icon.Select(candidates, policy)

	fmt.Println("=== Candidates ===")
	for i, c := range candidates {
		marker := " "
		if found && c.URL == selected.URL && c.Kind == selected.Kind {
			marker = "*"
		}
		fmt.Printf("%s %2d  %-12s %-7s %-9s %s\n", marker, i, c.Kind, c.Format, describeSize(c), c.URL)
	}
	fmt.Println()
	if found {
		fmt.Printf("Selected (%s): %s\n", policy, selected.URL)
	} else {
		fmt.Println("No qualifying icon, the default icon would be used")
	}

	if !*fetch {
		return
	}

	dir, err := os.MkdirTemp("", "naty-icons-")
	if err != nil {
		slog.Error("Failed to create temp directory", "error", err)
		os.Exit(1)
	}

	s := settings.DefaultSettings()
	s.TargetURL = targetURL
	s.OutputDir = dir

	resolved, err := icon.NewResolver(downloader, extractor, policy).Resolve(ctx, s)
	if err != nil {
		slog.Error("Failed to resolve icon", "error", err)
		os.Exit(1)
	}

	path := filepath.Join(dir, icon.FileName)
	if err := os.WriteFile(path, resolved.Data, 0644); err != nil {
		slog.Error("Failed to write icon", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("=== Resolved Icon ===")
	fmt.Printf("Origin:  %s\n", resolved.Origin)
	fmt.Printf("Image:   %s\n", resolved.Info)
	fmt.Printf("Bytes:   %d\n", len(resolved.Data))
	fmt.Printf("Written: %s\n", path)
}

func printUsage() {
	fmt.Println("naty-icons - Show the icons naty finds on a website")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  naty-icons [flags] URL")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -policy string   first or largest (default \"first\")")
	fmt.Println("  -fetch           Resolve the icon and inspect the downloaded image")
	fmt.Println("  -probe           Measure candidates that declare no size (default true)")
	fmt.Println()
	fmt.Println("Candidates marked with * are selected. Favicons, SVG images and")
	fmt.Println("non-square sizes never qualify.")
	fmt.Println()
	fmt.Println("Example:")
	fmt.Println("  naty-icons -policy largest -fetch https://github.com")
}

// describeSize formats the declared size of an icon
func describeSize(c siteicons.Icon) string {
	size, ok := c.Size()
	if !ok {
		return "-"
	}
	return size.String()
}
