// Package siteicons discovers the icons a website advertises.
package siteicons

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"

	"naty/internal/imageinfo"
)

// Kind classifies where an icon was found
type Kind int

const (
	KindAppIcon Kind = iota
	KindSiteFavicon
	KindSiteLogo
)

// String returns the string representation of the kind
func (k Kind) String() string {
	names := []string{"app_icon", "site_favicon", "site_logo"}
	if k >= 0 && int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// Size is a declared icon size in pixels
type Size struct {
	Width  int
	Height int
}

// Square reports whether width and height are equal
func (s Size) Square() bool {
	return s.Width > 0 && s.Width == s.Height
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Icon is one candidate icon advertised by a site
type Icon struct {
	URL    string
	Kind   Kind
	Format imageinfo.Format
	Sizes  []Size // largest first, empty when unknown
}

// Size returns the largest declared size
func (i Icon) Size() (Size, bool) {
	if len(i.Sizes) == 0 {
		return Size{}, false
	}
	return i.Sizes[0], true
}

// Extractor returns the candidate icons of a web page in discovery order
type Extractor interface {
	Icons(ctx context.Context, pageURL string) ([]Icon, error)
}

// Fetcher reads a URL into memory
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Helper functions

// parseSizes parses a sizes attribute such as "16x16 32x32" and returns the
// sizes largest first. "any" and malformed tokens are ignored.
func parseSizes(attr string) []Size {
	var sizes []Size
	for _, token := range strings.Fields(strings.ToLower(attr)) {
		w, h, ok := strings.Cut(token, "x")
		if !ok {
			continue
		}
		width, err := strconv.Atoi(w)
		if err != nil || width <= 0 {
			continue
		}
		height, err := strconv.Atoi(h)
		if err != nil || height <= 0 {
			continue
		}
		sizes = append(sizes, Size{Width: width, Height: height})
	}

	sort.SliceStable(sizes, func(i, j int) bool {
		return sizes[i].Width*sizes[i].Height > sizes[j].Width*sizes[j].Height
	})
	return sizes
}

// formatFromType maps a MIME type to an image format
func formatFromType(mime string) imageinfo.Format {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if idx := strings.IndexByte(mime, ';'); idx >= 0 {
		mime = strings.TrimSpace(mime[:idx])
	}

	switch mime {
	case "image/png", "image/apng":
		return imageinfo.FormatPNG
	case "image/jpeg", "image/jpg":
		return imageinfo.FormatJPEG
	case "image/webp":
		return imageinfo.FormatWebP
	case "image/bmp":
		return imageinfo.FormatBMP
	case "image/x-icon", "image/vnd.microsoft.icon", "image/ico", "image/icon":
		return imageinfo.FormatICO
	case "image/svg+xml", "image/svg":
		return imageinfo.FormatSVG
	}
	return imageinfo.FormatUnknown
}

// formatFromURL guesses an image format from the URL path extension
func formatFromURL(rawURL string) imageinfo.Format {
	p := rawURL
	if idx := strings.IndexAny(p, "?#"); idx >= 0 {
		p = p[:idx]
	}

	switch strings.ToLower(path.Ext(p)) {
	case ".png":
		return imageinfo.FormatPNG
	case ".jpg", ".jpeg":
		return imageinfo.FormatJPEG
	case ".webp":
		return imageinfo.FormatWebP
	case ".bmp":
		return imageinfo.FormatBMP
	case ".ico":
		return imageinfo.FormatICO
	case ".svg", ".svgz":
		return imageinfo.FormatSVG
	}
	return imageinfo.FormatUnknown
}

// detectIconFormat prefers the declared MIME type and falls back to the URL
func detectIconFormat(mime, rawURL string) imageinfo.Format {
	if f := formatFromType(mime); f != imageinfo.FormatUnknown {
		return f
	}
	return formatFromURL(rawURL)
}
