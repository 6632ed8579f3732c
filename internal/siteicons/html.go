package siteicons

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"naty/internal/imageinfo"
)

// HTMLExtractor finds icons by scanning a page's <link> and <img> elements
// and the icons of its web app manifest.
type HTMLExtractor struct {
	fetcher Fetcher

	// Probe downloads candidates without declared sizes to read their
	// real dimensions and format.
	Probe bool
}

// NewHTMLExtractor creates an extractor fetching through f
func NewHTMLExtractor(f Fetcher) *HTMLExtractor {
	return &HTMLExtractor{fetcher: f}
}

// webManifest is the subset of a web app manifest we read
type webManifest struct {
	Icons []struct {
		Src   string `json:"src"`
		Sizes string `json:"sizes"`
		Type  string `json:"type"`
	} `json:"icons"`
}

// Icons fetches pageURL and returns its icons in document order.
// /favicon.ico is appended when the page declares no favicon.
func (e *HTMLExtractor) Icons(ctx context.Context, pageURL string) ([]Icon, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL: %w", err)
	}

	body, err := e.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", pageURL, err)
	}

	if href := findBaseHref(doc); href != "" {
		if b, err := base.Parse(href); err == nil {
			base = b
		}
	}

	var icons []Icon
	hasFavicon := false

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "link":
				found := e.fromLink(ctx, base, n)
				for _, icon := range found {
					if icon.Kind == KindSiteFavicon {
						hasFavicon = true
					}
				}
				icons = append(icons, found...)
			case "img":
				if icon, ok := fromLogoImage(base, n); ok {
					icons = append(icons, icon)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if !hasFavicon {
		if fav, err := base.Parse("/favicon.ico"); err == nil {
			icons = append(icons, Icon{URL: fav.String(), Kind: KindSiteFavicon, Format: imageinfo.FormatICO})
		}
	}

	if e.Probe {
		e.probe(ctx, icons)
	}

	return icons, nil
}

// fromLink converts a <link> element into zero or more icons
func (e *HTMLExtractor) fromLink(ctx context.Context, base *url.URL, n *html.Node) []Icon {
	rels := strings.Fields(strings.ToLower(attr(n, "rel")))
	href := strings.TrimSpace(attr(n, "href"))
	if href == "" || strings.HasPrefix(href, "data:") {
		return nil
	}

	target, err := base.Parse(href)
	if err != nil {
		return nil
	}

	for _, rel := range rels {
		switch rel {
		case "apple-touch-icon", "apple-touch-icon-precomposed":
			return []Icon{newIcon(target.String(), KindAppIcon, attr(n, "type"), attr(n, "sizes"))}
		case "icon", "mask-icon":
			return []Icon{newIcon(target.String(), KindSiteFavicon, attr(n, "type"), attr(n, "sizes"))}
		case "manifest":
			return e.fromManifest(ctx, target)
		}
	}
	return nil
}

// fromManifest reads the icons of a web app manifest
func (e *HTMLExtractor) fromManifest(ctx context.Context, manifestURL *url.URL) []Icon {
	data, err := e.fetcher.Fetch(ctx, manifestURL.String())
	if err != nil {
		slog.Debug("Failed to fetch web manifest", "url", manifestURL.String(), "error", err)
		return nil
	}

	var m webManifest
	if err := json.Unmarshal(data, &m); err != nil {
		slog.Debug("Failed to parse web manifest", "url", manifestURL.String(), "error", err)
		return nil
	}

	var icons []Icon
	for _, entry := range m.Icons {
		if entry.Src == "" || strings.HasPrefix(entry.Src, "data:") {
			continue
		}
		src, err := manifestURL.Parse(entry.Src)
		if err != nil {
			continue
		}
		icons = append(icons, newIcon(src.String(), KindAppIcon, entry.Type, entry.Sizes))
	}
	return icons
}

// fromLogoImage turns an <img> that looks like a site logo into an icon
func fromLogoImage(base *url.URL, n *html.Node) (Icon, bool) {
	src := strings.TrimSpace(attr(n, "src"))
	if src == "" || strings.HasPrefix(src, "data:") {
		return Icon{}, false
	}

	hint := strings.ToLower(strings.Join([]string{attr(n, "class"), attr(n, "id"), attr(n, "alt"), src}, " "))
	if !strings.Contains(hint, "logo") {
		return Icon{}, false
	}

	target, err := base.Parse(src)
	if err != nil {
		return Icon{}, false
	}

	icon := newIcon(target.String(), KindSiteLogo, "", "")
	w, errW := strconv.Atoi(attr(n, "width"))
	h, errH := strconv.Atoi(attr(n, "height"))
	if errW == nil && errH == nil && w > 0 && h > 0 {
		icon.Sizes = []Size{{Width: w, Height: h}}
	}
	return icon, true
}

// probe fills in sizes and formats of candidates that declare none.
// Favicons and vector images are skipped since they never qualify.
func (e *HTMLExtractor) probe(ctx context.Context, icons []Icon) {
	for i := range icons {
		icon := &icons[i]
		if len(icon.Sizes) > 0 || icon.Kind == KindSiteFavicon || icon.Format == imageinfo.FormatSVG {
			continue
		}

		data, err := e.fetcher.Fetch(ctx, icon.URL)
		if err != nil {
			slog.Debug("Failed to probe icon", "url", icon.URL, "error", err)
			continue
		}

		info, err := imageinfo.Inspect(data)
		if err != nil {
			slog.Debug("Failed to inspect icon", "url", icon.URL, "error", err)
			continue
		}

		icon.Format = info.Format
		if info.Width > 0 && info.Height > 0 {
			icon.Sizes = []Size{{Width: info.Width, Height: info.Height}}
		}
	}
}

// Helper functions

func newIcon(rawURL string, kind Kind, mime, sizes string) Icon {
	return Icon{
		URL:    rawURL,
		Kind:   kind,
		Format: detectIconFormat(mime, rawURL),
		Sizes:  parseSizes(sizes),
	}
}

// attr returns the value of an attribute, or "" when absent
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// findBaseHref returns the href of the first <base> element
func findBaseHref(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "base" {
		return attr(n, "href")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if href := findBaseHref(c); href != "" {
			return href
		}
	}
	return ""
}
