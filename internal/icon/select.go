package icon

import (
	"fmt"
	"strings"

	"naty/internal/imageinfo"
	"naty/internal/siteicons"
)

// Policy decides which qualifying website icon is used
type Policy int

const (
	// PolicyFirstMatch takes the first qualifying icon in extractor order
	PolicyFirstMatch Policy = iota
	// PolicyLargest takes the qualifying icon with the largest declared
	// size; extractor order breaks ties
	PolicyLargest
)

// String returns the flag value of the policy
func (p Policy) String() string {
	switch p {
	case PolicyFirstMatch:
		return "first"
	case PolicyLargest:
		return "largest"
	}
	return "unknown"
}

// ParsePolicy parses "first" or "largest"
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first":
		return PolicyFirstMatch, nil
	case "largest":
		return PolicyLargest, nil
	}
	return 0, fmt.Errorf("unknown icon policy %q (expected first or largest)", s)
}

// Qualifies reports whether a website icon can be used as the app icon:
// it declares a square size, is not the site favicon and is not a vector image.
func Qualifies(icon siteicons.Icon) bool {
	size, ok := icon.Size()
	if !ok || !size.Square() {
		return false
	}
	return icon.Kind != siteicons.KindSiteFavicon && icon.Format != imageinfo.FormatSVG
}

// Select picks an icon from candidates according to policy
func Select(candidates []siteicons.Icon, policy Policy) (siteicons.Icon, bool) {
	var best siteicons.Icon
	bestArea := -1

	for _, candidate := range candidates {
		if !Qualifies(candidate) {
			continue
		}
		if policy == PolicyFirstMatch {
			return candidate, true
		}

		size, _ := candidate.Size()
		if area := size.Width * size.Height; area > bestArea {
			best = candidate
			bestArea = area
		}
	}

	return best, bestArea >= 0
}
