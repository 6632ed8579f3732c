// Package imageinfo identifies encoded images without converting them.
package imageinfo

import "bytes"

// Format represents an image encoding
type Format int

const (
	FormatUnknown Format = iota
	FormatPNG
	FormatJPEG
	FormatWebP
	FormatBMP
	FormatICO
	FormatSVG
)

// String returns the string representation of the image format
func (f Format) String() string {
	names := []string{"Unknown", "PNG", "JPEG", "WebP", "BMP", "ICO", "SVG"}
	if f >= 0 && int(f) < len(names) {
		return names[f]
	}
	return "Unknown"
}

// Magic bytes for format detection
var (
	magicPNG  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A} // PNG signature
	magicJPEG = []byte{0xFF, 0xD8, 0xFF}                                // JPEG SOI marker
	magicBMP  = []byte{0x42, 0x4D}                                      // "BM"
	magicICO  = []byte{0x00, 0x00, 0x01, 0x00}                          // ICO header
	magicRIFF = []byte{0x52, 0x49, 0x46, 0x46}                          // "RIFF" for WebP
	magicWEBP = []byte{0x57, 0x45, 0x42, 0x50}                          // "WEBP" at offset 8
)

// svgSniffLen bounds how far into a document we look for an <svg tag
const svgSniffLen = 512

// DetectFormat detects the image format by examining the content only,
// never a file name or extension.
func DetectFormat(data []byte) Format {
	// Need at least 2 bytes for the shortest magic (BMP)
	if len(data) < 2 {
		return FormatUnknown
	}

	// Check PNG (8 bytes signature)
	if len(data) >= 8 && bytes.HasPrefix(data, magicPNG) {
		return FormatPNG
	}

	// Check JPEG (starts with FF D8 FF)
	if len(data) >= 3 && bytes.HasPrefix(data, magicJPEG) {
		return FormatJPEG
	}

	// Check WebP (RIFF....WEBP format)
	// WebP files start with "RIFF" followed by 4 bytes of file size, then "WEBP"
	if len(data) >= 12 && bytes.HasPrefix(data, magicRIFF) && bytes.Equal(data[8:12], magicWEBP) {
		return FormatWebP
	}

	// Check ICO (starts with 00 00 01 00)
	if len(data) >= 4 && bytes.HasPrefix(data, magicICO) {
		return FormatICO
	}

	// Check BMP (starts with "BM") - only 2 bytes needed
	if bytes.HasPrefix(data, magicBMP) {
		return FormatBMP
	}

	// Check SVG (text document with an <svg element near the start)
	if isSVG(data) {
		return FormatSVG
	}

	return FormatUnknown
}

// isSVG looks for an <svg element near the start of a text document,
// allowing for an XML declaration, comments or a doctype before it.
func isSVG(data []byte) bool {
	head := data
	if len(head) > svgSniffLen {
		head = head[:svgSniffLen]
	}
	// Skip a UTF-8 BOM and leading whitespace
	head = bytes.TrimLeft(head, "\xef\xbb\xbf \t\r\n")
	if len(head) == 0 || head[0] != '<' {
		return false
	}
	return bytes.Contains(bytes.ToLower(head), []byte("<svg"))
}
