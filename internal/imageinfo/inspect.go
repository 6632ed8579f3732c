package imageinfo

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
)

// Info describes an encoded image. Width and Height are zero for vector
// images.
type Info struct {
	Format Format
	Width  int
	Height int
}

// Square reports whether the image has equal, non-zero sides
func (i Info) Square() bool {
	return i.Width > 0 && i.Width == i.Height
}

func (i Info) String() string {
	if i.Width == 0 && i.Height == 0 {
		return i.Format.String()
	}
	return fmt.Sprintf("%s %dx%d", i.Format, i.Width, i.Height)
}

// Inspect reads the format and pixel dimensions of an encoded image.
// Only headers are decoded.
func Inspect(data []byte) (Info, error) {
	format := DetectFormat(data)
	info := Info{Format: format}

	var cfg image.Config
	var err error

	switch format {
	case FormatPNG:
		cfg, err = png.DecodeConfig(bytes.NewReader(data))
	case FormatJPEG:
		cfg, err = jpeg.DecodeConfig(bytes.NewReader(data))
	case FormatBMP:
		cfg, err = bmp.DecodeConfig(bytes.NewReader(data))
	case FormatWebP:
		cfg, err = webp.DecodeConfig(bytes.NewReader(data))
	case FormatICO:
		img, icoErr := largestICOImage(data)
		if icoErr != nil {
			return info, icoErr
		}
		info.Width, info.Height = img.width, img.height
		return info, nil
	case FormatSVG:
		return info, nil
	default:
		return info, fmt.Errorf("unrecognized image format")
	}

	if err != nil {
		return info, fmt.Errorf("failed to decode %s header: %w", format, err)
	}

	info.Width = cfg.Width
	info.Height = cfg.Height
	return info, nil
}
