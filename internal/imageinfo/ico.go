package imageinfo

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	icoHeaderLen = 6
	icoEntryLen  = 16
)

// icoImage is one entry of an ICO directory
type icoImage struct {
	width, height int // 256 when stored as 0
	offset, size  int
}

func (img icoImage) pixels() int {
	return img.width * img.height
}

// icoDimension decodes a one-byte ICO dimension where 0 stands for 256
func icoDimension(b byte) int {
	if b == 0 {
		return 256
	}
	return int(b)
}

// readICODirectory returns the entries of an ICO file whose image data
// lies inside the file
func readICODirectory(data []byte) ([]icoImage, error) {
	if len(data) < icoHeaderLen {
		return nil, errors.New("invalid ICO file: too short for header")
	}
	if reserved := binary.LittleEndian.Uint16(data[0:2]); reserved != 0 {
		return nil, fmt.Errorf("invalid ICO file: reserved field must be 0, got %d", reserved)
	}
	if kind := binary.LittleEndian.Uint16(data[2:4]); kind != 1 {
		return nil, fmt.Errorf("invalid ICO file: type must be 1 for ICO, got %d", kind)
	}

	count := int(binary.LittleEndian.Uint16(data[4:6]))
	if count == 0 {
		return nil, errors.New("invalid ICO file: no images in file")
	}
	if len(data) < icoHeaderLen+count*icoEntryLen {
		return nil, errors.New("invalid ICO file: too short for directory entries")
	}

	images := make([]icoImage, 0, count)
	for i := 0; i < count; i++ {
		raw := data[icoHeaderLen+i*icoEntryLen:]
		img := icoImage{
			width:  icoDimension(raw[0]),
			height: icoDimension(raw[1]),
			size:   int(binary.LittleEndian.Uint32(raw[8:12])),
			offset: int(binary.LittleEndian.Uint32(raw[12:16])),
		}
		if img.offset == 0 || img.size == 0 || img.offset+img.size > len(data) {
			continue
		}
		images = append(images, img)
	}

	if len(images) == 0 {
		return nil, errors.New("invalid ICO file: no valid image entries found")
	}
	return images, nil
}

// largestICOImage returns the entry with the most pixels; the first one
// wins a tie
func largestICOImage(data []byte) (icoImage, error) {
	images, err := readICODirectory(data)
	if err != nil {
		return icoImage{}, err
	}

	best := images[0]
	for _, img := range images[1:] {
		if img.pixels() > best.pixels() {
			best = img
		}
	}
	return best, nil
}

// ExtractICOPNG returns the PNG stream stored in the highest-resolution
// entry of an ICO file. It reports false when the file is not a valid ICO
// or that entry is BMP encoded.
func ExtractICOPNG(data []byte) ([]byte, bool) {
	img, err := largestICOImage(data)
	if err != nil {
		return nil, false
	}

	payload := data[img.offset : img.offset+img.size]
	if !bytes.HasPrefix(payload, magicPNG) {
		return nil, false
	}
	return bytes.Clone(payload), true
}
