package media

import (
	"bytes"
	"fmt"
)

// DefaultImageExt is used when sniffing cannot identify the container.
const DefaultImageExt = "png"

var (
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	pngMagic  = []byte{0x89, 0x50, 0x4E, 0x47}
	gifMagic  = []byte("GIF8")
	riffMagic = []byte("RIFF")
	webpTag   = []byte("WEBP")
)

// DetectImageFormat sniffs the container format from the first bytes of an
// image stream and returns the file extension for it. Supported: jpeg, png,
// gif, webp.
func DetectImageFormat(data []byte) (string, error) {
	if len(data) < 12 {
		return "", fmt.Errorf("image data too short to sniff (%d bytes)", len(data))
	}

	switch {
	case bytes.HasPrefix(data, jpegMagic):
		return "jpg", nil
	case bytes.HasPrefix(data, pngMagic):
		return "png", nil
	case bytes.HasPrefix(data, gifMagic):
		return "gif", nil
	case bytes.HasPrefix(data, riffMagic) && bytes.Equal(data[8:12], webpTag):
		return "webp", nil
	}
	return "", fmt.Errorf("unrecognized image container")
}
