package artwork

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"image"
	_ "image/jpeg" // JPEG decoder for album art
	_ "image/png"  // PNG decoder for album art
	"io"

	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder for album art
)

const (
	markerSOI  = 0xD8
	markerSOS  = 0xDA
	markerAPP2 = 0xE2
)

var (
	pngSignature = []byte("\x89PNG\r\n\x1a\n")
	iccHeader    = []byte("ICC_PROFILE\x00")

	p3Names = [][]byte{
		[]byte("Display P3"),
		utf16BE("Display P3"),
	}
)

// Decode decodes an encoded image and reads its orientation and color
// profile. Images without an EXIF orientation are OrientationUp; images
// without a recognizable Display P3 profile are ColorSpaceSRGB.
func Decode(data []byte) (Source, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Source{}, err
	}

	src := Source{
		Image:       img,
		Orientation: OrientationUp,
		ColorSpace:  ColorSpaceSRGB,
	}

	var profile []byte
	switch {
	case len(data) > 2 && data[0] == 0xFF && data[1] == markerSOI:
		if o := exifOrientation(data); o != 0 {
			src.Orientation = o
		}
		profile = scanJPEG(data)
	case bytes.HasPrefix(data, pngSignature):
		profile = scanPNG(data)
	}

	if isDisplayP3(profile) {
		src.ColorSpace = ColorSpaceDisplayP3
	}
	return src, nil
}

// scanJPEG walks the marker segments before the image data and returns the
// concatenated ICC profile chunks.
func scanJPEG(data []byte) []byte {
	var profile []byte

	pos := 2
	for pos+4 <= len(data) {
		if data[pos] != 0xFF {
			break
		}
		marker := data[pos+1]
		if marker == markerSOS {
			break
		}
		length := int(binary.BigEndian.Uint16(data[pos+2:]))
		if length < 2 || pos+2+length > len(data) {
			break
		}
		payload := data[pos+4 : pos+2+length]

		if marker == markerAPP2 && bytes.HasPrefix(payload, iccHeader) {
			// Skip the chunk sequence number and chunk count.
			if chunk := payload[len(iccHeader):]; len(chunk) > 2 {
				profile = append(profile, chunk[2:]...)
			}
		}
		pos += 2 + length
	}
	return profile
}

// exifOrientation returns the EXIF orientation of a JPEG, or 0 when it is
// missing or out of range.
func exifOrientation(data []byte) Orientation {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 0
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 0
	}
	v, err := tag.Int(0)
	if err != nil || v < int(OrientationUp) || v > int(OrientationLeft) {
		return 0
	}
	return Orientation(v)
}

// scanPNG returns the decompressed iCCP profile, if any.
func scanPNG(data []byte) []byte {
	pos := len(pngSignature)
	for pos+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[pos:]))
		kind := string(data[pos+4 : pos+8])
		start := pos + 8
		end := start + length
		if length < 0 || end+4 > len(data) {
			return nil
		}

		switch kind {
		case "iCCP":
			return inflateICCP(data[start:end])
		case "IDAT", "IEND":
			return nil
		}
		pos = end + 4 // skip CRC
	}
	return nil
}

func inflateICCP(chunk []byte) []byte {
	// profile name, NUL, compression method, zlib stream
	nul := bytes.IndexByte(chunk, 0)
	if nul < 0 || nul+2 > len(chunk) {
		return nil
	}
	r, err := zlib.NewReader(bytes.NewReader(chunk[nul+2:]))
	if err != nil {
		return nil
	}
	defer r.Close()
	profile, err := io.ReadAll(r)
	if err != nil {
		return nil
	}
	return profile
}

func isDisplayP3(profile []byte) bool {
	for _, name := range p3Names {
		if bytes.Contains(profile, name) {
			return true
		}
	}
	return false
}

func utf16BE(s string) []byte {
	out := make([]byte, 0, len(s)*2)
	for _, r := range s {
		out = append(out, byte(r>>8), byte(r))
	}
	return out
}
