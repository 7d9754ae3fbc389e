// Package artwork normalizes album cover images for the now playing surface.
package artwork

import (
	"bytes"
	"errors"
	"image"
	"image/png"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

// Size is the edge length of every normalized image, in pixels.
const Size = 1024

var ErrEmptyImage = errors.New("artwork: empty image")

// Orientation is an EXIF orientation tag (1-8).
type Orientation int

const (
	OrientationUp            Orientation = 1
	OrientationUpMirrored    Orientation = 2
	OrientationDown          Orientation = 3
	OrientationDownMirrored  Orientation = 4
	OrientationLeftMirrored  Orientation = 5
	OrientationRight         Orientation = 6
	OrientationRightMirrored Orientation = 7
	OrientationLeft          Orientation = 8
)

// String returns the orientation name.
func (o Orientation) String() string {
	switch o {
	case OrientationUp:
		return "Up"
	case OrientationUpMirrored:
		return "UpMirrored"
	case OrientationDown:
		return "Down"
	case OrientationDownMirrored:
		return "DownMirrored"
	case OrientationLeftMirrored:
		return "LeftMirrored"
	case OrientationRight:
		return "Right"
	case OrientationRightMirrored:
		return "RightMirrored"
	case OrientationLeft:
		return "Left"
	default:
		return "Unknown"
	}
}

// ColorSpace identifies the color profile of the source pixels.
type ColorSpace int

const (
	ColorSpaceSRGB ColorSpace = iota
	ColorSpaceDisplayP3
)

// Source is a decoded image together with the metadata Normalize needs.
type Source struct {
	Image       image.Image
	Orientation Orientation
	ColorSpace  ColorSpace
}

// Artwork is a normalized Size x Size sRGB image.
type Artwork struct {
	Image       *image.RGBA
	Orientation Orientation
}

// Normalize center-crops src to a square, converts wide-gamut pixels to
// sRGB and scales the result onto a Size x Size canvas.
//
// The output is tagged OrientationUp when the source was tagged
// OrientationDown; every other tag is carried over. Pixels are never rotated.
func Normalize(src Source) (*Artwork, error) {
	if src.Image == nil || src.Image.Bounds().Empty() {
		return nil, ErrEmptyImage
	}

	img := src.Image
	if b := img.Bounds(); b.Dx() != b.Dy() {
		img = cropSquare(img)
	}

	if src.ColorSpace == ColorSpaceDisplayP3 {
		img = displayP3ToSRGB(img)
	}

	scaled := resize.Resize(Size, Size, img, resize.Lanczos3)
	canvas := image.NewRGBA(image.Rect(0, 0, Size, Size))
	draw.Draw(canvas, canvas.Bounds(), scaled, scaled.Bounds().Min, draw.Src)

	return &Artwork{
		Image:       canvas,
		Orientation: normalizedOrientation(src.Orientation),
	}, nil
}

// normalizedOrientation rewrites "down" as "up".
// TODO: confirm with product whether upside-down covers should be rotated
// instead of retagged.
func normalizedOrientation(o Orientation) Orientation {
	switch o {
	case OrientationDown, 0:
		return OrientationUp
	default:
		return o
	}
}

func cropSquare(img image.Image) image.Image {
	b := img.Bounds()
	side := min(b.Dx(), b.Dy())
	origin := image.Pt(b.Min.X+(b.Dx()-side)/2, b.Min.Y+(b.Dy()-side)/2)

	square := image.NewNRGBA(image.Rect(0, 0, side, side))
	draw.Draw(square, square.Bounds(), img, origin, draw.Src)
	return square
}

// PNG encodes the normalized image.
func (a *Artwork) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, a.Image); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
