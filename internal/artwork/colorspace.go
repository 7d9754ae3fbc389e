package artwork

import (
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Linear Display P3 (D65) to CIE XYZ.
var p3ToXYZ = [3][3]float64{
	{0.4865709, 0.2656677, 0.1982173},
	{0.2289746, 0.6917385, 0.0792869},
	{0.0000000, 0.0451134, 1.0439444},
}

// displayP3ToSRGB re-encodes Display P3 pixels as sRGB. Colors outside the
// sRGB gamut are clamped. Alpha is kept.
func displayP3ToSRGB(img image.Image) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			px := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA) //nolint:forcetypeassert // NRGBAModel always returns NRGBA
			r, g, bl := convertP3(px.R, px.G, px.B)
			out.SetNRGBA(x-b.Min.X, y-b.Min.Y, color.NRGBA{R: r, G: g, B: bl, A: px.A})
		}
	}
	return out
}

func convertP3(r, g, b uint8) (uint8, uint8, uint8) {
	// P3 shares the sRGB transfer curve, so go-colorful can linearize it.
	lr, lg, lb := colorful.Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
	}.LinearRgb()

	m := p3ToXYZ
	x := m[0][0]*lr + m[0][1]*lg + m[0][2]*lb
	y := m[1][0]*lr + m[1][1]*lg + m[1][2]*lb
	z := m[2][0]*lr + m[2][1]*lg + m[2][2]*lb

	return colorful.Xyz(x, y, z).Clamped().RGB255()
}
