package artwork

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func fill(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

func near(a, b uint8) bool {
	d := int(a) - int(b)
	return d >= -2 && d <= 2
}

func TestNormalize_AlwaysSquare(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"portrait", 300, 600},
		{"landscape", 600, 300},
		{"square", 500, 500},
		{"tiny", 1, 3},
		{"large", 2000, 1500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := image.NewNRGBA(image.Rect(0, 0, tt.width, tt.height))
			art, err := Normalize(Source{Image: src, Orientation: OrientationUp})
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			b := art.Image.Bounds()
			if b.Dx() != Size || b.Dy() != Size {
				t.Errorf("Normalize() size = %dx%d, want %dx%d", b.Dx(), b.Dy(), Size, Size)
			}
		})
	}
}

func TestNormalize_CenterCrop(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	green := color.NRGBA{G: 255, A: 255}

	// 300x600 with red bands above and below a green center square.
	src := image.NewNRGBA(image.Rect(0, 0, 300, 600))
	fill(src, src.Bounds(), red)
	fill(src, image.Rect(0, 150, 300, 450), green)

	art, err := Normalize(Source{Image: src})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	for _, pt := range []image.Point{{0, 0}, {Size / 2, Size / 2}, {Size - 1, Size - 1}, {0, Size - 1}} {
		got := art.Image.RGBAAt(pt.X, pt.Y)
		if !near(got.R, 0) || !near(got.G, 255) || !near(got.B, 0) {
			t.Errorf("pixel %v = %v, want green", pt, got)
		}
	}
}

func TestNormalize_CenterCropLandscape(t *testing.T) {
	blue := color.NRGBA{B: 255, A: 255}
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}

	src := image.NewNRGBA(image.Rect(0, 0, 600, 300))
	fill(src, src.Bounds(), blue)
	fill(src, image.Rect(150, 0, 450, 300), white)

	art, err := Normalize(Source{Image: src})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	got := art.Image.RGBAAt(10, Size/2)
	if !near(got.R, 255) || !near(got.B, 255) {
		t.Errorf("left edge = %v, want white", got)
	}
}

func TestNormalize_Orientation(t *testing.T) {
	tests := []struct {
		in, want Orientation
	}{
		{OrientationDown, OrientationUp},
		{OrientationUp, OrientationUp},
		{0, OrientationUp},
		{OrientationLeft, OrientationLeft},
		{OrientationRight, OrientationRight},
		{OrientationUpMirrored, OrientationUpMirrored},
		{OrientationDownMirrored, OrientationDownMirrored},
	}

	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			src := image.NewNRGBA(image.Rect(0, 0, 40, 20))
			art, err := Normalize(Source{Image: src, Orientation: tt.in})
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if art.Orientation != tt.want {
				t.Errorf("Orientation = %v, want %v", art.Orientation, tt.want)
			}
		})
	}
}

func TestNormalize_Empty(t *testing.T) {
	if _, err := Normalize(Source{}); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("Normalize(nil) error = %v, want ErrEmptyImage", err)
	}
	empty := image.NewNRGBA(image.Rect(0, 0, 0, 10))
	if _, err := Normalize(Source{Image: empty}); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("Normalize(0x10) error = %v, want ErrEmptyImage", err)
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 64, 48))
	for y := range 48 {
		for x := range 64 {
			src.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 4), G: uint8(y * 5), B: 90, A: 255})
		}
	}

	a, err := Normalize(Source{Image: src})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Normalize(Source{Image: src})
	if err != nil {
		t.Fatal(err)
	}
	pa, _ := a.PNG()
	pb, _ := b.PNG()
	if string(pa) != string(pb) {
		t.Error("Normalize() output differs between runs")
	}
}

func TestConvertP3_GreyUnchanged(t *testing.T) {
	for _, v := range []uint8{0, 64, 128, 200, 255} {
		r, g, b := convertP3(v, v, v)
		if !near(r, v) || !near(g, v) || !near(b, v) {
			t.Errorf("convertP3(%d) = (%d, %d, %d), want grey", v, r, g, b)
		}
	}
}

func TestConvertP3_SaturatedShifts(t *testing.T) {
	r, g, b := convertP3(200, 100, 50)
	// The same code values are more saturated in P3 than in sRGB.
	if r <= 200 {
		t.Errorf("red = %d, want > 200", r)
	}
	if g > 100 || b > 50 {
		t.Errorf("green/blue = %d/%d, want <= 100/50", g, b)
	}
}

func TestNormalize_DisplayP3(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	fill(src, src.Bounds(), color.NRGBA{R: 200, G: 100, B: 50, A: 255})

	srgb, err := Normalize(Source{Image: src, ColorSpace: ColorSpaceSRGB})
	if err != nil {
		t.Fatal(err)
	}
	p3, err := Normalize(Source{Image: src, ColorSpace: ColorSpaceDisplayP3})
	if err != nil {
		t.Fatal(err)
	}

	if got := srgb.Image.RGBAAt(4, 4); !near(got.R, 200) {
		t.Errorf("sRGB red = %d, want 200", got.R)
	}
	if got := p3.Image.RGBAAt(4, 4); got.R <= 202 {
		t.Errorf("P3 red = %d, want converted above 200", got.R)
	}
}
