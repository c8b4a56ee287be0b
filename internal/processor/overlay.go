package processor

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	overlayFontSize     = 24
	overlayMargin       = 24
	overlayPadding      = 14
	overlayCornerRadius = 10
)

// overlayBackground is the semi-transparent fill behind annotation text
var overlayBackground = color.NRGBA{R: 0, G: 0, B: 0, A: 170}

// overlayFace wraps the embedded annotation font with its pixel metrics
type overlayFace struct {
	face       font.Face
	lineHeight int
	ascent     int
}

func newOverlayFace() (*overlayFace, error) {
	ft, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    overlayFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	m := face.Metrics()
	return &overlayFace{
		face:       face,
		lineHeight: m.Height.Ceil(),
		ascent:     m.Ascent.Ceil(),
	}, nil
}

// wrap greedily breaks text into lines no wider than maxWidth pixels.
// A single word wider than maxWidth stays on its own line. Returns the
// lines and the widest measured line in pixels.
func (f *overlayFace) wrap(text string, maxWidth int) ([]string, int) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, 0
	}

	var lines []string
	widest := 0
	current := words[0]

	flush := func(line string) {
		if w := font.MeasureString(f.face, line).Ceil(); w > widest {
			widest = w
		}
		lines = append(lines, line)
	}

	for _, word := range words[1:] {
		candidate := current + " " + word
		if font.MeasureString(f.face, candidate).Ceil() > maxWidth {
			flush(current)
			current = word
			continue
		}
		current = candidate
	}
	flush(current)

	return lines, widest
}

// Annotate composites a semi-transparent rounded box in the upper-left
// region, sized to the wrapped text plus padding, and draws the text on
// top. Runs on the full-resolution bitmap before any resize.
func (p *Processor) Annotate(img image.Image, text string) image.Image {
	bounds := img.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, img, bounds.Min, draw.Src)

	maxLineWidth := bounds.Dx() * 2 / 5
	if maxLineWidth < 100 {
		maxLineWidth = bounds.Dx() - 2*(overlayMargin+overlayPadding)
	}

	lines, widest := p.face.wrap(text, maxLineWidth)
	if len(lines) == 0 {
		return dst
	}

	boxW := widest + 2*overlayPadding
	boxH := len(lines)*p.face.lineHeight + 2*overlayPadding
	box := image.Rect(
		bounds.Min.X+overlayMargin,
		bounds.Min.Y+overlayMargin,
		bounds.Min.X+overlayMargin+boxW,
		bounds.Min.Y+overlayMargin+boxH,
	)

	mask := roundedRectMask(boxW, boxH, overlayCornerRadius)
	draw.DrawMask(dst, box, image.NewUniform(overlayBackground), image.Point{},
		mask, mask.Bounds().Min, draw.Over)

	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.White,
		Face: p.face.face,
	}
	y := box.Min.Y + overlayPadding + p.face.ascent
	for _, line := range lines {
		drawer.Dot = fixed.P(box.Min.X+overlayPadding, y)
		drawer.DrawString(line)
		y += p.face.lineHeight
	}

	return dst
}

// roundedRectMask builds an alpha mask for a w by h rectangle with
// quarter-circle corners of the given radius
func roundedRectMask(w, h, radius int) *image.Alpha {
	if radius > w/2 {
		radius = w / 2
	}
	if radius > h/2 {
		radius = h / 2
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	r := float64(radius)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if insideRoundedRect(float64(x)+0.5, float64(y)+0.5, float64(w), float64(h), r) {
				mask.SetAlpha(x, y, color.Alpha{A: 0xff})
			}
		}
	}
	return mask
}

func insideRoundedRect(x, y, w, h, r float64) bool {
	if x >= r && x <= w-r {
		return true
	}
	if y >= r && y <= h-r {
		return true
	}

	// Corner regions: inside iff within the quarter circle
	cx := r
	if x > w-r {
		cx = w - r
	}
	cy := r
	if y > h-r {
		cy = h - r
	}
	dx := x - cx
	dy := y - cy
	return dx*dx+dy*dy <= r*r
}
