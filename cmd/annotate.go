package cmd

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"

	"github.com/mj1618/novawin-cli/internal/model"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// labelMode selects the text drawn on each annotated element.
type labelMode string

const (
	labelIDs    labelMode = "ids"
	labelCoords labelMode = "coords"
)

var (
	boxColor     = color.RGBA{R: 255, A: 255}
	labelColor   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	outlineColor = color.RGBA{A: 255}
)

// annotate decodes a captured image, outlines each element and encodes it
// back in the same format. origin is the screen rectangle the image shows;
// element bounds are mapped into it by the image/origin size ratio.
func annotate(data []byte, elements []*model.Element, origin [4]int, mode labelMode, quality int) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)

	sx, sy := 1.0, 1.0
	if origin[2] > 0 {
		sx = float64(rgba.Bounds().Dx()) / float64(origin[2])
	}
	if origin[3] > 0 {
		sy = float64(rgba.Bounds().Dy()) / float64(origin[3])
	}
	for _, el := range elements {
		b := el.Bounds
		if b[2] <= 0 || b[3] <= 0 {
			continue
		}
		r := image.Rect(
			int(float64(b[0]-origin[0])*sx),
			int(float64(b[1]-origin[1])*sy),
			int(float64(b[0]-origin[0]+b[2])*sx),
			int(float64(b[1]-origin[1]+b[3])*sy),
		)
		strokeRect(rgba, r, boxColor)

		label := fmt.Sprintf("[%d]", el.ID)
		if mode == labelCoords {
			cx, cy := el.Center()
			label = fmt.Sprintf("(%d,%d)", cx, cy)
		}
		center := image.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
		drawLabel(rgba, label, center)
	}

	var buf bytes.Buffer
	if format == "jpeg" {
		err = jpeg.Encode(&buf, rgba, &jpeg.Options{Quality: quality})
	} else {
		err = png.Encode(&buf, rgba)
	}
	if err != nil {
		return nil, fmt.Errorf("encode screenshot: %w", err)
	}
	return buf.Bytes(), nil
}

// strokeRect draws the one-pixel outline of r clipped to the image.
func strokeRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.Set(x, r.Min.Y, c)
		img.Set(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.Set(r.Min.X, y, c)
		img.Set(r.Max.X-1, y, c)
	}
}

// drawLabel centres text on at, with a one-pixel dark outline.
func drawLabel(img *image.RGBA, text string, at image.Point) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	x := at.X - width/2
	y := at.Y + face.Ascent/2

	d := &font.Drawer{Dst: img, Face: face, Src: image.NewUniform(outlineColor)}
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			d.Dot = fixed.P(x+dx, y+dy)
			d.DrawString(text)
		}
	}
	d.Src = image.NewUniform(labelColor)
	d.Dot = fixed.P(x, y)
	d.DrawString(text)
}
