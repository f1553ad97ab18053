package remote

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/mj1618/novawin-cli/internal/novawin"
	"github.com/mj1618/novawin-cli/internal/platform"
	"golang.org/x/image/draw"
)

// Screenshotter implements platform.Screenshotter. The driver only
// captures the session root, so window captures are cropped locally.
type Screenshotter struct {
	s      *novawin.Session
	reader *Reader
}

// NewScreenshotter creates a Screenshotter for s.
func NewScreenshotter(s *novawin.Session, reader *Reader) *Screenshotter {
	return &Screenshotter{s: s, reader: reader}
}

// CaptureWindow captures the session root, crops it to the requested
// window and scales it.
func (sc *Screenshotter) CaptureWindow(ctx context.Context, opts platform.ScreenshotOptions) ([]byte, error) {
	format := strings.ToLower(opts.Format)
	switch format {
	case "":
		format = "png"
	case "png":
	case "jpg", "jpeg":
		format = "jpg"
	default:
		return nil, fmt.Errorf("unsupported screenshot format %q (expected png or jpg)", opts.Format)
	}
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	if scale < 0.1 || scale > 1 {
		return nil, fmt.Errorf("scale must be between 0.1 and 1.0, got %g", opts.Scale)
	}
	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = 80
	}

	raw, err := sc.s.Screenshot(ctx)
	if err != nil {
		return nil, err
	}
	crop := opts.Window != "" || opts.WindowRID != ""
	if !crop && scale == 1 && format == "png" {
		return raw, nil
	}

	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}

	if crop {
		roots, err := sc.reader.tree(ctx)
		if err != nil {
			return nil, err
		}
		win, err := findWindow(roots, opts.Window, opts.WindowRID, 0)
		if err != nil {
			return nil, err
		}
		img, err = cropTo(img, win.Bounds, roots[0].Bounds)
		if err != nil {
			return nil, err
		}
	}

	if scale < 1 {
		img = scaleImage(img, scale)
	}

	var buf bytes.Buffer
	if format == "jpg" {
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	} else {
		err = png.Encode(&buf, img)
	}
	if err != nil {
		return nil, fmt.Errorf("encode screenshot: %w", err)
	}
	return buf.Bytes(), nil
}

// cropTo cuts bounds out of img. The image covers the session root, whose
// screen rectangle is root.
func cropTo(img image.Image, bounds, root [4]int) (image.Image, error) {
	r := image.Rect(bounds[0]-root[0], bounds[1]-root[1], bounds[0]-root[0]+bounds[2], bounds[1]-root[1]+bounds[3])
	r = r.Add(img.Bounds().Min).Intersect(img.Bounds())
	if r.Empty() {
		return nil, fmt.Errorf("window at %v is outside the captured area", bounds)
	}
	sub, ok := img.(interface {
		SubImage(image.Rectangle) image.Image
	})
	if !ok {
		dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
		draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)
		return dst, nil
	}
	return sub.SubImage(r), nil
}

func scaleImage(img image.Image, scale float64) image.Image {
	b := img.Bounds()
	w := max(1, int(float64(b.Dx())*scale))
	h := max(1, int(float64(b.Dy())*scale))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
