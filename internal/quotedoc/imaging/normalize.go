// Package imaging turns acquired image bytes into JPEGs the PDF renderer can
// embed, substituting a labelled placeholder whenever that is not possible.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"log"

	_ "golang.org/x/image/webp"

	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/draw"
)

const (
	MaxWidth    = 300
	MaxHeight   = 300
	JPEGQuality = 85

	// maxPixels rejects decompression bombs before full decode
	maxPixels = 40_000_000
)

// Format is a sniffed image container
type Format string

const (
	FormatJPEG    Format = "jpeg"
	FormatPNG     Format = "png"
	FormatGIF     Format = "gif"
	FormatWebP    Format = "webp"
	FormatUnknown Format = "unknown"
)

// Image is a renderer-safe JPEG. Placeholder is set when Data is a
// substitute and Label names the reason.
type Image struct {
	Data        []byte
	Width       int
	Height      int
	Placeholder bool
	Label       string
}

var errTooLarge = errors.New("image dimensions too large")

// Sniff identifies the container from the leading bytes only
func Sniff(b []byte) Format {
	switch {
	case len(b) >= 3 && b[0] == 0xFF && b[1] == 0xD8 && b[2] == 0xFF:
		return FormatJPEG
	case len(b) >= 8 && bytes.Equal(b[:8], []byte("\x89PNG\r\n\x1a\n")):
		return FormatPNG
	case len(b) >= 6 && (string(b[:6]) == "GIF87a" || string(b[:6]) == "GIF89a"):
		return FormatGIF
	case len(b) >= 12 && string(b[:4]) == "RIFF" && string(b[8:12]) == "WEBP":
		return FormatWebP
	}
	return FormatUnknown
}

// Normalize validates, orients, resizes and re-encodes b.
// It never fails: nil input yields the "No Image" placeholder and anything
// undecodable yields "Image Unavailable".
func Normalize(b []byte) (img Image) {
	if len(b) == 0 {
		return Placeholder(LabelNoImage)
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("image normalization panic: %v", r)
			img = Placeholder(LabelUnavailable)
		}
	}()

	format := Sniff(b)
	if format == FormatUnknown {
		return Placeholder(LabelUnavailable)
	}

	out, err := transcode(b, format)
	if err != nil {
		log.Printf("image normalization failed (%s): %v", format, err)
		return Placeholder(LabelUnavailable)
	}
	return out
}

func transcode(b []byte, format Format) (Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		return Image{}, err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > maxPixels {
		return Image{}, fmt.Errorf("%w: %dx%d", errTooLarge, cfg.Width, cfg.Height)
	}

	src, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return Image{}, err
	}

	if format == FormatJPEG {
		src = applyOrientation(src, orientation(b))
	}

	dst := fit(src, MaxWidth, MaxHeight)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return Image{}, err
	}

	return Image{
		Data:   buf.Bytes(),
		Width:  dst.Bounds().Dx(),
		Height: dst.Bounds().Dy(),
	}, nil
}

// fit scales src into a maxW x maxH box preserving aspect ratio, never
// upscaling, and flattens it onto white.
func fit(src image.Image, maxW, maxH int) *image.RGBA {
	sb := src.Bounds()
	w, h := FitSize(sb.Dx(), sb.Dy(), maxW, maxH)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	if w == sb.Dx() && h == sb.Dy() {
		draw.Draw(dst, dst.Bounds(), src, sb.Min, draw.Over)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, draw.Over, nil)
	return dst
}

// FitSize returns the largest size within maxW x maxH with the aspect ratio
// of w x h, capped at the original size.
func FitSize(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return 1, 1
	}
	if w <= maxW && h <= maxH {
		return w, h
	}

	scale := float64(maxW) / float64(w)
	if s := float64(maxH) / float64(h); s < scale {
		scale = s
	}

	fw := int(float64(w)*scale + 0.5)
	fh := int(float64(h)*scale + 0.5)
	if fw < 1 {
		fw = 1
	}
	if fh < 1 {
		fh = 1
	}
	if fw > maxW {
		fw = maxW
	}
	if fh > maxH {
		fh = maxH
	}
	return fw, fh
}

// orientation reads the EXIF orientation tag, 1 when absent
func orientation(b []byte) int {
	x, err := exif.Decode(bytes.NewReader(b))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	v, err := tag.Int(0)
	if err != nil || v < 1 || v > 8 {
		return 1
	}
	return v
}
