package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	LabelNoImage     = "No Image"
	LabelUnavailable = "Image Unavailable"

	placeholderSize = 120
)

var (
	placeholderBackground = color.Gray{Y: 0xEE}
	placeholderBorder     = color.Gray{Y: 0xBB}
	placeholderText       = color.Gray{Y: 0x66}

	placeholderMu    sync.Mutex
	placeholderCache = map[string][]byte{}
)

// Placeholder renders a grey tile with label centred on it. The output is a
// pure function of label.
func Placeholder(label string) Image {
	placeholderMu.Lock()
	data, ok := placeholderCache[label]
	if !ok {
		data = renderPlaceholder(label)
		placeholderCache[label] = data
	}
	placeholderMu.Unlock()

	return Image{
		Data:        data,
		Width:       placeholderSize,
		Height:      placeholderSize,
		Placeholder: true,
		Label:       label,
	}
}

func renderPlaceholder(label string) []byte {
	img := image.NewRGBA(image.Rect(0, 0, placeholderSize, placeholderSize))
	draw.Draw(img, img.Bounds(), image.NewUniform(placeholderBorder), image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(2, 2, placeholderSize-2, placeholderSize-2), image.NewUniform(placeholderBackground), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(placeholderText),
		Face: face,
	}

	lines := wrapLabel(d, label, placeholderSize-12)
	lineHeight := face.Metrics().Height.Ceil()
	top := (placeholderSize-lineHeight*len(lines))/2 + face.Metrics().Ascent.Ceil()

	for i, line := range lines {
		width := d.MeasureString(line).Ceil()
		d.Dot = fixed.P((placeholderSize-width)/2, top+i*lineHeight)
		d.DrawString(line)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		// unreachable for an in-memory RGBA
		return []byte{0xFF, 0xD8, 0xFF, 0xD9}
	}
	return buf.Bytes()
}

func wrapLabel(d *font.Drawer, label string, maxWidth int) []string {
	words := strings.Fields(label)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		if d.MeasureString(current+" "+word).Ceil() > maxWidth {
			lines = append(lines, current)
			current = word
			continue
		}
		current += " " + word
	}
	return append(lines, current)
}
