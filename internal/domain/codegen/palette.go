package codegen

import (
	"bytes"
	"fmt"
	"image"
	"sort"

	"github.com/disintegration/imaging"
)

// Color is one entry of an extracted palette.
type Color struct {
	Hex   string `json:"hex"`
	Name  string `json:"name"`
	Usage int    `json:"usage"`
}

const (
	paletteSampleSize = 64
	paletteSize       = 4
)

var paletteNames = [paletteSize]string{"Primary", "Secondary", "Accent", "Background"}

type bucket struct {
	key     int
	count   int
	r, g, b int
}

// ExtractPalette returns up to four dominant colors of an encoded image.
// Pixels are grouped by their 4-bit-per-channel value; each color is the
// mean of its group. Usage is an integer percentage and the values sum
// to at most 100.
func ExtractPalette(data []byte) ([]Color, error) {
	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return paletteOf(src), nil
}

func paletteOf(src image.Image) []Color {
	img := imaging.Fit(src, paletteSampleSize, paletteSampleSize, imaging.Box)

	buckets := make(map[int]*bucket)
	total := 0
	for i := 0; i+3 < len(img.Pix); i += 4 {
		r, g, b := int(img.Pix[i]), int(img.Pix[i+1]), int(img.Pix[i+2])
		key := (r>>4)<<8 | (g>>4)<<4 | b>>4
		bk, ok := buckets[key]
		if !ok {
			bk = &bucket{key: key}
			buckets[key] = bk
		}
		bk.count++
		bk.r += r
		bk.g += g
		bk.b += b
		total++
	}
	if total == 0 {
		return []Color{}
	}

	sorted := make([]*bucket, 0, len(buckets))
	for _, bk := range buckets {
		sorted = append(sorted, bk)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].key < sorted[j].key
	})
	if len(sorted) > paletteSize {
		sorted = sorted[:paletteSize]
	}

	colors := make([]Color, len(sorted))
	for i, bk := range sorted {
		colors[i] = Color{
			Hex:   fmt.Sprintf("#%02x%02x%02x", bk.r/bk.count, bk.g/bk.count, bk.b/bk.count),
			Name:  paletteNames[i],
			Usage: bk.count * 100 / total,
		}
	}
	return colors
}
