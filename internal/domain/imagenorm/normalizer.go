// Package imagenorm turns arbitrary uploaded images into a bounded,
// canonical JPEG representation suitable for vision model requests.
package imagenorm

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	// CanonicalFormat is the format every normalized payload is encoded in.
	CanonicalFormat = "jpeg"

	// CanonicalMIME is the MIME type of CanonicalFormat.
	CanonicalMIME = "image/jpeg"
)

// Upload is a raw uploaded image. It is borrowed for one call.
type Upload struct {
	Data        []byte
	Filename    string
	ContentType string
}

// NormalizedImage is the result of a successful normalization.
type NormalizedImage struct {
	Payload      []byte `json:"-"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	SourceFormat string `json:"format"`
	Filename     string `json:"filename"`
	OriginalSize int    `json:"size"`
}

// Base64 returns the payload in standard base64.
func (n *NormalizedImage) Base64() string {
	return base64.StdEncoding.EncodeToString(n.Payload)
}

// DataURI returns the payload as a data URI.
func (n *NormalizedImage) DataURI() string {
	return "data:" + CanonicalMIME + ";base64," + n.Base64()
}

// Normalizer validates, decodes, bounds and re-encodes images.
// It holds no mutable state and is safe for concurrent use.
type Normalizer struct {
	cfg *Config
}

// New creates a normalizer. A nil config uses DefaultConfig.
func New(cfg *Config) *Normalizer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Normalizer{cfg: cfg.withDefaults()}
}

// Config returns a copy of the effective configuration.
func (n *Normalizer) Config() Config {
	c := *n.cfg
	c.AllowedExtensions = append([]string(nil), n.cfg.AllowedExtensions...)
	return c
}

// Validate runs the size and extension gates without decoding.
func (n *Normalizer) Validate(u Upload) error {
	if int64(len(u.Data)) > n.cfg.MaxUploadSize {
		return newError(KindPayloadTooLarge, nil,
			"file size exceeds maximum allowed size of %d bytes", n.cfg.MaxUploadSize)
	}

	if !n.extensionAllowed(u.Filename) {
		return newError(KindUnsupportedMediaType, nil,
			"file type not allowed, allowed types: %s", strings.Join(n.cfg.AllowedExtensions, ", "))
	}

	return nil
}

// Normalize converts an upload into a NormalizedImage.
func (n *Normalizer) Normalize(u Upload) (*NormalizedImage, error) {
	if err := n.Validate(u); err != nil {
		return nil, err
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(u.Data))
	if err != nil {
		return nil, n.decodeError(u.Data, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > n.cfg.MaxPixels {
		return nil, newError(KindInvalidImageData, nil,
			"image dimensions %dx%d exceed the pixel limit", cfg.Width, cfg.Height)
	}

	src, decodedFormat, err := image.Decode(bytes.NewReader(u.Data))
	if err != nil {
		return nil, n.decodeError(u.Data, err)
	}
	if decodedFormat != "" {
		format = decodedFormat
	}
	if format == "" {
		format = CanonicalFormat
	}

	img := flatten(src)

	width, height := img.Bounds().Dx(), img.Bounds().Dy()
	if w, h, ok := fitWithin(width, height, n.cfg.MaxDimension); ok {
		img = imaging.Resize(img, w, h, imaging.Lanczos)
		width, height = w, h
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(n.cfg.Quality)); err != nil {
		return nil, newError(KindInvalidImageData, err, "cannot encode image")
	}

	return &NormalizedImage{
		Payload:      buf.Bytes(),
		Width:        width,
		Height:       height,
		SourceFormat: format,
		Filename:     u.Filename,
		OriginalSize: len(u.Data),
	}, nil
}

func (n *Normalizer) extensionAllowed(filename string) bool {
	name := strings.ToLower(filename)
	for _, ext := range n.cfg.AllowedExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func (n *Normalizer) decodeError(data []byte, err error) *Error {
	detected := mimetype.Detect(data).String()
	return newError(KindInvalidImageData, err, "cannot decode image (detected %s)", detected)
}

// flatten converts any color model to opaque RGB. Alpha is discarded
// without compositing; palette and gray images are expanded.
func flatten(src image.Image) *image.NRGBA {
	dst := imaging.Clone(src)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}

// fitWithin reports the scaled size when the longest side exceeds limit.
// The longest side becomes exactly limit; the other side is floored.
func fitWithin(width, height, limit int) (int, int, bool) {
	longest := width
	if height > longest {
		longest = height
	}
	if longest <= limit {
		return width, height, false
	}

	w := int(int64(width) * int64(limit) / int64(longest))
	h := int(int64(height) * int64(limit) / int64(longest))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h, true
}

// IsImageContentType reports whether a declared content type is an image type.
func IsImageContentType(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}
