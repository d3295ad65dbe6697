package imagenorm

import "strings"

const (
	// DefaultMaxUploadSize is the default upload limit (10 MiB).
	DefaultMaxUploadSize int64 = 10 * 1024 * 1024

	// DefaultMaxDimension bounds the longest side of the output image.
	DefaultMaxDimension = 2048

	// DefaultQuality is the JPEG quality used for the canonical encoding.
	DefaultQuality = 90

	// DefaultMaxPixels rejects decompression bombs before full decode.
	DefaultMaxPixels = 100_000_000
)

// DefaultAllowedExtensions lists the accepted filename extensions.
var DefaultAllowedExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// Config holds normalizer configuration.
type Config struct {
	// MaxUploadSize is the maximum accepted raw byte length.
	MaxUploadSize int64

	// AllowedExtensions is the filename extension allow-list.
	AllowedExtensions []string

	// MaxDimension is the maximum width or height of the output.
	MaxDimension int

	// Quality is the JPEG quality (1-100).
	Quality int

	// MaxPixels is the maximum decoded pixel count (width*height).
	MaxPixels int64
}

// DefaultConfig returns default normalizer configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxUploadSize:     DefaultMaxUploadSize,
		AllowedExtensions: append([]string(nil), DefaultAllowedExtensions...),
		MaxDimension:      DefaultMaxDimension,
		Quality:           DefaultQuality,
		MaxPixels:         DefaultMaxPixels,
	}
}

// withDefaults fills zero values and canonicalizes the extension list.
func (c *Config) withDefaults() *Config {
	out := *c
	if out.MaxUploadSize <= 0 {
		out.MaxUploadSize = DefaultMaxUploadSize
	}
	if out.MaxDimension <= 0 {
		out.MaxDimension = DefaultMaxDimension
	}
	if out.Quality <= 0 || out.Quality > 100 {
		out.Quality = DefaultQuality
	}
	if out.MaxPixels <= 0 {
		out.MaxPixels = DefaultMaxPixels
	}

	exts := out.AllowedExtensions
	if len(exts) == 0 {
		exts = DefaultAllowedExtensions
	}
	out.AllowedExtensions = ParseExtensions(strings.Join(exts, ","))
	return &out
}

// ParseExtensions parses a comma separated extension list such as
// ".jpg,.PNG, gif" into lowercase, dot-prefixed entries.
func ParseExtensions(s string) []string {
	var exts []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		ext := strings.ToLower(strings.TrimSpace(part))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if seen[ext] {
			continue
		}
		seen[ext] = true
		exts = append(exts, ext)
	}
	return exts
}
