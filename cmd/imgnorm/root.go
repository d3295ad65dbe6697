package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aiwonderland/imagecode/internal/domain/codegen"
	"github.com/aiwonderland/imagecode/internal/domain/imagenorm"
)

type options struct {
	format       string
	out          string
	maxDimension int
	quality      int
	maxSize      int64
	palette      bool
}

// report is printed for each normalized file.
type report struct {
	File         string          `json:"file" yaml:"file"`
	Format       string          `json:"format" yaml:"format"`
	OriginalSize int             `json:"original_size" yaml:"original_size"`
	Width        int             `json:"width" yaml:"width"`
	Height       int             `json:"height" yaml:"height"`
	OutputSize   int             `json:"output_size" yaml:"output_size"`
	Output       string          `json:"output,omitempty" yaml:"output,omitempty"`
	Palette      []codegen.Color `json:"palette,omitempty" yaml:"palette,omitempty"`
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "imgnorm <image>",
		Short:         "Normalize an image the way the conversion API does",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.format, "format", "f", "json", "report format: json or yaml")
	flags.StringVarP(&opts.out, "out", "o", "", "write the normalized JPEG to this path")
	flags.IntVar(&opts.maxDimension, "max-dimension", imagenorm.DefaultMaxDimension, "maximum output width or height")
	flags.IntVar(&opts.quality, "quality", imagenorm.DefaultQuality, "JPEG quality (1-100)")
	flags.Int64Var(&opts.maxSize, "max-size", imagenorm.DefaultMaxUploadSize, "maximum input size in bytes")
	flags.BoolVar(&opts.palette, "palette", false, "include the dominant color palette")

	return cmd
}

func run(w io.Writer, path string, opts *options) error {
	if opts.format != "json" && opts.format != "yaml" {
		return fmt.Errorf("unknown format %q", opts.format)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	cfg := imagenorm.DefaultConfig()
	cfg.MaxDimension = opts.maxDimension
	cfg.Quality = opts.quality
	cfg.MaxUploadSize = opts.maxSize

	img, err := imagenorm.New(cfg).Normalize(imagenorm.Upload{
		Data:     data,
		Filename: filepath.Base(path),
	})
	if err != nil {
		return err
	}

	rep := report{
		File:         img.Filename,
		Format:       img.SourceFormat,
		OriginalSize: img.OriginalSize,
		Width:        img.Width,
		Height:       img.Height,
		OutputSize:   len(img.Payload),
	}

	if opts.palette {
		rep.Palette, err = codegen.ExtractPalette(img.Payload)
		if err != nil {
			return fmt.Errorf("extract palette: %w", err)
		}
	}

	if opts.out != "" {
		if err := os.WriteFile(opts.out, img.Payload, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", opts.out, err)
		}
		rep.Output = opts.out
	}

	return writeReport(w, opts.format, rep)
}

func writeReport(w io.Writer, format string, rep report) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(rep)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
