// Package config loads widget options from YAML files and follows edits
// to them.
//
// All keys are optional; only keys present in the file produce options, so
// applying a file to a running widget leaves the other parameters alone.
//
//	colorStops: ["#3A29FF", "#FF94B4", "#FF3232"]
//	amplitude: 1.0
//	blend: 0.5
//	speed: 0.5
//	renderer: auto      # auto, software or gpu
//	pixelRatio: 1.0
//
// Colors must be quoted: an unquoted # starts a YAML comment.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/aurora"
)

// Errors returned by Parse and Load.
var (
	ErrSyntax   = errors.New("config: syntax error")
	ErrInvalid  = errors.New("config: invalid value")
	ErrNonColor = errors.New("config: color stop is not a string")
)

// File is a parsed configuration file. Nil fields were absent.
type File struct {
	ColorStops []string
	Amplitude  *float32
	Blend      *float32
	Speed      *float32
	Renderer   *aurora.Renderer
	PixelRatio *float32

	// Warnings holds one ErrNonColor per color stop that was replaced by
	// the default color.
	Warnings []error
}

type rawFile struct {
	ColorStops yaml.Node `yaml:"colorStops"`
	Amplitude  *float32  `yaml:"amplitude"`
	Blend      *float32  `yaml:"blend"`
	Speed      *float32  `yaml:"speed"`
	Renderer   *string   `yaml:"renderer"`
	PixelRatio *float32  `yaml:"pixelRatio"`
}

// Parse decodes a configuration document. An empty document is valid and
// yields no options.
func Parse(data []byte) (*File, error) {
	var raw rawFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}

	f := &File{
		Amplitude:  raw.Amplitude,
		Blend:      raw.Blend,
		Speed:      raw.Speed,
		PixelRatio: raw.PixelRatio,
	}
	if raw.Renderer != nil {
		r, ok := aurora.ParseRenderer(*raw.Renderer)
		if !ok {
			return nil, fmt.Errorf("%w: renderer %q", ErrInvalid, *raw.Renderer)
		}
		f.Renderer = &r
	}

	switch {
	case raw.ColorStops.Kind == 0, raw.ColorStops.ShortTag() == "!!null":
	case raw.ColorStops.Kind == yaml.SequenceNode:
		f.ColorStops = make([]string, 0, len(raw.ColorStops.Content))
		for i, n := range raw.ColorStops.Content {
			if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!str" {
				f.ColorStops = append(f.ColorStops, n.Value)
				continue
			}
			err := fmt.Errorf("%w: colorStops[%d] at line %d", ErrNonColor, i, n.Line)
			f.Warnings = append(f.Warnings, err)
			aurora.Logger().Warn("config: color stop replaced by default",
				"error", err, "default", aurora.DefaultColor)
			f.ColorStops = append(f.ColorStops, aurora.DefaultColor)
		}
	default:
		return nil, fmt.Errorf("%w: colorStops must be a list (line %d)", ErrInvalid, raw.ColorStops.Line)
	}
	return f, nil
}

// Load reads and parses the file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Options returns one option per key present in the file.
func (f *File) Options() []aurora.Option {
	var opts []aurora.Option
	if f.ColorStops != nil {
		opts = append(opts, aurora.WithColorStops(f.ColorStops...))
	}
	if f.Amplitude != nil {
		opts = append(opts, aurora.WithAmplitude(*f.Amplitude))
	}
	if f.Blend != nil {
		opts = append(opts, aurora.WithBlend(*f.Blend))
	}
	if f.Speed != nil {
		opts = append(opts, aurora.WithSpeed(*f.Speed))
	}
	if f.Renderer != nil {
		opts = append(opts, aurora.WithRenderer(*f.Renderer))
	}
	if f.PixelRatio != nil {
		opts = append(opts, aurora.WithPixelRatio(*f.PixelRatio))
	}
	return opts
}
