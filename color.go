package aurora

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/aurora/shader"
)

// RGB is a normalized color stop, each component in [0, 1].
type RGB = shader.RGB

// DefaultColor replaces every color stop that cannot be parsed.
const DefaultColor = "#3A29FF"

// DefaultColorStops returns the default gradient: indigo, pink, red.
func DefaultColorStops() []string {
	return []string{"#3A29FF", "#FF94B4", "#FF3232"}
}

// defaultRGB is DefaultColor as RGB.
var defaultRGB = RGB{0x3A / 255.0, 0x29 / 255.0, 0xFF / 255.0}

// ParseColor parses a hex color string into a normalized RGB triple.
//
// Accepted forms are #rgb, #rrggbb and #rrggbbaa, with or without the
// leading '#' and surrounding whitespace. The alpha channel of the
// 8-digit form is dropped.
func ParseColor(s string) (RGB, error) {
	hex := strings.TrimSpace(s)
	if len(hex) == 9 && hex[0] == '#' {
		hex = hex[:7]
	}
	hex = strings.TrimPrefix(hex, "#")

	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return RGB{}, fmt.Errorf("%w: %q", ErrColorParse, s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q", ErrColorParse, s)
	}
	return RGB{
		float32((v>>16)&0xFF) / 255,
		float32((v>>8)&0xFF) / 255,
		float32(v&0xFF) / 255,
	}, nil
}

// ParseColorStops converts up to three color strings into the ramp stops.
// Entries that fail to parse, and missing entries when fewer than three
// are given, become DefaultColor; one error is returned per replaced
// entry. Entries past the third are ignored.
func ParseColorStops(stops []string) ([3]RGB, []error) {
	var out [3]RGB
	var errs []error
	for i := range out {
		if i >= len(stops) {
			out[i] = defaultRGB
			errs = append(errs, fmt.Errorf("%w: missing color stop %d", ErrColorParse, i))
			continue
		}
		c, err := ParseColor(stops[i])
		if err != nil {
			out[i] = defaultRGB
			errs = append(errs, fmt.Errorf("color stop %d: %w", i, err))
			continue
		}
		out[i] = c
	}
	return out, errs
}
