package cli

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// RGB is a color with float components as passed to RenderFrame.
type RGB struct {
	R, G, B float64
}

func (c RGB) String() string {
	return fmt.Sprintf("%.2f,%.2f,%.2f", c.R, c.G, c.B)
}

// Preset frame colors offered by the demo.
var presets = map[string]RGB{
	"blue":  {0.39, 0.39, 1.0},
	"green": {0.2, 0.8, 0.4},
	"red":   {0.9, 0.3, 0.3},
}

// presetOrder is the order the demo walks through the presets.
var presetOrder = []string{"blue", "green", "red", "random"}

// ParseColor accepts a preset name, "random", any SVG color name, or
// three comma-separated floats such as "0.2,0.8,0.4". Floats are passed
// through unclamped.
func ParseColor(s string) (RGB, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return RGB{}, fmt.Errorf("empty color")
	}
	if name == "random" {
		return RGB{rand.Float64(), rand.Float64(), rand.Float64()}, nil
	}
	if c, ok := presets[name]; ok {
		return c, nil
	}
	if c, ok := colornames.Map[name]; ok {
		return RGB{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}, nil
	}

	parts := strings.Split(name, ",")
	if len(parts) != 3 {
		return RGB{}, fmt.Errorf("unknown color %q", s)
	}
	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return RGB{}, fmt.Errorf("invalid color component %q: %w", p, err)
		}
		v[i] = f
	}
	return RGB{v[0], v[1], v[2]}, nil
}
