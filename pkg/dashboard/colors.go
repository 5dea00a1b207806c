package dashboard

import (
	"strings"

	apperrors "github.com/tanzeel291994/HGT-BioGuard/pkg/errors"
)

// ColorScale is a named sequential color ramp for traffic intensity.
type ColorScale string

const (
	ScaleViridis ColorScale = "viridis"
	ScalePlasma  ColorScale = "plasma"
	ScaleInferno ColorScale = "inferno"
	ScaleTurbo   ColorScale = "turbo"
	ScaleJet     ColorScale = "jet"
	ScaleRainbow ColorScale = "rainbow"
)

// DefaultScale is used when no color scale is picked.
const DefaultScale = ScaleViridis

var scaleStops = map[ColorScale][]string{
	ScaleViridis: {"#440154", "#3b528b", "#21918c", "#5ec962", "#fde725"},
	ScalePlasma:  {"#0d0887", "#7e03a8", "#cc4778", "#f89540", "#f0f921"},
	ScaleInferno: {"#000004", "#57106e", "#bc3754", "#f98e09", "#fcffa4"},
	ScaleTurbo:   {"#30123b", "#28bceb", "#a4fc3c", "#fb7e21", "#7a0403"},
	ScaleJet:     {"#00007f", "#0000ff", "#00ffff", "#ffff00", "#ff0000", "#7f0000"},
	ScaleRainbow: {"#9400d3", "#4b0082", "#0000ff", "#00ff00", "#ffff00", "#ff7f00", "#ff0000"},
}

// Scales lists the valid color scale names.
func Scales() []string {
	return []string{
		string(ScaleViridis), string(ScalePlasma), string(ScaleInferno),
		string(ScaleTurbo), string(ScaleJet), string(ScaleRainbow),
	}
}

// ParseScale validates a color scale name, case-insensitively.
func ParseScale(name string) (ColorScale, error) {
	if name == "" {
		return DefaultScale, nil
	}
	scale := ColorScale(strings.ToLower(name))
	if _, ok := scaleStops[scale]; !ok {
		return "", apperrors.New(apperrors.ErrCodeInvalidInput, "unknown color scale %q", name)
	}
	return scale, nil
}

// Stops returns the scale's hex color stops from low to high intensity.
func (s ColorScale) Stops() []string {
	if stops, ok := scaleStops[s]; ok {
		return stops
	}
	return scaleStops[DefaultScale]
}

// At maps a normalized intensity in [0, 1] to the nearest color stop.
func (s ColorScale) At(t float64) string {
	stops := s.Stops()
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	i := int(t * float64(len(stops)-1))
	if i >= len(stops) {
		i = len(stops) - 1
	}
	return stops[i]
}
