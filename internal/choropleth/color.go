package choropleth

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Color is a CSS hex color, "#rrggbb".
type Color string

const (
	NoData Color = "#e5e7eb"

	// intensity buckets
	VeryHigh Color = "#991b1b"
	High     Color = "#dc2626"
	Medium   Color = "#f97316"
	Low      Color = "#facc15"
	VeryLow  Color = "#86efac"
)

// IntensityBucket is one closed-below step of the intensity scale.
type IntensityBucket struct {
	Min   float64
	Color Color
	Label string
}

// intensityBuckets are ordered most specific first.
var intensityBuckets = [...]IntensityBucket{
	{Min: 1.5, Color: VeryHigh, Label: "1.5-2.0"},
	{Min: 1.0, Color: High, Label: "1.0-1.5"},
	{Min: 0.5, Color: Medium, Label: "0.5-1.0"},
	{Min: 0.2, Color: Low, Label: "0.2-0.5"},
}

// IntensityColor buckets a score. Absent scores get NoData.
func IntensityColor(s Score) Color {
	if !s.ok() {
		return NoData
	}
	for _, b := range intensityBuckets {
		if s.Value >= b.Min {
			return b.Color
		}
	}
	return VeryLow
}

const (
	ideologySaturation = 0.70
	baseLightness      = 0.70
	lightnessSpread    = 0.45
	unknownLift        = 0.20
)

// Hue returns the fixed hue for an ideology and whether it is known.
func Hue(i *Ideology) (float64, bool) {
	if i == nil {
		return 0, false
	}
	switch *i {
	case Left:
		return 220, true
	case Center:
		return 160, true
	case Right:
		return 0, true
	}
	return 0, false
}

// IdeologyColor shades the ideology's hue continuously: lightness falls
// linearly from 70% at score 0 to 25% at score 2. Scores outside [0,2] are
// clamped. Unknown ideologies are drawn in gray; absent scores get NoData.
func IdeologyColor(i *Ideology, s Score) Color {
	if !s.ok() {
		return NoData
	}
	l := Lightness(s)
	hue, known := Hue(i)
	if !known {
		return Color(colorful.Hsl(0, 0, l+unknownLift).Hex())
	}
	return Color(colorful.Hsl(hue, ideologySaturation, l).Hex())
}

// Lightness is the HSL lightness in [0.25,0.70] used by IdeologyColor.
func Lightness(s Score) float64 {
	if !s.ok() {
		return baseLightness
	}
	return baseLightness - clamp01(s.Value/2)*lightnessSpread
}

func clamp01(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	}
	return x
}
