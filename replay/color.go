package replay

import (
	"fmt"
	"image/color"
	"math"
)

type RGB struct {
	R uint8 `mapstructure:"r" json:"r"`
	G uint8 `mapstructure:"g" json:"g"`
	B uint8 `mapstructure:"b" json:"b"`
}

var _ color.Color = RGB{}

func (c RGB) RGBA() (uint32, uint32, uint32, uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}

func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ColorStops of a two segment gradient, split at t = 0.5
type ColorStops struct {
	Low  RGB `mapstructure:"low" json:"low"`
	Mid  RGB `mapstructure:"mid" json:"mid"`
	High RGB `mapstructure:"high" json:"high"`
}

// DefaultStops is the teal gradient used for every Q-value table
var DefaultStops = ColorStops{
	Low:  RGB{R: 185, G: 245, B: 225},
	Mid:  RGB{R: 90, G: 200, B: 180},
	High: RGB{R: 30, G: 105, B: 155},
}

// ColorForT interpolates linearly between Low and Mid for t < 0.5 and
// between Mid and High otherwise. The stops are reproduced exactly at
// t = 0, 0.5 and 1.
func ColorForT(t float64, stops ColorStops) RGB {
	if math.IsNaN(t) {
		t = 0
	}
	t = math.Max(0, math.Min(1, t))
	if t < 0.5 {
		return lerp(stops.Low, stops.Mid, t/0.5)
	}
	return lerp(stops.Mid, stops.High, (t-0.5)/0.5)
}

func lerp(from, to RGB, p float64) RGB {
	return RGB{
		R: lerpChannel(from.R, to.R, p),
		G: lerpChannel(from.G, to.G, p),
		B: lerpChannel(from.B, to.B, p),
	}
}

func lerpChannel(from, to uint8, p float64) uint8 {
	v := float64(from) + p*(float64(to)-float64(from))
	return uint8(math.Round(math.Max(0, math.Min(255, v))))
}

// ColorScale colors the values of one displayed set of Q-values
type ColorScale struct {
	Min   float64    `json:"min"`
	Max   float64    `json:"max"`
	Stops ColorStops `json:"stops"`
}

// NewColorScale spans all the given values
func NewColorScale(stops ColorStops, values ...float64) ColorScale {
	min, max := bounds(values)
	return ColorScale{Min: min, Max: max, Stops: stops}
}

// T is the normalized position of value on the scale
func (s ColorScale) T(value float64) float64 {
	return NormalizeForColor(value, s.Min, s.Max)
}

func (s ColorScale) Color(value float64) RGB {
	return ColorForT(s.T(value), s.Stops)
}

// Bright is true when value sits in the upper half of the scale, the cell
// text should then be light.
func (s ColorScale) Bright(value float64) bool {
	return value > (s.Min+s.Max)/2
}
