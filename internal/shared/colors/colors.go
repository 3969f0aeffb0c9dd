package colors

import (
	"fmt"
	"math/rand"
	"strings"

	"galaxy-server/internal/shared/errors"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is an opaque 8-bit color. It is the wire form; arithmetic happens on
// colorful.Color.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Colorful converts c to a colorful.Color with channels in [0, 1].
func (c RGB) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

// FromColorful clamps c into gamut and rounds it to 8 bits per channel.
func FromColorful(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}

// Blend linearly interpolates from c toward o by t in [0, 1].
func Blend(c, o RGB, t float64) RGB {
	return FromColorful(c.Colorful().BlendRgb(o.Colorful(), t))
}

// Random draws each channel uniformly from [0, 255]. The draw comes from rng
// so seeded worlds stay reproducible.
func Random(rng *rand.Rand) RGB {
	return RGB{
		R: uint8(rng.Intn(256)),
		G: uint8(rng.Intn(256)),
		B: uint8(rng.Intn(256)),
	}
}

// Hex formats the color as #rrggbb.
func (c RGB) Hex() string {
	return c.Colorful().Hex()
}

// ParseHex parses #rrggbb or rrggbb. Short #rgb forms are rejected.
func ParseHex(s string) (RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 || !isHex(s) {
		return RGB{}, errors.Validationf("invalid color %q: expected 6 hex digits", s)
	}
	c, err := colorful.Hex("#" + s)
	if err != nil {
		return RGB{}, errors.WrapValidation(fmt.Sprintf("invalid color %q", s), err)
	}
	return FromColorful(c), nil
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; {
		case ch >= '0' && ch <= '9', ch >= 'a' && ch <= 'f', ch >= 'A' && ch <= 'F':
		default:
			return false
		}
	}
	return true
}
