package colors

import (
	"math/rand"
	"testing"

	"galaxy-server/internal/shared/errors"
)

func TestBlendHalfway(t *testing.T) {
	got := Blend(RGB{R: 0, G: 100, B: 255}, RGB{R: 200, G: 100, B: 55}, 0.5)
	want := RGB{R: 100, G: 100, B: 155}
	if got != want {
		t.Fatalf("Blend = %+v, want %+v", got, want)
	}
}

func TestBlendEndpoints(t *testing.T) {
	a, b := RGB{R: 10, G: 20, B: 30}, RGB{R: 200, G: 210, B: 220}
	if got := Blend(a, b, 0); got != a {
		t.Errorf("t=0: %+v", got)
	}
	if got := Blend(a, b, 1); got != b {
		t.Errorf("t=1: %+v", got)
	}
}

func TestHexRoundTrip(t *testing.T) {
	c := Random(rand.New(rand.NewSource(7)))
	got, err := ParseHex(c.Hex())
	if err != nil {
		t.Fatalf("ParseHex(%q): %v", c.Hex(), err)
	}
	if got != c {
		t.Fatalf("got %+v, want %+v", got, c)
	}
}

func TestParseHexRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "#fff", "#zzzzzz", "1234567", "0x1234", "-1ffff", "+1ffff", "fffff\n", "12345", "#12 456"} {
		_, err := ParseHex(in)
		if err == nil {
			t.Errorf("ParseHex(%q) succeeded", in)
			continue
		}
		if errors.GetType(err) != errors.ErrorTypeValidation {
			t.Errorf("ParseHex(%q) type = %v", in, errors.GetType(err))
		}
	}
}

func TestParseHexAcceptsBothForms(t *testing.T) {
	want := RGB{R: 0xab, G: 0xcd, B: 0xef}
	for _, in := range []string{"#abcdef", "abcdef", "#ABCDEF", "  #abcdef  "} {
		got, err := ParseHex(in)
		if err != nil {
			t.Errorf("ParseHex(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseHex(%q) = %+v, want %+v", in, got, want)
		}
	}
}

func TestHexFormat(t *testing.T) {
	if got := (RGB{R: 1, G: 0x20, B: 0xff}).Hex(); got != "#0120ff" {
		t.Fatalf("Hex = %q, want #0120ff", got)
	}
}

func TestColorfulRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 64; i++ {
		c := Random(rng)
		if got := FromColorful(c.Colorful()); got != c {
			t.Fatalf("round trip of %+v = %+v", c, got)
		}
	}
}
