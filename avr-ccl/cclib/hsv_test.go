package cclib

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

var _ color.Color = HSV{}

func TestHSVToRGB(t *testing.T) {
	for _, tc := range []struct {
		h, s, v uint8
		r, g, b uint8
	}{
		{h: 0, s: 255, v: 32, r: 32, g: 0, b: 0},
		{h: 85, s: 255, v: 32, r: 0, g: 32, b: 0},
		{h: 170, s: 255, v: 32, r: 0, g: 1, b: 32},
		{h: 43, s: 255, v: 255, r: 254, g: 255, b: 0},
		{h: 255, s: 255, v: 255, r: 255, g: 0, b: 15},
		{h: 0, s: 0, v: 0, r: 0, g: 0, b: 0},
	} {
		r, g, b := HSVToRGB(tc.h, tc.s, tc.v)
		assert.Equal(t, [3]uint8{tc.r, tc.g, tc.b}, [3]uint8{r, g, b}, "hsv(%d,%d,%d)", tc.h, tc.s, tc.v)
	}
}

func TestHSVToRGB_gray(t *testing.T) {
	for h := 0; h < 256; h += 17 {
		for v := 0; v < 256; v++ {
			r, g, b := HSVToRGB(uint8(h), 0, uint8(v))
			if r != uint8(v) || g != uint8(v) || b != uint8(v) {
				t.Fatalf("hsv(%d,0,%d) = (%d,%d,%d)", h, v, r, g, b)
			}
		}
	}
}

func TestHSVToRGB_onePrimaryAtFull(t *testing.T) {
	for h := 0; h < 256; h++ {
		r, g, b := HSVToRGB(uint8(h), 255, 255)
		full := 0
		for _, c := range []uint8{r, g, b} {
			if c == 255 {
				full++
			}
		}
		assert.Equal(t, 1, full, "hue %d gave (%d,%d,%d)", h, r, g, b)
	}
}

func TestHSVToRGB_neverExceedsValue(t *testing.T) {
	for h := 0; h < 256; h++ {
		for _, v := range []uint8{1, 32, 128, 255} {
			r, g, b := HSVToRGB(uint8(h), 255, v)
			assert.LessOrEqual(t, r, v)
			assert.LessOrEqual(t, g, v)
			assert.LessOrEqual(t, b, v)
		}
	}
}

func TestHSV_RGBA(t *testing.T) {
	r, g, b, a := HSV{H: 0, S: 255, V: 32}.RGBA()
	assert.Equal(t, uint32(32*0x101), r)
	assert.Zero(t, g)
	assert.Zero(t, b)
	assert.Equal(t, uint32(0xffff), a)

	f := NewFrame(2)
	f.SetColor(1, HSV{H: 85, S: 255, V: 32})
	r8, g8, b8 := f.Pixel(1)
	assert.Equal(t, [3]uint8{0, 32, 0}, [3]uint8{r8, g8, b8})
}
