package cclib

import "image/color"

// BytesPerUnit is the size of one unit in a frame: red, green, blue and a
// trailing zero byte for the fourth channel of RGBW parts.
const BytesPerUnit = 4

// Frame is the byte sequence for one full update of the chain, in transmit
// order.
type Frame []byte

// NewFrame returns an all-off frame of units pixels.
func NewFrame(units int) Frame {
	return make(Frame, units*BytesPerUnit)
}

// Units returns the number of pixels in f.
func (f Frame) Units() int { return len(f) / BytesPerUnit }

// Set writes one pixel.
func (f Frame) Set(i int, r, g, b uint8) {
	px := f[i*BytesPerUnit : i*BytesPerUnit+BytesPerUnit]
	px[0], px[1], px[2], px[3] = r, g, b, 0
}

// SetColor wraps Set for a [color.Color] type.
func (f Frame) SetColor(i int, c color.Color) {
	r, g, b, _ := c.RGBA()
	f.Set(i, uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// Fill sets every pixel to the same color.
func (f Frame) Fill(r, g, b uint8) {
	for i := 0; i < f.Units(); i++ {
		f.Set(i, r, g, b)
	}
}

// Pixel returns the color of pixel i.
func (f Frame) Pixel(i int) (r, g, b uint8) {
	px := f[i*BytesPerUnit:]
	return px[0], px[1], px[2]
}
