package cclib

// HSVToRGB converts an 8-bit hue/saturation/value triple to RGB. The hue
// circle is split into six sectors of 43 steps; all arithmetic truncates, so
// results are identical on every target.
func HSVToRGB(h, s, v uint8) (r, g, b uint8) {
	if s == 0 {
		return v, v, v
	}
	sector := int32(h) / 43
	rem := (int32(h) - sector*43) * 6
	vv, ss := int32(v), int32(s)

	p := uint8(vv * (255 - ss) >> 8)
	q := uint8(vv * (255 - (ss * rem >> 8)) >> 8)
	t := uint8(vv * (255 - (ss * (255 - rem) >> 8)) >> 8)

	switch sector {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	}
	return v, p, q
}

// HSV is a color in the 8-bit hue/saturation/value space used by the
// animations. It implements [color.Color].
type HSV struct {
	H, S, V uint8
}

// RGBA implements [color.Color]. HSV colors are always opaque.
func (c HSV) RGBA() (r, g, b, a uint32) {
	r8, g8, b8 := HSVToRGB(c.H, c.S, c.V)
	r = uint32(r8) * 0x101
	g = uint32(g8) * 0x101
	b = uint32(b8) * 0x101
	return r, g, b, 0xffff
}
