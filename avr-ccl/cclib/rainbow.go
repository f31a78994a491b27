package cclib

import "time"

const (
	// DefaultUnits is the length of the chain the firmware is built for.
	DefaultUnits = 100
	// FramePeriod is the pause after each frame. It is well above the latch
	// time of every supported protocol.
	FramePeriod = 10 * time.Millisecond
	// DefaultValue keeps the whole chain within a small supply's budget.
	DefaultValue = 32
)

// Delayer pauses the caller.
type Delayer interface {
	Sleep(d time.Duration)
}

// DelayFunc adapts a function such as time.Sleep to Delayer.
type DelayFunc func(d time.Duration)

// Sleep calls f(d).
func (f DelayFunc) Sleep(d time.Duration) { f(d) }

// Rainbow fills the whole chain with one fully saturated color and advances
// the hue by one step per frame, so the chain cycles through the color wheel
// every 256 frames.
type Rainbow struct {
	Hue   uint8
	Value uint8
	frame Frame
}

// NewRainbow returns a rainbow for units pixels starting at hue 0.
func NewRainbow(units int) *Rainbow {
	return &Rainbow{Value: DefaultValue, frame: NewFrame(units)}
}

// Frame returns the frame written by the last Step.
func (rb *Rainbow) Frame() Frame { return rb.frame }

// Step writes one frame at the current hue and advances the hue, wrapping
// from 255 to 0.
func (rb *Rainbow) Step(s *Strip) {
	r, g, b := HSVToRGB(rb.Hue, 255, rb.Value)
	rb.frame.Fill(r, g, b)
	s.WriteFrame(rb.frame)
	rb.Hue++
}

// Run steps forever, sleeping FramePeriod after each frame.
func (rb *Rainbow) Run(s *Strip, d Delayer) {
	for {
		rb.Step(s)
		d.Sleep(FramePeriod)
	}
}
