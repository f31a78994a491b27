// Package cclib drives a chain of single-wire addressable LEDs through the
// waveform composed by the ccl package: SPI0 supplies the bit clock and data,
// TCB0 the short-pulse window and a CCL LUT combines them on one pin.
package cclib

import (
	"time"

	ccl "github.com/tinygo-org/neoccl/avr-ccl"
)

// ShiftSource shifts one byte out on SCK/MOSI, MSB first.
type ShiftSource interface {
	Configure(cfg ccl.SPIConfig) error
	Transmit(b byte)
	TransferComplete() bool
	ReadData() byte
}

// PulseTimer opens the short-pulse window on each SCK rising edge.
type PulseTimer interface {
	Configure(cfg ccl.TCBConfig) error
	ResetCount()
	Start()
	Stop()
}

// Composer combines clock, data and window into the LED line.
type Composer interface {
	Configure(cfg ccl.LUTConfig) error
	SetEnabled(enabled bool)
}

// Strip transmits frames to an LED chain.
type Strip struct {
	spi   ShiftSource
	timer PulseTimer
	plan  ccl.Plan
}

// NewStrip configures the peripherals for plan and enables the composer. The
// event route from SCK to the timer must already be in place.
func NewStrip(spi ShiftSource, timer PulseTimer, lut Composer, plan ccl.Plan) (*Strip, error) {
	// LUT registers only take writes while the CCL is off.
	lut.SetEnabled(false)
	if err := timer.Configure(plan.TCB); err != nil {
		return nil, err
	}
	if err := lut.Configure(plan.LUT); err != nil {
		return nil, err
	}
	if err := spi.Configure(plan.SPI); err != nil {
		return nil, err
	}
	lut.SetEnabled(true)
	return &Strip{spi: spi, timer: timer, plan: plan}, nil
}

// SendByte transmits one byte and blocks until its last bit has been shifted.
// There is no timeout: a peripheral that never raises its flag hangs here.
func (s *Strip) SendByte(b byte) {
	// CNT must start from zero or the first window of the byte is skewed.
	s.timer.ResetCount()
	s.timer.Start()
	s.spi.Transmit(b)
	for !s.spi.TransferComplete() {
	}
	s.spi.ReadData()
	s.timer.Stop()
}

// Write transmits buf in order. It never fails; the error is there so Strip
// satisfies io.Writer.
func (s *Strip) Write(buf []byte) (n int, err error) {
	for _, b := range buf {
		s.SendByte(b)
	}
	return len(buf), nil
}

// WriteFrame transmits every byte of f. The caller keeps the line low for at
// least the protocol's reset time afterwards to latch it.
func (s *Strip) WriteFrame(f Frame) {
	s.Write(f)
}

// ByteTime is the shifting time of one byte, the lower bound on how long
// SendByte blocks.
func (s *Strip) ByteTime() time.Duration {
	return s.plan.ByteTime()
}

// Plan returns the timing the strip was configured with.
func (s *Strip) Plan() ccl.Plan { return s.plan }
