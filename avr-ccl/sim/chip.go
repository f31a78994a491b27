// Package sim is a cycle-level model of the tinyAVR peripherals that compose
// the LED waveform: SPI0, TCB0, the event system and CCL LUT0. It implements
// the same handles as the hardware package so the transmit path runs unchanged
// on a host, and records the composed pin as a periph.io bit stream.
package sim

import (
	"errors"
	"time"

	"periph.io/x/conn/v3/gpio/gpiostream"
	"periph.io/x/conn/v3/physic"

	ccl "github.com/tinygo-org/neoccl/avr-ccl"
)

// ErrWedged is the panic value raised when the CPU busy-waits on a flag that
// no running peripheral can ever set. On hardware this hangs forever.
var ErrWedged = errors.New("sim: busy-wait on a flag that can never be set")

// Costs is the CPU cycle cost of the transmit path's peripheral accesses.
type Costs struct {
	// Register is charged per register read or write.
	Register uint64
	// Poll is charged per iteration of a flag busy-wait loop.
	Poll uint64
}

// DefaultCosts approximates an lds/sts per register and a three
// instruction polling loop.
var DefaultCosts = Costs{Register: 1, Poll: 3}

// Chip owns one set of simulated peripherals sharing a CPU clock.
type Chip struct {
	hz    uint32
	costs Costs
	cycle uint64

	spi SPI
	tcb TCB
	lut LUT

	routed bool
	event  ccl.EventConfig

	// Captured pin samples, one per CPU cycle, MSB first.
	bits  []byte
	nbits int

	byteStarts []uint16
}

// New returns a chip clocked at cpuHz with DefaultCosts.
func New(cpuHz uint32) *Chip {
	c := &Chip{hz: cpuHz, costs: DefaultCosts}
	c.spi.chip = c
	c.tcb.chip = c
	c.lut.chip = c
	return c
}

// SetCosts changes the per-access cycle costs.
func (c *Chip) SetCosts(costs Costs) { c.costs = costs }

// Frequency returns the CPU clock.
func (c *Chip) Frequency() physic.Frequency {
	return physic.Frequency(c.hz) * physic.Hertz
}

// SPI0 returns the shift-clock/data source.
func (c *Chip) SPI0() *SPI { return &c.spi }

// TCB0 returns the pulse-width timer.
func (c *Chip) TCB0() *TCB { return &c.tcb }

// LUT0 returns the waveform composer.
func (c *Chip) LUT0() *LUT { return &c.lut }

// RouteEvent connects the SCK pin to the TCB capture input. Only the
// generator/user pair produced by ccl.DefaultEventConfig is modelled.
func (c *Chip) RouteEvent(cfg ccl.EventConfig) {
	c.event = cfg
	c.routed = cfg.Generator == ccl.EVSYS_ASYNCCH0_PORTA_PIN0+ccl.PinSCK &&
		cfg.User == ccl.EVSYS_ASYNCUSER_TCB0
}

// Cycle returns the number of CPU cycles run so far.
func (c *Chip) Cycle() uint64 { return c.cycle }

// Advance runs the peripherals for n CPU cycles.
func (c *Chip) Advance(n uint64) {
	for i := uint64(0); i < n; i++ {
		c.step()
	}
}

// Sleep runs the peripherals for d, rounded down to whole cycles. It satisfies
// the delay service the animation loop calls between frames.
func (c *Chip) Sleep(d time.Duration) {
	c.Advance(uint64(d) * uint64(c.hz) / uint64(time.Second))
}

func (c *Chip) access(n int) {
	c.Advance(uint64(n) * c.costs.Register)
}

func (c *Chip) poll() {
	c.Advance(c.costs.Poll)
}

func (c *Chip) step() {
	prevSCK := c.spi.sck
	c.spi.tick()
	if c.routed && prevSCK != c.spi.sck {
		c.tcb.edge(c.spi.sck)
	}
	c.record(c.lut.output())
	c.tcb.tick()
	c.cycle++
}

func (c *Chip) record(high bool) {
	if c.nbits%8 == 0 {
		c.bits = append(c.bits, 0)
	}
	if high {
		c.bits[c.nbits/8] |= 0x80 >> (c.nbits % 8)
	}
	c.nbits++
}

// Stream returns the pin samples captured since the last ResetCapture.
func (c *Chip) Stream() *gpiostream.BitStream {
	b := make([]byte, len(c.bits))
	copy(b, c.bits)
	return &gpiostream.BitStream{Bits: b, Freq: c.Frequency()}
}

// Samples returns the number of captured pin samples.
func (c *Chip) Samples() int { return c.nbits }

// ResetCapture discards captured samples and byte start records.
func (c *Chip) ResetCapture() {
	c.bits = c.bits[:0]
	c.nbits = 0
	c.byteStarts = c.byteStarts[:0]
}

// ByteStartCounts returns the TCB counter value observed each time the shift
// register started on a new byte.
func (c *Chip) ByteStartCounts() []uint16 {
	return append([]uint16(nil), c.byteStarts...)
}
