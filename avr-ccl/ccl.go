//go:build avr

package ccl

import (
	"runtime/volatile"
	"unsafe"
)

// CCL is the configurable custom logic peripheral.
var CCL = &Logic{
	hw: (*cclHW)(unsafe.Pointer(uintptr(0x01C0))),
}

type cclHW struct {
	CTRLA    volatile.Register8    // 0x00
	SEQCTRL0 volatile.Register8    // 0x01
	_        [3]volatile.Register8 // 0x02
	LUT      [2]lutHW              // 0x05..0x0C
}

type lutHW struct {
	CTRLA volatile.Register8
	CTRLB volatile.Register8
	CTRLC volatile.Register8
	TRUTH volatile.Register8
}

// Logic represents the CCL with its two look-up tables.
type Logic struct {
	hw *cclHW
	nc noCopy
}

// LUT returns a look-up table by index.
func (c *Logic) LUT(index uint8) LUT {
	if index > 1 {
		panic(badLUTIndex)
	}
	return LUT{ccl: c, index: index}
}

// SetEnabled controls the whole CCL. LUT registers can only be written while it is disabled.
func (c *Logic) SetEnabled(enabled bool) {
	if enabled {
		c.hw.CTRLA.SetBits(CCL_CTRLA_ENABLE)
	} else {
		c.hw.CTRLA.ClearBits(CCL_CTRLA_ENABLE)
	}
}

// IsEnabled returns true if the CCL is running.
func (c *Logic) IsEnabled() bool {
	return c.hw.CTRLA.HasBits(CCL_CTRLA_ENABLE)
}

// LUT is one look-up table of the CCL; used here as the waveform composer.
type LUT struct {
	ccl   *Logic
	index uint8
}

// Configure writes the input selection, truth table and control registers.
// It fails if the CCL is enabled, since the registers would silently keep their
// old values and a half-applied table corrupts pulses in flight.
func (l LUT) Configure(cfg LUTConfig) error {
	if l.ccl.IsEnabled() {
		return ErrComposerEnabled
	}
	hw := &l.ccl.hw.LUT[l.index]
	hw.CTRLA.ClearBits(CCL_LUTCTRLA_ENABLE)
	hw.CTRLB.Set(cfg.CtrlB)
	hw.CTRLC.Set(cfg.CtrlC)
	hw.TRUTH.Set(uint8(cfg.Truth))
	hw.CTRLA.Set(cfg.CtrlA)
	return nil
}

// SetEnabled controls the CCL this LUT belongs to.
func (l LUT) SetEnabled(enabled bool) {
	l.ccl.SetEnabled(enabled)
}
