package sim

import (
	ccl "github.com/tinygo-org/neoccl/avr-ccl"
)

// LUT models CCL LUT0 driving its output pin, plus the CCL global enable.
type LUT struct {
	chip *Chip

	enabled bool
	cfg     ccl.LUTConfig
}

// Configure writes the LUT registers. Like the hardware, they are
// enable-protected while the CCL runs.
func (l *LUT) Configure(cfg ccl.LUTConfig) error {
	l.chip.access(4)
	if l.enabled {
		return ccl.ErrComposerEnabled
	}
	l.cfg = cfg
	return nil
}

// SetEnabled sets or clears CCL.CTRLA.ENABLE.
func (l *LUT) SetEnabled(enabled bool) {
	l.chip.access(1)
	l.enabled = enabled
}

// Config returns the active LUT registers.
func (l *LUT) Config() ccl.LUTConfig { return l.cfg }

func (l *LUT) output() bool {
	if !l.enabled || l.cfg.CtrlA&ccl.CCL_LUTCTRLA_ENABLE == 0 || l.cfg.CtrlA&ccl.CCL_LUTCTRLA_OUTEN == 0 {
		return false
	}
	in0, in1, in2 := l.cfg.Inputs()
	return l.cfg.Truth.Eval(l.input(in0, 0), l.input(in1, 1), l.input(in2, 2))
}

// input resolves one selector. SPI0 presents SCK on input 0 and MOSI on the others.
func (l *LUT) input(sel ccl.Insel, n int) bool {
	switch sel {
	case ccl.InselSPI0:
		if n == 0 {
			return l.chip.spi.sck
		}
		return l.chip.spi.mosi
	case ccl.InselTCB0:
		return l.chip.tcb.wo
	}
	return false
}
