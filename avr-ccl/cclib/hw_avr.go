//go:build avr

package cclib

import ccl "github.com/tinygo-org/neoccl/avr-ccl"

var (
	_ ShiftSource = ccl.SPI0
	_ PulseTimer  = ccl.TCB0
	_ Composer    = ccl.LUT{}
)
