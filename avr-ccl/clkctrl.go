//go:build avr

package ccl

import (
	"runtime/volatile"
	"unsafe"
)

var (
	cpuCCP  = (*volatile.Register8)(unsafe.Pointer(uintptr(0x0034)))
	clkctrl = (*clkctrlHW)(unsafe.Pointer(uintptr(0x0060)))
)

type clkctrlHW struct {
	MCLKCTRLA  volatile.Register8 // 0x00
	MCLKCTRLB  volatile.Register8 // 0x01
	MCLKLOCK   volatile.Register8 // 0x02
	MCLKSTATUS volatile.Register8 // 0x03
}

// SetClockPrescaler divides the main oscillator by div, one of the values
// NewPlanForOscillator returns. Peripherals clocked from CLK_PER, including
// SPI0 and TCB0, follow the new rate.
func SetClockPrescaler(div uint8) error {
	v, err := PrescalerBits(div)
	if err != nil {
		return err
	}
	// The protected write must land within four instructions of the signature.
	cpuCCP.Set(CPU_CCP_IOREG)
	clkctrl.MCLKCTRLB.Set(v)
	for clkctrl.MCLKSTATUS.HasBits(CLKCTRL_MCLKSTATUS_SOSC) {
	}
	return nil
}
