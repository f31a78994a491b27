//go:build avr

package ccl

import (
	"runtime/volatile"
	"unsafe"
)

// TCB0 is the pulse-width timer.
var TCB0 = &TCB{
	hw: (*tcbHW)(unsafe.Pointer(uintptr(0x0A40))),
}

type tcbHW struct {
	CTRLA    volatile.Register8    // 0x00
	CTRLB    volatile.Register8    // 0x01
	_        [2]volatile.Register8 // 0x02
	EVCTRL   volatile.Register8    // 0x04
	INTCTRL  volatile.Register8    // 0x05
	INTFLAGS volatile.Register8    // 0x06
	STATUS   volatile.Register8    // 0x07
	DBGCTRL  volatile.Register8    // 0x08
	TEMP     volatile.Register8    // 0x09
	CNTL     volatile.Register8    // 0x0A
	CNTH     volatile.Register8    // 0x0B
	CCMPL    volatile.Register8    // 0x0C
	CCMPH    volatile.Register8    // 0x0D
}

// TCB is a 16-bit timer/counter type B used as a self-stopping one-shot.
type TCB struct {
	hw *tcbHW
	nc noCopy
}

// Configure stops the timer and applies cfg. The timer stays disabled.
func (tcb *TCB) Configure(cfg TCBConfig) error {
	tcb.Stop()
	tcb.hw.CTRLB.Set(cfg.CtrlB)
	tcb.hw.EVCTRL.Set(cfg.EvCtrl)
	tcb.setCompare(cfg.Compare)
	tcb.hw.CTRLA.Set(cfg.CtrlA &^ TCB_CTRLA_ENABLE)
	tcb.hw.INTFLAGS.Set(TCB_INTFLAGS_CAPT)
	tcb.ResetCount()
	return nil
}

// 16-bit registers go through TEMP: the low byte write is latched and the high
// byte write commits both. Keep the two explicit byte writes in this order;
// a single wide store was observed to land high byte first.
func (tcb *TCB) setCompare(v uint16) {
	tcb.hw.CCMPL.Set(uint8(v))
	tcb.hw.CCMPH.Set(uint8(v >> 8))
}

// ResetCount zeroes the counter.
func (tcb *TCB) ResetCount() {
	tcb.hw.CNTL.Set(0)
	tcb.hw.CNTH.Set(0)
}

// Start enables counting.
func (tcb *TCB) Start() {
	tcb.hw.CTRLA.SetBits(TCB_CTRLA_ENABLE)
}

// Stop halts counting. The counter is left as is.
func (tcb *TCB) Stop() {
	tcb.hw.CTRLA.ClearBits(TCB_CTRLA_ENABLE)
}
