//go:build avr

package ccl

import (
	"runtime/volatile"
	"unsafe"
)

// TWI0 is the two-wire host used for the auxiliary device.
var TWI0 = &TWI{
	hw: (*twiHW)(unsafe.Pointer(uintptr(0x0810))),
}

type twiHW struct {
	CTRLA   volatile.Register8 // 0x00
	_       volatile.Register8 // 0x01
	DBGCTRL volatile.Register8 // 0x02
	MCTRLA  volatile.Register8 // 0x03
	MCTRLB  volatile.Register8 // 0x04
	MSTATUS volatile.Register8 // 0x05
	MBAUD   volatile.Register8 // 0x06
	MADDR   volatile.Register8 // 0x07
	MDATA   volatile.Register8 // 0x08
}

// TWI is the TWI0 host. It implements drivers.I2C.
type TWI struct {
	hw *twiHW
	nc noCopy
}

// Configure sets the baud rate, enables the host and forces the bus state to idle.
func (t *TWI) Configure(cfg TWIConfig) error {
	baud, err := TWIBaud(cfg.CPUHz, cfg.Frequency)
	if err != nil {
		return err
	}
	t.hw.MCTRLA.Set(0)
	t.hw.MBAUD.Set(baud)
	t.hw.MCTRLA.Set(TWI_MCTRLA_ENABLE)
	t.hw.MSTATUS.Set(TWI_MSTATUS_BUSSTATE_IDLE)
	return nil
}

// Tx writes w to the device at addr, then reads len(r) bytes with a repeated start.
func (t *TWI) Tx(addr uint16, w, r []byte) error {
	if len(w) > 0 || len(r) == 0 {
		t.hw.MADDR.Set(uint8(addr << 1))
		if err := t.wait(); err != nil {
			return err
		}
		for _, b := range w {
			t.hw.MDATA.Set(b)
			if err := t.wait(); err != nil {
				return err
			}
		}
	}
	if len(r) > 0 {
		t.hw.MADDR.Set(uint8(addr<<1) | 1)
		if err := t.wait(); err != nil {
			return err
		}
		for i := range r {
			r[i] = t.hw.MDATA.Get()
			if i < len(r)-1 {
				t.hw.MCTRLB.Set(TWI_MCTRLB_MCMD_RECVTRANS)
				if err := t.wait(); err != nil {
					return err
				}
			}
		}
		t.hw.MCTRLB.Set(TWI_MCTRLB_ACKACT_NACK | TWI_MCTRLB_MCMD_STOP)
		return nil
	}
	t.hw.MCTRLB.Set(TWI_MCTRLB_MCMD_STOP)
	return nil
}

// ReadRegister reads len(buf) bytes from register r of the device at addr.
func (t *TWI) ReadRegister(addr uint8, r uint8, buf []byte) error {
	return t.Tx(uint16(addr), []byte{r}, buf)
}

// WriteRegister writes buf to register r of the device at addr.
func (t *TWI) WriteRegister(addr uint8, r uint8, buf []byte) error {
	w := make([]byte, len(buf)+1)
	w[0] = r
	copy(w[1:], buf)
	return t.Tx(uint16(addr), w, nil)
}

// wait blocks until the host finished the current address or data phase.
func (t *TWI) wait() error {
	for {
		status := t.hw.MSTATUS.Get()
		switch {
		case status&TWI_MSTATUS_ARBLOST != 0:
			return ErrTWIArbitration
		case status&TWI_MSTATUS_BUSERR != 0:
			return ErrTWIBus
		case status&TWI_MSTATUS_RIF != 0:
			return nil
		case status&TWI_MSTATUS_WIF != 0:
			if status&TWI_MSTATUS_RXACK != 0 {
				t.hw.MCTRLB.Set(TWI_MCTRLB_MCMD_STOP)
				return ErrTWINack
			}
			return nil
		}
	}
}
