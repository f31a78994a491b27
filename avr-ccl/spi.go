//go:build avr

package ccl

import (
	"runtime/volatile"
	"unsafe"
)

// SPI0 is the shift-clock/data source.
var SPI0 = &SPI{
	hw: (*spiHW)(unsafe.Pointer(uintptr(0x0820))),
}

type spiHW struct {
	CTRLA    volatile.Register8 // 0x00
	CTRLB    volatile.Register8 // 0x01
	INTCTRL  volatile.Register8 // 0x02
	INTFLAGS volatile.Register8 // 0x03
	DATA     volatile.Register8 // 0x04
}

// SPI is the SPI peripheral used as a bit-rate clock and data generator. The
// LED line never sees SCK or MOSI directly; both feed the CCL.
type SPI struct {
	hw *spiHW
	nc noCopy
}

// Configure applies cfg. The peripheral is disabled first, then CTRLB is
// written before CTRLA: with slave select still enabled a floating SS pin
// clears MASTER the moment it is set.
func (spi *SPI) Configure(cfg SPIConfig) error {
	spi.hw.CTRLA.Set(0)
	spi.hw.CTRLB.Set(cfg.CtrlB)
	spi.hw.CTRLA.Set(cfg.CtrlA)
	// A mode fault leaves IF set, which would end the next transfer early.
	// Reading INTFLAGS then DATA clears it.
	if spi.hw.INTFLAGS.HasBits(SPI_INTFLAGS_IF) {
		spi.hw.DATA.Get()
	}
	if cfg.CtrlA&SPI_CTRLA_MASTER != 0 && !spi.hw.CTRLA.HasBits(SPI_CTRLA_MASTER) {
		return ErrMasterLost
	}
	return nil
}

// Transmit puts b in the data register, which starts shifting immediately.
func (spi *SPI) Transmit(b byte) {
	spi.hw.DATA.Set(b)
}

// TransferComplete returns true once the last bit of the byte has been shifted.
func (spi *SPI) TransferComplete() bool {
	return spi.hw.INTFLAGS.HasBits(SPI_INTFLAGS_IF)
}

// ReadData reads the received byte. Reading DATA after IF has been observed
// clears IF, which re-arms the flag for the next byte.
func (spi *SPI) ReadData() byte {
	return spi.hw.DATA.Get()
}

// Transfer writes a single byte out on the SPI bus and receives a byte at the same time.
func (spi *SPI) Transfer(b byte) (byte, error) {
	spi.Transmit(b)
	for !spi.TransferComplete() {
	}
	return spi.ReadData(), nil
}

// Tx transmits w and receives into r at the same time. Either may be nil.
func (spi *SPI) Tx(w, r []byte) error {
	n := len(w)
	if len(r) > n {
		n = len(r)
	}
	for i := 0; i < n; i++ {
		var out byte
		if i < len(w) {
			out = w[i]
		}
		in, _ := spi.Transfer(out)
		if i < len(r) {
			r[i] = in
		}
	}
	return nil
}
