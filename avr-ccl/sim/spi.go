package sim

import (
	ccl "github.com/tinygo-org/neoccl/avr-ccl"
)

// SPI models SPI0 in unbuffered host mode 0. Each bit cell is divider CPU
// cycles: SCK low for the first half with MOSI already showing the bit, SCK
// high for the second half.
type SPI struct {
	chip *Chip

	ctrlA, ctrlB uint8
	// SSLevel is the level seen on the SS pin. A floating pin reads low.
	SSLevel bool

	shifting bool
	shift    uint8
	bit      uint8
	phase    uint64
	div      uint64

	sck, mosi bool
	iflag     bool
	wrcol     bool
	rx        uint8
}

// WriteCTRLA writes CTRLA. Setting MASTER while slave select is enabled and SS
// reads low drops back to client mode and sets IF, as the hardware does.
func (s *SPI) WriteCTRLA(v uint8) {
	s.chip.access(1)
	s.ctrlA = v
	s.div = uint64(ccl.SPIConfig{CtrlA: v}.Divider())
	if v&ccl.SPI_CTRLA_MASTER != 0 && s.ctrlB&ccl.SPI_CTRLB_SSD == 0 && !s.SSLevel {
		s.ctrlA &^= ccl.SPI_CTRLA_MASTER
		s.iflag = true
	}
}

// WriteCTRLB writes CTRLB.
func (s *SPI) WriteCTRLB(v uint8) {
	s.chip.access(1)
	s.ctrlB = v
}

// IsMaster reports whether host mode is active.
func (s *SPI) IsMaster() bool { return s.ctrlA&ccl.SPI_CTRLA_MASTER != 0 }

// Configure applies cfg in the same order as the hardware handle.
func (s *SPI) Configure(cfg ccl.SPIConfig) error {
	s.WriteCTRLA(0)
	s.WriteCTRLB(cfg.CtrlB)
	s.WriteCTRLA(cfg.CtrlA)
	s.chip.access(1) // INTFLAGS
	if s.iflag {
		s.ReadData()
	}
	if cfg.CtrlA&ccl.SPI_CTRLA_MASTER != 0 && !s.IsMaster() {
		return ccl.ErrMasterLost
	}
	return nil
}

// Transmit writes DATA. In host mode the first bit starts on the next cycle.
// A write while a byte is shifting is dropped and sets WRCOL.
func (s *SPI) Transmit(b byte) {
	s.chip.access(1)
	if s.ctrlA&ccl.SPI_CTRLA_ENABLE == 0 || !s.IsMaster() {
		return
	}
	if s.shifting {
		s.wrcol = true
		return
	}
	s.shifting = true
	s.shift = b
	s.bit = 0
	s.phase = 0
	s.chip.byteStarts = append(s.chip.byteStarts, s.chip.tcb.cnt)
}

// TransferComplete polls IF.
func (s *SPI) TransferComplete() bool {
	s.chip.poll()
	if !s.iflag && !s.shifting {
		panic(ErrWedged)
	}
	return s.iflag
}

// ReadData reads DATA and clears IF and WRCOL. Nothing drives MISO, so the
// received byte is always zero.
func (s *SPI) ReadData() byte {
	s.chip.access(1)
	s.iflag = false
	s.wrcol = false
	return s.rx
}

// WriteCollision reports whether a DATA write was dropped.
func (s *SPI) WriteCollision() bool { return s.wrcol }

// Transfer writes a single byte out on the SPI bus and receives a byte at the same time.
func (s *SPI) Transfer(b byte) (byte, error) {
	s.Transmit(b)
	for !s.TransferComplete() {
	}
	return s.ReadData(), nil
}

// Tx transmits w and receives into r at the same time. Either may be nil.
func (s *SPI) Tx(w, r []byte) error {
	n := len(w)
	if len(r) > n {
		n = len(r)
	}
	for i := 0; i < n; i++ {
		var out byte
		if i < len(w) {
			out = w[i]
		}
		in, _ := s.Transfer(out)
		if i < len(r) {
			r[i] = in
		}
	}
	return nil
}

func (s *SPI) tick() {
	if !s.shifting {
		s.sck = false
		return
	}
	s.mosi = s.shift&(0x80>>s.bit) != 0
	s.sck = s.phase >= s.div/2
	s.phase++
	if s.phase == s.div {
		s.phase = 0
		s.bit++
		if s.bit == 8 {
			s.shifting = false
			s.iflag = true
			s.rx = 0
		}
	}
}
