package ccl

import "errors"

// Peripheral errors.
var (
	ErrMasterLost      = errors.New("ccl: SPI master mode cleared by slave select")
	ErrComposerEnabled = errors.New("ccl: LUT configuration is enable-protected")
	ErrBadDivider      = errors.New("ccl: unsupported SPI clock divider")
	ErrTWIBaud         = errors.New("ccl: TWI baud out of range")
	ErrTWINack         = errors.New("ccl: TWI address or data not acknowledged")
	ErrTWIArbitration  = errors.New("ccl: TWI arbitration lost")
	ErrTWIBus          = errors.New("ccl: TWI bus error")
	ErrBadPrescaler    = errors.New("ccl: unsupported main clock prescaler")
)

const (
	badLUTIndex     = "invalid LUT index"
	badEventChannel = "invalid event channel"
)

// SPI register bits (tinyAVR 1-series SPI0).
const (
	SPI_CTRLA_DORD         = 0x40
	SPI_CTRLA_MASTER       = 0x20
	SPI_CTRLA_CLK2X        = 0x10
	SPI_CTRLA_PRESC_Msk    = 0x06
	SPI_CTRLA_PRESC_DIV4   = 0x00
	SPI_CTRLA_PRESC_DIV16  = 0x02
	SPI_CTRLA_PRESC_DIV64  = 0x04
	SPI_CTRLA_PRESC_DIV128 = 0x06
	SPI_CTRLA_ENABLE       = 0x01

	SPI_CTRLB_BUFEN    = 0x80
	SPI_CTRLB_BUFWR    = 0x40
	SPI_CTRLB_SSD      = 0x04
	SPI_CTRLB_MODE_Msk = 0x03

	SPI_INTFLAGS_IF    = 0x80
	SPI_INTFLAGS_WRCOL = 0x40
)

// TCB register bits.
const (
	TCB_CTRLA_RUNSTDBY      = 0x40
	TCB_CTRLA_SYNCUPD       = 0x10
	TCB_CTRLA_CLKSEL_Msk    = 0x06
	TCB_CTRLA_CLKSEL_DIV1   = 0x00
	TCB_CTRLA_CLKSEL_DIV2   = 0x02
	TCB_CTRLA_CLKSEL_CLKTCA = 0x04
	TCB_CTRLA_ENABLE        = 0x01

	TCB_CTRLB_ASYNC          = 0x40
	TCB_CTRLB_CCMPINIT       = 0x20
	TCB_CTRLB_CCMPEN         = 0x10
	TCB_CTRLB_CNTMODE_Msk    = 0x07
	TCB_CTRLB_CNTMODE_INT    = 0x00
	TCB_CTRLB_CNTMODE_SINGLE = 0x06

	TCB_EVCTRL_FILTER = 0x40
	TCB_EVCTRL_EDGE   = 0x10
	TCB_EVCTRL_CAPTEI = 0x01

	TCB_INTFLAGS_CAPT = 0x01
)

// CCL register bits.
const (
	CCL_CTRLA_RUNSTDBY = 0x40
	CCL_CTRLA_ENABLE   = 0x01

	CCL_LUTCTRLA_EDGEDET     = 0x80
	CCL_LUTCTRLA_CLKSRC      = 0x40
	CCL_LUTCTRLA_FILTSEL_Msk = 0x30
	CCL_LUTCTRLA_OUTEN       = 0x08
	CCL_LUTCTRLA_ENABLE      = 0x01

	CCL_LUTCTRLB_INSEL1_Pos = 4
	CCL_LUTCTRLB_INSEL0_Pos = 0
	CCL_LUTCTRLC_INSEL2_Pos = 0
	CCL_INSEL_Msk           = 0x0F
)

// Insel selects the signal feeding one LUT input.
type Insel uint8

const (
	InselMask Insel = iota
	InselFeedback
	InselLink
	InselEvent0
	InselEvent1
	InselIO
	InselAC0
	InselTCB0
	InselTCA0
	InselTCD0
	InselUSART0
	InselSPI0
)

// Event system values.
const (
	// EVSYS_ASYNCCH0_PORTA_PIN0 is the generator value for PA0 on ASYNCCH0;
	// PAn is this value plus n.
	EVSYS_ASYNCCH0_PORTA_PIN0 = 0x0A
	// EVSYS_ASYNCUSER_ASYNCCH0 connects a user to ASYNCCH0; ASYNCCHn is this value plus n.
	EVSYS_ASYNCUSER_ASYNCCH0 = 0x03
	// EVSYS_ASYNCUSER_TCB0 is the index of the TCB0 capture input user.
	EVSYS_ASYNCUSER_TCB0 = 0
)

// TWI master register bits.
const (
	TWI_MCTRLA_ENABLE = 0x01

	TWI_MCTRLB_FLUSH          = 0x08
	TWI_MCTRLB_ACKACT_NACK    = 0x04
	TWI_MCTRLB_MCMD_RECVTRANS = 0x02
	TWI_MCTRLB_MCMD_STOP      = 0x03

	TWI_MSTATUS_RIF           = 0x80
	TWI_MSTATUS_WIF           = 0x40
	TWI_MSTATUS_CLKHOLD       = 0x20
	TWI_MSTATUS_RXACK         = 0x10
	TWI_MSTATUS_ARBLOST       = 0x08
	TWI_MSTATUS_BUSERR        = 0x04
	TWI_MSTATUS_BUSSTATE_IDLE = 0x01
)

// Main clock control. MCLKCTRLB is protected by the CPU.CCP signature.
const (
	CPU_CCP_IOREG = 0xD8

	CLKCTRL_MCLKCTRLB_PEN      = 0x01
	CLKCTRL_MCLKCTRLB_PDIV_Pos = 1
	CLKCTRL_MCLKSTATUS_SOSC    = 0x01
)

// Default pin assignment on PORTA.
const (
	PinMOSI    = 1
	PinSCK     = 3
	PinLUT0Out = 6
)

// SPIConfig holds the SPI0 control register values.
type SPIConfig struct {
	CtrlA uint8
	CtrlB uint8
}

// DefaultSPIConfig returns an enabled master configuration: MSB first, mode 0,
// unbuffered, slave select disabled.
func DefaultSPIConfig() SPIConfig {
	cfg := SPIConfig{
		CtrlA: SPI_CTRLA_MASTER | SPI_CTRLA_ENABLE,
		CtrlB: SPI_CTRLB_SSD,
	}
	cfg.SetDivider(4)
	return cfg
}

var spiDividers = [...]struct {
	div   uint8
	presc uint8
	clk2x bool
}{
	{2, SPI_CTRLA_PRESC_DIV4, true},
	{4, SPI_CTRLA_PRESC_DIV4, false},
	{8, SPI_CTRLA_PRESC_DIV16, true},
	{16, SPI_CTRLA_PRESC_DIV16, false},
	{32, SPI_CTRLA_PRESC_DIV64, true},
	{64, SPI_CTRLA_PRESC_DIV64, false},
	{128, SPI_CTRLA_PRESC_DIV128, false},
}

// SetDivider sets the SCK divider. Valid values are 2, 4, 8, 16, 32, 64 and 128.
func (cfg *SPIConfig) SetDivider(div uint8) error {
	for _, d := range spiDividers {
		if d.div != div {
			continue
		}
		cfg.CtrlA = cfg.CtrlA&^(SPI_CTRLA_PRESC_Msk|SPI_CTRLA_CLK2X) | d.presc
		if d.clk2x {
			cfg.CtrlA |= SPI_CTRLA_CLK2X
		}
		return nil
	}
	return ErrBadDivider
}

// Divider returns the SCK divider encoded in CtrlA.
func (cfg SPIConfig) Divider() uint8 {
	var div uint8
	switch cfg.CtrlA & SPI_CTRLA_PRESC_Msk {
	case SPI_CTRLA_PRESC_DIV4:
		div = 4
	case SPI_CTRLA_PRESC_DIV16:
		div = 16
	case SPI_CTRLA_PRESC_DIV64:
		div = 64
	default:
		div = 128
	}
	if cfg.CtrlA&SPI_CTRLA_CLK2X != 0 {
		div /= 2
	}
	return div
}

// TCBConfig holds the TCB register values for the pulse-width timer.
type TCBConfig struct {
	CtrlA  uint8
	CtrlB  uint8
	EvCtrl uint8
	// Compare is written to CCMP as two byte writes, low byte first.
	Compare uint16
}

// DefaultTCBConfig returns a single-shot configuration with the compare output
// enabled, triggered by the rising edge of the event input. The timer is left
// disabled; the transmit path starts it per byte.
func DefaultTCBConfig() TCBConfig {
	return TCBConfig{
		CtrlA:  TCB_CTRLA_CLKSEL_DIV1,
		CtrlB:  TCB_CTRLB_CNTMODE_SINGLE | TCB_CTRLB_CCMPEN,
		EvCtrl: TCB_EVCTRL_CAPTEI,
	}
}

// ClockDivider returns 1 or 2 depending on the CLKSEL field. CLKTCA reports 0.
func (cfg TCBConfig) ClockDivider() uint8 {
	switch cfg.CtrlA & TCB_CTRLA_CLKSEL_Msk {
	case TCB_CTRLA_CLKSEL_DIV1:
		return 1
	case TCB_CTRLA_CLKSEL_DIV2:
		return 2
	}
	return 0
}

// LUTConfig holds one CCL look-up table's registers.
type LUTConfig struct {
	CtrlA uint8
	CtrlB uint8
	CtrlC uint8
	Truth Truth
}

// DefaultLUTConfig returns the waveform composer configuration: IN0 = SPI0 SCK,
// IN1 = SPI0 MOSI, IN2 = TCB0 WO, output enabled, truth table ComposeTruth.
func DefaultLUTConfig() LUTConfig {
	cfg := LUTConfig{
		CtrlA: CCL_LUTCTRLA_OUTEN | CCL_LUTCTRLA_ENABLE,
		Truth: ComposeTruth,
	}
	cfg.SetInputs(InselSPI0, InselSPI0, InselTCB0)
	return cfg
}

// SetInputs sets the three input selectors.
func (cfg *LUTConfig) SetInputs(in0, in1, in2 Insel) {
	cfg.CtrlB = uint8(in1&CCL_INSEL_Msk)<<CCL_LUTCTRLB_INSEL1_Pos | uint8(in0&CCL_INSEL_Msk)<<CCL_LUTCTRLB_INSEL0_Pos
	cfg.CtrlC = uint8(in2&CCL_INSEL_Msk) << CCL_LUTCTRLC_INSEL2_Pos
}

// Inputs returns the three input selectors.
func (cfg LUTConfig) Inputs() (in0, in1, in2 Insel) {
	in0 = Insel(cfg.CtrlB>>CCL_LUTCTRLB_INSEL0_Pos) & CCL_INSEL_Msk
	in1 = Insel(cfg.CtrlB>>CCL_LUTCTRLB_INSEL1_Pos) & CCL_INSEL_Msk
	in2 = Insel(cfg.CtrlC>>CCL_LUTCTRLC_INSEL2_Pos) & CCL_INSEL_Msk
	return in0, in1, in2
}

// EventConfig routes one asynchronous event channel to one user.
type EventConfig struct {
	Channel   uint8
	Generator uint8
	User      uint8
}

// DefaultEventConfig routes the SCK pin to the TCB0 capture input.
func DefaultEventConfig() EventConfig {
	return EventConfig{
		Channel:   0,
		Generator: EVSYS_ASYNCCH0_PORTA_PIN0 + PinSCK,
		User:      EVSYS_ASYNCUSER_TCB0,
	}
}

// TWIConfig configures the TWI0 host.
type TWIConfig struct {
	CPUHz     uint32
	Frequency uint32
}

// TWIBaud calculates the MBAUD register value for a SCL frequency, ignoring
// bus rise time:
//
//	fSCL = fCPU / (10 + 2*MBAUD)
func TWIBaud(cpuHz, sclHz uint32) (uint8, error) {
	if sclHz == 0 {
		return 0, ErrTWIBaud
	}
	half := cpuHz / (2 * sclHz)
	if half < 5 || half-5 > 0xFF {
		return 0, ErrTWIBaud
	}
	return uint8(half - 5), nil
}

// clockPrescalers lists the main clock divisions with their PDIV field, from
// fastest to slowest. Division 1 leaves the prescaler off.
var clockPrescalers = [...]struct {
	div  uint8
	pdiv uint8
}{
	{1, 0}, {2, 0x0}, {4, 0x1}, {6, 0x8}, {8, 0x2}, {10, 0x9},
	{12, 0xA}, {16, 0x3}, {24, 0xB}, {32, 0x4}, {48, 0xC}, {64, 0x5},
}

// PrescalerBits returns the MCLKCTRLB value that divides the oscillator by div.
func PrescalerBits(div uint8) (uint8, error) {
	for _, p := range clockPrescalers {
		if p.div != div {
			continue
		}
		if div == 1 {
			return 0, nil
		}
		return p.pdiv<<CLKCTRL_MCLKCTRLB_PDIV_Pos | CLKCTRL_MCLKCTRLB_PEN, nil
	}
	return 0, ErrBadPrescaler
}

// noCopy may be embedded into structs which must not be copied
// after the first use.
//
// See https://golang.org/issues/8005#issuecomment-190753527
// for details.
type noCopy struct{}

// Lock is a no-op used by -copylocks checker from `go vet`.
func (*noCopy) Lock()   {}
func (*noCopy) UnLock() {}
