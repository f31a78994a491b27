package ccl

import (
	"errors"
	"time"
)

// Timing errors.
var (
	ErrZeroClock    = errors.New("ccl: zero CPU frequency")
	ErrNoSPIDivider = errors.New("ccl: no SPI divider meets the long pulse and bit period")
	ErrShortPulse   = errors.New("ccl: timer cannot produce the short pulse")
)

// Protocol describes the pulse timing of a one-wire LED chain.
// A 0 bit is a T0H high pulse, a 1 bit a T1H high pulse, each followed by low
// for the rest of the bit period. A low period of at least Reset latches the chain.
type Protocol struct {
	Name      string
	T0H       time.Duration
	T1H       time.Duration
	Tolerance time.Duration
	BitMin    time.Duration
	BitMax    time.Duration
	Reset     time.Duration
}

// Datasheet timings.
var (
	WS2812 = Protocol{
		Name:      "ws2812",
		T0H:       350 * time.Nanosecond,
		T1H:       700 * time.Nanosecond,
		Tolerance: 150 * time.Nanosecond,
		BitMin:    650 * time.Nanosecond,
		BitMax:    1850 * time.Nanosecond,
		Reset:     50 * time.Microsecond,
	}
	SK6812 = Protocol{
		Name:      "sk6812",
		T0H:       300 * time.Nanosecond,
		T1H:       600 * time.Nanosecond,
		Tolerance: 150 * time.Nanosecond,
		BitMin:    650 * time.Nanosecond,
		BitMax:    1850 * time.Nanosecond,
		Reset:     80 * time.Microsecond,
	}
)

// ProtocolByName looks up WS2812 or SK6812 by name.
func ProtocolByName(name string) (Protocol, bool) {
	switch name {
	case WS2812.Name:
		return WS2812, true
	case SK6812.Name:
		return SK6812, true
	}
	return Protocol{}, false
}

// Within reports whether d lies within the protocol tolerance of target.
func (p Protocol) Within(d, target time.Duration) bool {
	diff := d - target
	if diff < 0 {
		diff = -diff
	}
	return diff <= p.Tolerance
}

// Plan is the full peripheral configuration for one CPU frequency and protocol.
type Plan struct {
	CPUHz    uint32
	Protocol Protocol
	SPI      SPIConfig
	TCB      TCBConfig
	LUT      LUTConfig
	Event    EventConfig
}

// NewPlan derives the SPI divider and the timer compare value from the CPU
// frequency. The long pulse is the SCK high half period, so the divider must
// put that half inside the T1H window and the full period inside the bit window.
// The short pulse is Compare timer ticks and must be inside the T0H window and
// shorter than the long pulse.
func NewPlan(cpuHz uint32, p Protocol) (Plan, error) {
	if cpuHz == 0 {
		return Plan{}, ErrZeroClock
	}
	plan := Plan{
		CPUHz:    cpuHz,
		Protocol: p,
		SPI:      DefaultSPIConfig(),
		TCB:      DefaultTCBConfig(),
		LUT:      DefaultLUTConfig(),
		Event:    DefaultEventConfig(),
	}

	found := false
	for _, d := range spiDividers {
		bit := cyclesToDuration(uint64(d.div), cpuHz)
		long := cyclesToDuration(uint64(d.div/2), cpuHz)
		if bit < p.BitMin || bit > p.BitMax || !p.Within(long, p.T1H) {
			continue
		}
		plan.SPI.SetDivider(d.div)
		found = true
		break
	}
	if !found {
		return Plan{}, ErrNoSPIDivider
	}

	for _, div := range [...]uint8{1, 2} {
		// Round to nearest tick.
		ticks := (uint64(p.T0H)*uint64(cpuHz)/uint64(div) + 5e8) / 1e9
		if ticks == 0 {
			ticks = 1
		}
		if ticks > 0xFFFF {
			continue
		}
		plan.TCB.Compare = uint16(ticks)
		if div == 2 {
			plan.TCB.CtrlA = plan.TCB.CtrlA&^TCB_CTRLA_CLKSEL_Msk | TCB_CTRLA_CLKSEL_DIV2
		}
		break
	}
	short := plan.ShortPulse()
	if plan.TCB.Compare == 0 || !p.Within(short, p.T0H) || short >= plan.LongPulse() {
		return Plan{}, ErrShortPulse
	}
	return plan, nil
}

// NewPlanForOscillator picks the fastest main clock prescaler under which the
// protocol can be timed and returns the plan for the divided clock together
// with the division. The caller programs the prescaler before using the plan.
func NewPlanForOscillator(oscHz uint32, p Protocol) (Plan, uint8, error) {
	if oscHz == 0 {
		return Plan{}, 0, ErrZeroClock
	}
	for _, pre := range clockPrescalers {
		plan, err := NewPlan(oscHz/uint32(pre.div), p)
		if err == nil {
			return plan, pre.div, nil
		}
	}
	return Plan{}, 0, ErrNoSPIDivider
}

// BitPeriod is one SCK period.
func (plan Plan) BitPeriod() time.Duration {
	return cyclesToDuration(uint64(plan.SPI.Divider()), plan.CPUHz)
}

// LongPulse is the high time of a 1 bit.
func (plan Plan) LongPulse() time.Duration {
	return cyclesToDuration(uint64(plan.SPI.Divider()/2), plan.CPUHz)
}

// ShortPulse is the high time of a 0 bit.
func (plan Plan) ShortPulse() time.Duration {
	return cyclesToDuration(uint64(plan.TCB.Compare)*uint64(plan.TCB.ClockDivider()), plan.CPUHz)
}

// ByteTime is the time the shift register needs for one byte. It bounds how
// long a byte transmit blocks the caller, excluding register access overhead.
func (plan Plan) ByteTime() time.Duration {
	return 8 * plan.BitPeriod()
}

func cyclesToDuration(cycles uint64, hz uint32) time.Duration {
	return time.Duration(cycles * uint64(time.Second) / uint64(hz))
}
