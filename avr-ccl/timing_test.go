package ccl

import (
	"testing"
	"time"
)

func TestNewPlan(t *testing.T) {
	var tests = []struct {
		name    string
		cpuHz   uint32
		proto   Protocol
		div     uint8
		tcbDiv  uint8
		compare uint16
		bit     time.Duration
		short   time.Duration
		long    time.Duration
		wantErr error
	}{
		{name: "sk6812 default clock", cpuHz: 3333333, proto: SK6812, div: 4, tcbDiv: 1, compare: 1,
			bit: 1200 * time.Nanosecond, short: 300 * time.Nanosecond, long: 600 * time.Nanosecond},
		{name: "ws2812 default clock", cpuHz: 3333333, proto: WS2812, div: 4, tcbDiv: 1, compare: 1,
			bit: 1200 * time.Nanosecond, short: 300 * time.Nanosecond, long: 600 * time.Nanosecond},
		{name: "ws2812 20MHz", cpuHz: 20_000_000, proto: WS2812, div: 32, tcbDiv: 1, compare: 7,
			bit: 1600 * time.Nanosecond, short: 350 * time.Nanosecond, long: 800 * time.Nanosecond},
		{name: "ws2812 10MHz", cpuHz: 10_000_000, proto: WS2812, div: 16, tcbDiv: 1, compare: 4,
			bit: 1600 * time.Nanosecond, short: 400 * time.Nanosecond, long: 800 * time.Nanosecond},
		{name: "sk6812 16MHz", cpuHz: 16_000_000, proto: SK6812, div: 16, tcbDiv: 1, compare: 5,
			bit: 1000 * time.Nanosecond, short: 312 * time.Nanosecond, long: 500 * time.Nanosecond},
		{name: "ws2812 16MHz", cpuHz: 16_000_000, proto: WS2812, wantErr: ErrNoSPIDivider},
		{name: "sk6812 20MHz", cpuHz: 20_000_000, proto: SK6812, wantErr: ErrNoSPIDivider},
		{name: "zero clock", cpuHz: 0, proto: SK6812, wantErr: ErrZeroClock},
	}
	for _, tt := range tests {
		plan, err := NewPlan(tt.cpuHz, tt.proto)
		if err != tt.wantErr {
			t.Errorf("%s: got error %v want %v", tt.name, err, tt.wantErr)
			continue
		}
		if err != nil {
			continue
		}
		if got := plan.SPI.Divider(); got != tt.div {
			t.Errorf("%s: SPI divider %d want %d", tt.name, got, tt.div)
		}
		if got := plan.TCB.ClockDivider(); got != tt.tcbDiv {
			t.Errorf("%s: TCB divider %d want %d", tt.name, got, tt.tcbDiv)
		}
		if plan.TCB.Compare != tt.compare {
			t.Errorf("%s: compare %d want %d", tt.name, plan.TCB.Compare, tt.compare)
		}
		if got := plan.BitPeriod(); got != tt.bit {
			t.Errorf("%s: bit period %v want %v", tt.name, got, tt.bit)
		}
		if got := plan.ShortPulse(); got != tt.short {
			t.Errorf("%s: short pulse %v want %v", tt.name, got, tt.short)
		}
		if got := plan.LongPulse(); got != tt.long {
			t.Errorf("%s: long pulse %v want %v", tt.name, got, tt.long)
		}
		if got := plan.ByteTime(); got != 8*tt.bit {
			t.Errorf("%s: byte time %v want %v", tt.name, got, 8*tt.bit)
		}
	}
}

func TestProtocolByName(t *testing.T) {
	for _, p := range []Protocol{WS2812, SK6812} {
		got, ok := ProtocolByName(p.Name)
		if !ok || got != p {
			t.Errorf("ProtocolByName(%q) = %v, %v", p.Name, got, ok)
		}
	}
	if _, ok := ProtocolByName("apa102"); ok {
		t.Error("clocked protocol must not resolve")
	}
}

func TestNewPlanForOscillator(t *testing.T) {
	var tests = []struct {
		oscHz   uint32
		proto   Protocol
		div     uint8
		cpuHz   uint32
		wantErr error
	}{
		{oscHz: 20_000_000, proto: SK6812, div: 6, cpuHz: 3333333},
		{oscHz: 20_000_000, proto: WS2812, div: 1, cpuHz: 20_000_000},
		{oscHz: 16_000_000, proto: SK6812, div: 1, cpuHz: 16_000_000},
		{oscHz: 16_000_000, proto: WS2812, div: 6, cpuHz: 2666666},
		{oscHz: 1_000_000, proto: WS2812, wantErr: ErrNoSPIDivider},
		{oscHz: 0, proto: SK6812, wantErr: ErrZeroClock},
	}
	for _, tt := range tests {
		plan, div, err := NewPlanForOscillator(tt.oscHz, tt.proto)
		if err != tt.wantErr {
			t.Errorf("%s at %d Hz: got error %v want %v", tt.proto.Name, tt.oscHz, err, tt.wantErr)
			continue
		}
		if err != nil {
			continue
		}
		if div != tt.div || plan.CPUHz != tt.cpuHz {
			t.Errorf("%s at %d Hz: division %d (%d Hz) want %d (%d Hz)", tt.proto.Name, tt.oscHz, div, plan.CPUHz, tt.div, tt.cpuHz)
		}
		if _, err := PrescalerBits(div); err != nil {
			t.Errorf("%s at %d Hz: division %d has no prescaler setting", tt.proto.Name, tt.oscHz, div)
		}
	}
}

func TestPrescalerBits(t *testing.T) {
	var tests = []struct {
		div  uint8
		want uint8
		err  error
	}{
		{1, 0x00, nil},
		{2, 0x01, nil},
		{6, 0x11, nil},
		{64, 0x0B, nil},
		{48, 0x19, nil},
		{3, 0, ErrBadPrescaler},
	}
	for _, tt := range tests {
		got, err := PrescalerBits(tt.div)
		if err != tt.err || got != tt.want {
			t.Errorf("PrescalerBits(%d) = %#x, %v want %#x, %v", tt.div, got, err, tt.want, tt.err)
		}
	}
}
