package cclib

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ccl "github.com/tinygo-org/neoccl/avr-ccl"
	"github.com/tinygo-org/neoccl/avr-ccl/sim"
)

var (
	_ ShiftSource = (*sim.SPI)(nil)
	_ PulseTimer  = (*sim.TCB)(nil)
	_ Composer    = (*sim.LUT)(nil)
	_ io.Writer   = (*Strip)(nil)
)

func newSimStrip(t *testing.T, hz uint32, p ccl.Protocol) (*sim.Chip, *Strip) {
	t.Helper()
	plan, err := ccl.NewPlan(hz, p)
	require.NoError(t, err)
	chip := sim.New(hz)
	chip.RouteEvent(plan.Event)
	s, err := NewStrip(chip.SPI0(), chip.TCB0(), chip.LUT0(), plan)
	require.NoError(t, err)
	chip.ResetCapture()
	return chip, s
}

func TestStrip_frameRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		hz uint32
		p  ccl.Protocol
	}{
		{3333333, ccl.SK6812},
		{3333333, ccl.WS2812},
		{20_000_000, ccl.WS2812},
		{10_000_000, ccl.WS2812},
		{16_000_000, ccl.SK6812},
	} {
		chip, s := newSimStrip(t, tc.hz, tc.p)
		f := NewFrame(4)
		f.Set(0, 0xFF, 0x00, 0x81)
		f.Set(1, 0x01, 0x80, 0x7E)
		f.Set(3, 0x55, 0xAA, 0x0F)
		s.WriteFrame(f)
		chip.Sleep(tc.p.Reset)

		rep, err := sim.Decode(chip.Stream(), tc.p)
		require.NoError(t, err, "%s at %d Hz", tc.p.Name, tc.hz)
		require.Len(t, rep.Frames, 1)
		assert.Equal(t, []byte(f), rep.Frames[0], "%s at %d Hz", tc.p.Name, tc.hz)
		assert.Equal(t, len(f)*8, rep.Pulses)
		assert.Less(t, rep.LongestLow, tc.p.Reset)
	}
}

func TestStrip_sameByteTwice(t *testing.T) {
	chip, s := newSimStrip(t, 20_000_000, ccl.WS2812)
	s.SendByte(0x5A)
	first := chip.Samples()
	s.SendByte(0x5A)
	second := chip.Samples() - first

	rep, err := sim.Decode(chip.Stream(), ccl.WS2812)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{{0x5A, 0x5A}}, rep.Frames)
	// Both trains use exactly one width per bit value.
	assert.Equal(t, rep.Short.Min, rep.Short.Max)
	assert.Equal(t, rep.Long.Min, rep.Long.Max)
	assert.Equal(t, first, second, "both bytes take the same number of cycles")
	assert.Less(t, rep.LongestLow, ccl.WS2812.Reset)
}

func TestStrip_countZeroAtByteStart(t *testing.T) {
	chip, s := newSimStrip(t, 3333333, ccl.SK6812)
	// A count left behind by something else must not leak into the next byte.
	chip.TCB0().SetCount(5)
	f := NewFrame(3)
	f.Fill(0x10, 0x20, 0x30)
	s.WriteFrame(f)

	starts := chip.ByteStartCounts()
	require.Len(t, starts, len(f))
	for i, c := range starts {
		assert.Zero(t, c, "byte %d", i)
	}
	rep, err := sim.Decode(chip.Stream(), ccl.SK6812)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{f}, rep.Frames)
}

func TestStrip_byteTime(t *testing.T) {
	chip, s := newSimStrip(t, 20_000_000, ccl.WS2812)
	assert.Equal(t, 12800*time.Nanosecond, s.ByteTime())

	before := chip.Cycle()
	s.SendByte(0x00)
	spent := time.Duration(chip.Cycle()-before) * time.Second / 20_000_000
	assert.GreaterOrEqual(t, spent, s.ByteTime())
	assert.Less(t, spent, 2*s.ByteTime())
}

func TestNewStrip_composerLeftRunning(t *testing.T) {
	plan, err := ccl.NewPlan(20_000_000, ccl.WS2812)
	require.NoError(t, err)
	chip := sim.New(20_000_000)
	chip.RouteEvent(plan.Event)
	chip.LUT0().SetEnabled(true)

	_, err = NewStrip(chip.SPI0(), chip.TCB0(), chip.LUT0(), plan)
	require.NoError(t, err)
	assert.Equal(t, ccl.ComposeTruth, chip.LUT0().Config().Truth)
}

func TestNewStrip_masterLost(t *testing.T) {
	plan, err := ccl.NewPlan(20_000_000, ccl.WS2812)
	require.NoError(t, err)
	plan.SPI.CtrlB &^= ccl.SPI_CTRLB_SSD
	chip := sim.New(20_000_000)

	_, err = NewStrip(chip.SPI0(), chip.TCB0(), chip.LUT0(), plan)
	assert.True(t, errors.Is(err, ccl.ErrMasterLost))
}

func TestNewStrip_recoversAfterMasterLost(t *testing.T) {
	plan, err := ccl.NewPlan(20_000_000, ccl.WS2812)
	require.NoError(t, err)
	bad := plan
	bad.SPI.CtrlB &^= ccl.SPI_CTRLB_SSD
	chip := sim.New(20_000_000)
	chip.RouteEvent(plan.Event)

	_, err = NewStrip(chip.SPI0(), chip.TCB0(), chip.LUT0(), bad)
	require.Equal(t, ccl.ErrMasterLost, err)
	s, err := NewStrip(chip.SPI0(), chip.TCB0(), chip.LUT0(), plan)
	require.NoError(t, err)
	chip.ResetCapture()

	// The mode fault's IF must not end the first byte early.
	s.Write([]byte{0x11, 0x22, 0x33})
	assert.False(t, chip.SPI0().WriteCollision())
	chip.Sleep(ccl.WS2812.Reset)

	rep, err := sim.Decode(chip.Stream(), ccl.WS2812)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{{0x11, 0x22, 0x33}}, rep.Frames)
	assert.Len(t, chip.ByteStartCounts(), 3)
}

func TestFrame(t *testing.T) {
	f := NewFrame(DefaultUnits)
	assert.Len(t, f, 400)
	assert.Equal(t, DefaultUnits, f.Units())

	f.Fill(1, 2, 3)
	for i := 0; i < f.Units(); i++ {
		assert.Equal(t, []byte{1, 2, 3, 0}, []byte(f[i*4:i*4+4]))
	}
	f.Set(7, 9, 8, 7)
	r, g, b := f.Pixel(7)
	assert.Equal(t, [3]uint8{9, 8, 7}, [3]uint8{r, g, b})
}
