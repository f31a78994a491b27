package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spitest"

	ccl "github.com/tinygo-org/neoccl/avr-ccl"
	"github.com/tinygo-org/neoccl/avr-ccl/cclib"
)

type recordSink struct {
	frames []cclib.Frame
}

func (r *recordSink) Write(f cclib.Frame) error {
	r.frames = append(r.frames, append(cclib.Frame(nil), f...))
	return nil
}

func TestRun_defaultProfile(t *testing.T) {
	p := DefaultProfile()
	p.Frames = 3
	p.Units = 10
	sink := &recordSink{}

	sum, err := run(p, zerolog.Nop(), sink)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Frames)
	assert.Equal(t, 300*time.Nanosecond, sum.Short.Max)
	assert.Equal(t, 600*time.Nanosecond, sum.Long.Min)
	assert.Less(t, sum.LongestLow, ccl.SK6812.Reset)

	require.Len(t, sink.frames, 3)
	for hue, f := range sink.frames {
		r, g, b := cclib.HSVToRGB(uint8(hue), 255, cclib.DefaultValue)
		assert.Equal(t, [3]uint8{r, g, b}, pixel(f, 9), "hue %d", hue)
	}
}

func TestRun_protocols(t *testing.T) {
	for _, tc := range []struct {
		protocol string
		hz       uint32
	}{
		{"ws2812", 20_000_000},
		{"ws2812", 10_000_000},
		{"sk6812", 16_000_000},
	} {
		p := DefaultProfile()
		p.Protocol, p.CPUHz, p.Frames, p.Units = tc.protocol, tc.hz, 2, 4
		var logs bytes.Buffer
		_, err := run(p, zerolog.New(&logs), nil)
		require.NoError(t, err, "%s at %d Hz", tc.protocol, tc.hz)
		assert.Contains(t, logs.String(), `"message":"timing plan"`)
	}
}

func TestRun_oscillator(t *testing.T) {
	for _, tc := range []struct {
		protocol string
		cpuHz    uint32
	}{
		{"sk6812", 3333333},
		{"ws2812", 20_000_000},
	} {
		p := DefaultProfile()
		p.Protocol, p.OscHz, p.Frames, p.Units = tc.protocol, 20_000_000, 1, 4
		sum, err := run(p, zerolog.Nop(), nil)
		require.NoError(t, err, tc.protocol)
		assert.Equal(t, tc.cpuHz, sum.Plan.CPUHz, tc.protocol)
	}
}

func TestRun_noDivider(t *testing.T) {
	p := DefaultProfile()
	p.Protocol, p.CPUHz = "ws2812", 16_000_000
	_, err := run(p, zerolog.Nop(), nil)
	assert.ErrorIs(t, err, ccl.ErrNoSPIDivider)
}

func TestRun_slowAccessesStillLatchFree(t *testing.T) {
	p := DefaultProfile()
	p.Frames, p.Units = 1, 2
	p.Costs = Costs{Register: 4, Poll: 8}
	sum, err := run(p, zerolog.Nop(), nil)
	require.NoError(t, err)
	assert.Greater(t, sum.LongestLow, time.Duration(0))
}

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
protocol: ws2812
cpu_hz: 20000000
frames: 5
costs:
  poll: 6
spi:
  port: /dev/spidev0.0
  freq: 3MHz
`), 0o644))

	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "ws2812", p.Protocol)
	assert.Equal(t, uint32(20_000_000), p.CPUHz)
	assert.Equal(t, 5, p.Frames)
	assert.Equal(t, cclib.DefaultUnits, p.Units, "missing keys keep defaults")
	assert.Equal(t, Costs{Register: 1, Poll: 6}, p.Costs)
	require.NotNil(t, p.SPI)
	assert.Equal(t, "/dev/spidev0.0", p.SPI.Port)
	f, err := p.SPI.MirrorFreq()
	require.NoError(t, err)
	assert.Equal(t, 3*physic.MegaHertz, f)

	_, err = LoadProfile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestProfile_Validate(t *testing.T) {
	for _, mutate := range []func(*Profile){
		func(p *Profile) { p.Protocol = "apa102" },
		func(p *Profile) { p.Frames = 0 },
		func(p *Profile) { p.Units = -1 },
		func(p *Profile) { p.Costs.Poll = 0 },
	} {
		p := DefaultProfile()
		mutate(&p)
		_, err := p.Validate()
		assert.Error(t, err)
	}
	proto, err := DefaultProfile().Validate()
	require.NoError(t, err)
	assert.Equal(t, ccl.SK6812, proto)
}

func TestMirror(t *testing.T) {
	var buf bytes.Buffer
	m, err := newMirror(spitest.NewRecordRaw(&buf), 2, 2500*physic.KiloHertz)
	require.NoError(t, err)
	buf.Reset()

	f := cclib.NewFrame(2)
	f.Fill(0xFF, 0x00, 0x80)
	require.NoError(t, m.Write(f))
	// nrzled spends three line bits on every data bit.
	assert.GreaterOrEqual(t, buf.Len(), len(f)*3)
	assert.NoError(t, m.Close())
}

func pixel(f cclib.Frame, i int) [3]uint8 {
	r, g, b := f.Pixel(i)
	return [3]uint8{r, g, b}
}
