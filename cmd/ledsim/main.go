// Command ledsim runs the rainbow animation against the cycle-level peripheral
// model, decodes the composed LED line and checks every frame and pulse
// against the protocol. Optionally each verified frame is replayed on a real
// strip over a host SPI port.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	ccl "github.com/tinygo-org/neoccl/avr-ccl"
	"github.com/tinygo-org/neoccl/avr-ccl/cclib"
	"github.com/tinygo-org/neoccl/avr-ccl/sim"
)

var (
	errFrameMismatch = errors.New("decoded frame differs from transmitted frame")
	errLatchInFrame  = errors.New("low time inside a frame reaches the latch threshold")
)

// Summary collects the pulse statistics of a run.
type Summary struct {
	Frames     int
	Short      sim.Span
	Long       sim.Span
	LongestLow time.Duration
	Plan       ccl.Plan
}

type frameSink interface {
	Write(f cclib.Frame) error
}

func run(p Profile, logger zerolog.Logger, sink frameSink) (Summary, error) {
	var sum Summary
	proto, err := p.Validate()
	if err != nil {
		return sum, err
	}
	var (
		plan ccl.Plan
		div  uint8 = 1
	)
	if p.OscHz != 0 {
		plan, div, err = ccl.NewPlanForOscillator(p.OscHz, proto)
		if err != nil {
			return sum, fmt.Errorf("%s from %d Hz oscillator: %w", proto.Name, p.OscHz, err)
		}
	} else if plan, err = ccl.NewPlan(p.CPUHz, proto); err != nil {
		return sum, fmt.Errorf("%s at %d Hz: %w", proto.Name, p.CPUHz, err)
	}
	sum.Plan = plan
	logger.Info().
		Str("protocol", proto.Name).
		Uint32("cpu_hz", plan.CPUHz).
		Uint8("clk_div", div).
		Uint8("spi_div", plan.SPI.Divider()).
		Uint16("tcb_ccmp", plan.TCB.Compare).
		Dur("short", plan.ShortPulse()).
		Dur("long", plan.LongPulse()).
		Dur("bit", plan.BitPeriod()).
		Msg("timing plan")

	chip := sim.New(plan.CPUHz)
	chip.SetCosts(sim.Costs{Register: p.Costs.Register, Poll: p.Costs.Poll})
	chip.RouteEvent(plan.Event)
	strip, err := cclib.NewStrip(chip.SPI0(), chip.TCB0(), chip.LUT0(), plan)
	if err != nil {
		return sum, err
	}
	rb := cclib.NewRainbow(p.Units)
	rb.Value = p.Value

	for i := 0; i < p.Frames; i++ {
		chip.ResetCapture()
		hue := rb.Hue
		start := chip.Cycle()
		rb.Step(strip)
		busy := time.Duration(chip.Cycle()-start) * time.Second / time.Duration(plan.CPUHz)
		chip.Sleep(cclib.FramePeriod)

		rep, err := sim.Decode(chip.Stream(), proto)
		if err != nil {
			return sum, fmt.Errorf("frame %d: %w", i, err)
		}
		if len(rep.Frames) != 1 || !bytes.Equal(rep.Frames[0], rb.Frame()) {
			return sum, fmt.Errorf("frame %d (hue %d): %w", i, hue, errFrameMismatch)
		}
		if rep.LongestLow >= proto.Reset {
			return sum, fmt.Errorf("frame %d: %w (%v)", i, errLatchInFrame, rep.LongestLow)
		}
		sum.Frames++
		merge(&sum.Short, rep.Short)
		merge(&sum.Long, rep.Long)
		if rep.LongestLow > sum.LongestLow {
			sum.LongestLow = rep.LongestLow
		}
		r, g, b := rb.Frame().Pixel(0)
		logger.Debug().
			Int("frame", i).
			Uint8("hue", hue).
			Uints8("rgb", []uint8{r, g, b}).
			Dur("busy", busy).
			Dur("gap", rep.LongestLow).
			Msg("frame verified")

		if sink != nil {
			if err := sink.Write(rb.Frame()); err != nil {
				logger.Warn().Err(err).Int("frame", i).Msg("mirror write")
			}
		}
	}
	return sum, nil
}

func merge(dst *sim.Span, s sim.Span) {
	if s.Min != 0 && (dst.Min == 0 || s.Min < dst.Min) {
		dst.Min = s.Min
	}
	if s.Max > dst.Max {
		dst.Max = s.Max
	}
}

func main() {
	var (
		profilePath = flag.String("profile", "", "path to a YAML profile")
		protocol    = flag.String("protocol", "", "LED protocol: ws2812 | sk6812")
		cpuHz       = flag.Uint("cpu-hz", 0, "CPU clock in Hz")
		oscHz       = flag.Uint("osc-hz", 0, "oscillator in Hz; picks the prescaled CPU clock like the firmware")
		frames      = flag.Int("frames", 0, "number of frames to simulate")
		units       = flag.Int("units", 0, "pixels in the chain")
		spiPort     = flag.String("spi", "", "mirror frames on this SPI port (\"-\" for the first one)")
		verbose     = flag.Bool("v", false, "log every frame")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	p := DefaultProfile()
	if *profilePath != "" {
		var err error
		if p, err = LoadProfile(*profilePath); err != nil {
			log.Fatal().Err(err).Str("path", *profilePath).Msg("profile load failed")
		}
	}
	if *protocol != "" {
		p.Protocol = *protocol
	}
	if *cpuHz != 0 {
		p.CPUHz = uint32(*cpuHz)
	}
	if *oscHz != 0 {
		p.OscHz = uint32(*oscHz)
	}
	if *frames != 0 {
		p.Frames = *frames
	}
	if *units != 0 {
		p.Units = *units
	}
	if *spiPort != "" {
		if p.SPI == nil {
			p.SPI = &SPI{}
		}
		if *spiPort != "-" {
			p.SPI.Port = *spiPort
		}
	}

	var mirror *Mirror
	if p.SPI != nil {
		freq, err := p.SPI.MirrorFreq()
		if err != nil {
			log.Fatal().Err(err).Msg("bad mirror frequency")
		}
		if mirror, err = OpenMirror(p.SPI.Port, p.Units, freq); err != nil {
			log.Warn().Err(err).Str("port", p.SPI.Port).Msg("SPI mirror unavailable; simulating only")
		}
	}

	var sink frameSink
	if mirror != nil {
		sink = mirror
	}
	sum, err := run(p, log.Logger, sink)
	if mirror != nil {
		if cerr := mirror.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("mirror close")
		}
	}
	if err != nil {
		log.Error().Err(err).Msg("verification failed")
		os.Exit(1)
	}
	log.Info().
		Int("frames", sum.Frames).
		Dur("short_min", sum.Short.Min).
		Dur("short_max", sum.Short.Max).
		Dur("long_min", sum.Long.Min).
		Dur("long_max", sum.Long.Max).
		Dur("longest_low", sum.LongestLow).
		Msg("all frames verified")
}
