package sim

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio/gpiostream"
	"periph.io/x/conn/v3/physic"

	ccl "github.com/tinygo-org/neoccl/avr-ccl"
)

// Decode errors.
var (
	ErrNoFrequency = errors.New("sim: bit stream has no sample frequency")
	ErrPulseWidth  = errors.New("sim: high pulse outside both bit windows")
	ErrPartialByte = errors.New("sim: latch inside a byte")
)

// Span is the range of observed durations.
type Span struct {
	Min, Max time.Duration
}

func (s *Span) add(d time.Duration) {
	if s.Min == 0 || d < s.Min {
		s.Min = d
	}
	if d > s.Max {
		s.Max = d
	}
}

// Report is what an LED chain would receive from a captured pin.
type Report struct {
	// Frames holds the bytes between latches.
	Frames [][]byte
	Pulses int
	Short  Span
	Long   Span
	// LongestLow is the longest low time between two pulses of one frame.
	LongestLow time.Duration
}

// Decode reads s the way a chain of p LEDs would: each high pulse is a bit,
// classified by its width, and a low period of at least p.Reset latches.
func Decode(s *gpiostream.BitStream, p ccl.Protocol) (Report, error) {
	var rep Report
	hz := uint64(s.Freq / physic.Hertz)
	if hz == 0 {
		return rep, ErrNoFrequency
	}
	n := len(s.Bits) * 8
	sample := func(i int) bool {
		if s.LSBF {
			return s.Bits[i/8]&(1<<(i%8)) != 0
		}
		return s.Bits[i/8]&(0x80>>(i%8)) != 0
	}
	dur := func(samples int) time.Duration {
		return time.Duration(uint64(samples) * uint64(time.Second) / hz)
	}

	var (
		cur   []byte
		acc   byte
		nbits int
	)
	latch := func(at int) error {
		if nbits%8 != 0 {
			return fmt.Errorf("%w: %d bits at sample %d", ErrPartialByte, nbits, at)
		}
		if len(cur) > 0 {
			rep.Frames = append(rep.Frames, cur)
		}
		cur, nbits = nil, 0
		return nil
	}

	i := 0
	for i < n {
		start := i
		for i < n && !sample(i) {
			i++
		}
		if i == n {
			break
		}
		if low := dur(i - start); nbits > 0 {
			if low >= p.Reset {
				if err := latch(i); err != nil {
					return rep, err
				}
			} else if low > rep.LongestLow {
				rep.LongestLow = low
			}
		}

		start = i
		for i < n && sample(i) {
			i++
		}
		width := dur(i - start)
		one := absDuration(width-p.T1H) < absDuration(width-p.T0H)
		target := p.T0H
		if one {
			target = p.T1H
		}
		if !p.Within(width, target) {
			return rep, fmt.Errorf("%w: %v at sample %d", ErrPulseWidth, width, start)
		}
		rep.Pulses++
		acc <<= 1
		if one {
			acc |= 1
			rep.Long.add(width)
		} else {
			rep.Short.add(width)
		}
		nbits++
		if nbits%8 == 0 {
			cur = append(cur, acc)
		}
	}
	return rep, latch(n)
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
