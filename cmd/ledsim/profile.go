package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"

	ccl "github.com/tinygo-org/neoccl/avr-ccl"
	"github.com/tinygo-org/neoccl/avr-ccl/cclib"
	"github.com/tinygo-org/neoccl/avr-ccl/sim"
)

type Costs struct {
	Register uint64 `yaml:"register"`
	Poll     uint64 `yaml:"poll"`
}

type SPI struct {
	Port string `yaml:"port"` // spireg name, e.g. /dev/spidev0.0; empty picks the first
	Freq string `yaml:"freq"` // e.g. 2.5MHz
}

// Profile describes one simulation run.
type Profile struct {
	Protocol string `yaml:"protocol"`
	CPUHz    uint32 `yaml:"cpu_hz"`
	Frames   int    `yaml:"frames"`
	Units    int    `yaml:"units"`
	Value    uint8  `yaml:"value"`
	Costs    Costs  `yaml:"costs"`
	SPI      *SPI   `yaml:"spi,omitempty"`

	// OscHz, when set, replaces CPUHz by the fastest prescaled clock the
	// protocol can be timed at, as the firmware chooses it.
	OscHz uint32 `yaml:"osc_hz"`
}

// DefaultProfile matches the firmware's defaults on a tinyAVR at its reset
// clock of 20 MHz / 6.
func DefaultProfile() Profile {
	return Profile{
		Protocol: ccl.SK6812.Name,
		CPUHz:    3333333,
		Frames:   8,
		Units:    cclib.DefaultUnits,
		Value:    cclib.DefaultValue,
		Costs:    Costs{Register: sim.DefaultCosts.Register, Poll: sim.DefaultCosts.Poll},
	}
}

// LoadProfile reads a YAML profile. Missing keys keep their defaults.
func LoadProfile(path string) (Profile, error) {
	p := DefaultProfile()
	b, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}
	if err := yaml.Unmarshal(b, &p); err != nil {
		return p, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Validate resolves the protocol and checks the counts.
func (p Profile) Validate() (ccl.Protocol, error) {
	proto, ok := ccl.ProtocolByName(p.Protocol)
	if !ok {
		return proto, fmt.Errorf("unknown protocol %q", p.Protocol)
	}
	if p.Frames <= 0 {
		return proto, fmt.Errorf("frames must be positive, got %d", p.Frames)
	}
	if p.Units <= 0 {
		return proto, fmt.Errorf("units must be positive, got %d", p.Units)
	}
	if p.Costs.Register == 0 || p.Costs.Poll == 0 {
		return proto, fmt.Errorf("access costs must be at least one cycle")
	}
	return proto, nil
}

// MirrorFreq parses the SPI mirror clock, defaulting to 2.5 MHz.
func (s *SPI) MirrorFreq() (physic.Frequency, error) {
	f := 2500 * physic.KiloHertz
	if s.Freq == "" {
		return f, nil
	}
	if err := f.Set(s.Freq); err != nil {
		return 0, fmt.Errorf("spi freq: %w", err)
	}
	return f, nil
}
