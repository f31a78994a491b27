package main

import (
	"io"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"

	"github.com/tinygo-org/neoccl/avr-ccl/cclib"
)

// Mirror replays frames on a real strip through a host SPI port, so what the
// simulator verified can be checked by eye.
type Mirror struct {
	dev  *nrzled.Dev
	port spi.Port
}

// OpenMirror initializes the host drivers and opens the named SPI port.
func OpenMirror(name string, units int, freq physic.Frequency) (*Mirror, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	p, err := spireg.Open(name)
	if err != nil {
		return nil, err
	}
	m, err := newMirror(p, units, freq)
	if err != nil {
		p.Close()
		return nil, err
	}
	return m, nil
}

func newMirror(p spi.Port, units int, freq physic.Frequency) (*Mirror, error) {
	d, err := nrzled.NewSPI(p, &nrzled.Opts{
		NumPixels: units,
		Channels:  cclib.BytesPerUnit,
		Freq:      freq,
	})
	if err != nil {
		return nil, err
	}
	return &Mirror{dev: d, port: p}, nil
}

// Write sends one frame.
func (m *Mirror) Write(f cclib.Frame) error {
	_, err := m.dev.Write(f)
	return err
}

// Close turns the strip off and releases the port.
func (m *Mirror) Close() error {
	err := m.dev.Halt()
	if c, ok := m.port.(io.Closer); ok {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
