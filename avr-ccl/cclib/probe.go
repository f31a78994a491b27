package cclib

import "tinygo.org/x/drivers"

// Probe writes the single byte b to the device at addr. The firmware uses it
// once at start-up to wake an auxiliary part on the two-wire bus.
func Probe(bus drivers.I2C, addr uint16, b byte) error {
	return bus.Tx(addr, []byte{b}, nil)
}
