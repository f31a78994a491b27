//go:build avr

package main

import (
	"machine"
	"time"

	ccl "github.com/tinygo-org/neoccl/avr-ccl"
	"github.com/tinygo-org/neoccl/avr-ccl/cclib"
)

var protocol string

// Address and wake-up byte of the auxiliary device on the two-wire bus.
const (
	auxAddr = 0x03
	auxWake = 0x55
)

/*
This example drives a chain of cclib.DefaultUnits LEDs on PA6. The LED protocol
defaults to SK6812 and can be changed at link time. The main clock prescaler
is set to the fastest division of the oscillator the protocol can be timed at,
e.g. 20 MHz / 6 for SK6812 and 20 MHz undivided for WS2812:
tinygo flash -target=$TARGET_NAME -ldflags "-X main.protocol=ws2812" ./examples/rainbow/
*/
func main() {
	p := ccl.SK6812
	if protocol != "" {
		var ok bool
		if p, ok = ccl.ProtocolByName(protocol); !ok {
			println("Unknown protocol: " + protocol)
			p = ccl.SK6812
		}
	}
	// The runtime leaves the prescaler off, so this is the oscillator.
	plan, div, err := ccl.NewPlanForOscillator(machine.CPUFrequency(), p)
	if err != nil {
		panic(err.Error())
	}
	if err := ccl.SetClockPrescaler(div); err != nil {
		panic(err.Error())
	}
	cpu := plan.CPUHz

	ccl.SetPortAOutputs(1<<ccl.PinMOSI | 1<<ccl.PinSCK | 1<<ccl.PinLUT0Out)
	ccl.RouteEvent(plan.Event)
	strip, err := cclib.NewStrip(ccl.SPI0, ccl.TCB0, ccl.CCL.LUT(0), plan)
	if err != nil {
		panic(err.Error())
	}

	err = ccl.TWI0.Configure(ccl.TWIConfig{CPUHz: cpu, Frequency: 100_000})
	if err == nil {
		err = cclib.Probe(ccl.TWI0, auxAddr, auxWake)
	}
	if err != nil {
		// The LEDs do not depend on the auxiliary device.
		println(err.Error())
	}

	println("rainbow on " + p.Name)
	rb := cclib.NewRainbow(cclib.DefaultUnits)
	rb.Run(strip, cclib.DelayFunc(time.Sleep))
}
