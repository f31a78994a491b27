//go:build avr

package ccl

import (
	"runtime/volatile"
	"unsafe"
)

var (
	evsys = (*evsysHW)(unsafe.Pointer(uintptr(0x0180)))
	portA = (*portHW)(unsafe.Pointer(uintptr(0x0400)))
)

type evsysHW struct {
	ASYNCSTROBE volatile.Register8     // 0x00
	SYNCSTROBE  volatile.Register8     // 0x01
	ASYNCCH     [4]volatile.Register8  // 0x02
	_           [4]volatile.Register8  // 0x06
	SYNCCH      [2]volatile.Register8  // 0x0A
	_           [6]volatile.Register8  // 0x0C
	ASYNCUSER   [13]volatile.Register8 // 0x12
	_           [3]volatile.Register8  // 0x1F
	SYNCUSER    [2]volatile.Register8  // 0x22
}

type portHW struct {
	DIR    volatile.Register8 // 0x00
	DIRSET volatile.Register8 // 0x01
	DIRCLR volatile.Register8 // 0x02
}

// RouteEvent connects the generator to the user through an asynchronous channel.
func RouteEvent(cfg EventConfig) {
	if cfg.Channel > 3 || cfg.User > 12 {
		panic(badEventChannel)
	}
	evsys.ASYNCCH[cfg.Channel].Set(cfg.Generator)
	evsys.ASYNCUSER[cfg.User].Set(EVSYS_ASYNCUSER_ASYNCCH0 + cfg.Channel)
}

// SetPortAOutputs makes the masked PORTA pins outputs. SCK and MOSI must be
// outputs in host mode even though only the LUT output leaves the chip.
func SetPortAOutputs(mask uint8) {
	portA.DIRSET.Set(mask)
}
