package sim

import (
	ccl "github.com/tinygo-org/neoccl/avr-ccl"
)

// TCB models TCB0 in single-shot mode. An event edge on an idle, enabled timer
// raises WO and starts counting from the current CNT; when CNT reaches CCMP,
// WO drops, counting stops and CNT returns to zero. Stop only gates counting,
// so a timer stopped mid-count keeps its residue.
type TCB struct {
	chip *Chip

	ctrlA, ctrlB, evctrl uint8
	ccmp                 uint16
	cnt                  uint16
	presc                uint8

	counting bool
	wo       bool
	capt     bool
}

// Configure stops the timer and applies cfg. CCMP is assembled from the two
// byte writes the hardware handle issues.
func (t *TCB) Configure(cfg ccl.TCBConfig) error {
	t.Stop()
	t.chip.access(2)
	t.ctrlB = cfg.CtrlB
	t.evctrl = cfg.EvCtrl
	t.chip.access(2)
	t.ccmp = uint16(uint8(cfg.Compare)) | uint16(uint8(cfg.Compare>>8))<<8
	t.chip.access(2)
	t.ctrlA = cfg.CtrlA &^ ccl.TCB_CTRLA_ENABLE
	t.capt = false
	t.ResetCount()
	return nil
}

// ResetCount zeroes CNT with two byte writes.
func (t *TCB) ResetCount() {
	t.chip.access(2)
	t.cnt = 0
	t.presc = 0
}

// Start sets ENABLE.
func (t *TCB) Start() {
	t.chip.access(1)
	t.ctrlA |= ccl.TCB_CTRLA_ENABLE
}

// Stop clears ENABLE without touching CNT.
func (t *TCB) Stop() {
	t.chip.access(1)
	t.ctrlA &^= ccl.TCB_CTRLA_ENABLE
}

// Count returns CNT.
func (t *TCB) Count() uint16 { return t.cnt }

// SetCount forces CNT, standing in for a count left over by an earlier,
// interrupted transfer.
func (t *TCB) SetCount(v uint16) { t.cnt = v }

// Output returns WO.
func (t *TCB) Output() bool { return t.wo }

func (t *TCB) enabled() bool { return t.ctrlA&ccl.TCB_CTRLA_ENABLE != 0 }

func (t *TCB) edge(rising bool) {
	if !t.enabled() || t.evctrl&ccl.TCB_EVCTRL_CAPTEI == 0 {
		return
	}
	if t.ctrlB&ccl.TCB_CTRLB_CNTMODE_Msk != ccl.TCB_CTRLB_CNTMODE_SINGLE {
		return
	}
	wantRising := t.evctrl&ccl.TCB_EVCTRL_EDGE == 0
	if rising != wantRising || t.counting {
		return
	}
	t.counting = true
	t.wo = t.ctrlB&ccl.TCB_CTRLB_CCMPEN != 0
}

func (t *TCB) tick() {
	if !t.enabled() || !t.counting {
		return
	}
	div := ccl.TCBConfig{CtrlA: t.ctrlA}.ClockDivider()
	t.presc++
	if t.presc < div {
		return
	}
	t.presc = 0
	t.cnt++
	if t.cnt == t.ccmp {
		t.counting = false
		t.wo = false
		t.cnt = 0
		t.capt = true
	}
}
