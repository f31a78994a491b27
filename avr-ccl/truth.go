package ccl

// Truth is a CCL TRUTHn register value. Bit i holds the LUT output for the
// input combination i = IN2<<2 | IN1<<1 | IN0.
type Truth uint8

// ComposeTruth is the truth table of Compose with IN0 = SCK, IN1 = MOSI and
// IN2 = the pulse-width timer output.
const ComposeTruth Truth = 0xA8

// Compose returns the LED line level for one instant. The line is only ever
// high while the shift clock is high. During that half period a 1 bit keeps it
// high for the whole half (long pulse) while a 0 bit keeps it high only while
// the timer's short window is still open (short pulse).
func Compose(clk, data, window bool) bool {
	return clk && (data || window)
}

// Eval returns the LUT output for the given inputs.
func (t Truth) Eval(in0, in1, in2 bool) bool {
	idx := boolIndex(in0) | boolIndex(in1)<<1 | boolIndex(in2)<<2
	return t&(1<<idx) != 0
}

// DeriveTruth builds the TRUTH register value implementing fn.
func DeriveTruth(fn func(in0, in1, in2 bool) bool) Truth {
	var t Truth
	for i := uint8(0); i < 8; i++ {
		if fn(i&1 != 0, i&2 != 0, i&4 != 0) {
			t |= 1 << i
		}
	}
	return t
}

func boolIndex(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
